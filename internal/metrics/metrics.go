package metrics

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "compound_attempts_total", Help: "Compound attempts by result"},
		[]string{"result"},
	)
	AttemptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compound_attempt_duration_seconds",
			Help:    "Wall time from submit to confirmation or failure",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "compound_inflight", Help: "Compound attempts currently running"},
	)
	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "compound_last_success_timestamp_seconds", Help: "Unix time of the last confirmed compound"},
	)
)

func init() {
	prometheus.MustRegister(AttemptsTotal, AttemptDuration, InFlight, LastSuccess)
}

func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve binds addr before returning, so a taken port is reported to the caller.
// Errors after that are passed to onErr, which may be nil.
func Serve(addr string, onErr func(error)) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Addr: ln.Addr().String(), Handler: Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && onErr != nil {
			onErr(err)
		}
	}()
	return srv, nil
}
