package compound

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"autocompound-go/internal/metrics"
	chain "autocompound-go/internal/solana"
)

// Sender submits instructions as one signed transaction and waits for confirmation.
type Sender interface {
	SendAndConfirm(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error)
}

// Submitter performs one compound_hash attempt per call.
type Submitter struct {
	log     zerolog.Logger
	sender  Sender
	program solana.PublicKey
	owner   solana.PublicKey
	addrs   chain.Addresses
	timeout time.Duration
	gate    Gate
	journal Recorder
	now     func() time.Time
	ticks   atomic.Uint64
}

// Option configures Submitter construction parameters.
type Option func(*Submitter)

// WithTimeout bounds each attempt, confirmation wait included.
func WithTimeout(d time.Duration) Option {
	return func(s *Submitter) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithGate installs a pre-submit check.
func WithGate(g Gate) Option {
	return func(s *Submitter) { s.gate = g }
}

// WithRecorder sends every outcome to r as well as the log.
func WithRecorder(r Recorder) Option {
	return func(s *Submitter) { s.journal = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		if now != nil {
			s.now = now
		}
	}
}

const defaultAttemptTimeout = 90 * time.Second

func NewSubmitter(log zerolog.Logger, sender Sender, program, owner solana.PublicKey, addrs chain.Addresses, opts ...Option) *Submitter {
	s := &Submitter{
		log:     log,
		sender:  sender,
		program: program,
		owner:   owner,
		addrs:   addrs,
		timeout: defaultAttemptTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attempt builds, signs, submits and confirms one compound_hash transaction.
// It never returns an error and never panics; the result is in the Outcome.
func (s *Submitter) Attempt(ctx context.Context) (out Outcome) {
	out = Outcome{Tick: s.ticks.Add(1), Started: s.now()}
	s.log.Info().Uint64("tick", out.Tick).Time("at", out.Started).Msg("attempting compound")

	metrics.InFlight.Inc()
	defer metrics.InFlight.Dec()
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailure
			out.Error = fmt.Sprintf("panic: %v", r)
		}
		s.finish(&out)
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.gate != nil {
		ok, reason, err := s.gate.Allow(ctx)
		if err != nil {
			out.Status = StatusFailure
			out.Error = fmt.Sprintf("gate: %v", err)
			return out
		}
		if !ok {
			out.Status = StatusSkipped
			out.Reason = reason
			return out
		}
	}

	ix := chain.NewCompoundInstruction(s.program, s.addrs, s.owner)
	sig, err := s.sender.SendAndConfirm(ctx, ix)
	if err != nil {
		out.Status = StatusFailure
		out.Error = err.Error()
		return out
	}
	out.Status = StatusSuccess
	out.Signature = sig.String()
	return out
}

// Skip records a tick that did not run, e.g. because the previous one is still in flight.
func (s *Submitter) Skip(reason string) Outcome {
	out := Outcome{Tick: s.ticks.Add(1), Started: s.now(), Status: StatusSkipped, Reason: reason}
	s.finish(&out)
	return out
}

func (s *Submitter) finish(out *Outcome) {
	out.Duration = s.now().Sub(out.Started)
	metrics.AttemptsTotal.WithLabelValues(string(out.Status)).Inc()

	switch out.Status {
	case StatusSuccess:
		metrics.AttemptDuration.Observe(out.Duration.Seconds())
		metrics.LastSuccess.Set(float64(s.now().Unix()))
		s.log.Info().Uint64("tick", out.Tick).Str("tx", out.Signature).Dur("took", out.Duration).Msg("compound successful")
	case StatusFailure:
		metrics.AttemptDuration.Observe(out.Duration.Seconds())
		s.log.Error().Uint64("tick", out.Tick).Str("err", out.Error).Dur("took", out.Duration).Msg("compound failed")
	case StatusSkipped:
		s.log.Info().Uint64("tick", out.Tick).Str("reason", out.Reason).Msg("compound skipped")
	}

	if s.journal != nil {
		s.journal.Record(*out)
	}
}
