// Binary autocompound submits compound_hash for the configured wallet every 60 seconds.
package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"autocompound-go/internal/config"
	"autocompound-go/internal/metrics"
	"autocompound-go/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG"), "optional YAML config file")
	pflag.Parse()

	cfg, err := config.Resolve(*configPath, os.Getenv)
	if err != nil {
		boot := util.NewLogger("info", "console")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	b, err := newBot(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("fatal error")
	}
	defer b.Close()

	if cfg.App.MetricsAddr != "" {
		_, err := metrics.Serve(cfg.App.MetricsAddr, func(err error) {
			log.Error().Err(err).Msg("metrics server stopped")
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.App.MetricsAddr).Msg("metrics listen")
		}
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b.scheduler.Run(ctx)
	log.Info().Msg("shutting down auto-compounder")
}
