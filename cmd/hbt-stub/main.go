package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/tgienger/hbt/internal/config"
	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/stub"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		l := logging.Console("info")
		l.Error().Err(err).Msg("failed to load config")
		return 1
	}
	logger := logging.Console(cfg.LogLevel)

	srv := stub.NewServer(logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.StubAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
			return 1
		}
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("stub server failed")
			return 1
		}
	}
	return 0
}
