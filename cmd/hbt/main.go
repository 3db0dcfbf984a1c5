package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/coach"
	"github.com/tgienger/hbt/internal/config"
	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/goals"
	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/metrics"
	"github.com/tgienger/hbt/internal/remote"
	"github.com/tgienger/hbt/internal/stats"
	"github.com/tgienger/hbt/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// pingTimeout bounds the startup connectivity check
const pingTimeout = 2 * time.Second

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the exit code so deferred cleanup runs before os.Exit.
func realMain(args []string, stderr io.Writer) int {
	// Handle version flag
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-v") {
		fmt.Printf("hbt %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, logFile, err := openLog(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer logFile.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openLog(cfg *config.Config) (zerolog.Logger, *os.File, error) {
	path := cfg.LogFile
	if path == "" {
		dir, err := db.DataDir()
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		path = filepath.Join(dir, db.AppName+".log")
	}
	return logging.NewFile(path, cfg.LogLevel)
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Str("base_url", cfg.BaseURL).
		Bool("metrics_enabled", cfg.MetricsEnabled()).
		Msg("starting hbt")

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	if err := database.PruneActivity(cfg.ActivityKeep); err != nil {
		logger.Warn().Err(err).Msg("pruning activity journal")
	}

	m := metrics.New()
	if cfg.MetricsEnabled() {
		srv := serveMetrics(cfg.MetricsAddr, m, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	client := remote.NewClient(cfg.BaseURL, cfg.HTTPTimeout, logger)
	client.SetMetrics(m)
	checkService(client, logger)

	agg := stats.NewAggregator(client, logger)
	repo := goals.New(client, database, agg, logger,
		goals.WithJournal(database),
		goals.WithMetrics(m),
	)
	if err := repo.Load(); err != nil {
		logger.Error().Err(err).Msg("restoring goals, starting empty")
	}

	session := coach.NewSession(client, database, m, logger)
	if err := session.Load(); err != nil {
		logger.Error().Err(err).Msg("restoring transcript, starting empty")
	}

	// Create and run the application
	app := ui.NewApp(repo, session, database, database)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	logger.Info().Msg("bye")
	return nil
}

// checkService logs whether the coaching service answers. Goal operations work
// either way.
func checkService(client *remote.Client, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	res := client.Ping(ctx)
	if res.IsOK() {
		logger.Info().Str("base_url", client.BaseURL()).Msg("coaching service reachable")
		return
	}
	logger.Warn().Str("base_url", client.BaseURL()).Str("result", res.String()).Msg("coaching service not available, changes stay on this device")
}

func serveMetrics(addr string, m *metrics.Metrics, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}
