package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/wildcat/internal/adapters/http/api"
	"github.com/okian/wildcat/internal/adapters/http/swagger"
	"github.com/okian/wildcat/internal/adapters/importer"
	service "github.com/okian/wildcat/internal/app"
	"github.com/okian/wildcat/internal/config"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/pkg/logger"
	"github.com/okian/wildcat/pkg/metrics"
	"github.com/urfave/cli/v2"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

const configFlag = "config"

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the scoring HTTP service (configured by WILDCAT_* env vars and an optional YAML file)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{config.EnvConfig},
			},
		},
		Action: func(cCtx *cli.Context) error {
			if path := cCtx.String(configFlag); path != "" {
				if err := os.Setenv(config.EnvConfig, path); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

// serve runs the service until ctx is cancelled.
func serve(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := cfg.RequireRoster(); err != nil {
		return err
	}
	m, err := importer.OpenRoster(cfg.RosterFile)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	m.Name = cfg.MeetName

	mode, err := heat.ParseMode(cfg.HeatMode)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithMeet(m),
		service.WithDefaultMode(mode),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithMaxHeats(cfg.MaxHeats),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	if cfg.BarcodesFile != "" {
		if err := scoreInitialHeat(ctx, svc, cfg); err != nil {
			return err
		}
	}

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("meet", m.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// scoreInitialHeat scores the configured barcode and timer files so the
// service starts with the meet's first heat stored.
func scoreInitialHeat(ctx context.Context, svc *service.Service, cfg *config.Config) error {
	_, finishes, err := importer.Load(importer.Files{
		Roster:   cfg.RosterFile,
		Barcodes: cfg.BarcodesFile,
		Times:    cfg.TimesFile,
	})
	if err != nil {
		return fmt.Errorf("failed to load initial heat: %w", err)
	}
	rec, err := svc.ScoreNow(ctx, heat.Submission{Finishes: finishes})
	if err != nil {
		return fmt.Errorf("failed to score initial heat: %w", err)
	}
	logger.Get().Info(ctx, "initial heat scored", logger.String("heat", rec.ID), logger.Int("finishers", rec.Finishers))
	return nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
