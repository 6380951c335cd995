package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/okian/wildcat/internal/adapters/importer"
	"github.com/okian/wildcat/pkg/logger"
)

const filePermission = 0o600

// Run executes a complete load test: health check, submission, await and
// verification. Verification failures are joined into the returned error.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := logger.Named("loadtest")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("heats", cfg.Heats),
		logger.Int("duplicates", cfg.Duplicates),
		logger.Int("workers", cfg.Workers),
		logger.Any("combined", cfg.Combined))

	c := newClient(&cfg)
	if err := checkHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	m, err := importer.OpenRoster(cfg.RosterFile)
	if err != nil {
		return stats, fmt.Errorf("load roster: %w", err)
	}

	heats := generateHeats(m, cfg.Heats, cfg.Seed, cfg.Combined)
	stats.HeatsGenerated = len(heats)
	if cfg.OutputFile != "" {
		if err := saveHeats(cfg.OutputFile, heats); err != nil {
			log.Warn(ctx, "failed to save heats to file", logger.Error(err))
		}
	}

	batch := slices.Concat(heats, heats[:cfg.Duplicates])
	ids := submitHeats(ctx, c, cfg.Workers, batch, stats)

	heatIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		heatIDs = append(heatIDs, id)
	}
	docs, waitErr := awaitHeats(ctx, c, &cfg, heatIDs)

	var errs []error
	if waitErr != nil {
		errs = append(errs, waitErr)
	}
	for _, doc := range docs {
		if err := verifyHeat(doc); err != nil {
			stats.Unscorable++
			errs = append(errs, err)
			continue
		}
		stats.Scored++
		stats.Verified++
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)
	return stats, errors.Join(errs...)
}

func checkHealth(ctx context.Context, c *client) error {
	status, err := c.get(ctx, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("status %d", status)
	}
	return nil
}

func saveHeats(path string, heats any) error {
	data, err := json.MarshalIndent(heats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal heats: %w", err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write heats: %w", err)
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var heatsPerSecond float64
	if stats.Duration > 0 {
		heatsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.HeatsGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed),
		logger.Int("scored", stats.Scored),
		logger.Int("unscorable", stats.Unscorable),
		logger.Duration("duration", stats.Duration),
		logger.Float64("heatsPerSecond", heatsPerSecond))
}
