package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/folio/pkg/logger"
)

// Run checks the service and then drives the read load. It returns the
// collected stats along with an error joining every failed check.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Bool("write", cfg.Write))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	var errs []error
	for _, ch := range checks(cfg.Write) {
		stats.ChecksRun++
		if err := ch.run(ctx, client); err != nil {
			stats.ChecksFailed++
			log.Error(ctx, "check failed", logger.String("check", ch.name), logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			// Nothing else can pass against a dead service.
			if errors.Is(err, ErrUnreachable) {
				break
			}
			continue
		}
		if cfg.Verbose {
			log.Info(ctx, "check passed", logger.String("check", ch.name))
		}
	}

	if len(errs) == 0 && cfg.Requests > 0 {
		runLoad(ctx, cfg, client, stats)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, errors.Join(errs...)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Requests > 0 {
		successRate = float64(stats.Successful) / float64(stats.Requests) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Int("requests", stats.Requests),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.String("p50", stats.P50.String()),
		logger.String("p95", stats.P95.String()),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
