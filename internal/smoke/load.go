package smoke

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/folio/pkg/logger"
)

// runLoad issues cfg.Requests GETs spread over ReadRoutes using a worker pool
// and records outcome counts and latency percentiles into stats.
func runLoad(ctx context.Context, cfg *Config, c *Client, stats *Stats) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	logger.Get().Info(ctx, "starting read load",
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", workers))

	var (
		successful int64
		failed     int64
		mu         sync.Mutex
		latencies  = make([]time.Duration, 0, cfg.Requests)
	)

	paths := make(chan string, workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				start := time.Now()
				resp, err := c.Get(ctx, path)
				elapsed := time.Since(start)

				if err != nil || resp.Status != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "request failed", logger.String("path", path), logger.Any("error", err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(paths)
		for i := 0; i < cfg.Requests; i++ {
			select {
			case <-ctx.Done():
				return
			case paths <- ReadRoutes[i%len(ReadRoutes)]:
			}
		}
	}()

	wg.Wait()

	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Requests = stats.Successful + stats.Failed
	stats.P50 = percentile(latencies, 50)
	stats.P95 = percentile(latencies, 95)
}

// percentile returns the p-th percentile of d using nearest rank. d is sorted
// in place.
func percentile(d []time.Duration, p int) time.Duration {
	if len(d) == 0 {
		return 0
	}
	sort.Slice(d, func(i, j int) bool { return d[i] < d[j] })
	idx := (len(d)*p + percentageMultiplier - 1) / percentageMultiplier
	if idx < 1 {
		idx = 1
	}
	return d[idx-1]
}
