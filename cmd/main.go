package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/folio/internal/adapters/http/api"
	"github.com/okian/folio/internal/adapters/http/site"
	"github.com/okian/folio/internal/adapters/http/swagger"
	repository "github.com/okian/folio/internal/adapters/repository"
	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/config"
	"github.com/okian/folio/pkg/logger"
	"github.com/okian/folio/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	profileMetricsInterval    = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Defaults -> optional .env -> optional YAML file -> env.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Fatal(ctx, "server failed", logger.Error(err))
	}
}

// run starts the HTTP server and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.InitWith(logger.Options{Format: cfg.LogFormat}); err != nil {
		return err
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store := repository.NewFileStore(cfg.DataFile)
	svc := service.New(store, service.WithLogger(log.Named("profile")))

	// An unreadable document at startup is fatal.
	if err := svc.Check(ctx); err != nil {
		return err
	}
	if sum, err := svc.Summary(ctx); err == nil {
		log.Info(ctx, "profile loaded",
			logger.String("data_file", cfg.DataFile),
			logger.String("name", sum.Name),
			logger.Int("projects", sum.Projects),
			logger.Int("skills", sum.Skills),
			logger.Int("experience", sum.Experience),
			logger.Int("expertise", sum.Expertise),
			logger.Int("social_links", sum.SocialLinks))
	}

	handler, err := newHandler(ctx, cfg, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		startSystemMetricsUpdater(gCtx)
		return nil
	})
	g.Go(func() error {
		startProfileMetricsUpdater(gCtx, svc)
		return nil
	})
	g.Go(func() error {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("data_file", cfg.DataFile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
		log.Info(ctx, "server stopped")
		return nil
	})
	return g.Wait()
}

// newHandler assembles the routes and the middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service) (http.Handler, error) {
	apiServer := api.NewServer(svc,
		api.WithLogger(logger.Named("api")),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes))

	mux := http.NewServeMux()
	apiServer.Register(ctx, mux)
	swagger.Register(ctx, mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	if cfg.SiteDir != "" {
		if err := site.Register(ctx, mux, cfg.SiteDir); err != nil {
			return nil, err
		}
	} else {
		mux.HandleFunc("/", apiServer.HandleNotFound)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:       cfg.AllowedOrigins(),
		AllowedMethods:       []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", api.RequestIDHeader},
		ExposedHeaders:       []string{api.RequestIDHeader},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler(apiServer.Wrap(mux)), nil
}

// startSystemMetricsUpdater periodically samples runtime statistics.
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

// startProfileMetricsUpdater keeps the profile list gauges current when the
// document is edited outside the API.
func startProfileMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(profileMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = svc.Summary(ctx)
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
