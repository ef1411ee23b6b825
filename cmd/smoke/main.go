package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/folio/internal/smoke"
	"github.com/okian/folio/pkg/logger"
)

func main() {
	var (
		baseURL  = flag.String("url", smoke.DefaultBaseURL, "Base URL of the service")
		requests = flag.Int("requests", smoke.DefaultRequests, "Number of GET requests in the load phase (0 skips it)")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout  = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		write    = flag.Bool("write", false, "Also send an empty PUT merge to /api/personal")
		verbose  = flag.Bool("verbose", false, "Log every check and failed request")
		format   = flag.String("log-format", logger.FormatText, "Log format: text or json")
	)
	flag.Parse()

	if err := logger.InitWith(logger.Options{Format: *format}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err := smoke.Run(ctx, &smoke.Config{
		BaseURL:  *baseURL,
		Requests: *requests,
		Workers:  *workers,
		Timeout:  *timeout,
		Write:    *write,
		Verbose:  *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
