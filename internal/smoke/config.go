// Package smoke probes a running profile API: it checks the documented
// route behaviour and then drives concurrent read load through a worker pool.
package smoke

import (
	"errors"
	"time"
)

// Error constants.
var (
	ErrUnreachable = errors.New("service unreachable")
	ErrCheckFailed = errors.New("check failed")
)

// Default configuration values.
const (
	DefaultBaseURL  = "http://localhost:3001"
	DefaultRequests = 500
	DefaultTimeout  = 5 * time.Second

	workerChannelMultiplier = 2
	percentageMultiplier    = 100
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of GET requests in the load phase
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Write    bool          // Also exercise PUT with an empty merge
	Verbose  bool          // Log every check
}

// Stats holds the outcome of a smoke run.
type Stats struct {
	ChecksRun    int
	ChecksFailed int
	Requests     int
	Successful   int
	Failed       int
	P50          time.Duration
	P95          time.Duration
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
