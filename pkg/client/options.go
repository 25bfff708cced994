package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted form service.
const DefaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// Option configures an HTTPService.
type Option func(*config)

type config struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	retries       uint64
	retryInterval time.Duration
	logger        *zap.SugaredLogger
	requestID     func() string
}

func defaultConfig() config {
	return config{
		baseURL:       DefaultBaseURL,
		timeout:       DefaultTimeout,
		retryInterval: 500 * time.Millisecond,
		logger:        zap.NewNop().Sugar(),
		requestID:     func() string { return uuid.New().String() },
	}
}

// WithBaseURL sets the service root, e.g. "https://forms.example.com".
func WithBaseURL(raw string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed != "" {
			cfg.baseURL = trimmed
		}
	}
}

// WithHTTPClient supplies the HTTP client. The client is copied; its timeout
// is only filled in when unset.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

// WithRetries retries transport failures up to n extra times with
// exponential backoff. Responses, including non-2xx ones, are never retried.
func WithRetries(n uint64) Option {
	return func(cfg *config) {
		cfg.retries = n
	}
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.retryInterval = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRequestIDFunc overrides the generator of X-Request-ID header values.
// A nil fn disables the header.
func WithRequestIDFunc(fn func() string) Option {
	return func(cfg *config) {
		cfg.requestID = fn
	}
}
