package scoring

import (
	"time"

	"github.com/okian/jelajah/pkg/logger"
)

const (
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
	defaultBreakerName = "scoring-model"
)

type settings struct {
	log         logger.Logger
	maxFailures uint32
	openTimeout time.Duration
	breakerName string
}

func newSettings(opts []Option) settings {
	s := settings{
		maxFailures: defaultMaxFailures,
		openTimeout: defaultOpenTimeout,
		breakerName: defaultBreakerName,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Option configures providers and the engine.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxFailures sets how many consecutive model failures open the breaker.
func WithMaxFailures(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxFailures = uint32(n) //nolint:gosec // bounded by config validation
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before probing again.
func WithOpenTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.openTimeout = d
		}
	}
}

// WithBreakerName sets the breaker name used in logs and metrics.
func WithBreakerName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.breakerName = name
		}
	}
}
