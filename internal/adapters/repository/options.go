package repository

import "github.com/okian/jelajah/pkg/logger"

type settings struct {
	log logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Option configures a store.
type Option func(*settings)

// WithLogger sets the logger used for migrations and lifecycle events.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}
