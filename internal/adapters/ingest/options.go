package ingest

import "github.com/okian/jelajah/pkg/logger"

type settings struct {
	log            logger.Logger
	sampleFallback bool
}

func defaults() settings {
	return settings{log: logger.Nop()}
}

// Option configures catalog ingestion.
type Option func(*settings)

// WithLogger sets the logger used to report rejected rows.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l.Named("ingest")
		}
	}
}

// WithSampleFallback serves the built-in sample catalog when the file is missing.
func WithSampleFallback(enabled bool) Option {
	return func(s *settings) {
		s.sampleFallback = enabled
	}
}
