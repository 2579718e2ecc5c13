package service

import (
	"time"

	repository "github.com/okian/jelajah/internal/adapters/repository"
	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/region"
	"github.com/okian/jelajah/internal/domain/scoring"
	"github.com/okian/jelajah/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the destination catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithRegionTable replaces the built-in region pattern and alias tables.
func WithRegionTable(t *region.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.regions = t
		}
	}
}

// WithScoringProvider sets the predictive scoring provider.
func WithScoringProvider(p scoring.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithStore sets the profile and visit-history store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithTimeout bounds every recommend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithScoringConcurrency bounds concurrent predictive calls per request.
func WithScoringConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithWorkerCount sets the number of visit persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the visit queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the visit idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
