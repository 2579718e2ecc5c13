// Package service wires the recommendation pipeline and the visit pipeline
// behind the operations the HTTP API exposes.
package service

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	eventqueue "github.com/okian/jelajah/internal/adapters/mq/queue"
	workerpool "github.com/okian/jelajah/internal/adapters/mq/worker"
	repository "github.com/okian/jelajah/internal/adapters/repository"
	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/dedupe"
	"github.com/okian/jelajah/internal/domain/matcher"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/region"
	"github.com/okian/jelajah/internal/domain/scoring"
	"github.com/okian/jelajah/internal/domain/types"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Recommendation pipeline; read-only after New.
	catalog  *catalog.Catalog
	regions  *region.Table
	matcher  *matcher.Matcher
	provider scoring.Provider
	engine   *scoring.Engine

	// Collaborators and visit pipeline
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	timeout     time.Duration
	concurrency int
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
	now    func() time.Time
}

// New constructs a Service. Without options it serves an empty catalog with
// the built-in region tables, the heuristic provider and an in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		timeout:     0,
		concurrency: runtime.NumCPU() * 2,
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  100_000,
		logger:      logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = catalog.New(nil)
	}
	if s.regions == nil {
		s.regions = region.Default()
	}
	if s.provider == nil {
		s.provider = scoring.NewHeuristicProvider()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.logger = s.logger.Named("recommend")
	s.matcher = matcher.New(s.regions)
	s.engine = scoring.NewEngine(s.provider, scoring.WithLogger(s.logger))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	metrics.UpdateCatalogSize(s.catalog.Len())
	return s
}

// Start launches the visit workers. Recommendations do not require it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.eventQueue.IsClosed() {
		s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store,
		workerpool.WithLogger(s.logger))
	s.workerPool.Start(runCtx)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("catalog_size", s.catalog.Len()),
		logger.String("scoring_provider", s.provider.Name()),
		logger.String("store_backend", s.store.Backend()),
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop closes the visit queue and waits for the workers to persist what is
// already queued. The store stays open; its owner closes it.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping recommendation service")

	err := s.workerPool.Shutdown(ctx)
	s.cancel()
	s.started = false
	if err != nil {
		s.logger.Warn(ctx, "visit workers did not drain", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "recommendation service stopped")
	return nil
}

// Categories lists the distinct catalog categories.
func (s *Service) Categories(_ context.Context) []string {
	return s.catalog.Categories()
}

// Regions lists the distinct catalog regions.
func (s *Service) Regions(_ context.Context) []string {
	return s.catalog.Regions()
}

// Destinations looks up catalog entries by category and region. Region
// aliases are expanded first; blank arguments do not filter.
func (s *Service) Destinations(_ context.Context, category, reg string) []model.Destination {
	if reg = strings.TrimSpace(reg); reg != "" {
		reg = s.regions.Normalize(reg)
	}
	return s.catalog.Filter(category, reg)
}

// CatalogSize returns the number of loaded destinations.
func (s *Service) CatalogSize() int {
	return s.catalog.Len()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		CatalogSize:     s.catalog.Len(),
		Categories:      s.catalog.Categories(),
		RegionCount:     len(s.catalog.Regions()),
		ScoringProvider: s.provider.Name(),
		StoreBackend:    s.store.Backend(),
		VisitQueueSize:  s.eventQueue.Len(ctx),
		VisitQueueCap:   s.eventQueue.Cap(),
		VisitDedupeSize: s.deduper.Size(),
	}
	if s.started {
		st.VisitWorkers = s.workerPool.Size()
		st.UptimeSeconds = s.now().Sub(s.startedAt).Seconds()
	}
	metrics.UpdateVisitQueueSize(st.VisitQueueSize)
	return st
}
