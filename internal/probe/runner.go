package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
)

// ErrViolations is returned by Run when any check failed.
var ErrViolations = errors.New("probe found violations")

// Report summarizes a probe run.
type Report struct {
	Queries    int           `json:"queries"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Empty      int           `json:"empty"`
	VisitFlow  bool          `json:"visitFlow"`
	Violations []Violation   `json:"violations"`
	Duration   time.Duration `json:"duration"`
}

type runner struct {
	cfg     Config
	client  *Client
	checker *Checker
	log     logger.Logger

	mu         sync.Mutex
	violations []Violation
	sample     *Query
}

// Run lists the catalog, fans the generated queries out over cfg.Workers,
// checks every response and then exercises the profile and visit routes.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = logger.Nop()
	}
	client, err := NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return Report{}, err
	}
	r := &runner{cfg: cfg, client: client, checker: NewChecker(nil), log: log}

	start := time.Now()
	categories, err := client.Categories(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list categories: %w", err)
	}
	regions, err := client.Regions(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list regions: %w", err)
	}
	queries := GenerateQueries(categories, regions)
	log.Info(ctx, "probe started",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("categories", len(categories)),
		logger.Int("regions", len(regions)),
		logger.Int("queries", len(queries)),
		logger.Int("workers", cfg.Workers))

	rep := Report{Queries: len(queries)}
	var succeeded, failed, empty atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range queries {
		q := queries[i]
		g.Go(func() error {
			res, err := r.send(gctx, q)
			if err != nil {
				failed.Add(1)
				log.Warn(gctx, "query failed", logger.String("query", q.Label), logger.Error(err))
				return nil
			}
			succeeded.Add(1)
			if len(res.Matches) == 0 {
				empty.Add(1)
			}
			r.record(q, &res)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.Succeeded = int(succeeded.Load())
	rep.Failed = int(failed.Load())
	rep.Empty = int(empty.Load())

	if !cfg.SkipVisits && r.sample != nil {
		if err := r.visitFlow(ctx, *r.sample); err != nil {
			rep.Failed++
			log.Warn(ctx, "visit flow failed", logger.Error(err))
		} else {
			rep.VisitFlow = true
		}
	}

	rep.Violations = r.violations
	rep.Duration = time.Since(start)
	log.Info(ctx, "probe finished",
		logger.Int("succeeded", rep.Succeeded),
		logger.Int("failed", rep.Failed),
		logger.Int("empty", rep.Empty),
		logger.Int("violations", len(rep.Violations)),
		logger.Bool("visitFlow", rep.VisitFlow),
		logger.Duration("duration", rep.Duration))

	if len(rep.Violations) > 0 || rep.Failed > 0 {
		return rep, fmt.Errorf("%w: %d violations, %d failed requests", ErrViolations, len(rep.Violations), rep.Failed)
	}
	return rep, nil
}

func (r *runner) send(ctx context.Context, q Query) (model.Result, error) {
	if q.Filters != nil {
		return r.client.Filtered(ctx, q.Interest, q.Address, *q.Filters)
	}
	return r.client.Recommend(ctx, q.Interest, q.Address)
}

func (r *runner) record(q Query, res *model.Result) {
	found := r.checker.Check(q.Label, res)
	if r.cfg.Verbose {
		r.log.Debug(context.Background(), "query checked",
			logger.String("query", q.Label),
			logger.Int("returned", len(res.Matches)),
			logger.Int("total", res.TotalMatched),
			logger.Int("violations", len(found)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.violations = append(r.violations, found...)
	if r.sample == nil && q.Filters == nil && len(res.Matches) > 0 {
		s := q
		r.sample = &s
	}
}

func (r *runner) flag(v ...Violation) {
	r.mu.Lock()
	r.violations = append(r.violations, v...)
	r.mu.Unlock()
}

// visitFlow stores a profile from q, visits the top personalized match twice
// and waits for that match to drop out of the personalized list.
func (r *runner) visitFlow(ctx context.Context, q Query) error {
	user := r.cfg.UserID
	if _, err := r.client.PutProfile(ctx, user, q.Interest, q.Address); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}

	before, err := r.client.Personalized(ctx, user)
	if err != nil {
		return fmt.Errorf("personalized: %w", err)
	}
	r.flag(r.checker.Check("personalized "+user, &before)...)
	if len(before.Matches) == 0 {
		r.log.Info(ctx, "nothing left to visit", logger.String("user", user))
		return nil
	}
	target := before.Matches[0].ID

	visitID := uuid.NewString()
	first, status, err := r.client.PostVisit(ctx, user, visitID, target)
	if err != nil {
		return fmt.Errorf("post visit: %w", err)
	}
	if status != http.StatusAccepted || first.Duplicate {
		r.flag(Violation{Query: "visit " + target, Rule: RuleDuplicate, Details: fmt.Sprintf("first submission answered %d duplicate=%t", status, first.Duplicate)})
	}
	again, status, err := r.client.PostVisit(ctx, user, visitID, target)
	if err != nil {
		return fmt.Errorf("repost visit: %w", err)
	}
	if status != http.StatusOK || !again.Duplicate {
		r.flag(Violation{Query: "visit " + target, Rule: RuleDuplicate, Details: fmt.Sprintf("repeat submission answered %d duplicate=%t", status, again.Duplicate)})
	}

	// Visits are persisted asynchronously.
	var last model.Result
	for attempt := 0; attempt < visitPollAttempts; attempt++ {
		last, err = r.client.Personalized(ctx, user)
		if err != nil {
			return fmt.Errorf("personalized after visit: %w", err)
		}
		if len(CheckExcluded("", &last, target)) == 0 {
			r.flag(r.checker.Check("personalized after visit "+user, &last)...)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(visitPollInterval):
		}
	}
	r.flag(CheckExcluded("personalized after visit "+user, &last, target)...)
	return nil
}
