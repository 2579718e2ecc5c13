package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	repository "github.com/okian/jelajah/internal/adapters/repository"
	"github.com/okian/jelajah/internal/domain/matcher"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/ranking"
	"github.com/okian/jelajah/internal/domain/types"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// Operation labels used for metrics and logs.
const (
	OpRecommend    = "recommend"
	OpByCategory   = "category"
	OpFiltered     = "filtered"
	OpPersonalized = "personalized"
)

const (
	noMatchMessage = "No %s destinations found in %s. Try different category or region."
	matchReason    = "Perfect match: %s destination in %s"
)

// plan is the fully resolved input of one pipeline pass.
type plan struct {
	op        string
	category  string
	region    string
	subregion string
	userID    string
	filters   *model.AppliedFilters
}

// Recommend returns the best strict matches for category near rawAddress.
// userID is echoed in the result and does not change the ranking.
func (s *Service) Recommend(ctx context.Context, category, rawAddress, userID string) (model.Result, error) {
	return s.Query(ctx, model.Query{Category: category, RawAddress: rawAddress, UserID: userID})
}

// RecommendFiltered runs the pipeline with optional category, region and
// subregion overrides replacing the declared category and resolved region.
func (s *Service) RecommendFiltered(ctx context.Context, category, rawAddress string, overrides *model.Filters) (model.Result, error) {
	if overrides == nil {
		overrides = &model.Filters{}
	}
	return s.Query(ctx, model.Query{Category: category, RawAddress: rawAddress, Overrides: overrides})
}

// RecommendByCategory is the category-scoped variant of RecommendFiltered.
func (s *Service) RecommendByCategory(ctx context.Context, rawAddress, category string) (model.Result, error) {
	return s.query(ctx, OpByCategory, model.Query{
		Category:   category,
		RawAddress: rawAddress,
		Overrides:  &model.Filters{Category: category},
	})
}

// Query runs one recommendation request. A non-nil Overrides selects the
// filtered variant.
func (s *Service) Query(ctx context.Context, q model.Query) (model.Result, error) {
	op := OpRecommend
	if q.Overrides != nil {
		op = OpFiltered
	}
	return s.query(ctx, op, q)
}

func (s *Service) query(ctx context.Context, op string, q model.Query) (model.Result, error) {
	start := s.now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.execute(ctx, op, q)
	s.observe(ctx, op, start, res, err)
	return res, err
}

// RecommendPersonalized recommends from the user's stored profile and drops
// destinations the user already visited. A failing visit-history lookup is
// logged and treated as an empty history.
func (s *Service) RecommendPersonalized(ctx context.Context, userID string) (model.Result, error) {
	start := s.now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.personalized(ctx, userID)
	s.observe(ctx, OpPersonalized, start, res, err)
	return res, err
}

func (s *Service) personalized(ctx context.Context, userID string) (model.Result, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Result{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	profile, err := s.store.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.Result{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	case err != nil:
		if cerr := ctx.Err(); cerr != nil {
			return model.Result{}, timeoutError(cerr)
		}
		metrics.RecordUpstreamError("profiles")
		return model.Result{}, fmt.Errorf("%w: profile of %s: %w", ErrUpstreamLookup, userID, err)
	}
	if !profile.Complete() {
		return model.Result{}, fmt.Errorf("%w: user %s must have interest and address set", ErrIncompleteProfile, userID)
	}

	res, err := s.execute(ctx, OpPersonalized, model.Query{
		Category:   profile.Interest,
		RawAddress: profile.Address,
		UserID:     userID,
	})
	if err != nil || len(res.Matches) == 0 {
		return res, err
	}

	visited, err := s.store.VisitedIDs(ctx, userID)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return model.Result{}, timeoutError(cerr)
		}
		metrics.RecordUpstreamError("visits")
		s.logger.Warn(ctx, "visit history unavailable, not excluding visited destinations",
			logger.String("user_id", userID),
			logger.Error(err))
		return res, nil
	}
	if len(visited) == 0 {
		return res, nil
	}

	kept := res.Matches[:0:0]
	for _, m := range res.Matches {
		if _, ok := visited[m.ID]; ok {
			continue
		}
		kept = append(kept, m)
	}
	res.ExcludedVisited = len(res.Matches) - len(kept)
	res.Matches = kept
	metrics.RecordExcludedVisited(res.ExcludedVisited)
	return res, nil
}

// execute validates q, resolves the effective category and region, and runs
// filter, score and rank.
func (s *Service) execute(ctx context.Context, op string, q model.Query) (model.Result, error) {
	category := strings.TrimSpace(q.Category)
	address := strings.TrimSpace(q.RawAddress)
	if category == "" || address == "" {
		return model.Result{}, fmt.Errorf("%w: category and address are required", ErrInvalidInput)
	}

	p := plan{
		op:       op,
		category: category,
		region:   s.regions.Resolve(address),
		userID:   strings.TrimSpace(q.UserID),
	}
	if o := q.Overrides; o != nil {
		if c := strings.TrimSpace(o.Category); c != "" {
			p.category = c
		}
		if r := strings.TrimSpace(o.Region); r != "" {
			p.region = r
		}
		p.subregion = strings.TrimSpace(o.Subregion)
		p.filters = &model.AppliedFilters{
			Requested:          *o,
			EffectiveCategory:  p.category,
			EffectiveRegion:    p.region,
			EffectiveSubregion: p.subregion,
		}
	}

	if s.catalog.Empty() {
		return model.Result{}, fmt.Errorf("%w: cannot recommend %s in %s", ErrNoCatalogData, p.category, p.region)
	}
	return s.run(ctx, p)
}

func (s *Service) run(ctx context.Context, p plan) (model.Result, error) {
	dests := s.matcher.StrictFilter(s.catalog, p.category, p.region)
	if p.subregion != "" {
		dests = matcher.NarrowSubregion(dests, p.subregion)
	}
	metrics.RecordMatched(len(dests))

	res := model.Result{
		RequestID:   uuid.NewString(),
		Matches:     []model.ScoredMatch{},
		Region:      p.region,
		Category:    p.category,
		Strategy:    types.StrategyStrict,
		UserID:      p.userID,
		Filters:     p.filters,
		GeneratedAt: s.now().UTC(),
	}
	if len(dests) == 0 {
		res.Message = fmt.Sprintf(noMatchMessage, p.category, p.region)
		return res, nil
	}

	scored, err := s.score(ctx, p, dests)
	if err != nil {
		return model.Result{}, err
	}
	res.Matches, res.TotalMatched = ranking.Rank(scored, ranking.DefaultLimit)
	return res, nil
}

// score fans predictions out with bounded concurrency. Each goroutine writes
// only its own slot, so catalog order survives for the stable rank.
func (s *Service) score(ctx context.Context, p plan, dests []model.Destination) ([]model.ScoredMatch, error) {
	out := make([]model.ScoredMatch, len(dests))
	reason := fmt.Sprintf(matchReason, p.category, p.region)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range dests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := &dests[i]
			sc := s.engine.Score(gctx, p.category, d)
			out[i] = model.ScoredMatch{
				Destination:        *d,
				ID:                 d.ID(),
				PredictiveScore:    sc.Predictive,
				CompatibilityScore: sc.Compatibility,
				MatchReason:        reason,
				ScoringFallback:    sc.Fallback,
			}
			return nil
		})
	}
	err := g.Wait()
	if cerr := ctx.Err(); cerr != nil {
		return nil, timeoutError(cerr)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func timeoutError(err error) error {
	return fmt.Errorf("%w: %w", ErrTimeout, err)
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, res model.Result, err error) {
	outcome := Outcome(err)
	if err == nil && len(res.Matches) == 0 {
		outcome = "no_match"
	}
	latency := float64(s.now().Sub(start).Microseconds()) / 1000
	metrics.RecordRecommendRequest(op, outcome, latency)

	fields := []logger.Field{
		logger.String("operation", op),
		logger.String("outcome", outcome),
		logger.Float64("latency_ms", latency),
	}
	if err != nil {
		s.logger.Debug(ctx, "recommendation failed", append(fields, logger.Error(err))...)
		return
	}
	s.logger.Debug(ctx, "recommendation served", append(fields,
		logger.String("request_id", res.RequestID),
		logger.String("category", res.Category),
		logger.String("region", res.Region),
		logger.Int("total", res.TotalMatched),
		logger.Int("returned", len(res.Matches)),
	)...)
}

// Outcome classifies err into a short label for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrIncompleteProfile):
		return "invalid_input"
	case errors.Is(err, ErrNoCatalogData):
		return "no_catalog"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrUpstreamLookup):
		return "upstream_error"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
