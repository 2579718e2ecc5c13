// Package scoring produces predictive and compatibility scores for matched
// destinations.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// Business constants for compatibility scoring.
const (
	ExactMatchFloor      = 0.8
	CompletenessBoost    = 0.05
	DescriptionMinLength = 10 // boost applies strictly above this length
	MaxCompatibility     = 1.0
	FallbackPredictive   = 0.7
)

// Provider yields a predictive compatibility number in [0,1] for a
// (category, region) pair. Implementations must be safe for concurrent use.
type Provider interface {
	Predict(ctx context.Context, category, region string) (float64, error)
	Name() string
}

// Compatibility floors predictive at ExactMatchFloor, adds one
// CompletenessBoost per present attribute of d and caps the sum.
func Compatibility(predictive float64, d *model.Destination) float64 {
	score := math.Max(predictive, ExactMatchFloor)
	if d.DescriptionLength() > DescriptionMinLength {
		score += CompletenessBoost
	}
	if d.HasImage() {
		score += CompletenessBoost
	}
	if d.HasCoordinates() {
		score += CompletenessBoost
	}
	return math.Min(score, MaxCompatibility)
}

// Score is the outcome of scoring one destination.
type Score struct {
	Predictive    float64
	Compatibility float64
	Fallback      bool
}

// Engine combines a Provider with the compatibility rules.
type Engine struct {
	provider Provider
	log      logger.Logger
}

// NewEngine returns an Engine backed by p.
func NewEngine(p Provider, opts ...Option) *Engine {
	s := newSettings(opts)
	return &Engine{provider: p, log: s.log}
}

// Provider returns the backing provider.
func (e *Engine) Provider() Provider { return e.provider }

// Score predicts for category and the destination's region. A failed or
// non-finite prediction is replaced by FallbackPredictive; it never fails.
func (e *Engine) Score(ctx context.Context, category string, d *model.Destination) Score {
	start := time.Now()
	p, err := e.provider.Predict(ctx, category, d.Region)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		if ctx.Err() == nil {
			metrics.RecordScoringFallback("fixed")
			e.log.Warn(ctx, "prediction unavailable, using fixed score",
				logger.String("destination", d.Name),
				logger.String("category", category),
				logger.String("region", d.Region),
				logger.Error(err))
		}
		return Score{
			Predictive:    FallbackPredictive,
			Compatibility: Compatibility(FallbackPredictive, d),
			Fallback:      true,
		}
	}

	p = clamp01(p)
	return Score{Predictive: p, Compatibility: Compatibility(p, d)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
