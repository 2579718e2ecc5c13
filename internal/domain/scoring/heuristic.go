package scoring

import (
	"context"

	"github.com/okian/jelajah/internal/domain/region"
)

const hashBuckets = 1000

// HeuristicProvider derives a stable score from the folded category and
// region strings. It never fails unless ctx is done.
type HeuristicProvider struct{}

// NewHeuristicProvider returns a HeuristicProvider.
func NewHeuristicProvider() *HeuristicProvider { return &HeuristicProvider{} }

// Name implements Provider.
func (*HeuristicProvider) Name() string { return "heuristic" }

// Predict averages the hash encodings of category and region; the result is
// in [0,1).
func (*HeuristicProvider) Predict(ctx context.Context, category, reg string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return (encode(region.Fold(category)) + encode(region.Fold(reg))) / 2, nil
}

// encode folds s into [0,1): h = c + (h<<5) - h over 32-bit integers,
// then |h mod 1000| / 1000.
func encode(s string) float64 {
	var h int32
	for _, c := range s {
		h = c + (h << 5) - h
	}
	m := h % hashBuckets
	if m < 0 {
		m = -m
	}
	return float64(m) / hashBuckets
}
