// Package ranking orders scored matches and truncates them.
package ranking

import (
	"sort"

	"github.com/okian/jelajah/internal/domain/model"
)

// DefaultLimit caps every recommendation result.
const DefaultLimit = 10

// Rank sorts a copy of matches by CompatibilityScore, highest first. Equal
// scores keep their input order. It returns at most limit entries together
// with the untruncated count. A non-positive limit means DefaultLimit.
func Rank(matches []model.ScoredMatch, limit int) ([]model.ScoredMatch, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	sorted := make([]model.ScoredMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompatibilityScore > sorted[j].CompatibilityScore
	})
	total := len(sorted)
	if total > limit {
		sorted = sorted[:limit]
	}
	return sorted, total
}
