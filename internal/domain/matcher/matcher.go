// Package matcher applies strict category and region filtering.
package matcher

import (
	"strings"

	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/region"
)

// Normalizer canonicalizes region names.
type Normalizer interface {
	Normalize(s string) string
}

// Matcher filters a catalog down to perfect matches.
type Matcher struct {
	norm Normalizer
}

// New returns a Matcher comparing regions through n.
func New(n Normalizer) *Matcher {
	return &Matcher{norm: n}
}

// StrictFilter keeps destinations whose folded category equals category and
// whose normalized region equals the normalized target region. Catalog order
// is preserved. An empty result is a valid outcome. A blank region never
// matches, on either side.
func (m *Matcher) StrictFilter(c *catalog.Catalog, category, targetRegion string) []model.Destination {
	wantCategory := region.Fold(category)
	wantRegion := m.norm.Normalize(targetRegion)

	out := make([]model.Destination, 0)
	if wantRegion == "" {
		return out
	}
	for _, d := range c.All() {
		if region.Fold(d.Category) != wantCategory {
			continue
		}
		if m.norm.Normalize(d.Region) != wantRegion {
			continue
		}
		out = append(out, d)
	}
	return out
}

// NarrowSubregion keeps destinations whose subregion contains subregion,
// case-insensitively. A blank subregion returns dests unchanged.
func NarrowSubregion(dests []model.Destination, subregion string) []model.Destination {
	want := region.Fold(subregion)
	if want == "" {
		return dests
	}
	out := make([]model.Destination, 0, len(dests))
	for _, d := range dests {
		if strings.Contains(region.Fold(d.Subregion), want) {
			out = append(out, d)
		}
	}
	return out
}
