// Package catalog holds the immutable destination snapshot.
package catalog

import (
	"sort"
	"strings"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/region"
)

// Catalog is an ordered, read-only sequence of destinations. It is never
// mutated after New returns, so any number of goroutines may read it.
type Catalog struct {
	items []model.Destination
}

// New copies items into a new Catalog, preserving order.
func New(items []model.Destination) *Catalog {
	c := &Catalog{items: make([]model.Destination, len(items))}
	copy(c.items, items)
	return c
}

// All returns the destinations in catalog order. The slice is a copy.
func (c *Catalog) All() []model.Destination {
	if c == nil {
		return nil
	}
	out := make([]model.Destination, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of destinations.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Empty reports whether the catalog has no destinations.
func (c *Catalog) Empty() bool { return c.Len() == 0 }

// Filter returns destinations whose category equals category and whose region
// contains region, both compared case-insensitively. Empty arguments do not
// filter. Order is preserved.
func (c *Catalog) Filter(category, reg string) []model.Destination {
	category, reg = region.Fold(category), region.Fold(reg)
	out := make([]model.Destination, 0)
	if c == nil {
		return out
	}
	for _, d := range c.items {
		if category != "" && region.Fold(d.Category) != category {
			continue
		}
		if reg != "" && !strings.Contains(region.Fold(d.Region), reg) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Categories returns the sorted distinct non-empty categories.
func (c *Catalog) Categories() []string {
	return c.distinct(func(d *model.Destination) string { return d.Category })
}

// Regions returns the sorted distinct non-empty regions.
func (c *Catalog) Regions() []string {
	return c.distinct(func(d *model.Destination) string { return d.Region })
}

func (c *Catalog) distinct(field func(*model.Destination) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	if c == nil {
		return out
	}
	for i := range c.items {
		v := strings.TrimSpace(field(&c.items[i]))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
