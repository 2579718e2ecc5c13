// Package types contains common types used across the application
package types

import "strings"

// Category is one of the enumerated destination categories.
type Category string

// Known categories, in catalog declaration order.
const (
	Bahari            Category = "Bahari"
	Budaya            Category = "Budaya"
	CagarAlam         Category = "Cagar Alam"
	PusatPerbelanjaan Category = "Pusat Perbelanjaan"
	TamanHiburan      Category = "Taman Hiburan"
	TempatIbadah      Category = "Tempat Ibadah"
)

// StrategyStrict tags every result produced by strict category+region filtering.
const StrategyStrict = "strict category+region"

var categories = []Category{Bahari, Budaya, CagarAlam, PusatPerbelanjaan, TamanHiburan, TempatIbadah} //nolint:gochecknoglobals // fixed enumeration

// Categories returns the known categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the known categories as plain strings.
func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// ParseCategory matches s against the known categories ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// IsCategory reports whether s names a known category.
func IsCategory(s string) bool {
	_, ok := ParseCategory(s)
	return ok
}

// Stats is a snapshot of service counters served at /stats.
type Stats struct {
	CatalogSize     int      `json:"catalog_size"`
	Categories      []string `json:"categories"`
	RegionCount     int      `json:"region_count"`
	ScoringProvider string   `json:"scoring_provider"`
	StoreBackend    string   `json:"store_backend"`
	VisitQueueSize  int      `json:"visit_queue_size"`
	VisitQueueCap   int      `json:"visit_queue_capacity"`
	VisitDedupeSize int64    `json:"visit_dedupe_size"`
	VisitWorkers    int      `json:"visit_workers"`
	UptimeSeconds   float64  `json:"uptime_seconds"`
}

// VisitReceipt acknowledges a submitted visit.
type VisitReceipt struct {
	VisitID   string `json:"visitId"`
	Duplicate bool   `json:"duplicate"`
}
