// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Destination is one validated catalog entry. Values are immutable once loaded.
type Destination struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`  // 0 when the source value was unparsable
	Longitude   float64 `json:"longitude"` // 0 when the source value was unparsable
	Address     string  `json:"address"`
	Region      string  `json:"region"`
	Subregion   string  `json:"subregion"`
	FullName    string  `json:"fullName"`
	Description string  `json:"description"`
	ImagePath   string  `json:"imagePath"`
}

// HasCoordinates reports whether both coordinates carry a value.
func (d *Destination) HasCoordinates() bool {
	return d.Latitude != 0 && d.Longitude != 0
}

// HasImage reports whether an image path is set.
func (d *Destination) HasImage() bool {
	return strings.TrimSpace(d.ImagePath) != ""
}

// DescriptionLength counts the characters of the description.
func (d *Destination) DescriptionLength() int {
	if strings.TrimSpace(d.Description) == "" {
		return 0
	}
	return utf8.RuneCountInString(d.Description)
}

// ID derives the deterministic identifier of d:
// lowercase(name + "_" + region + "_" + category) with every character outside
// [a-z0-9] replaced by '_'. Empty fields are spelled "unknown".
func (d *Destination) ID() string {
	raw := orUnknown(d.Name) + "_" + orUnknown(d.Region) + "_" + orUnknown(d.Category)
	raw = strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// ScoredMatch pairs a destination that passed strict filtering with its scores.
type ScoredMatch struct {
	Destination
	ID                 string  `json:"id"`
	PredictiveScore    float64 `json:"recommendationScore"`
	CompatibilityScore float64 `json:"compatibilityScore"`
	MatchReason        string  `json:"matchReason"`
	// ScoringFallback is set when the predictive call failed and the fixed score was used.
	ScoringFallback bool `json:"scoringFallback,omitempty"`
}

// Filters carries explicit overrides for the filtered recommend variant.
type Filters struct {
	Category  string `json:"category,omitempty"`
	Region    string `json:"region,omitempty"`
	Subregion string `json:"subregion,omitempty"`
}

// IsZero reports whether no override is set.
func (f Filters) IsZero() bool {
	return f.Category == "" && f.Region == "" && f.Subregion == ""
}

// Query is a single recommendation request.
type Query struct {
	Category   string
	RawAddress string
	UserID     string
	Overrides  *Filters
}

// AppliedFilters reports which filter values a filtered request actually used.
type AppliedFilters struct {
	Requested          Filters `json:"requested"`
	EffectiveCategory  string  `json:"effectiveCategory"`
	EffectiveRegion    string  `json:"effectiveRegion"`
	EffectiveSubregion string  `json:"effectiveSubregion,omitempty"`
}

// Result is the envelope returned by every recommend operation.
type Result struct {
	RequestID    string          `json:"requestId"`
	Matches      []ScoredMatch   `json:"recommendations"`
	TotalMatched int             `json:"total"`
	Region       string          `json:"region"`
	Category     string          `json:"category"`
	Strategy     string          `json:"filteringStrategy"`
	Message      string          `json:"message,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	Filters      *AppliedFilters `json:"appliedFilters,omitempty"`
	// ExcludedVisited counts matches removed because the user already visited them.
	ExcludedVisited int       `json:"excludedVisited,omitempty"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// Profile is the declared interest and address of a user.
type Profile struct {
	UserID    string    `json:"userId"`
	Interest  string    `json:"interest"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Complete reports whether both interest and address are set.
func (p *Profile) Complete() bool {
	return strings.TrimSpace(p.Interest) != "" && strings.TrimSpace(p.Address) != ""
}

// Visit records that a user visited a destination.
type Visit struct {
	VisitID       string    // idempotency key
	UserID        string
	DestinationID string
	VisitedAt     time.Time
}
