package probe

import (
	"fmt"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/region"
	"github.com/okian/jelajah/internal/domain/types"
)

// Violation describes one property a response broke.
type Violation struct {
	Query   string `json:"query"`
	Rule    string `json:"rule"`
	Details string `json:"details"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Query, v.Rule, v.Details)
}

// Rule names.
const (
	RuleCap        = "cap"
	RuleTotal      = "total"
	RuleOrder      = "order"
	RuleScoreRange = "score_range"
	RuleCategory   = "category"
	RuleRegion     = "region"
	RuleID         = "id"
	RuleMessage    = "message"
	RuleStrategy   = "strategy"
	RuleVisited    = "visited"
	RuleDuplicate  = "duplicate"
)

// Checker verifies results against a region normalizer.
type Checker struct {
	regions *region.Table
}

// NewChecker creates a checker. A nil table selects the built-in one.
func NewChecker(t *region.Table) *Checker {
	if t == nil {
		t = region.Default()
	}
	return &Checker{regions: t}
}

// Check returns every violation found in res. label names the query in the
// returned violations.
func (c *Checker) Check(label string, res *model.Result) []Violation {
	var out []Violation
	add := func(rule, format string, args ...any) {
		out = append(out, Violation{Query: label, Rule: rule, Details: fmt.Sprintf(format, args...)})
	}

	if len(res.Matches) > MaxResults {
		add(RuleCap, "%d matches returned", len(res.Matches))
	}
	if res.TotalMatched < len(res.Matches) {
		add(RuleTotal, "total %d below returned %d", res.TotalMatched, len(res.Matches))
	}
	if res.Strategy != types.StrategyStrict {
		add(RuleStrategy, "got %q", res.Strategy)
	}
	if len(res.Matches) == 0 && res.TotalMatched == 0 && res.Message == "" {
		add(RuleMessage, "empty result without message")
	}

	wantCategory := region.Fold(res.Category)
	wantRegion := c.regions.Normalize(res.Region)
	for i := range res.Matches {
		m := &res.Matches[i]
		if i > 0 && m.CompatibilityScore > res.Matches[i-1].CompatibilityScore {
			add(RuleOrder, "position %d score %.4f above %.4f", i, m.CompatibilityScore, res.Matches[i-1].CompatibilityScore)
		}
		if m.PredictiveScore < 0 || m.PredictiveScore > 1 {
			add(RuleScoreRange, "%s predictive %.4f", m.ID, m.PredictiveScore)
		}
		if m.CompatibilityScore < 0 || m.CompatibilityScore > 1 {
			add(RuleScoreRange, "%s compatibility %.4f", m.ID, m.CompatibilityScore)
		}
		if region.Fold(m.Category) != wantCategory {
			add(RuleCategory, "%s has %q, want %q", m.ID, m.Category, res.Category)
		}
		if c.regions.Normalize(m.Region) != wantRegion {
			add(RuleRegion, "%s in %q, want %q", m.ID, m.Region, res.Region)
		}
		if id := m.Destination.ID(); m.ID != id {
			add(RuleID, "got %q, derived %q", m.ID, id)
		}
	}
	return out
}

// CheckExcluded reports a violation when any of ids appears in res.
func CheckExcluded(label string, res *model.Result, ids ...string) []Violation {
	var out []Violation
	for i := range res.Matches {
		for _, id := range ids {
			if res.Matches[i].ID == id {
				out = append(out, Violation{Query: label, Rule: RuleVisited, Details: id + " still recommended"})
			}
		}
	}
	return out
}
