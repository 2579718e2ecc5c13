// Package region resolves free-text addresses to canonical region names.
//
// Every comparison goes through Fold and Table.Normalize so that matching in
// the resolver and the matcher behaves identically.
package region

import (
	"fmt"
	"strings"
)

// Entry is one canonical region and the substrings that identify it.
type Entry struct {
	Name     string   `koanf:"name"`
	Patterns []string `koanf:"patterns"`
}

// Table holds the ordered pattern list and the alias map. It is read-only
// after construction and safe for concurrent use.
type Table struct {
	entries []Entry
	aliases map[string]string
}

// Fold lower-cases and trims s.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewTable validates and folds the given entries and aliases.
// It rejects alias maps that would make Normalize non-idempotent.
func NewTable(entries []Entry, aliases map[string]string) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}
	for i, e := range entries {
		name := Fold(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidTable, i)
		}
		patterns := make([]string, 0, len(e.Patterns))
		for _, p := range e.Patterns {
			if p = Fold(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		t.entries = append(t.entries, Entry{Name: name, Patterns: patterns})
	}
	for from, to := range aliases {
		from, to = Fold(from), Fold(to)
		if from == "" || to == "" {
			return nil, fmt.Errorf("%w: empty alias %q -> %q", ErrInvalidTable, from, to)
		}
		t.aliases[from] = to
	}
	for from, to := range t.aliases {
		if next, ok := t.aliases[to]; ok && next != to {
			return nil, fmt.Errorf("%w: alias %q -> %q is remapped again to %q", ErrInvalidTable, from, to, next)
		}
	}
	return t, nil
}

// Default returns the built-in Indonesian province table.
func Default() *Table {
	t, err := NewTable(defaultEntries, defaultAliases)
	if err != nil {
		panic(err) // built-in data is static
	}
	return t
}

// Resolve maps an address to a region. The first table entry with a pattern
// contained in the folded address wins. Without a match it falls back to the
// last comma-separated part, then to the trimmed address. It never fails.
func (t *Table) Resolve(address string) string {
	folded := Fold(address)
	for _, e := range t.entries {
		for _, p := range e.Patterns {
			if strings.Contains(folded, p) {
				return e.Name
			}
		}
	}
	if parts := strings.Split(address, ","); len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return strings.TrimSpace(address)
}

// Normalize folds s and applies the alias map.
func (t *Table) Normalize(s string) string {
	folded := Fold(s)
	if to, ok := t.aliases[folded]; ok {
		return to
	}
	return folded
}

// Names returns the canonical region names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of canonical regions.
func (t *Table) Len() int { return len(t.entries) }
