// Package domain holds the pure board rules: column configuration,
// label-driven classification, label reconciliation, and the board and
// timeline projections. Nothing in this package performs I/O.
package domain

import (
	"fmt"
	"slices"
	"strings"
)

// MatchRule selects how a column claims issues.
type MatchRule string

// Supported match rules.
const (
	// MatchLabels claims issues carrying one of the column's candidate labels.
	MatchLabels MatchRule = "labels"
	// MatchFallback claims open issues no labels-rule column claimed.
	MatchFallback MatchRule = "fallback"
	// MatchStateClosed claims closed issues unconditionally.
	MatchStateClosed MatchRule = "state-closed"
)

// ColumnDefinition describes one board column and the label strings that map
// issues into it.
type ColumnDefinition struct {
	ID    string
	Name  string
	Emoji string
	Order int
	Color string
	Rule  MatchRule
	// CandidateLabels is meaningful only for MatchLabels columns. The first
	// entry is the canonical representative written to moved issues.
	CandidateLabels []string
}

// CanonicalLabel returns the label written to an issue moved into this
// column, and whether the column carries one at all.
func (c ColumnDefinition) CanonicalLabel() (string, bool) {
	if c.Rule != MatchLabels || len(c.CandidateLabels) == 0 {
		return "", false
	}
	return c.CandidateLabels[0], true
}

// ColumnSet is the validated column configuration, sorted by display order.
// It is immutable after construction and defines the total set of valid
// column ids.
type ColumnSet struct {
	columns    []ColumnDefinition
	index      map[string]int
	fallbackID string
	closedID   string
}

// NewColumnSet validates and orders column definitions. Exactly one column
// must use MatchFallback and exactly one MatchStateClosed; every other column
// must use MatchLabels with at least one candidate label.
func NewColumnSet(defs []ColumnDefinition) (ColumnSet, error) {
	if len(defs) == 0 {
		return ColumnSet{}, fmt.Errorf("%w: no columns", ErrInvalidColumnSet)
	}

	ordered := make([]ColumnDefinition, len(defs))
	copy(ordered, defs)
	slices.SortStableFunc(ordered, func(a, b ColumnDefinition) int {
		return a.Order - b.Order
	})

	set := ColumnSet{
		columns: ordered,
		index:   make(map[string]int, len(ordered)),
	}
	for i, col := range ordered {
		if strings.TrimSpace(col.ID) == "" {
			return ColumnSet{}, fmt.Errorf("%w: column %d has empty id", ErrInvalidColumnSet, i)
		}
		if _, dup := set.index[col.ID]; dup {
			return ColumnSet{}, fmt.Errorf("%w: duplicate column id %q", ErrInvalidColumnSet, col.ID)
		}
		set.index[col.ID] = i

		switch col.Rule {
		case MatchLabels:
			if len(col.CandidateLabels) == 0 {
				return ColumnSet{}, fmt.Errorf("%w: column %q has no candidate labels", ErrInvalidColumnSet, col.ID)
			}
		case MatchFallback:
			if set.fallbackID != "" {
				return ColumnSet{}, fmt.Errorf("%w: multiple fallback columns (%q, %q)", ErrInvalidColumnSet, set.fallbackID, col.ID)
			}
			set.fallbackID = col.ID
		case MatchStateClosed:
			if set.closedID != "" {
				return ColumnSet{}, fmt.Errorf("%w: multiple state-closed columns (%q, %q)", ErrInvalidColumnSet, set.closedID, col.ID)
			}
			set.closedID = col.ID
		default:
			return ColumnSet{}, fmt.Errorf("%w: column %q has unknown match rule %q", ErrInvalidColumnSet, col.ID, col.Rule)
		}
	}
	if set.fallbackID == "" {
		return ColumnSet{}, fmt.Errorf("%w: no fallback column", ErrInvalidColumnSet)
	}
	if set.closedID == "" {
		return ColumnSet{}, fmt.Errorf("%w: no state-closed column", ErrInvalidColumnSet)
	}
	return set, nil
}

// Columns returns the column definitions in display order.
func (s ColumnSet) Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s ColumnSet) Len() int { return len(s.columns) }

// ByID looks up a column definition.
func (s ColumnSet) ByID(id string) (ColumnDefinition, bool) {
	i, ok := s.index[id]
	if !ok {
		return ColumnDefinition{}, false
	}
	return s.columns[i], true
}

// FallbackColumn returns the column claiming otherwise-unmatched open issues.
func (s ColumnSet) FallbackColumn() ColumnDefinition {
	col, _ := s.ByID(s.fallbackID)
	return col
}

// ClosedColumn returns the column claiming closed issues.
func (s ColumnSet) ClosedColumn() ColumnDefinition {
	col, _ := s.ByID(s.closedID)
	return col
}

// StatusLabels returns the union of candidate labels across all labels-rule
// columns, in column order. Any issue label matching one of these is a
// status marker.
func (s ColumnSet) StatusLabels() []string {
	var out []string
	for _, col := range s.columns {
		if col.Rule == MatchLabels {
			out = append(out, col.CandidateLabels...)
		}
	}
	return out
}
