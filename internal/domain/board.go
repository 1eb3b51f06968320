package domain

import (
	"strconv"
	"strings"
)

// AssigneeAll is the sentinel assignee filter value that disables assignee
// filtering.
const AssigneeAll = "all"

// DefaultColumnWindow is the per-column visible-issue count, and the step one
// load-more action adds to a single column's window.
const DefaultColumnWindow = 10

// StateFilter selects which issue states pass the board filter.
type StateFilter string

// State filter values.
const (
	StateFilterAll    StateFilter = "all"
	StateFilterOpened StateFilter = "opened"
	StateFilterClosed StateFilter = "closed"
)

// Filters describe the active board/timeline filter state. The zero value
// passes every issue.
type Filters struct {
	// Search matches case-insensitively against the title, or as a substring
	// of the issue's display number.
	Search string
	// Labels keeps issues carrying any of the selected labels (OR
	// semantics, exact membership). Empty disables the filter.
	Labels []string
	// Assignee keeps issues any of whose assignees has this name.
	// AssigneeAll (or empty) disables the filter.
	Assignee string
	// State keeps issues in the given open/closed state.
	State StateFilter
	// Status keeps issues classifying into the given column id; used by the
	// timeline view. Empty or "all" disables the filter.
	Status string
}

// matches reports whether an issue passes the search, label, assignee, and
// state filters. The status filter needs the column set and is applied in
// Apply.
func (f Filters) matches(issue Issue) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		inTitle := strings.Contains(strings.ToLower(issue.Title), strings.ToLower(q))
		inNumber := strings.Contains(strconv.Itoa(issue.IID), q)
		if !inTitle && !inNumber {
			return false
		}
	}

	if len(f.Labels) > 0 {
		any := false
		for _, want := range f.Labels {
			for _, have := range issue.Labels {
				if have == want {
					any = true
					break
				}
			}
			if any {
				break
			}
		}
		if !any {
			return false
		}
	}

	if f.Assignee != "" && f.Assignee != AssigneeAll {
		any := false
		for _, assignee := range issue.Assignees {
			if assignee.Name == f.Assignee {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}

	switch f.State {
	case "", StateFilterAll:
	case StateFilterOpened:
		if issue.State != StateOpened {
			return false
		}
	case StateFilterClosed:
		if issue.State != StateClosed {
			return false
		}
	}

	return true
}

// Apply returns the issues passing every active filter, preserving input
// order.
func (f Filters) Apply(issues []Issue, set ColumnSet) []Issue {
	statusActive := f.Status != "" && f.Status != "all"
	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if !f.matches(issue) {
			continue
		}
		if statusActive && set.ClassifyIssue(issue) != f.Status {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// BoardColumn is one rebuilt column of the board projection: its definition,
// the visible issue window, and pagination state. Always rebuilt whole from
// the issue list, never mutated in place.
type BoardColumn struct {
	Definition ColumnDefinition
	// Issues is the visible window, in filtered-list order.
	Issues []Issue
	// Total counts every filtered issue classifying into this column,
	// including those beyond the window.
	Total   int
	HasMore bool
}

// BuildBoard projects a flat issue list onto the configured columns. windows
// maps column id to that column's visible count; missing entries use
// DefaultColumnWindow. Issues keep the filtered list's order within each
// column.
func (s ColumnSet) BuildBoard(issues []Issue, filters Filters, windows map[string]int) []BoardColumn {
	filtered := filters.Apply(issues, s)

	byColumn := make(map[string][]Issue, s.Len())
	for _, issue := range filtered {
		id := s.ClassifyIssue(issue)
		byColumn[id] = append(byColumn[id], issue)
	}

	out := make([]BoardColumn, 0, s.Len())
	for _, def := range s.columns {
		matching := byColumn[def.ID]
		window := DefaultColumnWindow
		if w, ok := windows[def.ID]; ok && w > 0 {
			window = w
		}
		visible := matching
		if len(visible) > window {
			visible = visible[:window]
		}
		out = append(out, BoardColumn{
			Definition: def,
			Issues:     visible,
			Total:      len(matching),
			HasMore:    len(matching) > window,
		})
	}
	return out
}
