package domain

import "strings"

// LabelsMatch reports whether an issue label and a candidate label refer to
// the same status. The match is case-insensitive and bidirectional: either
// string containing the other counts. "In Progress" therefore matches both
// "in progress" and "🏄 3 - En cours · in progress"-style decorated labels.
func LabelsMatch(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// matchesAny reports whether label matches any of the candidates.
func matchesAny(label string, candidates []string) bool {
	for _, candidate := range candidates {
		if LabelsMatch(label, candidate) {
			return true
		}
	}
	return false
}

// Classify maps a label set and state onto exactly one column id.
//
// Closed issues land in the state-closed column regardless of labels. Open
// issues are tested against labels-rule columns in configured order and the
// first column with any label/candidate match wins; column order, not match
// specificity, breaks ties. Open issues nothing claimed land in the fallback
// column. Total and deterministic for every input.
func (s ColumnSet) Classify(labels []string, state IssueState) string {
	if state == StateClosed {
		return s.closedID
	}
	for _, col := range s.columns {
		if col.Rule != MatchLabels {
			continue
		}
		for _, label := range labels {
			if matchesAny(label, col.CandidateLabels) {
				return col.ID
			}
		}
	}
	return s.fallbackID
}

// ClassifyIssue is Classify over an issue value.
func (s ColumnSet) ClassifyIssue(issue Issue) string {
	return s.Classify(issue.Labels, issue.State)
}
