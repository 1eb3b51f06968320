package domain

// Reconcile computes the label set for an issue landing in the target column.
//
// Every label matching any status-bearing candidate (across all labels-rule
// columns) is stripped, however the current status was spelled. If the target
// column is a labels-rule column its canonical label is appended; the
// fallback and state-closed columns add nothing, their status being implied
// by state or by the absence of status labels. The result carries at most one
// status label and re-applying the same target is a no-op.
func (s ColumnSet) Reconcile(labels []string, targetID string) ([]string, error) {
	target, ok := s.ByID(targetID)
	if !ok {
		return nil, ErrUnknownColumn
	}

	status := s.StatusLabels()
	out := make([]string, 0, len(labels)+1)
	for _, label := range labels {
		if matchesAny(label, status) {
			continue
		}
		out = append(out, label)
	}

	if canonical, ok := target.CanonicalLabel(); ok {
		out = append(out, canonical)
	}
	return out, nil
}

// DisplayLabels strips status-bearing labels from an issue's label set for
// card and detail rendering; status is shown by column placement instead.
func (s ColumnSet) DisplayLabels(labels []string) []string {
	status := s.StatusLabels()
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if matchesAny(label, status) {
			continue
		}
		out = append(out, label)
	}
	return out
}
