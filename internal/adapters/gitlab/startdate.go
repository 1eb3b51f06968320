package gitlab

import (
	"regexp"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// GitLab issues have no native start-date field. The board keeps the start
// date in a structured comment on the issue instead, and reads it back when
// listing issues.

const startDatePrefix = "**Start Date:** "

// startDatePattern recognises the marker comment, prefix case-insensitive.
var startDatePattern = regexp.MustCompile(`(?i)^\*\*start date:\*\*\s*(\d{4}-\d{2}-\d{2})`)

// startDateMarker renders the comment body carrying a start date.
func startDateMarker(d domain.Date) string {
	return startDatePrefix + d.String()
}

// parseStartDateBody extracts the start date from a marker comment body.
func parseStartDateBody(body string) (domain.Date, bool) {
	m := startDatePattern.FindStringSubmatch(body)
	if m == nil {
		return domain.Date{}, false
	}
	d, err := domain.ParseDate(m[1])
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

// findStartDateNote scans an issue's notes for the marker comment, returning
// the first match in note order.
func findStartDateNote(notes []notePayload) (int, domain.Date, bool) {
	for _, note := range notes {
		if d, ok := parseStartDateBody(note.Body); ok {
			return note.ID, d, true
		}
	}
	return 0, domain.Date{}, false
}
