package domain

import (
	"sort"
	"time"
)

// TimelineBounds are the shared date bounds of the timeline view: the
// earliest start and latest due date across the filtered issues.
type TimelineBounds struct {
	Start Date
	End   Date
}

// TimelineEntry is one scheduled issue with its bar geometry in day units.
type TimelineEntry struct {
	Issue Issue
	Start Date
	Due   Date
	// Duration counts days inclusive of both endpoints: a same-day
	// start/due issue has duration 1.
	Duration int
	// Offset is the bar's starting day measured from the bounds start.
	Offset int
}

// TimelineMonth groups consecutive timeline days belonging to one calendar
// month, for the two-row day-grid header.
type TimelineMonth struct {
	Year       int
	Month      time.Month
	Days       int
	StartIndex int
}

// Timeline is the Gantt projection: scheduled issues sorted by start date
// with shared bounds and per-issue bar geometry.
type Timeline struct {
	Bounds  TimelineBounds
	Entries []TimelineEntry
	// Days is the total day-column count spanned by the bounds, inclusive.
	Days int
}

// BuildTimeline projects issues carrying both a start and a due date onto a
// day grid. The same search/label/assignee filters as the board apply, plus
// the status filter compared against classification. When nothing passes the
// filter the bounds degenerate to the current calendar month of now.
func (s ColumnSet) BuildTimeline(issues []Issue, filters Filters, now time.Time) Timeline {
	scheduled := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.HasSchedule() {
			scheduled = append(scheduled, issue)
		}
	}
	filtered := filters.Apply(scheduled, s)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartDate.Before(*filtered[j].StartDate)
	})

	if len(filtered) == 0 {
		today := DateOf(now)
		start := NewDate(today.Year, today.Month, 1)
		end := start.AddDays(daysInMonth(today.Year, today.Month) - 1)
		return Timeline{
			Bounds: TimelineBounds{Start: start, End: end},
			Days:   DaysBetween(start, end) + 1,
		}
	}

	bounds := TimelineBounds{Start: *filtered[0].StartDate, End: *filtered[0].DueDate}
	for _, issue := range filtered {
		if issue.StartDate.Before(bounds.Start) {
			bounds.Start = *issue.StartDate
		}
		if issue.DueDate.After(bounds.End) {
			bounds.End = *issue.DueDate
		}
	}

	entries := make([]TimelineEntry, 0, len(filtered))
	for _, issue := range filtered {
		entries = append(entries, TimelineEntry{
			Issue:    issue,
			Start:    *issue.StartDate,
			Due:      *issue.DueDate,
			Duration: DaysBetween(*issue.StartDate, *issue.DueDate) + 1,
			Offset:   DaysBetween(bounds.Start, *issue.StartDate),
		})
	}

	return Timeline{
		Bounds:  bounds,
		Entries: entries,
		Days:    DaysBetween(bounds.Start, bounds.End) + 1,
	}
}

// Months groups the timeline's day columns by calendar month in grid order.
func (t Timeline) Months() []TimelineMonth {
	if t.Days <= 0 {
		return nil
	}
	var out []TimelineMonth
	day := t.Bounds.Start
	for i := 0; i < t.Days; i++ {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Year == day.Year && last.Month == day.Month {
				last.Days++
				day = day.AddDays(1)
				continue
			}
		}
		out = append(out, TimelineMonth{
			Year:       day.Year,
			Month:      day.Month,
			Days:       1,
			StartIndex: i,
		})
		day = day.AddDays(1)
	}
	return out
}

// daysInMonth returns the day count of a calendar month.
func daysInMonth(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
