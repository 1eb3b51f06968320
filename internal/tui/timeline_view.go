package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"
)

// timelineLabelWidth is the fixed issue-label gutter left of the day grid.
const timelineLabelWidth = 26

// renderTimeline draws the Gantt surface: a month header, a day-of-month
// row, and one bar row per scheduled issue.
func (m Model) renderTimeline(accent, muted, dim color.Color) string {
	mutedStyle := lipgloss.NewStyle().Foreground(muted)
	dimStyle := lipgloss.NewStyle().Foreground(dim)

	if len(m.timeline.Entries) == 0 {
		bounds := fmt.Sprintf("%s .. %s", m.timeline.Bounds.Start, m.timeline.Bounds.End)
		return mutedStyle.Render("0 "+i18n.T(m.lang, "issues_found")) + "\n" + dimStyle.Render(bounds)
	}

	gridWidth := m.gridWidth()
	scroll := clamp(m.timelineScroll, 0, max(0, m.timeline.Days-1))
	shown := min(gridWidth, m.timeline.Days-scroll)

	gutter := strings.Repeat(" ", timelineLabelWidth)
	monthRow := gutter + m.renderMonthHeader(scroll, shown)
	dayRow := gutter + m.renderDayHeader(scroll, shown)

	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(monthRow),
		dimStyle.Render(dayRow),
	}

	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	for idx, entry := range m.timeline.Entries {
		label := fmt.Sprintf("#%d %s", entry.Issue.IID, entry.Issue.Title)
		label = padRight(truncate(label, timelineLabelWidth-2), timelineLabelWidth)
		if idx == m.timelineIndex {
			label = selectedStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		rows = append(rows, label+m.renderBar(entry.Offset, entry.Duration, scroll, shown, idx == m.timelineIndex))
	}

	footer := fmt.Sprintf("%s .. %s • h/l scroll • j/k select", m.timeline.Bounds.Start, m.timeline.Bounds.End)
	rows = append(rows, "", dimStyle.Render(footer))
	return strings.Join(rows, "\n")
}

// renderMonthHeader lays month names over the day columns each month spans
// inside the visible window.
func (m Model) renderMonthHeader(scroll, shown int) string {
	out := make([]rune, shown)
	for idx := range out {
		out[idx] = ' '
	}
	for _, month := range m.timeline.Months() {
		start := month.StartIndex - scroll
		end := start + month.Days
		if end <= 0 || start >= shown {
			continue
		}
		visibleStart := max(0, start)
		span := min(shown, end) - visibleStart
		name := []rune(truncate(fmt.Sprintf("%s %d", month.Month.String()[:3], month.Year), span))
		for pos := 0; pos < span && pos < len(name); pos++ {
			out[visibleStart+pos] = name[pos]
		}
	}
	return string(out)
}

// renderDayHeader writes the day-of-month digit column under the month row,
// one character per day using the last digit.
func (m Model) renderDayHeader(scroll, shown int) string {
	var b strings.Builder
	for idx := 0; idx < shown; idx++ {
		day := m.timeline.Bounds.Start.AddDays(scroll + idx).Day
		b.WriteByte(byte('0' + day%10))
	}
	return b.String()
}

// renderBar draws one issue's duration as a contiguous run of block cells.
func (m Model) renderBar(offset, duration, scroll, shown int, selected bool) string {
	start := offset - scroll
	end := start + duration
	var b strings.Builder
	for idx := 0; idx < shown; idx++ {
		if idx >= start && idx < end {
			b.WriteRune('█')
		} else {
			b.WriteRune('·')
		}
	}
	bar := b.String()
	if selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(bar)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(bar)
}

func (m Model) gridWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(14, m.width-timelineLabelWidth-2)
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
