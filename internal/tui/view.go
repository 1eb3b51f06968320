package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"
)

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView(i18n.T(m.lang, "error") + ": " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView(i18n.T(m.lang, "loading"))
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	project := m.svc.Project()
	header := titleStyle.Render("glab-board")
	if project.Name != "" {
		header += "  " + project.Name
	}
	if m.view == viewTimeline {
		header += statusStyle.Render("  [" + i18n.T(m.lang, "timeline") + "]")
	} else {
		header += statusStyle.Render("  [" + i18n.T(m.lang, "kanban") + "]")
	}
	if chips := m.filterChips(); chips != "" {
		header += statusStyle.Render("  " + chips)
	}

	var body string
	if m.view == viewTimeline {
		body = m.renderTimeline(accent, muted, dim)
	} else {
		body = m.renderBoard(accent, muted, dim)
	}

	sections := []string{header, "", body}
	if notice := m.renderNotice(); notice != "" {
		sections = append(sections, notice)
	}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}
	fullContent := content + "\n" + helpLine

	if overlay := m.renderOverlay(accent, muted, dim); overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.AltScreen = true
	return v
}

// filterChips summarizes the active filters for the header line.
func (m Model) filterChips() string {
	chips := make([]string, 0, 4)
	if m.filters.Search != "" {
		chips = append(chips, i18n.T(m.lang, "search")+": "+m.filters.Search)
	}
	if m.filters.State != "" && m.filters.State != domain.StateFilterAll {
		chips = append(chips, "state: "+string(m.filters.State))
	}
	if m.filters.Assignee != "" && m.filters.Assignee != domain.AssigneeAll {
		chips = append(chips, i18n.T(m.lang, "assigned")+": "+m.filters.Assignee)
	}
	if len(m.filters.Labels) > 0 {
		chips = append(chips, i18n.T(m.lang, "labels")+": "+strings.Join(m.filters.Labels, ","))
	}
	return strings.Join(chips, "  ")
}

func (m Model) renderBoard(accent, muted, dim color.Color) string {
	if len(m.board) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render(i18n.T(m.lang, "loading"))
	}

	colWidth := m.columnWidth()
	colHeight := m.columnHeight()
	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(colWidth)
	selectedCardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)
	moreStyle := lipgloss.NewStyle().Foreground(dim)

	columnViews := make([]string, 0, len(m.board))
	for colIdx, column := range m.board {
		colColor := accent
		if column.Definition.Color != "" {
			colColor = lipgloss.Color(column.Definition.Color)
		}
		colTitle := lipgloss.NewStyle().Bold(true).Foreground(colColor)
		header := fmt.Sprintf("%s %s (%d/%d)", column.Definition.Emoji, column.Definition.Name, len(column.Issues), column.Total)
		lines := []string{colTitle.Render(truncate(header, max(1, colWidth-2)))}

		if len(column.Issues) == 0 {
			lines = append(lines, moreStyle.Render("(empty)"))
		}
		for issueIdx, issue := range column.Issues {
			selected := colIdx == m.selectedColumn && issueIdx == m.selectedIssue
			prefix := "  "
			if selected {
				prefix = "│ "
			}
			title := prefix + fmt.Sprintf("#%d %s", issue.IID, issue.Title)
			title = truncate(title, max(1, colWidth-2))
			if selected {
				title = selectedCardStyle.Render(title)
			}
			lines = append(lines, title)
			if sub := m.cardMeta(issue); sub != "" {
				lines = append(lines, prefix+subStyle.Render(truncate(sub, max(1, colWidth-4))))
			}
		}
		if column.HasMore {
			remaining := column.Total - len(column.Issues)
			lines = append(lines, moreStyle.Render(fmt.Sprintf("m: %s (%d)", i18n.T(m.lang, "load_more"), remaining)))
		}

		content := fitLines(strings.Join(lines, "\n"), max(1, colHeight-2))
		style := baseColStyle
		if colIdx == m.selectedColumn {
			style = baseColStyle.BorderForeground(colColor)
		}
		columnViews = append(columnViews, style.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// cardMeta builds the secondary card line: display labels, assignee initials,
// due annotation, pending marker.
func (m Model) cardMeta(issue domain.Issue) string {
	parts := make([]string, 0, 4)
	if labels := m.svc.Columns().DisplayLabels(issue.Labels); len(labels) > 0 {
		parts = append(parts, summarizeLabels(labels, 3))
	}
	if len(issue.Assignees) > 0 {
		parts = append(parts, "@"+issue.Assignees[0].Username)
	}
	if issue.DueDate != nil {
		parts = append(parts, m.dueAnnotation(*issue.DueDate))
	}
	if m.svc.IsPending(issue.ID) {
		parts = append(parts, "…")
	}
	return strings.Join(parts, " ")
}

// dueAnnotation renders a due date with its urgency marker.
func (m Model) dueAnnotation(due domain.Date) string {
	today := domain.DateOf(time.Now())
	switch domain.UrgencyOf(due, today) {
	case domain.DueOverdue:
		return "!! " + due.String()
	case domain.DueImminent:
		return "! " + due.String()
	case domain.DueSoon, domain.DueThisWeek:
		return "~ " + due.String()
	default:
		return due.String()
	}
}

func (m Model) renderOverlay(accent, muted, dim color.Color) string {
	switch m.mode {
	case modeSearch:
		return m.renderBox(accent, i18n.T(m.lang, "search"), m.searchInput.View())
	case modeLabelFilter:
		return m.renderLabelFilter(accent, muted)
	case modeIssueForm:
		return m.renderIssueForm(accent, muted)
	case modeIssueDetail:
		return m.renderIssueDetail(accent, muted, dim)
	case modeConfirmDelete:
		body := i18n.T(m.lang, "delete_confirm") + "\n" + i18n.T(m.lang, "delete_warning") + "\n\nenter/y confirm • esc cancel"
		return m.renderBox(lipgloss.Color("203"), i18n.T(m.lang, "delete_issue"), body)
	default:
		if m.help.ShowAll {
			helpBubble := m.help
			helpBubble.ShowAll = true
			helpBubble.SetWidth(max(20, m.width-12))
			return m.renderBox(accent, "help", helpBubble.View(m.keys))
		}
		return ""
	}
}

func (m Model) renderLabelFilter(accent, muted color.Color) string {
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	lines := make([]string, 0, len(m.labelCatalogue)+2)
	for idx, label := range m.labelCatalogue {
		marker := "[ ] "
		if m.isLabelFilterActive(label) {
			marker = "[x] "
		}
		line := marker + label
		if idx == m.labelFilterIndex {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(muted).Render("space toggle • c clear • enter apply"))
	return m.renderBox(accent, i18n.T(m.lang, "labels"), strings.Join(lines, "\n"))
}

func (m Model) renderIssueForm(accent, muted color.Color) string {
	title := i18n.T(m.lang, "create_issue")
	if m.editingIssueID != 0 {
		title = i18n.T(m.lang, "edit")
	}
	lines := make([]string, 0, formFieldCount+3)
	for idx := range m.formInputs {
		cursor := "  "
		if idx == m.formFocus {
			cursor = "> "
		}
		lines = append(lines, cursor+m.formInputs[idx].View())
	}
	if m.formError != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.formError))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(muted).Render("tab next field • enter submit • esc cancel"))
	return m.renderBox(accent, title, strings.Join(lines, "\n"))
}

func (m Model) renderIssueDetail(accent, muted, dim color.Color) string {
	issue, ok := m.issueByID(m.detailIssueID)
	if !ok {
		return m.renderBox(accent, i18n.T(m.lang, "error"), "issue no longer loaded")
	}
	mutedStyle := lipgloss.NewStyle().Foreground(muted)
	dimStyle := lipgloss.NewStyle().Foreground(dim)
	wrapWidth := max(24, min(m.width-16, 90))

	state := i18n.T(m.lang, "opened")
	if issue.State == domain.StateClosed {
		state = i18n.T(m.lang, "closed")
	}
	lines := []string{mutedStyle.Render(fmt.Sprintf("#%d • %s • %s %s", issue.IID, state, i18n.T(m.lang, "created_by"), issue.Author.Name))}
	if labels := m.svc.Columns().DisplayLabels(issue.Labels); len(labels) > 0 {
		lines = append(lines, mutedStyle.Render(i18n.T(m.lang, "labels")+": "+strings.Join(labels, ", ")))
	}
	if len(issue.Assignees) > 0 {
		names := make([]string, 0, len(issue.Assignees))
		for _, user := range issue.Assignees {
			names = append(names, user.Name)
		}
		lines = append(lines, mutedStyle.Render(i18n.T(m.lang, "assigned")+": "+strings.Join(names, ", ")))
	}
	if issue.StartDate != nil {
		lines = append(lines, mutedStyle.Render(i18n.T(m.lang, "start_date")+": "+issue.StartDate.String()))
	}
	if issue.DueDate != nil {
		lines = append(lines, mutedStyle.Render(i18n.T(m.lang, "due_date")+": "+m.dueAnnotation(*issue.DueDate)))
	}
	if rendered := m.markdown.render(issue.Description, wrapWidth); rendered != "" {
		lines = append(lines, "", rendered)
	}

	lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render(i18n.T(m.lang, "comments")))
	switch {
	case m.commentsLoading:
		lines = append(lines, dimStyle.Render(i18n.T(m.lang, "loading")))
	case len(m.commentsByID[issue.ID]) == 0:
		lines = append(lines, dimStyle.Render(i18n.T(m.lang, "no_comments")))
	default:
		for _, comment := range m.commentsByID[issue.ID] {
			lines = append(lines, mutedStyle.Render(comment.Author.Name+" • "+comment.CreatedAt.Format("2006-01-02 15:04")))
			lines = append(lines, m.markdown.render(comment.Body, wrapWidth))
		}
	}
	lines = append(lines, "", dimStyle.Render("e edit • y copy url • esc close  ("+i18n.T(m.lang, "view_in_gitlab")+": "+issue.WebURL+")"))
	return m.renderBox(accent, truncate(issue.Title, wrapWidth), strings.Join(lines, "\n"))
}

// renderBox wraps overlay content in the shared bordered modal frame.
func (m Model) renderBox(border color.Color, title, body string) string {
	width := max(30, min(m.width-8, 96))
	titleStyle := lipgloss.NewStyle().Bold(true)
	content := titleStyle.Render(title) + "\n\n" + body
	if m.height > 0 {
		content = fitLines(content, max(4, m.height-6))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(width).
		Render(content)
}

func (m Model) renderNotice() string {
	if m.notice.Message == "" {
		return ""
	}
	var tone color.Color
	switch m.notice.Level {
	case app.NotificationSuccess:
		tone = lipgloss.Color("42")
	case app.NotificationError:
		tone = lipgloss.Color("203")
	default:
		tone = lipgloss.Color("241")
	}
	return lipgloss.NewStyle().Foreground(tone).Render("• " + m.notice.Message)
}

func (m Model) columnWidth() int {
	count := max(1, len(m.board))
	if m.width <= 0 {
		return 28
	}
	width := m.width/count - 3
	return clamp(width, 16, 44)
}

func (m Model) columnHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(8, m.height-6)
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}

func summarizeLabels(labels []string, maxLabels int) string {
	if len(labels) <= maxLabels {
		return strings.Join(labels, " ")
	}
	return strings.Join(labels[:maxLabels], " ") + fmt.Sprintf(" +%d", len(labels)-maxLabels)
}

func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// overlayOnContent centers the overlay on top of the base content.
func overlayOnContent(base, overlay string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := lipgloss.Width(overlay)
	top := max(0, (height-len(overlayLines))/2)
	left := max(0, (width-overlayWidth)/2)
	pad := strings.Repeat(" ", left)
	for idx, line := range overlayLines {
		row := top + idx
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = pad + line
	}
	return strings.Join(baseLines, "\n")
}

func splitLabelsInput(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseOptionalDate(raw string) (*domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
