package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"
)

// Service represents service data used by this package.
type Service interface {
	Load(context.Context) error
	Loaded() bool
	Project() domain.Project
	Columns() domain.ColumnSet
	Board(domain.Filters, map[string]int) []domain.BoardColumn
	Timeline(domain.Filters) domain.Timeline
	MoveIssue(ctx context.Context, issueID int, overColumnID string, overIssueID int) error
	CreateIssue(context.Context, app.CreateIssueInput) (domain.Issue, error)
	UpdateIssue(context.Context, int, app.IssueChanges) (domain.Issue, error)
	DeleteIssue(context.Context, int) error
	Comments(context.Context, int) ([]domain.Comment, error)
	LabelCatalogue() []string
	AssigneeCatalogue() []domain.User
	IsPending(int) bool
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeSearch
	modeLabelFilter
	modeIssueForm
	modeIssueDetail
	modeConfirmDelete
)

// boardView selects the main surface rendered below the header.
type boardView int

const (
	viewBoard boardView = iota
	viewTimeline
)

// issue-form field indexes used throughout keyboard/update logic.
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldLabels
	formFieldStartDate
	formFieldDueDate
)

const formFieldCount = 5

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string
	notice app.Notification

	help help.Model
	keys keyMap
	lang i18n.Lang

	view boardView

	board    []domain.BoardColumn
	timeline domain.Timeline

	selectedColumn int
	selectedIssue  int
	timelineIndex  int
	timelineScroll int

	filters    domain.Filters
	windows    map[string]int
	windowStep int

	assigneeIdx int

	mode        inputMode
	searchInput textinput.Model

	labelFilterIndex int
	labelCatalogue   []string

	formInputs     []textinput.Model
	formFocus      int
	editingIssueID int
	formColumnID   string
	formError      string

	detailIssueID   int
	commentsByID    map[int][]domain.Comment
	commentsLoading bool

	markdown markdownRenderer

	saveLanguage SaveLanguageFunc
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	err error
}

// mutationMsg carries message data through update handling.
type mutationMsg struct {
	err    error
	status string
}

// commentsMsg carries the lazily fetched comment thread for one issue.
type commentsMsg struct {
	issueID  int
	comments []domain.Comment
	err      error
}

// notificationMsg carries one service notification into the status area.
type notificationMsg struct {
	note app.Notification
}

// languageSavedMsg carries the result of persisting a language toggle.
type languageSavedMsg struct {
	err error
}

// Notify wraps a service notification so the hosting program can feed it to
// the model with Program.Send.
func Notify(note app.Notification) tea.Msg {
	return notificationMsg{note: note}
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	searchInput := textinput.New()
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 120
	m := Model{
		svc:          svc,
		status:       "loading...",
		help:         h,
		keys:         newKeyMap(),
		lang:         i18n.English,
		searchInput:  searchInput,
		filters:      domain.Filters{Assignee: domain.AssigneeAll, State: domain.StateFilterAll},
		windows:      map[string]int{},
		windowStep:   domain.DefaultColumnWindow,
		commentsByID: map[int][]domain.Comment{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.searchInput.Placeholder = i18n.T(m.lang, "search_by")
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		// A fresh snapshot starts every column back at its default window.
		m.windows = make(map[string]int)
		m.labelCatalogue = m.svc.LabelCatalogue()
		m.refreshProjections()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case mutationMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else if msg.status != "" {
			m.status = msg.status
		}
		// The service snapshot already reflects the outcome, including any
		// rollback. Reproject either way.
		m.labelCatalogue = m.svc.LabelCatalogue()
		m.refreshProjections()
		return m, nil

	case commentsMsg:
		m.commentsLoading = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.commentsByID[msg.issueID] = msg.comments
		return m, nil

	case notificationMsg:
		m.notice = msg.note
		m.refreshProjections()
		return m, nil

	case languageSavedMsg:
		if msg.err != nil {
			m.status = "save language failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	return loadedMsg{err: m.svc.Load(context.Background())}
}

// refreshProjections recomputes the board and timeline from the service
// snapshot and keeps the cursor inside the visible window.
func (m *Model) refreshProjections() {
	m.board = m.svc.Board(m.filters, m.windows)
	m.timeline = m.svc.Timeline(m.filters)
	m.clampSelections()
}

func (m *Model) clampSelections() {
	if len(m.board) == 0 {
		m.selectedColumn = 0
		m.selectedIssue = 0
	} else {
		m.selectedColumn = clamp(m.selectedColumn, 0, len(m.board)-1)
		issues := m.board[m.selectedColumn].Issues
		if len(issues) == 0 {
			m.selectedIssue = 0
		} else {
			m.selectedIssue = clamp(m.selectedIssue, 0, len(issues)-1)
		}
	}
	if len(m.timeline.Entries) == 0 {
		m.timelineIndex = 0
	} else {
		m.timelineIndex = clamp(m.timelineIndex, 0, len(m.timeline.Entries)-1)
	}
}

// currentIssue returns the issue under the cursor on the active surface.
func (m Model) currentIssue() (domain.Issue, bool) {
	if m.view == viewTimeline {
		if m.timelineIndex < len(m.timeline.Entries) {
			return m.timeline.Entries[m.timelineIndex].Issue, true
		}
		return domain.Issue{}, false
	}
	if m.selectedColumn >= len(m.board) {
		return domain.Issue{}, false
	}
	issues := m.board[m.selectedColumn].Issues
	if m.selectedIssue >= len(issues) {
		return domain.Issue{}, false
	}
	return issues[m.selectedIssue], true
}

func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		if m.hasActiveFilters() {
			m.clearFilters()
			m.status = i18n.T(m.lang, "clear_filters")
			return m, nil
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = i18n.T(m.lang, "loading")
		return m, m.loadData
	case key.Matches(msg, m.keys.timeline):
		if m.view == viewBoard {
			m.view = viewTimeline
		} else {
			m.view = viewBoard
		}
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		if m.view == viewTimeline {
			m.timelineScroll = max(0, m.timelineScroll-7)
			return m, nil
		}
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedIssue = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.view == viewTimeline {
			m.timelineScroll = min(max(0, m.timeline.Days-1), m.timelineScroll+7)
			return m, nil
		}
		if m.selectedColumn < len(m.board)-1 {
			m.selectedColumn++
			m.selectedIssue = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.view == viewTimeline {
			if m.timelineIndex < len(m.timeline.Entries)-1 {
				m.timelineIndex++
			}
			return m, nil
		}
		if issues := m.visibleIssues(); m.selectedIssue < len(issues)-1 {
			m.selectedIssue++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.view == viewTimeline {
			if m.timelineIndex > 0 {
				m.timelineIndex--
			}
			return m, nil
		}
		if m.selectedIssue > 0 {
			m.selectedIssue--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveIssueLeft):
		return m.moveSelectedIssue(-1)
	case key.Matches(msg, m.keys.moveIssueRight):
		return m.moveSelectedIssue(1)
	case key.Matches(msg, m.keys.loadMore):
		return m.loadMoreCurrentColumn()
	case key.Matches(msg, m.keys.search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.filters.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.stateFilter):
		m.cycleStateFilter()
		m.refreshProjections()
		return m, nil
	case key.Matches(msg, m.keys.assigneeFilter):
		m.cycleAssigneeFilter()
		m.refreshProjections()
		return m, nil
	case key.Matches(msg, m.keys.labelFilter):
		if len(m.labelCatalogue) == 0 {
			m.status = "no labels loaded"
			return m, nil
		}
		m.mode = modeLabelFilter
		m.labelFilterIndex = 0
		return m, nil
	case key.Matches(msg, m.keys.newIssue):
		m.help.ShowAll = false
		return m.startIssueForm(nil)
	case key.Matches(msg, m.keys.editIssue):
		issue, ok := m.currentIssue()
		if !ok {
			m.status = "no issue selected"
			return m, nil
		}
		m.help.ShowAll = false
		return m.startIssueForm(&issue)
	case key.Matches(msg, m.keys.deleteIssue):
		issue, ok := m.currentIssue()
		if !ok {
			m.status = "no issue selected"
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.detailIssueID = issue.ID
		return m, nil
	case key.Matches(msg, m.keys.issueDetail):
		issue, ok := m.currentIssue()
		if !ok {
			m.status = "no issue selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeIssueDetail
		m.detailIssueID = issue.ID
		if _, cached := m.commentsByID[issue.ID]; !cached && issue.CommentCount > 0 {
			m.commentsLoading = true
			return m, m.fetchComments(issue.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.copyURL):
		issue, ok := m.currentIssue()
		if !ok {
			m.status = "no issue selected"
			return m, nil
		}
		if err := clipboard.WriteAll(issue.WebURL); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("copied #%d url", issue.IID)
		}
		return m, nil
	case key.Matches(msg, m.keys.language):
		if m.lang == i18n.English {
			m.lang = i18n.French
		} else {
			m.lang = i18n.English
		}
		m.searchInput.Placeholder = i18n.T(m.lang, "search_by")
		m.status = i18n.T(m.lang, "language") + ": " + string(m.lang)
		if m.saveLanguage != nil {
			code := string(m.lang)
			save := m.saveLanguage
			return m, func() tea.Msg { return languageSavedMsg{err: save(code)} }
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.mode = modeNone
			m.filters.Search = strings.TrimSpace(m.searchInput.Value())
			m.searchInput.Blur()
			m.selectedIssue = 0
			m.refreshProjections()
			m.status = m.resultCountStatus()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd

	case modeLabelFilter:
		switch msg.String() {
		case "esc", "enter":
			m.mode = modeNone
			m.refreshProjections()
			m.status = m.resultCountStatus()
			return m, nil
		case "j", "down":
			if m.labelFilterIndex < len(m.labelCatalogue)-1 {
				m.labelFilterIndex++
			}
			return m, nil
		case "k", "up":
			if m.labelFilterIndex > 0 {
				m.labelFilterIndex--
			}
			return m, nil
		case " ", "space":
			if m.labelFilterIndex < len(m.labelCatalogue) {
				m.toggleLabelFilter(m.labelCatalogue[m.labelFilterIndex])
			}
			return m, nil
		case "c":
			m.filters.Labels = nil
			return m, nil
		}
		return m, nil

	case modeIssueForm:
		return m.handleIssueFormKey(msg)

	case modeIssueDetail:
		switch msg.String() {
		case "esc", "q", "i", "enter":
			m.mode = modeNone
			return m, nil
		case "y":
			if issue, ok := m.issueByID(m.detailIssueID); ok {
				if err := clipboard.WriteAll(issue.WebURL); err != nil {
					m.status = "copy failed: " + err.Error()
				} else {
					m.status = fmt.Sprintf("copied #%d url", issue.IID)
				}
			}
			return m, nil
		case "e":
			if issue, ok := m.issueByID(m.detailIssueID); ok {
				return m.startIssueForm(&issue)
			}
			return m, nil
		}
		return m, nil

	case modeConfirmDelete:
		switch msg.String() {
		case "esc", "n":
			m.mode = modeNone
			m.status = i18n.T(m.lang, "cancel")
			return m, nil
		case "enter", "y":
			issueID := m.detailIssueID
			m.mode = modeNone
			m.status = i18n.T(m.lang, "deleting")
			return m, m.deleteIssueCmd(issueID)
		}
		return m, nil

	default:
		m.mode = modeNone
		return m, nil
	}
}

func (m Model) handleIssueFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.formError = ""
		return m, nil
	case "tab", "down":
		return m, m.focusFormField((m.formFocus + 1) % formFieldCount)
	case "shift+tab", "up":
		return m, m.focusFormField((m.formFocus + formFieldCount - 1) % formFieldCount)
	case "enter":
		return m.submitIssueForm()
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// startIssueForm opens the create form, or the edit form when issue is set.
func (m Model) startIssueForm(issue *domain.Issue) (tea.Model, tea.Cmd) {
	inputs := make([]textinput.Model, formFieldCount)
	mk := func(prompt, placeholder, value string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.SetValue(value)
		return in
	}
	title := ""
	description := ""
	labels := ""
	startDate := ""
	dueDate := ""
	if issue != nil {
		title = issue.Title
		description = issue.Description
		labels = strings.Join(m.svc.Columns().DisplayLabels(issue.Labels), ", ")
		if issue.StartDate != nil {
			startDate = issue.StartDate.String()
		}
		if issue.DueDate != nil {
			dueDate = issue.DueDate.String()
		}
	}
	inputs[formFieldTitle] = mk(i18n.T(m.lang, "title_required")+": ", "", title, 255)
	inputs[formFieldDescription] = mk(i18n.T(m.lang, "description")+": ", "", description, 4000)
	inputs[formFieldLabels] = mk(i18n.T(m.lang, "labels")+": ", "bug, ux", labels, 512)
	inputs[formFieldStartDate] = mk(i18n.T(m.lang, "start_date")+": ", "YYYY-MM-DD", startDate, 10)
	inputs[formFieldDueDate] = mk(i18n.T(m.lang, "due_date")+": ", "YYYY-MM-DD", dueDate, 10)

	m.formInputs = inputs
	m.formFocus = formFieldTitle
	m.formError = ""
	if issue != nil {
		m.editingIssueID = issue.ID
		m.formColumnID = m.svc.Columns().ClassifyIssue(*issue)
	} else {
		m.editingIssueID = 0
		m.formColumnID = ""
		if m.selectedColumn < len(m.board) {
			m.formColumnID = m.board[m.selectedColumn].Definition.ID
		}
	}
	m.mode = modeIssueForm
	return m, m.formInputs[formFieldTitle].Focus()
}

func (m *Model) focusFormField(idx int) tea.Cmd {
	m.formInputs[m.formFocus].Blur()
	m.formFocus = idx
	return m.formInputs[idx].Focus()
}

func (m Model) submitIssueForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[formFieldTitle].Value())
	if title == "" {
		m.formError = i18n.T(m.lang, "title_required")
		return m, nil
	}
	description := strings.TrimSpace(m.formInputs[formFieldDescription].Value())
	labels := splitLabelsInput(m.formInputs[formFieldLabels].Value())

	startDate, err := parseOptionalDate(m.formInputs[formFieldStartDate].Value())
	if err != nil {
		m.formError = i18n.T(m.lang, "start_date") + ": " + err.Error()
		return m, nil
	}
	dueDate, err := parseOptionalDate(m.formInputs[formFieldDueDate].Value())
	if err != nil {
		m.formError = i18n.T(m.lang, "due_date") + ": " + err.Error()
		return m, nil
	}

	m.mode = modeNone
	m.formError = ""

	if m.editingIssueID != 0 {
		issueID := m.editingIssueID
		// The form edits display labels only; the issue keeps the canonical
		// label of the column it currently sits in.
		if reconciled, err := m.svc.Columns().Reconcile(labels, m.formColumnID); err == nil {
			labels = reconciled
		}
		changes := app.IssueChanges{
			Title:          &title,
			Description:    &description,
			Labels:         labels,
			StartDate:      startDate,
			DueDate:        dueDate,
			ClearStartDate: startDate == nil,
			ClearDueDate:   dueDate == nil,
		}
		m.status = i18n.T(m.lang, "save")
		return m, func() tea.Msg {
			if _, err := m.svc.UpdateIssue(context.Background(), issueID, changes); err != nil {
				return mutationMsg{err: err}
			}
			return mutationMsg{status: fmt.Sprintf("updated %q", truncate(title, 32))}
		}
	}

	in := app.CreateIssueInput{
		Title:       title,
		Description: description,
		ColumnID:    m.formColumnID,
		Labels:      labels,
		StartDate:   startDate,
		DueDate:     dueDate,
	}
	m.status = i18n.T(m.lang, "creating")
	return m, func() tea.Msg {
		issue, err := m.svc.CreateIssue(context.Background(), in)
		if err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{status: fmt.Sprintf("created #%d", issue.IID)}
	}
}

// moveSelectedIssue moves the issue under the cursor one column left or
// right on the board.
func (m Model) moveSelectedIssue(delta int) (tea.Model, tea.Cmd) {
	if m.view != viewBoard {
		return m, nil
	}
	issue, ok := m.currentIssue()
	if !ok {
		m.status = "no issue selected"
		return m, nil
	}
	target := m.selectedColumn + delta
	if target < 0 || target >= len(m.board) {
		return m, nil
	}
	targetID := m.board[target].Definition.ID
	m.status = fmt.Sprintf("moving #%d...", issue.IID)
	return m, func() tea.Msg {
		if err := m.svc.MoveIssue(context.Background(), issue.ID, targetID, 0); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{}
	}
}

func (m Model) loadMoreCurrentColumn() (tea.Model, tea.Cmd) {
	if m.view != viewBoard || m.selectedColumn >= len(m.board) {
		return m, nil
	}
	column := m.board[m.selectedColumn]
	if !column.HasMore {
		return m, nil
	}
	m.windows[column.Definition.ID] = len(column.Issues) + m.windowStep
	m.refreshProjections()
	m.status = i18n.T(m.lang, "load_more")
	return m, nil
}

func (m Model) deleteIssueCmd(issueID int) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteIssue(context.Background(), issueID); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{status: i18n.T(m.lang, "delete") + " ok"}
	}
}

func (m Model) fetchComments(issueID int) tea.Cmd {
	return func() tea.Msg {
		comments, err := m.svc.Comments(context.Background(), issueID)
		return commentsMsg{issueID: issueID, comments: comments, err: err}
	}
}

// cycleStateFilter rotates all -> opened -> closed.
func (m *Model) cycleStateFilter() {
	switch m.filters.State {
	case domain.StateFilterAll:
		m.filters.State = domain.StateFilterOpened
	case domain.StateFilterOpened:
		m.filters.State = domain.StateFilterClosed
	default:
		m.filters.State = domain.StateFilterAll
	}
	m.selectedIssue = 0
}

// cycleAssigneeFilter rotates through "all" plus every known assignee name.
func (m *Model) cycleAssigneeFilter() {
	assignees := m.svc.AssigneeCatalogue()
	names := make([]string, 0, len(assignees)+1)
	names = append(names, domain.AssigneeAll)
	for _, user := range assignees {
		names = append(names, user.Name)
	}
	m.assigneeIdx = (m.assigneeIdx + 1) % len(names)
	m.filters.Assignee = names[m.assigneeIdx]
	m.selectedIssue = 0
}

func (m *Model) toggleLabelFilter(label string) {
	for idx, active := range m.filters.Labels {
		if active == label {
			m.filters.Labels = append(m.filters.Labels[:idx], m.filters.Labels[idx+1:]...)
			return
		}
	}
	m.filters.Labels = append(m.filters.Labels, label)
}

func (m Model) isLabelFilterActive(label string) bool {
	for _, active := range m.filters.Labels {
		if active == label {
			return true
		}
	}
	return false
}

func (m Model) hasActiveFilters() bool {
	return m.filters.Search != "" ||
		len(m.filters.Labels) > 0 ||
		(m.filters.Assignee != "" && m.filters.Assignee != domain.AssigneeAll) ||
		m.filters.State != domain.StateFilterAll
}

func (m *Model) clearFilters() {
	m.filters = domain.Filters{Assignee: domain.AssigneeAll, State: domain.StateFilterAll}
	m.assigneeIdx = 0
	m.searchInput.SetValue("")
	m.selectedIssue = 0
	m.refreshProjections()
}

func (m Model) resultCountStatus() string {
	total := 0
	for _, column := range m.board {
		total += column.Total
	}
	key := "issues_found"
	if total == 1 {
		key = "issue_found"
	}
	return fmt.Sprintf("%d %s", total, i18n.T(m.lang, key))
}

func (m Model) visibleIssues() []domain.Issue {
	if m.selectedColumn >= len(m.board) {
		return nil
	}
	return m.board[m.selectedColumn].Issues
}

func (m Model) issueByID(issueID int) (domain.Issue, bool) {
	for _, column := range m.board {
		for _, issue := range column.Issues {
			if issue.ID == issueID {
				return issue, true
			}
		}
	}
	for _, entry := range m.timeline.Entries {
		if entry.Issue.ID == issueID {
			return entry.Issue, true
		}
	}
	return domain.Issue{}, false
}
