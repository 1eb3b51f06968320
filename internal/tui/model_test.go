package tui

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"
)

type fakeBoardService struct {
	columns domain.ColumnSet
	project domain.Project
	issues  []domain.Issue
	loaded  bool

	comments      map[int][]domain.Comment
	commentsCalls int
	pending       map[int]bool

	moveErr          error
	lastMoveIssueID  int
	lastMoveColumnID string
	lastMoveOverID   int
	lastCreate       app.CreateIssueInput
	lastUpdateID     int
	lastUpdate       app.IssueChanges
	lastDeleteID     int
	nextIID          int
}

func newFakeBoardService(issues []domain.Issue) *fakeBoardService {
	columns := testColumns(nil)
	return &fakeBoardService{
		columns:  columns,
		project:  domain.Project{ID: 42, Name: "Demo", PathWithNamespace: "group/demo"},
		issues:   issues,
		comments: map[int][]domain.Comment{},
		pending:  map[int]bool{},
		nextIID:  500,
	}
}

func testColumns(t *testing.T) domain.ColumnSet {
	if t != nil {
		t.Helper()
	}
	set, err := domain.NewColumnSet([]domain.ColumnDefinition{
		{ID: "open", Name: "Backlog", Emoji: "📋", Order: 0, Color: "#6b7280", Rule: domain.MatchFallback},
		{ID: "in-progress", Name: "En cours", Emoji: "🏄", Order: 1, Color: "#3b82f6", Rule: domain.MatchLabels,
			CandidateLabels: []string{"🏄 3 - En cours", "en cours", "in progress", "doing", "wip"}},
		{ID: "closed", Name: "Terminé", Emoji: "🎉", Order: 2, Color: "#10b981", Rule: domain.MatchStateClosed},
	})
	if err != nil {
		panic(err)
	}
	return set
}

func (f *fakeBoardService) Load(context.Context) error {
	f.loaded = true
	return nil
}

func (f *fakeBoardService) Loaded() bool { return f.loaded }

func (f *fakeBoardService) Project() domain.Project { return f.project }

func (f *fakeBoardService) Columns() domain.ColumnSet { return f.columns }

func (f *fakeBoardService) Board(filters domain.Filters, windows map[string]int) []domain.BoardColumn {
	return f.columns.BuildBoard(f.issues, filters, windows)
}

func (f *fakeBoardService) Timeline(filters domain.Filters) domain.Timeline {
	return f.columns.BuildTimeline(f.issues, filters, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
}

func (f *fakeBoardService) MoveIssue(_ context.Context, issueID int, overColumnID string, overIssueID int) error {
	f.lastMoveIssueID = issueID
	f.lastMoveColumnID = overColumnID
	f.lastMoveOverID = overIssueID
	if f.moveErr != nil {
		return f.moveErr
	}
	for idx := range f.issues {
		if f.issues[idx].ID == issueID {
			labels, err := f.columns.Reconcile(f.issues[idx].Labels, overColumnID)
			if err != nil {
				return err
			}
			f.issues[idx].Labels = labels
		}
	}
	return nil
}

func (f *fakeBoardService) CreateIssue(_ context.Context, in app.CreateIssueInput) (domain.Issue, error) {
	f.lastCreate = in
	f.nextIID++
	issue := domain.Issue{ID: f.nextIID, IID: f.nextIID, Title: in.Title, Labels: in.Labels, State: domain.StateOpened}
	f.issues = append([]domain.Issue{issue}, f.issues...)
	return issue, nil
}

func (f *fakeBoardService) UpdateIssue(_ context.Context, issueID int, changes app.IssueChanges) (domain.Issue, error) {
	f.lastUpdateID = issueID
	f.lastUpdate = changes
	for idx := range f.issues {
		if f.issues[idx].ID == issueID {
			if changes.Title != nil {
				f.issues[idx].Title = *changes.Title
			}
			return f.issues[idx], nil
		}
	}
	return domain.Issue{}, app.ErrNotFound
}

func (f *fakeBoardService) DeleteIssue(_ context.Context, issueID int) error {
	f.lastDeleteID = issueID
	for idx := range f.issues {
		if f.issues[idx].ID == issueID {
			f.issues = append(f.issues[:idx], f.issues[idx+1:]...)
			return nil
		}
	}
	return app.ErrNotFound
}

func (f *fakeBoardService) Comments(_ context.Context, issueID int) ([]domain.Comment, error) {
	f.commentsCalls++
	return f.comments[issueID], nil
}

func (f *fakeBoardService) LabelCatalogue() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, issue := range f.issues {
		for _, label := range f.columns.DisplayLabels(issue.Labels) {
			if !seen[label] {
				seen[label] = true
				out = append(out, label)
			}
		}
	}
	return out
}

func (f *fakeBoardService) AssigneeCatalogue() []domain.User {
	seen := map[int]bool{}
	out := []domain.User{}
	for _, issue := range f.issues {
		for _, user := range issue.Assignees {
			if !seen[user.ID] {
				seen[user.ID] = true
				out = append(out, user)
			}
		}
	}
	return out
}

func (f *fakeBoardService) IsPending(issueID int) bool { return f.pending[issueID] }

func boardIssues() []domain.Issue {
	start := domain.Date{Year: 2026, Month: time.March, Day: 2}
	due := domain.Date{Year: 2026, Month: time.March, Day: 20}
	return []domain.Issue{
		{ID: 1, IID: 101, Title: "Alpha task", State: domain.StateOpened, Labels: []string{"bug"},
			WebURL: "https://gitlab.example.com/group/demo/-/issues/101"},
		{ID: 2, IID: 102, Title: "Beta work", State: domain.StateOpened, Labels: []string{"en cours", "ux"},
			Assignees: []domain.User{{ID: 7, Name: "Ada", Username: "ada"}},
			StartDate: &start, DueDate: &due, CommentCount: 1,
			WebURL: "https://gitlab.example.com/group/demo/-/issues/102"},
		{ID: 3, IID: 103, Title: "Gamma chore", State: domain.StateClosed},
	}
}

func TestModelLoadAndNavigation(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	if !svc.loaded {
		t.Fatal("expected Init to load the service")
	}
	if len(m.board) != 3 {
		t.Fatalf("expected 3 board columns, got %d", len(m.board))
	}
	if got := m.board[1].Issues[0].IID; got != 102 {
		t.Fatalf("expected #102 classified in-progress, got #%d", got)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 1 {
		t.Fatalf("expected selectedColumn=1, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	if m.selectedColumn != 0 {
		t.Fatalf("expected selectedColumn=0, got %d", m.selectedColumn)
	}

	board := stripEscapes(m.renderBoard(lipgloss.Color("62"), lipgloss.Color("241"), lipgloss.Color("239")))
	if !strings.Contains(board, "Alpha task") || !strings.Contains(board, "En cours") {
		t.Fatalf("expected columns and cards on the board, got:\n%s", board)
	}
}

func TestModelMoveIssueRight(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	// Alpha sits in the open column under the initial cursor.
	m = applyMsg(t, m, keyRune(']'))
	if svc.lastMoveIssueID != 1 {
		t.Fatalf("expected move of issue 1, got %d", svc.lastMoveIssueID)
	}
	if svc.lastMoveColumnID != "in-progress" {
		t.Fatalf("expected target column in-progress, got %q", svc.lastMoveColumnID)
	}
	if got := len(m.board[1].Issues); got != 2 {
		t.Fatalf("expected 2 issues in in-progress after move, got %d", got)
	}
}

func TestModelMoveIssueLeftBoundary(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('['))
	if svc.lastMoveIssueID != 0 {
		t.Fatalf("expected no move past the left edge, got issue %d", svc.lastMoveIssueID)
	}
}

func TestModelSearchFilter(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('/'))
	if m.mode != modeSearch {
		t.Fatalf("expected search mode, got %v", m.mode)
	}
	for _, r := range "beta" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	total := 0
	for _, column := range m.board {
		total += column.Total
	}
	if total != 1 {
		t.Fatalf("expected 1 issue after search, got %d", total)
	}
	if m.board[1].Issues[0].Title != "Beta work" {
		t.Fatalf("expected Beta work to survive the filter, got %q", m.board[1].Issues[0].Title)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	total = 0
	for _, column := range m.board {
		total += column.Total
	}
	if total != 3 {
		t.Fatalf("expected filters cleared by esc, got %d issues", total)
	}
}

func TestModelStateAndAssigneeFilterCycle(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('s'))
	if m.filters.State != domain.StateFilterOpened {
		t.Fatalf("expected opened state filter, got %q", m.filters.State)
	}
	if got := m.board[2].Total; got != 0 {
		t.Fatalf("expected closed column emptied by opened filter, got %d", got)
	}
	m = applyMsg(t, m, keyRune('s'))
	m = applyMsg(t, m, keyRune('s'))
	if m.filters.State != domain.StateFilterAll {
		t.Fatalf("expected filter cycled back to all, got %q", m.filters.State)
	}

	m = applyMsg(t, m, keyRune('a'))
	if m.filters.Assignee != "Ada" {
		t.Fatalf("expected assignee filter Ada, got %q", m.filters.Assignee)
	}
	m = applyMsg(t, m, keyRune('a'))
	if m.filters.Assignee != domain.AssigneeAll {
		t.Fatalf("expected assignee filter back to all, got %q", m.filters.Assignee)
	}
}

func TestModelLabelFilterOverlay(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('f'))
	if m.mode != modeLabelFilter {
		t.Fatalf("expected label filter mode, got %v", m.mode)
	}
	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(m.filters.Labels) != 1 {
		t.Fatalf("expected one active label filter, got %v", m.filters.Labels)
	}
	total := 0
	for _, column := range m.board {
		total += column.Total
	}
	if total != 1 {
		t.Fatalf("expected 1 issue passing the label filter, got %d", total)
	}
}

func TestModelLoadMore(t *testing.T) {
	issues := make([]domain.Issue, 0, 25)
	for i := 1; i <= 25; i++ {
		issues = append(issues, domain.Issue{ID: i, IID: 100 + i, Title: "Task", State: domain.StateOpened})
	}
	svc := newFakeBoardService(issues)
	m := loadReadyModel(t, NewModel(svc))

	if got := len(m.board[0].Issues); got != domain.DefaultColumnWindow {
		t.Fatalf("expected initial window of %d, got %d", domain.DefaultColumnWindow, got)
	}
	m = applyMsg(t, m, keyRune('m'))
	if got := len(m.board[0].Issues); got != 2*domain.DefaultColumnWindow {
		t.Fatalf("expected expanded window of %d, got %d", 2*domain.DefaultColumnWindow, got)
	}
	if !m.board[0].HasMore {
		t.Fatal("expected more issues still hidden")
	}

	// A reload starts the column back at its default window.
	m = applyMsg(t, m, keyRune('r'))
	if got := len(m.board[0].Issues); got != domain.DefaultColumnWindow {
		t.Fatalf("expected reload to reset window to %d, got %d", domain.DefaultColumnWindow, got)
	}
}

func TestModelTimelineView(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('g'))
	if m.view != viewTimeline {
		t.Fatalf("expected timeline view, got %v", m.view)
	}
	rendered := m.renderTimeline(lipgloss.Color("62"), lipgloss.Color("241"), lipgloss.Color("239"))
	if !strings.Contains(rendered, "Mar 2026") {
		t.Fatalf("expected month header in timeline view, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "#102 Beta work") {
		t.Fatalf("expected scheduled issue row, got:\n%s", rendered)
	}

	m = applyMsg(t, m, keyRune('g'))
	if m.view != viewBoard {
		t.Fatalf("expected board view after toggle, got %v", m.view)
	}
}

func TestModelDetailCommentsCached(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	svc.comments[2] = []domain.Comment{{ID: 9, Body: "looks good", Author: domain.User{Name: "Ada"}}}
	m := loadReadyModel(t, NewModel(svc))

	// Move the cursor onto Beta in the in-progress column.
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeIssueDetail {
		t.Fatalf("expected detail mode, got %v", m.mode)
	}
	if svc.commentsCalls != 1 {
		t.Fatalf("expected one comment fetch, got %d", svc.commentsCalls)
	}
	rendered := stripEscapes(m.renderIssueDetail(lipgloss.Color("62"), lipgloss.Color("241"), lipgloss.Color("239")))
	if !strings.Contains(rendered, "looks good") {
		t.Fatalf("expected comment body in detail overlay, got:\n%s", rendered)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if svc.commentsCalls != 1 {
		t.Fatalf("expected cached comments on reopen, got %d fetches", svc.commentsCalls)
	}
}

func TestModelCreateIssueForm(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeIssueForm {
		t.Fatalf("expected issue form mode, got %v", m.mode)
	}
	for _, r := range "Ship it" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if svc.lastCreate.Title != "Ship it" {
		t.Fatalf("expected created title %q, got %q", "Ship it", svc.lastCreate.Title)
	}
	if svc.lastCreate.ColumnID != "open" {
		t.Fatalf("expected creation in the selected column, got %q", svc.lastCreate.ColumnID)
	}
	if m.mode != modeNone {
		t.Fatalf("expected form closed after submit, got %v", m.mode)
	}
}

func TestModelCreateFormRejectsEmptyTitle(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeIssueForm {
		t.Fatal("expected form kept open on empty title")
	}
	if m.formError == "" {
		t.Fatal("expected a form error for the empty title")
	}
	if svc.lastCreate.Title != "" {
		t.Fatalf("expected no creation, got %q", svc.lastCreate.Title)
	}
}

func TestModelEditIssueForm(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('e'))
	if m.mode != modeIssueForm || m.editingIssueID != 1 {
		t.Fatalf("expected edit form for issue 1, got mode=%v id=%d", m.mode, m.editingIssueID)
	}
	if got := m.formInputs[formFieldTitle].Value(); got != "Alpha task" {
		t.Fatalf("expected prefilled title, got %q", got)
	}
	m = applyMsg(t, m, keyRune('!'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if svc.lastUpdateID != 1 {
		t.Fatalf("expected update of issue 1, got %d", svc.lastUpdateID)
	}
	if svc.lastUpdate.Title == nil || *svc.lastUpdate.Title != "Alpha task!" {
		t.Fatalf("expected updated title, got %v", svc.lastUpdate.Title)
	}
}

func TestModelEditKeepsStatusLabel(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	// Issue #102 sits in in-progress; saving an unchanged edit must not
	// strip the status label that keeps it there.
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('e'))
	if m.editingIssueID != 2 {
		t.Fatalf("expected edit form for issue 2, got id=%d", m.editingIssueID)
	}
	if got := m.formInputs[formFieldLabels].Value(); strings.Contains(got, "en cours") {
		t.Fatalf("expected status label hidden from form, got %q", got)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if svc.lastUpdateID != 2 {
		t.Fatalf("expected update of issue 2, got %d", svc.lastUpdateID)
	}
	labels := svc.lastUpdate.Labels
	if !slices.Contains(labels, "🏄 3 - En cours") || !slices.Contains(labels, "ux") {
		t.Fatalf("expected status label preserved, got %v", labels)
	}
	columns := testColumns(t)
	if got := columns.Classify(labels, domain.StateOpened); got != "in-progress" {
		t.Fatalf("expected labels to still classify in-progress, got %q", got)
	}
}

func TestModelDeleteConfirm(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('d'))
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if svc.lastDeleteID != 0 {
		t.Fatalf("expected cancel to skip deletion, got %d", svc.lastDeleteID)
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	if svc.lastDeleteID != 1 {
		t.Fatalf("expected deletion of issue 1, got %d", svc.lastDeleteID)
	}
	if got := m.board[0].Total; got != 0 {
		t.Fatalf("expected open column emptied after delete, got %d", got)
	}
}

func TestModelNotification(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, Notify(app.Notification{Level: app.NotificationError, Message: "failed to move issue"}))
	rendered := m.renderNotice()
	if !strings.Contains(rendered, "failed to move issue") {
		t.Fatalf("expected notification in status area, got:\n%s", rendered)
	}
	if v := m.View(); v.Content == nil {
		t.Fatal("expected a renderable view")
	}
}

func TestModelLanguageToggle(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	saved := ""
	m := loadReadyModel(t, NewModel(svc, WithLanguageSaver(func(code string) error {
		saved = code
		return nil
	})))

	m = applyMsg(t, m, keyRune('L'))
	if m.lang != i18n.French {
		t.Fatalf("expected french after toggle, got %q", m.lang)
	}
	if saved != "fr" {
		t.Fatalf("expected persisted language fr, got %q", saved)
	}
}

func TestModelPendingMarkerOnCard(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	svc.pending[1] = true
	m := loadReadyModel(t, NewModel(svc))

	meta := m.cardMeta(m.board[0].Issues[0])
	if !strings.Contains(meta, "…") {
		t.Fatalf("expected pending marker in card meta, got %q", meta)
	}
}

func TestModelQuitKey(t *testing.T) {
	svc := newFakeBoardService(boardIssues())
	m := loadReadyModel(t, NewModel(svc))
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected quit message")
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// stripEscapes drops ANSI escape sequences so assertions see plain text.
func stripEscapes(s string) string {
	return escapePattern.ReplaceAllString(s, "")
}

var escapePattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
