// Package app coordinates the board's mutations against the remote tracker:
// it owns the in-memory issue snapshot, applies optimistic updates, rolls
// back on remote failure, and emits outcome notifications.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// IDGenerator returns unique identifiers for notifications.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	ProjectID int
	IDGen     IDGenerator
	Clock     Clock
}

// Service represents service data used by this package.
type Service struct {
	tracker   Tracker
	notifier  Notifier
	columns   domain.ColumnSet
	projectID int
	idGen     IDGenerator
	clock     Clock
	pending   *PendingSet

	mu      sync.RWMutex
	project domain.Project
	issues  []domain.Issue
	loaded  bool
}

// NewService constructs a new value for this package.
func NewService(tracker Tracker, notifier Notifier, columns domain.ColumnSet, cfg ServiceConfig) *Service {
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = func() string { return "" }
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		tracker:   tracker,
		notifier:  notifier,
		columns:   columns,
		projectID: cfg.ProjectID,
		idGen:     idGen,
		clock:     clock,
		pending:   NewPendingSet(),
	}
}

// Columns returns the column configuration the service classifies against.
func (s *Service) Columns() domain.ColumnSet { return s.columns }

// ProjectID returns the tracked project's id.
func (s *Service) ProjectID() int { return s.projectID }

// Load fetches the project and its full issue list from the tracker and
// replaces the in-memory snapshot.
func (s *Service) Load(ctx context.Context) error {
	project, err := s.tracker.GetProject(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("load project %d: %w", s.projectID, err)
	}
	issues, err := s.tracker.ListIssues(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("load issues for project %d: %w", s.projectID, err)
	}

	s.mu.Lock()
	s.project = project
	s.issues = issues
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Project returns the loaded project.
func (s *Service) Project() domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

// Issues returns a copy of the issue snapshot.
func (s *Service) Issues() []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

// Loaded reports whether an issue snapshot has been fetched.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// IsPending reports whether an issue has an in-flight mutation.
func (s *Service) IsPending(issueID int) bool { return s.pending.Contains(issueID) }

// Board projects the current snapshot onto the configured columns.
func (s *Service) Board(filters domain.Filters, windows map[string]int) []domain.BoardColumn {
	return s.columns.BuildBoard(s.Issues(), filters, windows)
}

// Timeline projects the current snapshot onto the day grid.
func (s *Service) Timeline(filters domain.Filters) domain.Timeline {
	return s.columns.BuildTimeline(s.Issues(), filters, s.clock())
}

// MoveIssue moves an issue to the column resolved from a drop target: the
// column id when it names a configured column, otherwise the column the
// target issue classifies into. An unresolvable target, or a move into the
// issue's current column, is a no-op. The move is applied optimistically and
// rolled back if the tracker rejects it.
func (s *Service) MoveIssue(ctx context.Context, issueID int, overColumnID string, overIssueID int) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return fmt.Errorf("move issue %d: %w", issueID, ErrNotLoaded)
	}
	idx := s.indexLocked(issueID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("move issue %d: %w", issueID, ErrNotFound)
	}
	issue := s.issues[idx]

	targetID := s.resolveDropTargetLocked(overColumnID, overIssueID)
	if targetID == "" || targetID == s.columns.ClassifyIssue(issue) {
		s.mu.Unlock()
		return nil
	}

	labels, err := s.columns.Reconcile(issue.Labels, targetID)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("move issue %d: %w", issueID, err)
	}

	original := issue
	s.issues[idx] = issue.WithLabels(labels)
	s.pending.Add(issueID)
	s.mu.Unlock()

	remote, err := s.tracker.UpdateIssue(ctx, s.projectID, issue.IID, IssueChanges{Labels: labels})
	s.pending.Remove(issueID)
	if err != nil {
		s.replaceIssue(original)
		s.notify(NotificationError, fmt.Sprintf("Failed to move #%d: %v", issue.IID, err))
		return fmt.Errorf("move issue %d: %w", issueID, err)
	}

	s.replaceIssue(mergeRemote(original, remote))
	target, _ := s.columns.ByID(targetID)
	s.notify(NotificationSuccess, fmt.Sprintf("#%d moved to %s", issue.IID, target.Name))
	return nil
}

// CreateIssue creates an issue on the tracker, landing it in the requested
// column by appending that column's canonical label.
func (s *Service) CreateIssue(ctx context.Context, in CreateIssueInput) (domain.Issue, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Issue{}, ErrEmptyTitle
	}
	if in.ColumnID != "" {
		labels, err := s.columns.Reconcile(in.Labels, in.ColumnID)
		if err != nil {
			return domain.Issue{}, fmt.Errorf("create issue: %w", err)
		}
		in.Labels = labels
	}

	issue, err := s.tracker.CreateIssue(ctx, s.projectID, in)
	if err != nil {
		s.notify(NotificationError, fmt.Sprintf("Failed to create %q: %v", in.Title, err))
		return domain.Issue{}, fmt.Errorf("create issue: %w", err)
	}

	s.mu.Lock()
	s.issues = append([]domain.Issue{issue}, s.issues...)
	s.mu.Unlock()

	s.notify(NotificationSuccess, fmt.Sprintf("#%d created", issue.IID))
	return issue, nil
}

// UpdateIssue applies a partial update to an issue on the tracker and
// refreshes the local copy.
func (s *Service) UpdateIssue(ctx context.Context, issueID int, changes IssueChanges) (domain.Issue, error) {
	if !s.Loaded() {
		return domain.Issue{}, fmt.Errorf("update issue %d: %w", issueID, ErrNotLoaded)
	}
	issue, ok := s.issueByID(issueID)
	if !ok {
		return domain.Issue{}, fmt.Errorf("update issue %d: %w", issueID, ErrNotFound)
	}

	remote, err := s.tracker.UpdateIssue(ctx, s.projectID, issue.IID, changes)
	if err != nil {
		s.notify(NotificationError, fmt.Sprintf("Failed to update #%d: %v", issue.IID, err))
		return domain.Issue{}, fmt.Errorf("update issue %d: %w", issueID, err)
	}
	if remote.ID == 0 {
		// A side-channel-only change returns no issue payload.
		remote = issue
	}

	merged := mergeRemote(issue, remote)
	if changes.StartDate != nil {
		merged.StartDate = changes.StartDate
	}
	if changes.ClearStartDate {
		merged.StartDate = nil
	}
	s.replaceIssue(merged)
	s.notify(NotificationSuccess, fmt.Sprintf("#%d updated", issue.IID))
	return merged, nil
}

// DeleteIssue deletes an issue on the tracker and drops it from the
// snapshot.
func (s *Service) DeleteIssue(ctx context.Context, issueID int) error {
	if !s.Loaded() {
		return fmt.Errorf("delete issue %d: %w", issueID, ErrNotLoaded)
	}
	issue, ok := s.issueByID(issueID)
	if !ok {
		return fmt.Errorf("delete issue %d: %w", issueID, ErrNotFound)
	}

	if err := s.tracker.DeleteIssue(ctx, s.projectID, issue.IID); err != nil {
		s.notify(NotificationError, fmt.Sprintf("Failed to delete #%d: %v", issue.IID, err))
		return fmt.Errorf("delete issue %d: %w", issueID, err)
	}

	s.mu.Lock()
	if idx := s.indexLocked(issueID); idx >= 0 {
		s.issues = append(s.issues[:idx], s.issues[idx+1:]...)
	}
	s.mu.Unlock()

	s.notify(NotificationSuccess, fmt.Sprintf("#%d deleted", issue.IID))
	return nil
}

// Comments fetches an issue's discussion, hiding tracker-generated system
// notes.
func (s *Service) Comments(ctx context.Context, issueID int) ([]domain.Comment, error) {
	issue, ok := s.issueByID(issueID)
	if !ok {
		return nil, fmt.Errorf("comments for issue %d: %w", issueID, ErrNotFound)
	}
	comments, err := s.tracker.ListComments(ctx, s.projectID, issue.IID)
	if err != nil {
		return nil, fmt.Errorf("comments for issue %d: %w", issueID, err)
	}
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.System {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// LabelCatalogue returns the distinct non-status labels across the snapshot,
// sorted, for the filter menus.
func (s *Service) LabelCatalogue() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, issue := range s.Issues() {
		for _, label := range s.columns.DisplayLabels(issue.Labels) {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// AssigneeCatalogue returns the distinct assignees across the snapshot,
// sorted by name.
func (s *Service) AssigneeCatalogue() []domain.User {
	seen := map[int]struct{}{}
	var out []domain.User
	for _, issue := range s.Issues() {
		for _, user := range issue.Assignees {
			if _, ok := seen[user.ID]; ok {
				continue
			}
			seen[user.ID] = struct{}{}
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProjectLabels fetches the project's label definitions for the issue forms.
func (s *Service) ProjectLabels(ctx context.Context) ([]domain.Label, error) {
	return s.tracker.ListLabels(ctx, s.projectID)
}

// ProjectMembers fetches the project's members for the issue forms.
func (s *Service) ProjectMembers(ctx context.Context) ([]domain.User, error) {
	return s.tracker.ListMembers(ctx, s.projectID)
}

// resolveDropTargetLocked maps a drop target to a column id, or "" when the
// target resolves to nothing. Callers hold s.mu.
func (s *Service) resolveDropTargetLocked(overColumnID string, overIssueID int) string {
	if overColumnID != "" {
		if _, ok := s.columns.ByID(overColumnID); ok {
			return overColumnID
		}
	}
	if overIssueID != 0 {
		for _, other := range s.issues {
			if other.ID == overIssueID {
				return s.columns.ClassifyIssue(other)
			}
		}
	}
	return ""
}

func (s *Service) indexLocked(issueID int) int {
	for i, issue := range s.issues {
		if issue.ID == issueID {
			return i
		}
	}
	return -1
}

func (s *Service) issueByID(issueID int) (domain.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(issueID); idx >= 0 {
		return s.issues[idx], true
	}
	return domain.Issue{}, false
}

func (s *Service) replaceIssue(issue domain.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(issue.ID); idx >= 0 {
		s.issues[idx] = issue
	}
}

func (s *Service) notify(level NotificationLevel, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(Notification{
		ID:      s.idGen(),
		Level:   level,
		Message: message,
		Time:    s.clock(),
	})
}

// mergeRemote folds a tracker response into the local issue. The start date
// lives in a comment side channel the single-issue endpoints never return, so
// a nil remote start date keeps the local one.
func mergeRemote(local, remote domain.Issue) domain.Issue {
	if remote.StartDate == nil {
		remote.StartDate = local.StartDate
	}
	return remote
}
