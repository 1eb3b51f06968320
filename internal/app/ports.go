package app

import (
	"context"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// Tracker represents the remote issue tracker the board mirrors. The GitLab
// adapter is the production implementation.
type Tracker interface {
	GetProject(context.Context, int) (domain.Project, error)
	ListIssues(context.Context, int) ([]domain.Issue, error)
	CreateIssue(context.Context, int, CreateIssueInput) (domain.Issue, error)
	UpdateIssue(context.Context, int, int, IssueChanges) (domain.Issue, error)
	DeleteIssue(context.Context, int, int) error
	ListComments(context.Context, int, int) ([]domain.Comment, error)
	ListLabels(context.Context, int) ([]domain.Label, error)
	ListMembers(context.Context, int) ([]domain.User, error)
}

// Notifier receives the outcome notifications mutations emit.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// CreateIssueInput holds input values for create issue operations. ColumnID
// selects the board column the new issue lands in; its canonical label is
// appended to Labels.
type CreateIssueInput struct {
	Title       string
	Description string
	ColumnID    string
	Labels      []string
	AssigneeIDs []int
	StartDate   *domain.Date
	DueDate     *domain.Date
}

// IssueChanges describes a partial issue update. Nil pointer and nil slice
// fields leave the corresponding remote field untouched.
type IssueChanges struct {
	Title       *string
	Description *string
	// Labels replaces the full label set when non-nil.
	Labels      []string
	AssigneeIDs []int
	// StateEvent is "", "close", or "reopen".
	StateEvent string
	StartDate  *domain.Date
	DueDate    *domain.Date
	// ClearStartDate and ClearDueDate remove the dates; the pointers above
	// cannot distinguish "unchanged" from "unset".
	ClearStartDate bool
	ClearDueDate   bool
}
