package domain

import "time"

// IssueState is the remote tracker's open/closed state.
type IssueState string

// Issue states as GitLab reports them.
const (
	StateOpened IssueState = "opened"
	StateClosed IssueState = "closed"
)

// User identifies a tracker account.
type User struct {
	ID        int
	Name      string
	Username  string
	AvatarURL string
}

// Issue is the board's projection of a remote tracker issue. ID is the
// globally unique identity used for equality; IID is the human-facing number,
// unique only within one project. Board status is never stored: it is
// reconstructed from Labels and State on every classification.
type Issue struct {
	ID           int
	IID          int
	ProjectID    int
	Title        string
	Description  string
	State        IssueState
	Labels       []string
	Assignees    []User
	Author       User
	CreatedAt    time.Time
	StartDate    *Date
	DueDate      *Date
	CommentCount int
	WebURL       string
}

// WithLabels returns a copy of the issue carrying a fresh label slice. Board
// state is only ever updated by whole-value replacement, never in place.
func (i Issue) WithLabels(labels []string) Issue {
	out := i
	out.Labels = append([]string(nil), labels...)
	return out
}

// HasSchedule reports whether the issue carries both dates the timeline
// needs.
func (i Issue) HasSchedule() bool {
	return i.StartDate != nil && i.DueDate != nil
}

// Comment is a note attached to an issue. System notes are tracker-generated
// (label changes, milestone events) and are hidden from the comment view.
type Comment struct {
	ID        int
	Body      string
	Author    User
	CreatedAt time.Time
	System    bool
}
