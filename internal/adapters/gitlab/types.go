package gitlab

import (
	"time"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// Wire payloads for the GitLab REST v4 resources the board touches.

type projectPayload struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	WebURL            string `json:"web_url"`
}

func (p projectPayload) toDomain() domain.Project {
	return domain.Project{
		ID:                p.ID,
		Name:              p.Name,
		PathWithNamespace: p.PathWithNamespace,
		Description:       p.Description,
		WebURL:            p.WebURL,
	}
}

type userPayload struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (u userPayload) toDomain() domain.User {
	return domain.User{ID: u.ID, Name: u.Name, Username: u.Username, AvatarURL: u.AvatarURL}
}

type issuePayload struct {
	ID             int           `json:"id"`
	IID            int           `json:"iid"`
	ProjectID      int           `json:"project_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	State          string        `json:"state"`
	Labels         []string      `json:"labels"`
	Assignees      []userPayload `json:"assignees"`
	Author         userPayload   `json:"author"`
	CreatedAt      time.Time     `json:"created_at"`
	DueDate        *string       `json:"due_date"`
	UserNotesCount int           `json:"user_notes_count"`
	WebURL         string        `json:"web_url"`
}

func (p issuePayload) toDomain() domain.Issue {
	issue := domain.Issue{
		ID:           p.ID,
		IID:          p.IID,
		ProjectID:    p.ProjectID,
		Title:        p.Title,
		Description:  p.Description,
		State:        domain.IssueState(p.State),
		Labels:       p.Labels,
		Author:       p.Author.toDomain(),
		CreatedAt:    p.CreatedAt,
		CommentCount: p.UserNotesCount,
		WebURL:       p.WebURL,
	}
	for _, u := range p.Assignees {
		issue.Assignees = append(issue.Assignees, u.toDomain())
	}
	if p.DueDate != nil && *p.DueDate != "" {
		if due, err := domain.ParseDate(*p.DueDate); err == nil {
			issue.DueDate = &due
		}
	}
	return issue
}

type notePayload struct {
	ID        int         `json:"id"`
	Body      string      `json:"body"`
	Author    userPayload `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
	System    bool        `json:"system"`
}

func (n notePayload) toDomain() domain.Comment {
	return domain.Comment{
		ID:        n.ID,
		Body:      n.Body,
		Author:    n.Author.toDomain(),
		CreatedAt: n.CreatedAt,
		System:    n.System,
	}
}

type labelPayload struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

func (l labelPayload) toDomain() domain.Label {
	return domain.Label{Name: l.Name, Color: l.Color, TextColor: l.TextColor}
}
