// Package gitlab implements the tracker port against the GitLab REST v4 API.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// perPage is the page size requested from list endpoints.
const perPage = 100

// StatusError reports a non-2xx API response.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("gitlab api error: %s", e.Status)
}

// Config holds configuration for the client.
type Config struct {
	// BaseURL is the GitLab instance root, with or without the /api/v4
	// suffix.
	BaseURL string
	// Token is the personal access token sent as PRIVATE-TOKEN.
	Token string
	// HTTPClient overrides the default client; nil uses a 30s-timeout
	// default.
	HTTPClient *http.Client
}

// Client is the GitLab REST client implementing the tracker port.
type Client struct {
	apiURL string
	token  string
	http   *http.Client
}

var _ app.Tracker = (*Client)(nil)

// New constructs a new client for a GitLab instance.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gitlab: empty base url")
	}
	if !strings.HasSuffix(base, "/api/v4") {
		base += "/api/v4"
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("gitlab: invalid base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{apiURL: base, token: cfg.Token, http: httpClient}, nil
}

// do performs one API call. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gitlab: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("gitlab: %s %s: %w", method, path, err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gitlab: decode %s %s: %w", method, path, err)
	}
	return nil
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, projectID int) (domain.Project, error) {
	var payload projectPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", projectID), nil, nil, &payload); err != nil {
		return domain.Project{}, err
	}
	return payload.toDomain(), nil
}

// ListIssues fetches the project's issues in every state and enriches them
// with start dates read from the comment side channel. An issue whose notes
// cannot be fetched keeps a nil start date rather than failing the list.
func (c *Client) ListIssues(ctx context.Context, projectID int) ([]domain.Issue, error) {
	query := url.Values{}
	query.Set("state", "all")
	query.Set("per_page", fmt.Sprint(perPage))

	var payloads []issuePayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/issues", projectID), query, nil, &payloads); err != nil {
		return nil, err
	}

	issues := make([]domain.Issue, 0, len(payloads))
	for _, payload := range payloads {
		issue := payload.toDomain()
		if payload.UserNotesCount > 0 {
			notes, err := c.listNotes(ctx, projectID, issue.IID)
			if err != nil {
				log.Warn("start date lookup failed", "project_id", projectID, "issue_iid", issue.IID, "err", err)
			} else if _, d, ok := findStartDateNote(notes); ok {
				issue.StartDate = &d
			}
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// CreateIssue creates an issue. The start date is written as a marker comment
// after creation; a comment failure leaves the issue without a start date but
// does not fail the create.
func (c *Client) CreateIssue(ctx context.Context, projectID int, in app.CreateIssueInput) (domain.Issue, error) {
	body := map[string]any{"title": in.Title}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if len(in.Labels) > 0 {
		body["labels"] = strings.Join(in.Labels, ",")
	}
	if len(in.AssigneeIDs) > 0 {
		body["assignee_ids"] = in.AssigneeIDs
	}
	if in.DueDate != nil {
		body["due_date"] = in.DueDate.String()
	}

	var payload issuePayload
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/issues", projectID), nil, body, &payload); err != nil {
		return domain.Issue{}, err
	}
	issue := payload.toDomain()

	if in.StartDate != nil {
		if err := c.writeStartDate(ctx, projectID, issue.IID, *in.StartDate); err != nil {
			log.Warn("start date comment failed", "project_id", projectID, "issue_iid", issue.IID, "err", err)
		} else {
			issue.StartDate = in.StartDate
		}
	}
	return issue, nil
}

// UpdateIssue applies a partial update. Start-date changes go through the
// comment side channel and are tolerated failing.
func (c *Client) UpdateIssue(ctx context.Context, projectID, issueIID int, changes app.IssueChanges) (domain.Issue, error) {
	body := map[string]any{}
	if changes.Title != nil {
		body["title"] = *changes.Title
	}
	if changes.Description != nil {
		body["description"] = *changes.Description
	}
	if changes.Labels != nil {
		body["labels"] = strings.Join(changes.Labels, ",")
	}
	if changes.AssigneeIDs != nil {
		body["assignee_ids"] = changes.AssigneeIDs
	}
	if changes.StateEvent != "" {
		body["state_event"] = changes.StateEvent
	}
	if changes.DueDate != nil {
		body["due_date"] = changes.DueDate.String()
	}
	if changes.ClearDueDate {
		body["due_date"] = ""
	}

	var payload issuePayload
	issue := domain.Issue{}
	if len(body) > 0 {
		if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d/issues/%d", projectID, issueIID), nil, body, &payload); err != nil {
			return domain.Issue{}, err
		}
		issue = payload.toDomain()
	}

	switch {
	case changes.StartDate != nil:
		if err := c.writeStartDate(ctx, projectID, issueIID, *changes.StartDate); err != nil {
			log.Warn("start date comment failed", "project_id", projectID, "issue_iid", issueIID, "err", err)
		} else {
			issue.StartDate = changes.StartDate
		}
	case changes.ClearStartDate:
		if err := c.removeStartDate(ctx, projectID, issueIID); err != nil {
			log.Warn("start date removal failed", "project_id", projectID, "issue_iid", issueIID, "err", err)
		}
	}
	return issue, nil
}

// DeleteIssue deletes an issue.
func (c *Client) DeleteIssue(ctx context.Context, projectID, issueIID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d/issues/%d", projectID, issueIID), nil, nil, nil)
}

// ListComments fetches an issue's notes in creation order.
func (c *Client) ListComments(ctx context.Context, projectID, issueIID int) ([]domain.Comment, error) {
	notes, err := c.listNotes(ctx, projectID, issueIID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Comment, 0, len(notes))
	for _, note := range notes {
		// The start-date marker is bookkeeping, not discussion.
		if _, ok := parseStartDateBody(note.Body); ok {
			continue
		}
		out = append(out, note.toDomain())
	}
	return out, nil
}

// ListLabels fetches the project's label definitions.
func (c *Client) ListLabels(ctx context.Context, projectID int) ([]domain.Label, error) {
	query := url.Values{}
	query.Set("per_page", fmt.Sprint(perPage))

	var payloads []labelPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/labels", projectID), query, nil, &payloads); err != nil {
		return nil, err
	}
	out := make([]domain.Label, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, payload.toDomain())
	}
	return out, nil
}

// ListMembers fetches the project's members, inherited ones included.
func (c *Client) ListMembers(ctx context.Context, projectID int) ([]domain.User, error) {
	query := url.Values{}
	query.Set("per_page", fmt.Sprint(perPage))

	var payloads []userPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/members/all", projectID), query, nil, &payloads); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, payload.toDomain())
	}
	return out, nil
}

func (c *Client) listNotes(ctx context.Context, projectID, issueIID int) ([]notePayload, error) {
	query := url.Values{}
	query.Set("per_page", fmt.Sprint(perPage))
	query.Set("sort", "asc")

	var notes []notePayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/issues/%d/notes", projectID, issueIID), query, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// writeStartDate creates the marker comment, or rewrites the existing one.
func (c *Client) writeStartDate(ctx context.Context, projectID, issueIID int, d domain.Date) error {
	notes, err := c.listNotes(ctx, projectID, issueIID)
	if err != nil {
		return err
	}
	body := map[string]any{"body": startDateMarker(d)}
	if noteID, _, ok := findStartDateNote(notes); ok {
		return c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d/issues/%d/notes/%d", projectID, issueIID, noteID), nil, body, nil)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/issues/%d/notes", projectID, issueIID), nil, body, nil)
}

// removeStartDate deletes the marker comment if present.
func (c *Client) removeStartDate(ctx context.Context, projectID, issueIID int) error {
	notes, err := c.listNotes(ctx, projectID, issueIID)
	if err != nil {
		return err
	}
	noteID, _, ok := findStartDateNote(notes)
	if !ok {
		return nil
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d/issues/%d/notes/%d", projectID, issueIID, noteID), nil, nil, nil)
}
