package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL, Token: "glpat-test", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewNormalizesBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://gitlab.example.com", "https://gitlab.example.com/api/v4"},
		{"https://gitlab.example.com/", "https://gitlab.example.com/api/v4"},
		{"https://gitlab.example.com/api/v4", "https://gitlab.example.com/api/v4"},
		{"https://gitlab.example.com/api/v4/", "https://gitlab.example.com/api/v4"},
	}
	for _, tc := range cases {
		client, err := New(Config{BaseURL: tc.in, Token: "x"})
		if err != nil {
			t.Fatalf("New(%q) error = %v", tc.in, err)
		}
		if client.apiURL != tc.want {
			t.Fatalf("New(%q) apiURL = %q, want %q", tc.in, client.apiURL, tc.want)
		}
	}

	if _, err := New(Config{BaseURL: "  "}); err == nil {
		t.Fatal("New() accepted an empty base url")
	}
}

func TestGetProjectSendsToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/42" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("PRIVATE-TOKEN"); got != "glpat-test" {
			t.Fatalf("PRIVATE-TOKEN = %q", got)
		}
		json.NewEncoder(w).Encode(projectPayload{ID: 42, Name: "board", PathWithNamespace: "team/board"})
	}))

	project, err := client.GetProject(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if project.ID != 42 || project.PathWithNamespace != "team/board" {
		t.Fatalf("GetProject() = %+v", project)
	}
}

func TestStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "message", http.StatusNotFound)
	}))

	_, err := client.GetProject(context.Background(), 42)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestListIssuesEnrichesStartDates(t *testing.T) {
	due := "2024-03-20"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v4/projects/42/issues":
			if got := r.URL.Query().Get("state"); got != "all" {
				t.Fatalf("state = %q", got)
			}
			json.NewEncoder(w).Encode([]issuePayload{
				{ID: 1, IID: 1, Title: "with start", State: "opened", UserNotesCount: 2, DueDate: &due},
				{ID: 2, IID: 2, Title: "no notes", State: "opened"},
				{ID: 3, IID: 3, Title: "notes fail", State: "opened", UserNotesCount: 1},
			})
		case "/api/v4/projects/42/issues/1/notes":
			json.NewEncoder(w).Encode([]notePayload{
				{ID: 10, Body: "plain comment"},
				{ID: 11, Body: "**Start Date:** 2024-03-05"},
			})
		case "/api/v4/projects/42/issues/3/notes":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))

	issues, err := client.ListIssues(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListIssues() error = %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("got %d issues", len(issues))
	}
	if issues[0].StartDate == nil || issues[0].StartDate.String() != "2024-03-05" {
		t.Fatalf("issue 1 start date = %v", issues[0].StartDate)
	}
	if issues[0].DueDate == nil || issues[0].DueDate.String() != "2024-03-20" {
		t.Fatalf("issue 1 due date = %v", issues[0].DueDate)
	}
	// A failing notes fetch degrades to a missing start date.
	if issues[2].StartDate != nil {
		t.Fatalf("issue 3 start date = %v, want nil", issues[2].StartDate)
	}
}

func TestCreateIssuePostsStartDateComment(t *testing.T) {
	start := domain.NewDate(2024, 3, 5)
	var createBody map[string]any
	var noteBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/projects/42/issues":
			json.NewDecoder(r.Body).Decode(&createBody)
			json.NewEncoder(w).Encode(issuePayload{ID: 100, IID: 7, Title: "new", State: "opened"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/projects/42/issues/7/notes":
			json.NewEncoder(w).Encode([]notePayload{})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/projects/42/issues/7/notes":
			json.NewDecoder(r.Body).Decode(&noteBody)
			json.NewEncoder(w).Encode(notePayload{ID: 1})
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))

	issue, err := client.CreateIssue(context.Background(), 42, app.CreateIssueInput{
		Title:     "new",
		Labels:    []string{"bug", "🏄 3 - En cours"},
		StartDate: &start,
	})
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if createBody["labels"] != "bug,🏄 3 - En cours" {
		t.Fatalf("labels sent as %v", createBody["labels"])
	}
	if noteBody["body"] != "**Start Date:** 2024-03-05" {
		t.Fatalf("note body = %v", noteBody["body"])
	}
	if issue.StartDate == nil || *issue.StartDate != start {
		t.Fatalf("issue start date = %v", issue.StartDate)
	}
}

func TestUpdateIssueRewritesExistingStartDateNote(t *testing.T) {
	start := domain.NewDate(2024, 4, 1)
	var putPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v4/projects/42/issues/7":
			json.NewEncoder(w).Encode(issuePayload{ID: 100, IID: 7, State: "opened", Labels: []string{"bug"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/projects/42/issues/7/notes":
			json.NewEncoder(w).Encode([]notePayload{{ID: 11, Body: "**Start Date:** 2024-03-05"}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v4/projects/42/issues/7/notes/11":
			putPath = r.URL.Path
			json.NewEncoder(w).Encode(notePayload{ID: 11})
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))

	title := "renamed"
	issue, err := client.UpdateIssue(context.Background(), 42, 7, app.IssueChanges{
		Title:     &title,
		StartDate: &start,
	})
	if err != nil {
		t.Fatalf("UpdateIssue() error = %v", err)
	}
	if putPath == "" {
		t.Fatal("existing marker note was not rewritten")
	}
	if issue.StartDate == nil || *issue.StartDate != start {
		t.Fatalf("issue start date = %v", issue.StartDate)
	}
}

func TestListCommentsHidesMarkerNote(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]notePayload{
			{ID: 1, Body: "**Start Date:** 2024-03-05"},
			{ID: 2, Body: "real comment"},
			{ID: 3, Body: "changed milestone", System: true},
		})
	}))

	comments, err := client.ListComments(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want marker hidden", len(comments))
	}
	if comments[0].ID != 2 || !comments[1].System {
		t.Fatalf("comments = %+v", comments)
	}
}

func TestDeleteIssue(t *testing.T) {
	var method, path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteIssue(context.Background(), 42, 7); err != nil {
		t.Fatalf("DeleteIssue() error = %v", err)
	}
	if method != http.MethodDelete || path != "/api/v4/projects/42/issues/7" {
		t.Fatalf("sent %s %s", method, path)
	}
}
