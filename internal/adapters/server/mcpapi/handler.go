// Package mcpapi provides a stateless MCP streamable-HTTP adapter exposing
// the board to agent clients.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

// BoardService is the slice of the app service the MCP tools need.
type BoardService interface {
	Load(context.Context) error
	Board(domain.Filters, map[string]int) []domain.BoardColumn
	Timeline(domain.Filters) domain.Timeline
	MoveIssue(context.Context, int, string, int) error
	CreateIssue(context.Context, app.CreateIssueInput) (domain.Issue, error)
	DeleteIssue(context.Context, int) error
	Columns() domain.ColumnSet
}

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter over the board service.
func NewHandler(cfg Config, svc BoardService) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerBoardTools(mcpSrv, svc)
	registerTimelineTool(mcpSrv, svc)
	registerIssueTools(mcpSrv, svc)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "glab-board"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// Wire shapes for tool results.

type columnResult struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Emoji   string        `json:"emoji,omitempty"`
	Color   string        `json:"color,omitempty"`
	Total   int           `json:"total"`
	HasMore bool          `json:"has_more"`
	Issues  []issueResult `json:"issues"`
}

type issueResult struct {
	ID        int      `json:"id"`
	IID       int      `json:"iid"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	DueDate   string   `json:"due_date,omitempty"`
	WebURL    string   `json:"web_url,omitempty"`
}

type timelineEntryResult struct {
	Issue        issueResult `json:"issue"`
	StartDate    string      `json:"start_date"`
	DueDate      string      `json:"due_date"`
	DurationDays int         `json:"duration_days"`
	OffsetDays   int         `json:"offset_days"`
}

func issueToResult(issue domain.Issue, set domain.ColumnSet) issueResult {
	out := issueResult{
		ID:     issue.ID,
		IID:    issue.IID,
		Title:  issue.Title,
		State:  string(issue.State),
		Labels: set.DisplayLabels(issue.Labels),
		WebURL: issue.WebURL,
	}
	for _, a := range issue.Assignees {
		out.Assignees = append(out.Assignees, a.Name)
	}
	if issue.StartDate != nil {
		out.StartDate = issue.StartDate.String()
	}
	if issue.DueDate != nil {
		out.DueDate = issue.DueDate.String()
	}
	return out
}

// registerBoardTools registers the `board.get` and `board.move_issue` tools.
func registerBoardTools(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"board.get",
			mcp.WithDescription("Return the Kanban board: configured columns with the issues classifying into each."),
			mcp.WithString("search", mcp.Description("Match against issue title or #number")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels, any-of semantics")),
			mcp.WithString("assignee", mcp.Description("Assignee display name, or 'all'")),
			mcp.WithString("state", mcp.Description("Issue state filter"), mcp.Enum("all", "opened", "closed")),
			mcp.WithNumber("limit", mcp.Description("Max issues returned per column (default 100)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := svc.Load(ctx); err != nil {
				return toolResultFromError(err), nil
			}
			filters := domain.Filters{
				Search:   req.GetString("search", ""),
				Assignee: req.GetString("assignee", ""),
				State:    domain.StateFilter(req.GetString("state", "")),
			}
			if raw := strings.TrimSpace(req.GetString("labels", "")); raw != "" {
				for _, label := range strings.Split(raw, ",") {
					if label = strings.TrimSpace(label); label != "" {
						filters.Labels = append(filters.Labels, label)
					}
				}
			}
			limit := req.GetInt("limit", 100)
			windows := map[string]int{}
			set := svc.Columns()
			for _, def := range set.Columns() {
				windows[def.ID] = limit
			}

			columns := make([]columnResult, 0, set.Len())
			for _, col := range svc.Board(filters, windows) {
				out := columnResult{
					ID:      col.Definition.ID,
					Name:    col.Definition.Name,
					Emoji:   col.Definition.Emoji,
					Color:   col.Definition.Color,
					Total:   col.Total,
					HasMore: col.HasMore,
					Issues:  make([]issueResult, 0, len(col.Issues)),
				}
				for _, issue := range col.Issues {
					out.Issues = append(out.Issues, issueToResult(issue, set))
				}
				columns = append(columns, out)
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"columns": columns})
			if err != nil {
				return nil, fmt.Errorf("encode board.get result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"board.move_issue",
			mcp.WithDescription("Move an issue to another column by rewriting its status labels. Unresolvable targets are a no-op."),
			mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Global issue id")),
			mcp.WithString("column_id", mcp.Description("Target column id")),
			mcp.WithNumber("over_issue_id", mcp.Description("Issue whose column becomes the target when column_id is absent")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			issueID, err := req.RequireInt("issue_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := svc.Load(ctx); err != nil {
				return toolResultFromError(err), nil
			}
			err = svc.MoveIssue(ctx, issueID, req.GetString("column_id", ""), req.GetInt("over_issue_id", 0))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, encErr := mcp.NewToolResultJSON(map[string]any{"moved": true})
			if encErr != nil {
				return nil, fmt.Errorf("encode board.move_issue result: %w", encErr)
			}
			return result, nil
		},
	)
}

// registerTimelineTool registers the `timeline.get` tool.
func registerTimelineTool(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"timeline.get",
			mcp.WithDescription("Return the Gantt timeline of issues carrying both a start and a due date."),
			mcp.WithString("status", mcp.Description("Column id filter, or 'all'")),
			mcp.WithString("search", mcp.Description("Match against issue title or #number")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := svc.Load(ctx); err != nil {
				return toolResultFromError(err), nil
			}
			timeline := svc.Timeline(domain.Filters{
				Status: req.GetString("status", ""),
				Search: req.GetString("search", ""),
			})

			set := svc.Columns()
			entries := make([]timelineEntryResult, 0, len(timeline.Entries))
			for _, entry := range timeline.Entries {
				entries = append(entries, timelineEntryResult{
					Issue:        issueToResult(entry.Issue, set),
					StartDate:    entry.Start.String(),
					DueDate:      entry.Due.String(),
					DurationDays: entry.Duration,
					OffsetDays:   entry.Offset,
				})
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"bounds": map[string]string{
					"start": timeline.Bounds.Start.String(),
					"end":   timeline.Bounds.End.String(),
				},
				"days":    timeline.Days,
				"entries": entries,
			})
			if err != nil {
				return nil, fmt.Errorf("encode timeline.get result: %w", err)
			}
			return result, nil
		},
	)
}

// registerIssueTools registers the `issue.create` and `issue.delete` tools.
func registerIssueTools(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"issue.create",
			mcp.WithDescription("Create an issue landing in the given board column."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
			mcp.WithString("description", mcp.Description("Markdown body")),
			mcp.WithString("column_id", mcp.Description("Board column the issue lands in")),
			mcp.WithString("labels", mcp.Description("Comma-separated extra labels")),
			mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
			mcp.WithString("due_date", mcp.Description("YYYY-MM-DD")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in := app.CreateIssueInput{
				Title:       title,
				Description: req.GetString("description", ""),
				ColumnID:    req.GetString("column_id", ""),
			}
			if raw := strings.TrimSpace(req.GetString("labels", "")); raw != "" {
				for _, label := range strings.Split(raw, ",") {
					if label = strings.TrimSpace(label); label != "" {
						in.Labels = append(in.Labels, label)
					}
				}
			}
			if raw := req.GetString("start_date", ""); raw != "" {
				d, parseErr := domain.ParseDate(raw)
				if parseErr != nil {
					return mcp.NewToolResultError("invalid_request: " + parseErr.Error()), nil
				}
				in.StartDate = &d
			}
			if raw := req.GetString("due_date", ""); raw != "" {
				d, parseErr := domain.ParseDate(raw)
				if parseErr != nil {
					return mcp.NewToolResultError("invalid_request: " + parseErr.Error()), nil
				}
				in.DueDate = &d
			}

			if err := svc.Load(ctx); err != nil {
				return toolResultFromError(err), nil
			}
			issue, err := svc.CreateIssue(ctx, in)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, encErr := mcp.NewToolResultJSON(issueToResult(issue, svc.Columns()))
			if encErr != nil {
				return nil, fmt.Errorf("encode issue.create result: %w", encErr)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"issue.delete",
			mcp.WithDescription("Permanently delete an issue from the tracker."),
			mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Global issue id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			issueID, err := req.RequireInt("issue_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := svc.Load(ctx); err != nil {
				return toolResultFromError(err), nil
			}
			if err := svc.DeleteIssue(ctx, issueID); err != nil {
				return toolResultFromError(err), nil
			}
			result, encErr := mcp.NewToolResultJSON(map[string]any{"deleted": true})
			if encErr != nil {
				return nil, fmt.Errorf("encode issue.delete result: %w", encErr)
			}
			return result, nil
		},
	)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, app.ErrEmptyTitle),
		errors.Is(err, domain.ErrUnknownColumn),
		errors.Is(err, domain.ErrInvalidDate):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return mcp.NewToolResultError("timeout: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
