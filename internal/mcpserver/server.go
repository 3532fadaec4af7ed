// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes goalpost tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/goalpost/internal/goalservice"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/seed"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/validate"
)

const guideURI = "goalpost://smart-guide"

// Actor is recorded on changes made through MCP tools.
const Actor = "mcp"

// Server wraps the MCP server with goalpost tools.
type Server struct {
	mcp *server.MCPServer
	svc *goalservice.Service
}

// New creates a new MCP server with all goalpost tools registered.
func New(svc *goalservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Goalpost",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_goals",
		mcp.WithDescription("List live goals, newest first."),
		mcp.WithString("status", mcp.Description("Optional goal status filter (draft, active, on_hold, overdue, completed, cancelled)")),
		mcp.WithString("search", mcp.Description("Optional text matched against title, description and tags")),
		mcp.WithNumber("limit", mcp.Description("Maximum goals to return (default 20, max 100)")),
	), s.listGoals)

	s.mcp.AddTool(mcp.NewTool("get_goal",
		mcp.WithDescription("Read a goal with its tasks, checkpoints, readiness and analytics."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal ID")),
	), s.getGoal)

	s.mcp.AddTool(mcp.NewTool("goal_analytics",
		mcp.WithDescription("Metric analytics for a goal: progress, velocity, trend and status classification."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal ID")),
		mcp.WithString("from", mcp.Description("Optional RFC3339 start of the checkpoint window")),
		mcp.WithString("to", mcp.Description("Optional RFC3339 end of the checkpoint window")),
	), s.goalAnalytics)

	s.mcp.AddTool(mcp.NewTool("goal_readiness",
		mcp.WithDescription("Definition of Ready / Definition of Done scores and rule violations for a goal."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal ID")),
	), s.goalReadiness)

	s.mcp.AddTool(mcp.NewTool("task_progress",
		mcp.WithDescription("Read a task with its computed progress and warnings."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
	), s.taskProgress)

	s.mcp.AddTool(mcp.NewTool("check_transition",
		mcp.WithDescription("List the statuses an entity may move to and whether a move needs confirmation."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("task or goal")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Current status")),
		mcp.WithString("to", mcp.Description("Optional target status")),
	), s.checkTransition)

	s.mcp.AddTool(mcp.NewTool("validate_gherkin",
		mcp.WithDescription("Validate Given/When/Then acceptance criteria."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Gherkin text, one step per line")),
	), s.validateGherkin)

	s.mcp.AddTool(mcp.NewTool("import_goal",
		mcp.WithDescription("Create or replace a goal from a fixture document. "+
			"Content MUST follow the goal fixture format (YAML frontmatter with id, title, "+
			"measurable and timebound, Markdown description). Read the guide first via "+
			"the get_smart_guide tool or the "+guideURI+" resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Goal fixture document")),
	), s.importGoal)

	s.mcp.AddTool(mcp.NewTool("get_smart_guide",
		mcp.WithDescription("Returns the SMART goal guide: lifecycle rules and the fixture format. "+
			"Call this before importing goals."),
	), s.getSmartGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "SMART Goal Guide",
			mcp.WithResourceDescription("Goal lifecycle rules and the fixture format used by import_goal."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := store.GoalQuery{Limit: int(req.GetFloat("limit", 20))}
	if st, err := req.RequireString("status"); err == nil && st != "" {
		q.Statuses = []models.GoalStatus{models.GoalStatus(st)}
	}
	if search, err := req.RequireString("search"); err == nil {
		q.Search = search
	}
	page, err := s.svc.ListGoals(ctx, q.WithDefaults())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type row struct {
		ID         string            `json:"id"`
		Title      string            `json:"title"`
		Status     models.GoalStatus `json:"status"`
		Priority   models.Priority   `json:"priority"`
		TargetDate time.Time         `json:"targetDate"`
	}
	rows := make([]row, 0, len(page.Items))
	for _, g := range page.Items {
		rows = append(rows, row{ID: g.ID, Title: g.Title, Status: g.Status, Priority: g.Priority, TargetDate: g.Timebound.TargetDate})
	}
	return jsonResult(map[string]any{"total": page.Total, "goals": rows})
}

func (s *Server) getGoal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetGoal(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) goalAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var from, to time.Time
	if v, err := req.RequireString("from"); err == nil && v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("from: %v", err)), nil
		}
	}
	if v, err := req.RequireString("to"); err == nil && v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("to: %v", err)), nil
		}
	}
	snap, err := s.svc.Analytics(ctx, id, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap)
}

func (s *Server) goalReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Readiness(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (s *Server) taskProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.GetTask(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) checkTransition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to := ""
	if v, err := req.RequireString("to"); err == nil {
		to = v
	}
	c, err := status.Evaluate(kind, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) validateGherkin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	errs := validate.ValidateGherkin(content)
	if errs == nil {
		errs = []string{}
	}
	return jsonResult(map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
		"steps":  validate.ParseGherkinContent(content),
	})
}

func (s *Server) importGoal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := seed.Parse([]byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	created, err := s.svc.ImportGoal(ctx, Actor, *g)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if created {
		return mcp.NewToolResultText(fmt.Sprintf("created: %s", g.ID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", g.ID)), nil
}

func (s *Server) getSmartGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SmartGuide), nil
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     SmartGuide,
		},
	}, nil
}
