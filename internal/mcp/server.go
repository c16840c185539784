package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server exposing the training-progression read paths.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("VitalGym", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("VitalGym training server. Query the member's current training day, the day's exercise plan with normalized set targets, last recorded performance per exercise for progressive overload, and recent session history. All data is scoped to the authenticated member."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetCurrentDay, Handler: h.getCurrentDay},
		server.ServerTool{Tool: toolGetDayPlan, Handler: h.getDayPlan},
		server.ServerTool{Tool: toolGetLastPerformance, Handler: h.getLastPerformance},
		server.ServerTool{Tool: toolGetSessionHistory, Handler: h.getSessionHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Tool definitions ---

var toolGetCurrentDay = mcp.NewTool("get_current_day",
	mcp.WithDescription("The member's position in their routine's day cycle: current day, total days, all available day numbers, and the routine's name."),
)

var toolGetDayPlan = mcp.NewTool("get_day_plan",
	mcp.WithDescription("The exercise plan for one training day: exercises in display order with normalized planned-set targets, rest seconds, and coach notes."),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Training day number (see get_current_day for available days)")),
)

var toolGetLastPerformance = mcp.NewTool("get_last_performance",
	mcp.WithDescription("The member's most recent recorded result for one exercise assignment: per-set reps and weights plus notes. Used to suggest progressive-overload targets. found=false means no prior record."),
	mcp.WithNumber("assignment_id", mcp.Required(), mcp.Description("Exercise assignment ID (from get_day_plan)")),
)

var toolGetSessionHistory = mcp.NewTool("get_session_history",
	mcp.WithDescription("Recent completed workout sessions, newest first, with day number and exercise count."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

// --- Tool handlers ---

func (h *handlers) getCurrentDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	info, err := h.ds.CurrentDay(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_current_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(info)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDayPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	uid := UserIDFromContext(ctx)

	plan, err := h.ds.DayPlan(ctx, uid, day)
	if err != nil {
		h.log.Error("mcp get_day_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assignmentID, err := req.RequireInt("assignment_id")
	if err != nil {
		return mcp.NewToolResultError("assignment_id parameter is required"), nil
	}
	uid := UserIDFromContext(ctx)

	last, err := h.ds.LastPerformance(ctx, uid, assignmentID)
	if err != nil {
		h.log.Error("mcp get_last_performance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(last)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit < 1 || limit > 200 {
		limit = 20
	}
	uid := UserIDFromContext(ctx)

	history, err := h.ds.History(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_session_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
