package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/HendryAvila/partwise/internal/history"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryTool handles the plan_history MCP tool.
type HistoryTool struct {
	store *history.Store
}

// NewHistoryTool creates a HistoryTool with the given history store.
func NewHistoryTool(store *history.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for plan_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_history",
		mcp.WithDescription(
			"Browse past decomposition analyses. With 'id', returns that run in full. "+
				"Otherwise lists recent runs, newest first, optionally filtered by feature and decision.",
		),
		mcp.WithString("id",
			mcp.Description("Run ID to show in full"),
		),
		mcp.WithString("feature",
			mcp.Description("Only runs for this feature name"),
		),
		mcp.WithString("decision",
			mcp.Description("Only runs with this decision"),
			mcp.Enum(string(decomposition.DecisionSingleTask), string(decomposition.DecisionParts)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to list (default from config)"),
		),
	)
}

// Handle processes the plan_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError("analysis history is disabled"), nil
	}

	if id := strings.TrimSpace(req.GetString("id", "")); id != "" {
		return t.show(id)
	}

	decision := decomposition.Decision(strings.ToUpper(strings.TrimSpace(req.GetString("decision", ""))))
	if decision != "" {
		if err := decomposition.ValidateDecision(decision); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	runs, err := t.store.List(history.ListOptions{
		Feature:  strings.TrimSpace(req.GetString("feature", "")),
		Decision: decision,
		Limit:    intArg(req, "limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}

	if len(runs) == 0 {
		return mcp.NewToolResultText("No analysis runs recorded yet."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Analysis History (%d)\n\n", len(runs)))
	sb.WriteString("| ID | Feature | Decision | Score | Coupling | Parts | When |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range runs {
		feature := r.Feature
		if feature == "" {
			feature = "_unnamed_"
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %d | %s | %d | %s |\n",
			r.ID, feature, r.Decision, r.ComplexityScore, r.Coupling, r.PartCount, r.CreatedAt))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (t *HistoryTool) show(id string) (*mcp.CallToolResult, error) {
	run, err := t.store.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no analysis run with id %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get run: %v", err)), nil
	}

	body, err := render.AnalysisMarkdown(run.Result)
	if err != nil {
		return nil, fmt.Errorf("rendering run %s: %w", id, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("_Run `%s` recorded %s._\n\n", run.ID, run.CreatedAt))
	sb.WriteString(body)
	return mcp.NewToolResultText(sb.String()), nil
}
