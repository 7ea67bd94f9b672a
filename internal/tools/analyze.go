package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/HendryAvila/partwise/internal/history"
	"github.com/HendryAvila/partwise/internal/input"
	"github.com/HendryAvila/partwise/internal/logging"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeTool handles the plan_analyze_decomposition MCP tool.
type AnalyzeTool struct {
	history *history.Store // nil when history is disabled
}

// NewAnalyzeTool creates an AnalyzeTool. store may be nil.
func NewAnalyzeTool(store *history.Store) *AnalyzeTool {
	return &AnalyzeTool{history: store}
}

// Definition returns the MCP tool definition for plan_analyze_decomposition.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_analyze_decomposition",
		mcp.WithDescription(
			"Score a feature's complexity from its intent and research records and decide "+
				"whether to implement it as a single task or split it into ordered parts. "+
				"Returns a markdown summary followed by the full result as JSON.",
		),
		mcp.WithString("intent",
			mcp.Required(),
			mcp.Description("Intent record as a JSON object: interactions, ui_components, data_models"),
		),
		mcp.WithString("research",
			mcp.Required(),
			mcp.Description("Research record as a JSON object: architecture_patterns, "+
				"setup_patterns, testing_strategy, context7_searches"),
		),
		mcp.WithString("selected_architecture",
			mcp.Description("Optional blueprint as a JSON object with files_to_create and "+
				"files_to_modify. When present, setup complexity uses its file counts."),
		),
		mcp.WithString("feature_name",
			mcp.Description("Feature name recorded on the result and used as the history key"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Record this run in the analysis history. Default: true"),
		),
	)
}

// Handle processes the plan_analyze_decomposition tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intent := req.GetString("intent", "")
	research := req.GetString("research", "")
	if strings.TrimSpace(intent) == "" {
		return mcp.NewToolResultError("'intent' is required"), nil
	}
	if strings.TrimSpace(research) == "" {
		return mcp.NewToolResultError("'research' is required"), nil
	}

	in, err := input.FromJSON(
		intent,
		research,
		req.GetString("selected_architecture", ""),
		req.GetString("feature_name", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}

	result := decomposition.Analyze(in)

	body, err := render.AnalysisMarkdown(result)
	if err != nil {
		return nil, fmt.Errorf("rendering analysis: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(body)
	if note := t.save(in.FeatureName, result, boolArg(req, "save", true)); note != "" {
		sb.WriteString("\n")
		sb.WriteString(note)
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// save records the run and returns a one-line note for the response.
// A failed save never fails the analysis.
func (t *AnalyzeTool) save(feature string, result decomposition.Result, enabled bool) string {
	if !enabled || t.history == nil {
		return ""
	}
	run, err := t.history.Save(feature, result)
	if err != nil {
		logging.ForComponent("tools").Warn("saving analysis run", "feature", feature, "error", err)
		return "_Analysis not saved to history._"
	}
	return fmt.Sprintf("_Saved to history as run `%s`._", run.ID)
}
