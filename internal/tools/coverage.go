package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/partwise/internal/coverage"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

// CoverageTool handles the plan_evaluate_coverage MCP tool.
type CoverageTool struct{}

// NewCoverageTool creates a CoverageTool.
func NewCoverageTool() *CoverageTool {
	return &CoverageTool{}
}

// Definition returns the MCP tool definition for plan_evaluate_coverage.
func (t *CoverageTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_evaluate_coverage",
		mcp.WithDescription(
			"Evaluate how well research covers a feature before planning. "+
				"Takes four category scores (0-100) and decides whether to proceed, "+
				"run additional targeted searches, or revise the research.",
		),
		mcp.WithNumber("architecture",
			mcp.Required(),
			mcp.Description("Architecture coverage score, 0-100"),
		),
		mcp.WithNumber("setup",
			mcp.Required(),
			mcp.Description("Setup and configuration coverage score, 0-100"),
		),
		mcp.WithNumber("testing",
			mcp.Required(),
			mcp.Description("Testing strategy coverage score, 0-100"),
		),
		mcp.WithNumber("implementation",
			mcp.Required(),
			mcp.Description("Implementation detail coverage score, 0-100"),
		),
	)
}

// Handle processes the plan_evaluate_coverage tool call.
func (t *CoverageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scores coverage.Scores
	fields := []struct {
		key string
		dst *int
	}{
		{"architecture", &scores.Architecture},
		{"setup", &scores.Setup},
		{"testing", &scores.Testing},
		{"implementation", &scores.Implementation},
	}
	for _, f := range fields {
		v, err := requiredIntArg(req, f.key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = v
	}

	report, err := coverage.Evaluate(scores)
	if err != nil {
		if errors.Is(err, coverage.ErrInvalidScore) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("evaluating coverage: %w", err)
	}

	return mcp.NewToolResultText(render.CoverageMarkdown(report)), nil
}
