// Package prompts implements MCP prompt handlers for the decomposition engine.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DecomposePrompt handles the plan-decompose MCP prompt.
// It guides the AI to gather intent and research, check coverage, and
// run the decomposition analysis.
type DecomposePrompt struct{}

// NewDecomposePrompt creates a DecomposePrompt.
func NewDecomposePrompt() *DecomposePrompt {
	return &DecomposePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DecomposePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plan-decompose",
		mcp.WithPromptDescription(
			"Decide whether a feature should be built as one task or split into parts. "+
				"Walks through capturing intent, checking research coverage, and running the analysis.",
		),
		mcp.WithArgument("feature_name",
			mcp.ArgumentDescription("Name of the feature to analyze"),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("Short description of what the feature should do"),
		),
	)
}

// Handle processes the plan-decompose prompt request.
func (p *DecomposePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	featureName := "my-feature"
	description := ""
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["feature_name"]; ok && name != "" {
			featureName = name
		}
		description = args["description"]
	}

	about := "Ask me to describe the feature before doing anything else."
	if description != "" {
		about = fmt.Sprintf("Here is what it should do: %s", description)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Decompose feature: %s", featureName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to plan the feature '%s'. %s\n\n"+
						"Please:\n"+
						"1. Build the intent record with me: the user interactions, UI components, and data models involved\n"+
						"2. Research the framework documentation and collect architecture_patterns, setup_patterns, "+
						"testing_strategy, and the documentation searches you ran (context7_searches)\n"+
						"3. Score your research coverage for architecture, setup, testing, and implementation (0-100 each) "+
						"and run `plan_evaluate_coverage`. If it says additional_search, run the suggested searches; "+
						"if it says revise, rethink the research before continuing\n"+
						"4. Run `plan_analyze_decomposition` with intent and research as JSON, feature_name='%s', "+
						"and selected_architecture if we have chosen one\n"+
						"5. Explain the decision. If it is PARTS, list the parts in order with their dependencies "+
						"and propose starting with part 01",
					featureName, about, featureName,
				)),
			},
		},
	}, nil
}
