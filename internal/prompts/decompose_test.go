package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if len(result.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(result.Messages))
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Messages[0].Content)
	}
	return tc.Text
}

func TestDecomposePrompt_Definition(t *testing.T) {
	def := NewDecomposePrompt().Definition()
	if def.Name != "plan-decompose" {
		t.Errorf("Name = %q, want plan-decompose", def.Name)
	}
	if len(def.Arguments) != 2 {
		t.Errorf("Arguments = %d, want 2", len(def.Arguments))
	}
}

func TestDecomposePrompt_Defaults(t *testing.T) {
	result, err := NewDecomposePrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	text := promptText(t, result)
	if !strings.Contains(text, "'my-feature'") {
		t.Errorf("expected default feature name:\n%s", text)
	}
	if !strings.Contains(text, "Ask me to describe the feature") {
		t.Errorf("expected request for a description:\n%s", text)
	}
}

func TestDecomposePrompt_WithArguments(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{
		"feature_name": "Recipe sharing",
		"description":  "users share and rate recipes",
	}

	result, err := NewDecomposePrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if result.Description != "Decompose feature: Recipe sharing" {
		t.Errorf("Description = %q", result.Description)
	}
	text := promptText(t, result)
	for _, want := range []string{
		"users share and rate recipes",
		"plan_evaluate_coverage",
		"feature_name='Recipe sharing'",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}
