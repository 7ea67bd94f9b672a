package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/partwise/internal/coverage"
	"github.com/HendryAvila/partwise/internal/decomposition"
)

// AnalysisMarkdown renders an analysis for MCP clients: a readable
// summary followed by the result record as a fenced JSON block.
func AnalysisMarkdown(r decomposition.Result) (string, error) {
	var sb strings.Builder

	if r.Feature != "" {
		sb.WriteString(fmt.Sprintf("## Decomposition Analysis: %s\n\n", r.Feature))
	} else {
		sb.WriteString("## Decomposition Analysis\n\n")
	}
	sb.WriteString(fmt.Sprintf("**Decision:** %s\n", r.Decision))
	sb.WriteString(fmt.Sprintf("**Complexity:** %d/100\n", r.ComplexityScore))
	sb.WriteString(fmt.Sprintf("**Coupling:** %s\n", r.Coupling))
	if r.Rationale != "" {
		sb.WriteString(fmt.Sprintf("**Why:** %s\n", r.Rationale))
	}

	sb.WriteString("\n### Metrics\n\n")
	sb.WriteString("| Dimension | Score |\n|---|---|\n")
	for _, m := range MetricRows(r.Metrics) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", m.Label, m.Score))
	}

	sb.WriteString("\n### Concerns\n\n")
	if len(r.Concerns) == 0 {
		sb.WriteString("_No concerns detected._\n")
	}
	for _, c := range r.Concerns {
		sb.WriteString(fmt.Sprintf("- **%s** (%s): %s", c.Name, LayerTitle(c.Layer), c.Scope))
		if len(c.Components) > 0 {
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(c.Components, ", ")))
		}
		sb.WriteString("\n")
	}

	if r.Decision == decomposition.DecisionParts {
		sb.WriteString("\n### Parts\n\n")
		for _, p := range r.Parts {
			sb.WriteString(fmt.Sprintf("%s. **%s**: %s", p.Number, p.Name, p.Scope))
			if len(p.Dependencies) > 0 {
				sb.WriteString(fmt.Sprintf(" (depends on: %s)", strings.Join(p.Dependencies, ", ")))
			}
			sb.WriteString("\n")
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	sb.WriteString("\n### Result\n\n```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n")

	return sb.String(), nil
}

// CoverageMarkdown renders a coverage report for MCP clients.
func CoverageMarkdown(r coverage.Report) string {
	var sb strings.Builder

	sb.WriteString("## Research Coverage\n\n")
	sb.WriteString(fmt.Sprintf("**Overall:** %.1f%%\n", r.OverallScore))
	sb.WriteString(fmt.Sprintf("**Decision:** %s\n", r.Decision))
	sb.WriteString(fmt.Sprintf("**Message:** %s\n\n", r.Message))

	sb.WriteString("| Category | Score | |\n|---|---|---|\n")
	for _, c := range r.Breakdown.Categories() {
		sb.WriteString(fmt.Sprintf("| %s | %d%% | %s |\n", title(c.Name), c.Score, coverage.Status(c.Score)))
	}

	if len(r.WeakestAreas) > 0 {
		sb.WriteString(fmt.Sprintf("\n**Weakest areas:** %s\n", strings.Join(r.WeakestAreas, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\n**Recommendation:** %s\n", r.Recommendation))
	return sb.String()
}
