// Package render turns analysis results and coverage reports into JSON,
// terminal text, and markdown.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/partwise/internal/coverage"
	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format selects how results are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be json or text", s)
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	splitStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	singleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	couplingTone = map[decomposition.CouplingLevel]lipgloss.Style{
		decomposition.CouplingLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		decomposition.CouplingMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		decomposition.CouplingHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
)

// title upper-cases the first letter of each word. Casers are stateful, so
// one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// JSON writes v as JSON. indent <= 0 writes a compact document.
func JSON(w io.Writer, v any, indent int) error {
	enc := json.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// Analysis writes result in the given format.
func Analysis(w io.Writer, result decomposition.Result, format Format, indent int) error {
	if format == FormatText {
		return AnalysisText(w, result)
	}
	return JSON(w, result, indent)
}

// Coverage writes report in the given format.
func Coverage(w io.Writer, report coverage.Report, format Format, indent int) error {
	if format == FormatText {
		return CoverageText(w, report)
	}
	return JSON(w, report, indent)
}

// AnalysisText writes a terminal summary of an analysis.
func AnalysisText(w io.Writer, r decomposition.Result) error {
	var b strings.Builder

	heading := "DECOMPOSITION ANALYSIS"
	if r.Feature != "" {
		heading += ": " + r.Feature
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	decision := singleStyle.Render(string(r.Decision))
	if r.Decision == decomposition.DecisionParts {
		decision = splitStyle.Render(string(r.Decision))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Decision:"), decision)
	fmt.Fprintf(&b, "%s %d/100\n", labelStyle.Render("Complexity:"), r.ComplexityScore)
	if r.Rationale != "" {
		fmt.Fprintf(&b, "  %s\n", subtleStyle.Render(r.Rationale))
	}

	b.WriteString("\n" + labelStyle.Render("Metrics:") + "\n")
	for _, m := range MetricRows(r.Metrics) {
		fmt.Fprintf(&b, "  %-18s %3d\n", m.Label, m.Score)
	}

	b.WriteString("\n" + labelStyle.Render("Concerns:") + "\n")
	if len(r.Concerns) == 0 {
		b.WriteString("  " + subtleStyle.Render("none detected") + "\n")
	}
	for _, c := range r.Concerns {
		fmt.Fprintf(&b, "  • %s (%s): %s\n", c.Name, LayerTitle(c.Layer), c.Scope)
		if len(c.Components) > 0 {
			fmt.Fprintf(&b, "    %s\n", subtleStyle.Render(strings.Join(c.Components, ", ")))
		}
	}

	coupling := string(r.Coupling)
	if style, ok := couplingTone[r.Coupling]; ok {
		coupling = style.Render(coupling)
	}
	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Coupling:"), coupling)

	if r.Decision == decomposition.DecisionParts {
		b.WriteString("\n" + labelStyle.Render("Parts:") + "\n")
		for _, p := range r.Parts {
			fmt.Fprintf(&b, "  %s  %s: %s\n", p.Number, p.Name, p.Scope)
			if len(p.Dependencies) > 0 {
				fmt.Fprintf(&b, "      %s\n", subtleStyle.Render("depends on: "+strings.Join(p.Dependencies, ", ")))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CoverageText writes a terminal summary of a coverage evaluation.
func CoverageText(w io.Writer, r coverage.Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RESEARCH COVERAGE EVALUATION") + "\n\n")
	fmt.Fprintf(&b, "%s %.1f%%\n\n", labelStyle.Render("Overall Score:"), r.OverallScore)

	b.WriteString(labelStyle.Render("Breakdown:") + "\n")
	for _, c := range r.Breakdown.Categories() {
		fmt.Fprintf(&b, "  %s %s: %d%%\n", coverage.Status(c.Score), title(c.Name), c.Score)
	}

	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Decision:"), r.Decision)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Message:"), r.Message)
	if len(r.WeakestAreas) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Weakest areas:"), strings.Join(r.WeakestAreas, ", "))
	}
	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Recommendation:"), r.Recommendation)

	_, err := io.WriteString(w, b.String())
	return err
}

// MetricRow is one labelled dimension score.
type MetricRow struct {
	Label string
	Score int
}

// MetricRows lists the five dimensions in display order.
func MetricRows(m decomposition.ComplexityMetrics) []MetricRow {
	return []MetricRow{
		{Label: "Architecture", Score: m.Architecture},
		{Label: "Setup", Score: m.Setup},
		{Label: "Testing", Score: m.Testing},
		{Label: "Intent scope", Score: m.IntentScope},
		{Label: "Research breadth", Score: m.ResearchBreadth},
	}
}

// LayerTitle returns the display name of a layer, e.g. "Backend".
func LayerTitle(l decomposition.Layer) string {
	return title(string(l))
}
