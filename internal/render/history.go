package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/HendryAvila/partwise/internal/history"
)

// Runs writes a run listing in the given format.
func Runs(w io.Writer, runs []history.Run, format Format, indent int) error {
	if format == FormatText {
		return RunsText(w, runs)
	}
	if runs == nil {
		runs = []history.Run{}
	}
	return JSON(w, runs, indent)
}

// RunsText writes one line per run, newest first as given.
func RunsText(w io.Writer, runs []history.Run) error {
	var b strings.Builder

	if len(runs) == 0 {
		b.WriteString(subtleStyle.Render("No analysis runs recorded yet.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("ANALYSIS HISTORY (%d)", len(runs))) + "\n\n")
	for _, r := range runs {
		feature := r.Feature
		if feature == "" {
			feature = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s  %-11s %3d  %-6s  %s\n",
			subtleStyle.Render(r.ID), r.Decision, r.ComplexityScore, r.Coupling, feature)
		fmt.Fprintf(&b, "    %s\n", subtleStyle.Render(fmt.Sprintf("%s · %d concerns · %d parts", r.CreatedAt, r.ConcernCount, r.PartCount)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Run writes one stored run in the given format.
func Run(w io.Writer, run *history.Run, format Format, indent int) error {
	if format == FormatText {
		if _, err := fmt.Fprintf(w, "%s %s\n%s %s\n\n",
			labelStyle.Render("Run:"), run.ID, labelStyle.Render("Recorded:"), run.CreatedAt); err != nil {
			return err
		}
		return AnalysisText(w, run.Result)
	}
	return JSON(w, run, indent)
}

// Stats writes history statistics in the given format.
func Stats(w io.Writer, s *history.Stats, format Format, indent int) error {
	if format != FormatText {
		return JSON(w, s, indent)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ANALYSIS HISTORY STATS") + "\n\n")
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Runs:"), s.TotalRuns)
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Features:"), s.Features)
	fmt.Fprintf(&b, "%s %.1f\n", labelStyle.Render("Average score:"), s.AverageScore)
	for _, d := range slices.Sorted(maps.Keys(s.ByDecision)) {
		fmt.Fprintf(&b, "  %-11s %d\n", d, s.ByDecision[d])
	}
	if s.LastRunAt != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Last run:"), s.LastRunAt)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
