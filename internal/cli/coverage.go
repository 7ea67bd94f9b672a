package cli

import (
	"errors"

	"github.com/HendryAvila/partwise/internal/coverage"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) coverageCmd() *cobra.Command {
	var scores coverage.Scores

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Evaluate research coverage before analysis",
		Long: `Coverage averages four category scores (0-100) and decides the next
research step. The exit status encodes the decision:

  0  proceed
  1  additional_search
  2  revise
  3  invalid scores`,
		Example: `  partwise coverage --architecture 90 --setup 80 --testing 75 --implementation 85`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCoverage(cmd, scores)
		},
	}

	f := cmd.Flags()
	f.IntVar(&scores.Architecture, "architecture", 0, "architecture coverage score, 0-100 (required)")
	f.IntVar(&scores.Setup, "setup", 0, "setup coverage score, 0-100 (required)")
	f.IntVar(&scores.Testing, "testing", 0, "testing coverage score, 0-100 (required)")
	f.IntVar(&scores.Implementation, "implementation", 0, "implementation coverage score, 0-100 (required)")
	f.String("format", "", "output format: json or text (default from config)")
	for _, name := range []string{"architecture", "setup", "testing", "implementation"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) runCoverage(cmd *cobra.Command, scores coverage.Scores) error {
	format, err := a.format(cmd)
	if err != nil {
		return err
	}

	report, err := coverage.Evaluate(scores)
	if err != nil {
		if errors.Is(err, coverage.ErrInvalidScore) {
			return &ExitError{Code: ExitValidation, Err: err}
		}
		return err
	}

	if err := render.Coverage(cmd.OutOrStdout(), report, format, a.cfg.Output.Indent); err != nil {
		return err
	}

	if code := report.Decision.ExitCode(); code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}
