package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/HendryAvila/partwise/internal/input"
	"github.com/HendryAvila/partwise/internal/logging"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/HendryAvila/partwise/internal/server"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	intent      string
	research    string
	blueprint   string
	featureName string
	output      string
	noSave      bool
}

func (a *app) analyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a feature and decide between a single task and parts",
		Long: `Analyze reads the intent and research records (JSON or YAML) and prints
the decomposition result: complexity metrics, detected concerns, coupling,
the decision, and the ordered parts when the feature should be split.

Files ending in .yaml or .yml are read as YAML, anything else as JSON.`,
		Example: `  partwise analyze --intent intent.json --research research.json
  partwise analyze --intent intent.yaml --research research.yaml --selected-architecture blueprint.json --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.intent, "intent", "", "intent record file (required)")
	f.StringVar(&opts.research, "research", "", "research record file (required)")
	f.StringVar(&opts.blueprint, "selected-architecture", "", "blueprint file with files_to_create and files_to_modify")
	f.StringVar(&opts.featureName, "feature-name", "", "feature name recorded on the result")
	f.StringVarP(&opts.output, "output", "o", "", "write the result to this file instead of stdout")
	f.String("format", "", "output format: json or text (default from config)")
	f.BoolVar(&opts.noSave, "no-save", false, "do not record this run in the history")
	_ = cmd.MarkFlagRequired("intent")
	_ = cmd.MarkFlagRequired("research")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, opts analyzeOptions) error {
	log := logging.ForComponent("analyze")

	format, err := a.format(cmd)
	if err != nil {
		return err
	}

	in, err := input.NewLoader(a.fs).Load(input.Request{
		IntentPath:    opts.intent,
		ResearchPath:  opts.research,
		BlueprintPath: opts.blueprint,
		FeatureName:   opts.featureName,
	})
	if err != nil {
		if errors.Is(err, input.ErrInvalidInput) {
			return &ExitError{Code: ExitValidation, Err: err}
		}
		return err
	}

	result := decomposition.Analyze(in)
	log.Debug("analysis complete",
		"decision", result.Decision,
		"score", result.ComplexityScore,
		"concerns", len(result.Concerns),
		"coupling", result.Coupling,
	)

	if !opts.noSave {
		a.saveRun(in.FeatureName, result)
	}

	return a.writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return render.Analysis(w, result, format, a.cfg.Output.Indent)
	})
}

// saveRun records the analysis. History failures are logged, never fatal.
func (a *app) saveRun(feature string, result decomposition.Result) {
	store := server.OpenHistory(a.cfg)
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	run, err := store.Save(feature, result)
	if err != nil {
		logging.ForComponent("history").Warn("saving analysis run", "error", err)
		return
	}
	logging.ForComponent("history").Info("analysis saved", "id", run.ID, "feature", run.Feature)
}

// writeOutput sends write's output to path when set, otherwise to stdout.
func (a *app) writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logging.ForComponent("cli").Info("result written", "path", path)
	return nil
}
