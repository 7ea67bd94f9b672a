package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/HendryAvila/partwise/internal/history"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/HendryAvila/partwise/internal/server"
	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("analysis history is disabled or could not be opened")

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded analysis runs",
	}
	cmd.PersistentFlags().String("format", "", "output format: json or text (default from config)")

	cmd.AddCommand(a.historyListCmd(), a.historyShowCmd(), a.historyStatsCmd())
	return cmd
}

func (a *app) historyListCmd() *cobra.Command {
	var (
		feature  string
		decision string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := decomposition.Decision(strings.ToUpper(strings.TrimSpace(decision)))
			if d != "" {
				if err := decomposition.ValidateDecision(d); err != nil {
					return &ExitError{Code: ExitValidation, Err: err}
				}
			}

			return a.withHistory(cmd, func(store *history.Store, format render.Format) error {
				runs, err := store.List(history.ListOptions{Feature: feature, Decision: d, Limit: limit})
				if err != nil {
					return err
				}
				return render.Runs(cmd.OutOrStdout(), runs, format, a.cfg.Output.Indent)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&feature, "feature", "", "only runs for this feature")
	f.StringVar(&decision, "decision", "", "only runs with this decision (SINGLE_TASK or PARTS)")
	f.IntVar(&limit, "limit", 0, "maximum number of runs (default history.max_results)")
	return cmd
}

func (a *app) historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one run in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(cmd, func(store *history.Store, format render.Format) error {
				run, err := store.Get(args[0])
				if err != nil {
					return err
				}
				return render.Run(cmd.OutOrStdout(), run, format, a.cfg.Output.Indent)
			})
		},
	}
}

func (a *app) historyStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show run totals per decision and the mean complexity score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(cmd, func(store *history.Store, format render.Format) error {
				stats, err := store.Stats()
				if err != nil {
					return err
				}
				return render.Stats(cmd.OutOrStdout(), stats, format, a.cfg.Output.Indent)
			})
		},
	}
}

// withHistory opens the store for the duration of fn.
func (a *app) withHistory(cmd *cobra.Command, fn func(*history.Store, render.Format) error) error {
	format, err := a.format(cmd)
	if err != nil {
		return err
	}

	store := server.OpenHistory(a.cfg)
	if store == nil {
		return errHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	if err := fn(store, format); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}
