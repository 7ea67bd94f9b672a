package cli

import (
	"fmt"

	"github.com/HendryAvila/partwise/internal/logging"
	"github.com/HendryAvila/partwise/internal/server"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Serve exposes partwise to MCP clients over stdin/stdout.

Tools: plan_analyze_decomposition, plan_evaluate_coverage, plan_history
Prompt: plan-decompose
Resource: plan://history/stats

Logs go to stderr so they never mix with the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := server.New(a.cfg)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			logging.ForComponent("server").Info("serving MCP over stdio", "version", server.Version)
			return server.Serve(s)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "partwise v%s\n", server.Version)
			return err
		},
	}
}
