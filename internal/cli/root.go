// Package cli implements the partwise command line.
//
// Commands are built by NewRootCmd rather than package-level variables so
// each invocation (and each test) gets fresh flag and config state.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/HendryAvila/partwise/internal/config"
	"github.com/HendryAvila/partwise/internal/logging"
	"github.com/HendryAvila/partwise/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes shared by every command.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 3
)

// ExitError carries a specific process exit status. Err may be nil when
// the command succeeded but the outcome maps to a non-zero status.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.Err }

// app holds the state shared by all commands of one invocation.
type app struct {
	v   *viper.Viper
	fs  afero.Fs
	cfg *config.Config

	cfgFile string
	verbose bool
}

// NewRootCmd builds the command tree backed by the OS filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{v: viper.New(), fs: fs}

	root := &cobra.Command{
		Use:   "partwise",
		Short: "Decide whether a feature should be built in one pass or split into parts",
		Long: `partwise scores a feature's complexity from its intent and research
records, detects the functional concerns involved, estimates how tightly
they are coupled, and decides between a single task and an ordered set
of parts with dependencies.

It runs as a CLI or as an MCP server over stdio (partwise serve).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/partwise/config.yaml or ./config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		a.analyzeCmd(),
		a.coverageCmd(),
		a.historyCmd(),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads configuration and installs the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return &ExitError{Code: ExitValidation, Err: err}
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	logging.ForComponent("cli").Debug("configuration loaded", "config_file", a.v.ConfigFileUsed(), "data_dir", cfg.DataDir)
	return nil
}

// format resolves the --format flag, falling back to output.format.
func (a *app) format(cmd *cobra.Command) (render.Format, error) {
	name := a.cfg.Output.Format
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		name = f.Value.String()
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", &ExitError{Code: ExitValidation, Err: err}
	}
	return format, nil
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	code := ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Err == nil {
			return code
		}
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return code
}
