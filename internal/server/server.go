// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools, prompts and resources that use them.
// No business logic lives here, only wiring.
package server

import (
	"github.com/HendryAvila/partwise/internal/config"
	"github.com/HendryAvila/partwise/internal/history"
	"github.com/HendryAvila/partwise/internal/logging"
	"github.com/HendryAvila/partwise/internal/prompts"
	"github.com/HendryAvila/partwise/internal/resources"
	"github.com/HendryAvila/partwise/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function closes the history database and must be
// called on shutdown (typically via defer). It is always non-nil and safe
// to call even if history is disabled or failed to open.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log := logging.ForComponent("server")

	s := server.NewMCPServer(
		"partwise",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Open history ---
	//
	// History is optional: if it cannot be opened, analysis still works
	// and runs are simply not recorded.

	cleanup := noop
	store := OpenHistory(cfg)
	if store != nil {
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn("history store close", "error", err)
			}
		}
	}

	// --- Register tools ---

	analyzeTool := tools.NewAnalyzeTool(store)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	coverageTool := tools.NewCoverageTool()
	s.AddTool(coverageTool.Definition(), coverageTool.Handle)

	historyTool := tools.NewHistoryTool(store)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	// --- Register prompts ---

	decomposePrompt := prompts.NewDecomposePrompt()
	s.AddPrompt(decomposePrompt.Definition(), decomposePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// OpenHistory opens the history store described by cfg. It returns nil,
// after logging a warning, when history is disabled or cannot be opened.
func OpenHistory(cfg *config.Config) *history.Store {
	log := logging.ForComponent("history")
	if !cfg.History.Enabled {
		log.Debug("history disabled by configuration")
		return nil
	}
	store, err := history.New(history.Config{
		DataDir:    cfg.DataDir,
		MaxResults: cfg.History.MaxResults,
	})
	if err != nil {
		log.Warn("history disabled", "data_dir", cfg.DataDir, "error", err)
		return nil
	}
	return store
}

// Serve runs the server over stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// noop is a no-op cleanup function used when history is not open.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use partwise effectively.
func serverInstructions() string {
	return `You have access to partwise, a feature decomposition engine.

## WHEN TO USE partwise

Use partwise after you understand what a feature should do and have
researched how the target framework expects it to be built, but BEFORE
you start writing code. It answers one question: should this feature be
implemented as a single task, or split into ordered parts?

You do NOT need partwise for:
- Bug fixes or small patches
- Refactoring without behavior change
- Questions, explanations, or documentation

## Workflow

1. Capture intent: the user interactions, UI components, and data models.
2. Research the framework documentation. Record architecture_patterns,
   setup_patterns, testing_strategy, and the searches you ran
   (context7_searches).
3. Call plan_evaluate_coverage with your own 0-100 scores for
   architecture, setup, testing, and implementation coverage.
   - proceed: continue to step 4
   - additional_search: run 1-2 targeted searches on the weakest areas, then re-score
   - revise: your research approach missed the feature; start over
4. Call plan_analyze_decomposition with intent and research as JSON
   objects. Pass selected_architecture when a concrete file plan exists.
5. Follow the decision:
   - SINGLE_TASK: implement the feature in one pass
   - PARTS: implement the parts in number order. A part never starts
     before the parts listed in its dependencies are done.

## Scoring

Complexity is a truncated mean of five dimensions (architecture, setup,
testing, intent scope, research breadth). Below 50 never splits. 80 or
above always splits. Between, the split depends on how many concerns
were found and how tightly they are coupled.

## History

Every analysis is recorded unless save=false. Use plan_history to list
past runs or show one by id, and read plan://history/stats for totals.

## Rules

- Pass REAL records. Do not call the tools with placeholder text.
- The tools do not call any AI; they only score what you give them.
- Report the rationale from the result to the user, not your own guess.`
}
