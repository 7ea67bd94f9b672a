// Package resources implements MCP resource handlers for analysis history.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (plan://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/partwise/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsURI addresses the history statistics resource.
const StatsURI = "plan://history/stats"

// Handler manages history resource endpoints.
type Handler struct {
	store *history.Store // nil when history is disabled
}

// NewHandler creates a resource Handler. store may be nil.
func NewHandler(store *history.Store) *Handler {
	return &Handler{store: store}
}

// StatsResource returns the MCP resource definition for history statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Decomposition History Stats",
		mcp.WithResourceDescription("Run counts per decision, mean complexity score, and last run time"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the history statistics as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.store == nil {
		return errorResource(req.Params.URI, "analysis history is disabled"), nil
	}

	stats, err := h.store.Stats()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling stats: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
