// Package tools implements MCP tool handlers for the decomposition engine.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes a Definition for registration and a Handle
// compatible with mcp-go's CallToolRequest signature.
//
// User mistakes (bad JSON, out-of-range scores, unknown IDs) are reported
// as tool error results. Go errors are reserved for internal failures.
package tools

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request.
// JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// requiredIntArg extracts a required whole-number argument.
func requiredIntArg(req mcp.CallToolRequest, key string) (int, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("'%s' must be a number", key)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("'%s' must be a whole number (got %g)", key, v)
	}
	return int(v), nil
}
