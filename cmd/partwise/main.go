// partwise: feature complexity scoring and decomposition decisions.
//
// Given what a feature should do (intent) and what documentation research
// found (research), partwise decides whether to build it in one pass or
// split it into ordered parts with dependencies.
//
// Usage:
//
//	partwise analyze --intent intent.json --research research.json
//	partwise coverage --architecture 80 --setup 70 --testing 60 --implementation 75
//	partwise history list
//	partwise serve    # Start MCP server (stdio transport)
package main

import (
	"os"

	"github.com/HendryAvila/partwise/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
