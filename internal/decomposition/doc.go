// Package decomposition scores feature complexity and decides whether a
// feature should be built as a single task or split into ordered parts.
//
// The engine is a pipeline of pure functions:
//
//   - five metric calculators turn intent and research data into 0-100 scores
//   - the aggregator averages them into an overall complexity score
//   - the concern extractor detects which canonical layers the feature touches
//   - the coupling classifier estimates how interdependent those layers are
//   - the decision table picks SINGLE_TASK or PARTS
//   - the part generator orders concerns and assigns dependencies
//
// Nothing here performs I/O or holds state, so Analyze is safe to call
// concurrently for unrelated features.
//
// Usage:
//
//	result := decomposition.Analyze(decomposition.Input{
//		FeatureName: "recipes",
//		Intent:      intent,
//		Research:    research,
//	})
package decomposition
