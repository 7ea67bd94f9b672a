package decomposition

// Analyze runs the full pipeline over in: score, extract concerns,
// classify coupling, decide, and (for PARTS) generate the part plan.
// It is pure and safe for concurrent use.
func Analyze(in Input) Result {
	metrics := CalculateMetrics(in)
	score := metrics.Overall()

	e := gatherEvidence(in.Intent, in.Research)
	concerns := extractConcerns(e)
	coupling := classifyCoupling(len(concerns), e)

	decision, rationale := decide(score, len(concerns), coupling)

	var parts []Part
	if decision == DecisionParts {
		parts = GenerateParts(concerns)
	}

	if concerns == nil {
		concerns = []Concern{}
	}

	return Result{
		Feature:         in.FeatureName,
		Decision:        decision,
		ComplexityScore: score,
		Metrics:         metrics,
		Concerns:        concerns,
		Coupling:        coupling,
		Rationale:       rationale,
		Parts:           parts,
	}
}
