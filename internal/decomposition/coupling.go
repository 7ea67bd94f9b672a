package decomposition

// Phrases are matched literally against the lower-cased architecture
// text. "service layer" needs both words; a bare "service" is not enough.
var (
	lowCouplingPhrases = []string{
		"repository pattern",
		"service layer",
		"clean interfaces",
		"dependency injection",
		"event-driven",
	}

	highCouplingPhrases = []string{
		"tight coupling",
		"monolithic",
		"shared state",
		"circular dependency",
	}
)

// minLowCouplingPhrases is how many distinct low-coupling phrases it
// takes to call the design loosely coupled.
const minLowCouplingPhrases = 2

// ClassifyCoupling estimates coupling between the detected concerns.
// High-coupling evidence always wins over low-coupling evidence.
func ClassifyCoupling(concerns []Concern, research ResearchData) CouplingLevel {
	return classifyCoupling(len(concerns), gatherEvidence(IntentData{}, research))
}

func classifyCoupling(concernCount int, e evidence) CouplingLevel {
	if concernCount <= 1 {
		return CouplingLow
	}

	if countPhrases(e.architecture, highCouplingPhrases) > 0 {
		return CouplingHigh
	}
	if countPhrases(e.architecture, lowCouplingPhrases) >= minLowCouplingPhrases {
		return CouplingLow
	}
	return CouplingMedium
}

// countPhrases counts how many distinct phrases appear in text.
func countPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if containsAny(text, []string{p}) {
			n++
		}
	}
	return n
}
