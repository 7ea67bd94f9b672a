package decomposition

// Score thresholds for the decision table.
const (
	ThresholdSimple  = 50
	ThresholdSplit   = 70
	ThresholdComplex = 80
)

// decisionRule is one row of the decision table.
type decisionRule struct {
	rationale string
	matches   func(score, concerns int, coupling CouplingLevel) bool
	decision  Decision
}

// decisionRules is evaluated top to bottom; the first match wins. The
// unconditional split at very high scores sits after the low-coupling
// rule and before the mid-range rule, so it overrides coupling concerns.
var decisionRules = []decisionRule{
	{
		rationale: "complexity below 50: too simple to justify splitting",
		matches: func(score, _ int, _ CouplingLevel) bool {
			return score < ThresholdSimple
		},
		decision: DecisionSingleTask,
	},
	{
		rationale: "complexity 70+ with 2+ loosely coupled concerns: clear split",
		matches: func(score, concerns int, coupling CouplingLevel) bool {
			return score >= ThresholdSplit && concerns >= 2 && coupling == CouplingLow
		},
		decision: DecisionParts,
	},
	{
		rationale: "complexity 80+: always split",
		matches: func(score, _ int, _ CouplingLevel) bool {
			return score >= ThresholdComplex
		},
		decision: DecisionParts,
	},
	{
		rationale: "complexity 50-69 with 3+ concerns and low/medium coupling",
		matches: func(score, concerns int, coupling CouplingLevel) bool {
			return score >= ThresholdSimple && score < ThresholdSplit &&
				concerns >= 3 &&
				(coupling == CouplingLow || coupling == CouplingMedium)
		},
		decision: DecisionParts,
	},
}

const fallbackRationale = "no split rule matched: default to single task"

// Decide applies the decision table to (score, concern count, coupling).
func Decide(score, concernCount int, coupling CouplingLevel) Decision {
	d, _ := decide(score, concernCount, coupling)
	return d
}

// decide returns the decision and the rationale of the rule that fired.
func decide(score, concernCount int, coupling CouplingLevel) (Decision, string) {
	for _, rule := range decisionRules {
		if rule.matches(score, concernCount, coupling) {
			return rule.decision, rule.rationale
		}
	}
	return DecisionSingleTask, fallbackRationale
}
