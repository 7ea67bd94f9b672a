package decomposition

import "strings"

const maxScore = 100

// Weights for each scoring formula. Data models weigh most in intent
// scope because they drive the most downstream work.
const (
	architecturePatternWeight = 15
	architectureLayerWeight   = 10

	blueprintCreateWeight = 10
	blueprintModifyWeight = 5

	setupMigrationWeight    = 10
	setupModelWeight        = 8
	setupRelationshipWeight = 5
	setupKeywordWeight      = 3

	testingCategoryWeight = 20
	testingDoubleWeight   = 15

	intentInteractionWeight = 8
	intentUIWeight          = 10
	intentModelWeight       = 12

	researchTopicWeight   = 15
	researchPatternWeight = 10
	researchPatternCap    = 5
)

// layeringRules maps pattern keywords to a layering multiplier. The
// first rule with any keyword present in any pattern wins.
var layeringRules = []struct {
	multiplier int
	keywords   []string
}{
	{multiplier: 3, keywords: []string{"multi-tier", "layered"}},
	{multiplier: 2, keywords: []string{"service", "repository"}},
}

// testingCategories are counted once each when any keyword is present.
var testingCategories = [][]string{
	{"unit"},
	{"integration"},
	{"feature", "e2e"},
	{"api"},
}

// CalculateMetrics runs all five calculators.
func CalculateMetrics(in Input) ComplexityMetrics {
	return ComplexityMetrics{
		Architecture:    ArchitectureComplexity(in.Research),
		Setup:           SetupComplexity(in.Research, in.Intent, in.Blueprint),
		Testing:         TestingScope(in.Research),
		IntentScope:     IntentScope(in.Intent),
		ResearchBreadth: ResearchBreadth(in.Research),
	}
}

// ArchitectureComplexity scores the number of architecture patterns plus
// how layered they suggest the design is.
func ArchitectureComplexity(research ResearchData) int {
	patterns := research.ArchitecturePatterns
	multiplier := 1
	for _, rule := range layeringRules {
		if anyPatternContains(patterns, rule.keywords) {
			multiplier = rule.multiplier
			break
		}
	}
	return clamp(len(patterns)*architecturePatternWeight + multiplier*architectureLayerWeight)
}

// SetupComplexity scores setup effort. With a blueprint it counts real
// files; without one it estimates from data models and setup keywords.
func SetupComplexity(research ResearchData, intent IntentData, blueprint *Blueprint) int {
	if blueprint != nil {
		return clamp(len(blueprint.FilesToCreate)*blueprintCreateWeight +
			len(blueprint.FilesToModify)*blueprintModifyWeight)
	}

	models := len(intent.DataModels)
	migrations := models
	relationships := max(0, models-1)

	setup := strings.ToLower(string(research.SetupPatterns))
	routes := countAll(setup, "route", "endpoint")
	controllers := countAll(setup, "controller", "service")

	return clamp(migrations*setupMigrationWeight +
		models*setupModelWeight +
		relationships*setupRelationshipWeight +
		(routes+controllers)*setupKeywordWeight)
}

// TestingScope scores test categories and test-double mentions.
func TestingScope(research ResearchData) int {
	strategy := strings.ToLower(string(research.TestingStrategy))

	categories := 0
	for _, keywords := range testingCategories {
		if containsAny(strategy, keywords) {
			categories++
		}
	}
	doubles := countAll(strategy, "mock", "stub")

	return clamp(categories*testingCategoryWeight + doubles*testingDoubleWeight)
}

// IntentScope scores how much the user asked for.
func IntentScope(intent IntentData) int {
	return clamp(len(intent.Interactions)*intentInteractionWeight +
		len(intent.UIComponents)*intentUIWeight +
		len(intent.DataModels)*intentModelWeight)
}

// ResearchBreadth scores distinct documentation topics and capped
// pattern diversity.
func ResearchBreadth(research ResearchData) int {
	topics := research.Context7Searches.DistinctTopics()
	diversity := min(researchPatternCap, len(research.ArchitecturePatterns))
	return clamp(topics*researchTopicWeight + diversity*researchPatternWeight)
}

// clamp bounds a score to [0,100].
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func anyPatternContains(patterns []string, keywords []string) bool {
	for _, p := range patterns {
		if containsAny(strings.ToLower(p), keywords) {
			return true
		}
	}
	return false
}

// containsAny reports whether text contains any keyword. text must
// already be lower-cased.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// containsAll reports whether text contains every keyword.
func containsAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}

// countAll sums non-overlapping occurrences of each keyword.
func countAll(text string, keywords ...string) int {
	total := 0
	for _, k := range keywords {
		total += strings.Count(text, k)
	}
	return total
}
