package decomposition

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// recipeInput is a feature big enough to split: three models, two UI
// components, four searches and five architecture patterns.
func recipeInput() Input {
	return Input{
		FeatureName: "Recipe sharing",
		Intent: IntentData{
			Interactions: Names{"create recipe", "edit recipe", "rate recipe", "share recipe"},
			UIComponents: Names{"RecipeForm", "RecipeList"},
			DataModels:   Names{"Recipe", "Ingredient", "Rating"},
		},
		Research: ResearchData{
			ArchitecturePatterns: Texts{
				"Layered architecture",
				"Event-driven notifications",
				"Dependency injection container",
				"REST API resources",
				"Form objects",
			},
			SetupPatterns:   "Create controllers and a service class; register routes",
			TestingStrategy: "Unit tests, feature tests with mocks",
			Context7Searches: Searches{
				{Topic: "eloquent"}, {Topic: "routing"}, {Topic: "validation"}, {Topic: "events"},
			},
		},
	}
}

func TestAnalyze_EmptyInputsIsSingleTask(t *testing.T) {
	got := Analyze(Input{})

	if got.Decision != DecisionSingleTask {
		t.Errorf("Decision = %s, want SINGLE_TASK", got.Decision)
	}
	if got.ComplexityScore >= ThresholdSimple {
		t.Errorf("ComplexityScore = %d, want < 50", got.ComplexityScore)
	}
	if len(got.Concerns) != 0 || got.Concerns == nil {
		t.Errorf("Concerns = %#v, want empty non-nil", got.Concerns)
	}
	if got.Coupling != CouplingLow {
		t.Errorf("Coupling = %s, want LOW", got.Coupling)
	}
	if got.Parts != nil {
		t.Errorf("Parts = %v, want nil", got.Parts)
	}
}

func TestAnalyze_RecipeFeatureSplits(t *testing.T) {
	got := Analyze(recipeInput())

	wantMetrics := ComplexityMetrics{
		Architecture:    100,
		Setup:           73,
		Testing:         55,
		IntentScope:     88,
		ResearchBreadth: 100,
	}
	if got.Metrics != wantMetrics {
		t.Errorf("Metrics = %+v, want %+v", got.Metrics, wantMetrics)
	}
	if got.ComplexityScore != 83 {
		t.Errorf("ComplexityScore = %d, want 83", got.ComplexityScore)
	}
	if names := concernNames(got.Concerns); !reflect.DeepEqual(names, []string{"models", "backend-logic", "frontend-ui"}) {
		t.Errorf("Concerns = %v", names)
	}
	if got.Coupling != CouplingLow {
		t.Errorf("Coupling = %s, want LOW", got.Coupling)
	}
	if got.Decision != DecisionParts {
		t.Fatalf("Decision = %s, want PARTS", got.Decision)
	}
	if got.Feature != "Recipe sharing" {
		t.Errorf("Feature = %q", got.Feature)
	}

	if len(got.Parts) != len(got.Concerns) {
		t.Fatalf("len(Parts) = %d, want %d", len(got.Parts), len(got.Concerns))
	}
	wantDeps := [][]string{{}, {"models"}, {"backend-logic"}}
	for i, p := range got.Parts {
		if !reflect.DeepEqual(p.Dependencies, wantDeps[i]) {
			t.Errorf("part %s dependencies = %v, want %v", p.Number, p.Dependencies, wantDeps[i])
		}
	}
}

func TestAnalyze_LayeredRepositoryExample(t *testing.T) {
	in := Input{
		Intent: IntentData{DataModels: Names{"Recipe"}},
		Research: ResearchData{
			ArchitecturePatterns: Texts{"layered architecture", "repository pattern"},
			SetupPatterns:        "controller and service",
		},
	}

	got := Analyze(in)
	if got.Metrics.Architecture != 60 {
		t.Errorf("Architecture = %d, want 60", got.Metrics.Architecture)
	}
	if names := concernNames(got.Concerns); !reflect.DeepEqual(names, []string{"models", "backend-logic"}) {
		t.Errorf("Concerns = %v", names)
	}
	if got.Coupling != CouplingMedium {
		t.Errorf("Coupling = %s, want MEDIUM", got.Coupling)
	}
}

func TestAnalyze_SingleConcernForcesLowCoupling(t *testing.T) {
	in := Input{
		Intent: IntentData{DataModels: Names{"A", "B", "C", "D", "E", "F", "G", "H", "I"}},
		Research: ResearchData{
			ArchitecturePatterns: Texts{"Monolithic", "shared state", "tight coupling"},
		},
	}

	got := Analyze(in)
	if len(got.Concerns) != 1 {
		t.Fatalf("Concerns = %v, want models only", concernNames(got.Concerns))
	}
	if got.Coupling != CouplingLow {
		t.Errorf("Coupling = %s, want LOW", got.Coupling)
	}
	if want := Decide(got.ComplexityScore, 1, CouplingLow); got.Decision != want {
		t.Errorf("Decision = %s, want %s", got.Decision, want)
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	want := Analyze(recipeInput())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Analyze(recipeInput()); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent Analyze() differs: %+v", got)
			}
		}()
	}
	wg.Wait()
}

// --- Result JSON ---

func TestResultJSON_SingleTaskOmitsParts(t *testing.T) {
	data, err := json.Marshal(Analyze(Input{}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, `"parts"`) {
		t.Errorf("SINGLE_TASK JSON contains parts: %s", s)
	}
	if !strings.Contains(s, `"concerns":[]`) {
		t.Errorf("concerns should encode as []: %s", s)
	}
	for _, field := range []string{`"decision"`, `"complexity_score"`, `"metrics"`, `"coupling"`, `"intent_scope"`, `"research_breadth"`} {
		if !strings.Contains(s, field) {
			t.Errorf("JSON missing %s: %s", field, s)
		}
	}
}

func TestResultJSON_PartsAlwaysPresentForParts(t *testing.T) {
	r := Result{Decision: DecisionParts, ComplexityScore: 90, Coupling: CouplingLow}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"parts":[]`) {
		t.Errorf("PARTS JSON should carry empty parts: %s", data)
	}
}

func TestResultJSON_RoundTrip(t *testing.T) {
	want := Analyze(recipeInput())
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Result
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip =\n%+v\nwant\n%+v", got, want)
	}
}
