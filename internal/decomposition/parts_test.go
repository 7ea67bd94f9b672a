package decomposition

import (
	"reflect"
	"testing"
)

var (
	modelsConcern  = Concern{Name: "models", Layer: LayerModels, Scope: "m"}
	backendConcern = Concern{Name: "backend-logic", Layer: LayerBackend, Scope: "b"}
	frontConcern   = Concern{Name: "frontend-ui", Layer: LayerFrontend, Scope: "f"}
	integConcern   = Concern{Name: "integrations", Layer: LayerIntegration, Scope: "i"}
	infraConcern   = Concern{Name: "infrastructure", Layer: LayerInfrastructure, Scope: "q"}
)

func TestGenerateParts_CanonicalOrderAndDependencies(t *testing.T) {
	shuffled := []Concern{infraConcern, integConcern, frontConcern, backendConcern, modelsConcern}

	got := GenerateParts(shuffled)
	want := []Part{
		{Number: "01", Name: "models", Concerns: []string{"models"}, Scope: "m", Dependencies: []string{}},
		{Number: "02", Name: "backend-logic", Concerns: []string{"backend"}, Scope: "b", Dependencies: []string{"models"}},
		{Number: "03", Name: "frontend-ui", Concerns: []string{"frontend"}, Scope: "f", Dependencies: []string{"backend-logic"}},
		{Number: "04", Name: "integrations", Concerns: []string{"integration"}, Scope: "i", Dependencies: []string{"backend-logic"}},
		{Number: "05", Name: "infrastructure", Concerns: []string{"infrastructure"}, Scope: "q", Dependencies: []string{}},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateParts() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestGenerateParts_LengthMatchesConcerns(t *testing.T) {
	for n := 0; n <= 5; n++ {
		concerns := []Concern{modelsConcern, backendConcern, frontConcern, integConcern, infraConcern}[:n]
		if got := len(GenerateParts(concerns)); got != n {
			t.Errorf("len(GenerateParts(%d concerns)) = %d", n, got)
		}
	}
}

func TestGenerateParts_MissingPrerequisite(t *testing.T) {
	tests := []struct {
		name     string
		concerns []Concern
		layer    Layer
	}{
		{"backend without models", []Concern{backendConcern}, LayerBackend},
		{"frontend without backend", []Concern{modelsConcern, frontConcern}, LayerFrontend},
		{"integration without backend", []Concern{modelsConcern, integConcern}, LayerIntegration},
		{"infrastructure never depends", []Concern{modelsConcern, backendConcern, infraConcern}, LayerInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range GenerateParts(tt.concerns) {
				if p.Concerns[0] != string(tt.layer) {
					continue
				}
				if len(p.Dependencies) != 0 {
					t.Errorf("part %s dependencies = %v, want none", p.Name, p.Dependencies)
				}
			}
		})
	}
}

func TestGenerateParts_IntegrationDependsOnEveryBackend(t *testing.T) {
	first := Concern{Name: "api", Layer: LayerBackend}
	second := Concern{Name: "jobs-api", Layer: LayerBackend}

	parts := GenerateParts([]Concern{integConcern, first, second})
	integration := parts[2]
	want := []string{"api", "jobs-api"}
	if !reflect.DeepEqual(integration.Dependencies, want) {
		t.Errorf("integration dependencies = %v, want %v", integration.Dependencies, want)
	}

	// A frontend after two backends links only the nearest one.
	parts = GenerateParts([]Concern{first, second, frontConcern})
	if got := parts[2].Dependencies; !reflect.DeepEqual(got, []string{"jobs-api"}) {
		t.Errorf("frontend dependencies = %v, want [jobs-api]", got)
	}
}

func TestGenerateParts_UnknownLayersLastInDetectionOrder(t *testing.T) {
	docs := Concern{Name: "docs", Layer: "documentation"}
	ops := Concern{Name: "ops", Layer: "operations"}

	parts := GenerateParts([]Concern{docs, infraConcern, ops, modelsConcern})
	got := make([]string, 0, len(parts))
	for _, p := range parts {
		got = append(got, p.Number+":"+p.Name)
	}
	want := []string{"01:models", "02:infrastructure", "03:docs", "04:ops"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("part order = %v, want %v", got, want)
	}
}

func TestSortConcerns_DoesNotMutateInput(t *testing.T) {
	in := []Concern{frontConcern, modelsConcern}
	_ = SortConcerns(in)
	if in[0].Name != "frontend-ui" {
		t.Errorf("SortConcerns mutated input: %v", concernNames(in))
	}
}

func TestPartNumber(t *testing.T) {
	for n, want := range map[int]string{1: "01", 9: "09", 10: "10", 99: "99", 100: "100"} {
		if got := partNumber(n); got != want {
			t.Errorf("partNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLayerIndex(t *testing.T) {
	for i, l := range LayerOrder {
		if got := LayerIndex(l); got != i {
			t.Errorf("LayerIndex(%s) = %d, want %d", l, got, i)
		}
	}
	if got := LayerIndex("unknown"); got != len(LayerOrder) {
		t.Errorf("LayerIndex(unknown) = %d, want %d", got, len(LayerOrder))
	}
}
