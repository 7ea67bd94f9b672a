package decomposition

import (
	"fmt"
	"slices"
)

// dependencyMode selects which preceding parts a rule links to.
type dependencyMode int

const (
	// dependNearest links to the closest preceding part of the layer.
	dependNearest dependencyMode = iota
	// dependAll links to every preceding part of the layer.
	dependAll
)

// dependencyRule says a part of layer depends on preceding parts of on.
type dependencyRule struct {
	on   Layer
	mode dependencyMode
}

// dependencyRules is keyed by the dependent layer. Layers without an
// entry (models, infrastructure) get no automatic dependencies.
var dependencyRules = map[Layer]dependencyRule{
	LayerBackend:     {on: LayerModels, mode: dependNearest},
	LayerFrontend:    {on: LayerBackend, mode: dependNearest},
	LayerIntegration: {on: LayerBackend, mode: dependAll},
}

// SortConcerns returns a copy of concerns in canonical layer order.
// Unknown layers sort last and keep their detection order.
func SortConcerns(concerns []Concern) []Concern {
	sorted := slices.Clone(concerns)
	slices.SortStableFunc(sorted, func(a, b Concern) int {
		return LayerIndex(a.Layer) - LayerIndex(b.Layer)
	})
	return sorted
}

// GenerateParts turns concerns into numbered, ordered parts with their
// dependencies resolved.
func GenerateParts(concerns []Concern) []Part {
	sorted := SortConcerns(concerns)
	parts := make([]Part, 0, len(sorted))
	for i, c := range sorted {
		parts = append(parts, Part{
			Number:       partNumber(i + 1),
			Name:         c.Name,
			Concerns:     []string{string(c.Layer)},
			Scope:        c.Scope,
			Dependencies: dependenciesFor(c, sorted[:i]),
		})
	}
	return parts
}

// dependenciesFor resolves the dependency names of c against the parts
// that precede it. The result is never nil.
func dependenciesFor(c Concern, preceding []Concern) []string {
	deps := []string{}
	rule, ok := dependencyRules[c.Layer]
	if !ok {
		return deps
	}

	switch rule.mode {
	case dependNearest:
		for i := len(preceding) - 1; i >= 0; i-- {
			if preceding[i].Layer == rule.on {
				deps = append(deps, preceding[i].Name)
				break
			}
		}
	case dependAll:
		for _, p := range preceding {
			if p.Layer == rule.on {
				deps = append(deps, p.Name)
			}
		}
	}
	return deps
}

func partNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}
