package decomposition

import "strings"

// evidenceSource names the slice of input a signal inspects.
type evidenceSource int

const (
	sourceSetup evidenceSource = iota
	sourceArchitecture
	sourceDataModels
	sourceUIComponents
)

// evidence is the lower-cased view of the inputs that concern and
// coupling rules scan.
type evidence struct {
	setup        string
	architecture string
	dataModels   []string
	uiComponents []string
}

func gatherEvidence(intent IntentData, research ResearchData) evidence {
	return evidence{
		setup:        strings.ToLower(string(research.SetupPatterns)),
		architecture: strings.ToLower(research.ArchitecturePatterns.Joined()),
		dataModels:   intent.DataModels,
		uiComponents: intent.UIComponents,
	}
}

func (e evidence) text(src evidenceSource) string {
	switch src {
	case sourceSetup:
		return e.setup
	case sourceArchitecture:
		return e.architecture
	default:
		return ""
	}
}

func (e evidence) items(src evidenceSource) []string {
	switch src {
	case sourceDataModels:
		return e.dataModels
	case sourceUIComponents:
		return e.uiComponents
	default:
		return nil
	}
}

// signal is one piece of evidence for a layer. Text sources match when
// any (or, with requireAll, every) keyword is present; list sources match
// when the list is non-empty.
type signal struct {
	source     evidenceSource
	keywords   []string
	requireAll bool
}

func (s signal) matches(e evidence) bool {
	switch s.source {
	case sourceDataModels, sourceUIComponents:
		return len(e.items(s.source)) > 0
	}
	text := e.text(s.source)
	if s.requireAll {
		return containsAll(text, s.keywords)
	}
	return containsAny(text, s.keywords)
}

// concernRule maps evidence to one canonical layer. A layer is present
// when any of its signals matches.
type concernRule struct {
	layer   Layer
	name    string
	scope   string
	signals []signal
	// components names the list copied into Concern.Components, if any.
	components evidenceSource
	hasItems   bool
}

// concernRules is evaluated in order; the order is also the detection
// order of the returned concerns.
var concernRules = []concernRule{
	{
		layer:      LayerModels,
		name:       "models",
		scope:      "Database schema, migrations, model classes, relationships",
		signals:    []signal{{source: sourceDataModels}},
		components: sourceDataModels,
		hasItems:   true,
	},
	{
		layer: LayerBackend,
		name:  "backend-logic",
		scope: "Controllers, services, business logic, API endpoints",
		signals: []signal{
			{source: sourceSetup, keywords: []string{"controller", "service"}},
			{source: sourceArchitecture, keywords: []string{"api"}},
		},
	},
	{
		layer:      LayerFrontend,
		name:       "frontend-ui",
		scope:      "Views, components, forms, client-side logic",
		signals:    []signal{{source: sourceUIComponents}},
		components: sourceUIComponents,
		hasItems:   true,
	},
	{
		layer: LayerIntegration,
		name:  "integrations",
		scope: "External API/service integrations",
		signals: []signal{
			{source: sourceArchitecture, keywords: []string{"api", "external"}, requireAll: true},
		},
	},
	{
		layer: LayerInfrastructure,
		name:  "infrastructure",
		scope: "Queues, caching, background jobs",
		signals: []signal{
			{source: sourceSetup, keywords: []string{"queue", "cache", "job"}},
		},
	},
}

// ExtractConcerns returns one Concern per canonical layer with evidence
// in the inputs, in rule order.
func ExtractConcerns(intent IntentData, research ResearchData) []Concern {
	return extractConcerns(gatherEvidence(intent, research))
}

func extractConcerns(e evidence) []Concern {
	var concerns []Concern
	for _, rule := range concernRules {
		if !rule.detect(e) {
			continue
		}
		concerns = append(concerns, Concern{
			Name:       rule.name,
			Layer:      rule.layer,
			Scope:      rule.scope,
			Components: rule.componentsFrom(e),
		})
	}
	return concerns
}

func (r concernRule) detect(e evidence) bool {
	for _, s := range r.signals {
		if s.matches(e) {
			return true
		}
	}
	return false
}

func (r concernRule) componentsFrom(e evidence) []string {
	if !r.hasItems {
		return nil
	}
	items := e.items(r.components)
	out := make([]string, len(items))
	copy(out, items)
	return out
}
