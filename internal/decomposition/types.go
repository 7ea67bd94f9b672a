package decomposition

import (
	"encoding/json"
	"fmt"
)

// --- Layer enum ---

// Layer is one of the canonical functional layers a feature can touch.
type Layer string

const (
	LayerModels         Layer = "models"
	LayerBackend        Layer = "backend"
	LayerFrontend       Layer = "frontend"
	LayerIntegration    Layer = "integration"
	LayerInfrastructure Layer = "infrastructure"
)

// LayerOrder is the canonical layer sequence. The part sorter and the
// dependency rules both read it, so it is the only place the order lives.
var LayerOrder = []Layer{
	LayerModels,
	LayerBackend,
	LayerFrontend,
	LayerIntegration,
	LayerInfrastructure,
}

// LayerIndex returns the position of the layer in LayerOrder, or
// len(LayerOrder) for layers outside the canonical set.
func LayerIndex(l Layer) int {
	for i, known := range LayerOrder {
		if known == l {
			return i
		}
	}
	return len(LayerOrder)
}

// --- Coupling enum ---

// CouplingLevel estimates how interdependent the detected concerns are.
type CouplingLevel string

const (
	CouplingLow    CouplingLevel = "LOW"
	CouplingMedium CouplingLevel = "MEDIUM"
	CouplingHigh   CouplingLevel = "HIGH"
)

// --- Decision enum ---

// Decision is the outcome of the decomposition analysis.
type Decision string

const (
	DecisionSingleTask Decision = "SINGLE_TASK"
	DecisionParts      Decision = "PARTS"
)

var validDecisions = map[Decision]bool{
	DecisionSingleTask: true,
	DecisionParts:      true,
}

// ValidateDecision returns an error if the decision is not recognized.
func ValidateDecision(d Decision) error {
	if !validDecisions[d] {
		return fmt.Errorf("invalid decision %q: must be one of: SINGLE_TASK, PARTS", d)
	}
	return nil
}

// --- Core data structures ---

// ComplexityMetrics holds the five dimension scores, each in [0,100].
type ComplexityMetrics struct {
	Architecture    int `json:"architecture"`
	Setup           int `json:"setup"`
	Testing         int `json:"testing"`
	IntentScope     int `json:"intent_scope"`
	ResearchBreadth int `json:"research_breadth"`
}

// Overall is the truncated integer mean of the five dimensions.
func (m ComplexityMetrics) Overall() int {
	return (m.Architecture + m.Setup + m.Testing + m.IntentScope + m.ResearchBreadth) / 5
}

// Concern is a distinct functional layer detected in the feature.
type Concern struct {
	Name       string   `json:"name"`
	Layer      Layer    `json:"layer"`
	Scope      string   `json:"scope"`
	Components []string `json:"components,omitempty"`
}

// Part is a concern promoted to an ordered unit of implementation work.
type Part struct {
	Number       string   `json:"number"`
	Name         string   `json:"name"`
	Concerns     []string `json:"concerns"`
	Scope        string   `json:"scope"`
	Dependencies []string `json:"dependencies"`
}

// Result is the full output of one analysis run. Parts is populated
// only when Decision is PARTS.
type Result struct {
	Feature         string            `json:"feature,omitempty"`
	Decision        Decision          `json:"decision"`
	ComplexityScore int               `json:"complexity_score"`
	Metrics         ComplexityMetrics `json:"metrics"`
	Concerns        []Concern         `json:"concerns"`
	Coupling        CouplingLevel     `json:"coupling"`
	Rationale       string            `json:"rationale,omitempty"`
	Parts           []Part            `json:"-"`
}

// resultJSON mirrors Result for encoding. Parts is a pointer so the
// field is omitted for SINGLE_TASK and present (possibly empty) for PARTS.
type resultJSON struct {
	Feature         string            `json:"feature,omitempty"`
	Decision        Decision          `json:"decision"`
	ComplexityScore int               `json:"complexity_score"`
	Metrics         ComplexityMetrics `json:"metrics"`
	Concerns        []Concern         `json:"concerns"`
	Coupling        CouplingLevel     `json:"coupling"`
	Rationale       string            `json:"rationale,omitempty"`
	Parts           *[]Part           `json:"parts,omitempty"`
}

// MarshalJSON emits "parts" only for PARTS decisions.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Feature:         r.Feature,
		Decision:        r.Decision,
		ComplexityScore: r.ComplexityScore,
		Metrics:         r.Metrics,
		Concerns:        r.Concerns,
		Coupling:        r.Coupling,
		Rationale:       r.Rationale,
	}
	if out.Concerns == nil {
		out.Concerns = []Concern{}
	}
	if r.Decision == DecisionParts {
		parts := r.Parts
		if parts == nil {
			parts = []Part{}
		}
		out.Parts = &parts
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a Result written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{
		Feature:         in.Feature,
		Decision:        in.Decision,
		ComplexityScore: in.ComplexityScore,
		Metrics:         in.Metrics,
		Concerns:        in.Concerns,
		Coupling:        in.Coupling,
		Rationale:       in.Rationale,
	}
	if in.Parts != nil {
		r.Parts = *in.Parts
	}
	return nil
}
