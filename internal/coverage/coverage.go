// Package coverage evaluates how well documentation research covers a
// feature before decomposition runs.
//
// Four category scores (architecture, setup, testing, implementation)
// are averaged into an overall coverage score, which maps to one of
// three next steps: proceed, run a few more targeted searches, or
// revise the research approach.
package coverage

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Thresholds for the overall coverage score.
const (
	ThresholdProceed = 75
	ThresholdSearch  = 50
)

// Decision is the next research step.
type Decision string

const (
	DecisionProceed          Decision = "proceed"
	DecisionAdditionalSearch Decision = "additional_search"
	DecisionRevise           Decision = "revise"
)

// ExitCode maps the decision to the CLI exit status.
func (d Decision) ExitCode() int {
	switch d {
	case DecisionAdditionalSearch:
		return 1
	case DecisionRevise:
		return 2
	default:
		return 0
	}
}

// ErrInvalidScore is returned when a category score is outside [0,100].
var ErrInvalidScore = errors.New("invalid coverage score")

// Scores are the per-category coverage scores, each in [0,100].
// Field order is the tie-break order for weakest areas.
type Scores struct {
	Architecture   int `json:"architecture" validate:"gte=0,lte=100"`
	Setup          int `json:"setup" validate:"gte=0,lte=100"`
	Testing        int `json:"testing" validate:"gte=0,lte=100"`
	Implementation int `json:"implementation" validate:"gte=0,lte=100"`
}

// Category is one named score, in declaration order.
type Category struct {
	Name  string
	Score int
}

// Categories lists the scores in declaration order.
func (s Scores) Categories() []Category {
	return []Category{
		{Name: "architecture", Score: s.Architecture},
		{Name: "setup", Score: s.Setup},
		{Name: "testing", Score: s.Testing},
		{Name: "implementation", Score: s.Implementation},
	}
}

// Report is the result of one coverage evaluation.
type Report struct {
	OverallScore   float64  `json:"overall_score"`
	Decision       Decision `json:"decision"`
	Message        string   `json:"message"`
	Breakdown      Scores   `json:"breakdown"`
	WeakestAreas   []string `json:"weakest_areas"`
	Recommendation string   `json:"recommendation"`
}

// validate is a singleton validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
}

// Validate reports the first category outside [0,100].
func (s Scores) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating scores: %w", err)
	}
	fe := verrs[0]
	return fmt.Errorf("%w: %s score must be between 0 and 100, got %v", ErrInvalidScore, fe.Field(), fe.Value())
}

// Evaluate validates the scores and builds the coverage report.
func Evaluate(s Scores) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}

	categories := s.Categories()
	sum := 0
	for _, c := range categories {
		sum += c.Score
	}
	overall := float64(sum) / float64(len(categories))

	decision, message := decide(overall)
	weakest := weakestAreas(categories)

	return Report{
		OverallScore:   roundOne(overall),
		Decision:       decision,
		Message:        message,
		Breakdown:      s,
		WeakestAreas:   weakest,
		Recommendation: recommend(decision, weakest),
	}, nil
}

func decide(overall float64) (Decision, string) {
	switch {
	case overall >= ThresholdProceed:
		return DecisionProceed, "Coverage >= 75%, continue to Step 6 (Cache Patterns)"
	case overall >= ThresholdSearch:
		return DecisionAdditionalSearch, "Coverage 50-74%, execute 1-2 targeted searches to fill gaps"
	default:
		return DecisionRevise, "Coverage < 50%, reconsider approach or try alternative search terms"
	}
}

// weakestAreas returns categories below the proceed threshold, lowest
// first. Ties keep declaration order.
func weakestAreas(categories []Category) []string {
	sorted := make([]Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})

	areas := []string{}
	for _, c := range sorted {
		if c.Score < ThresholdProceed {
			areas = append(areas, c.Name)
		}
	}
	return areas
}

func recommend(d Decision, weakest []string) string {
	switch d {
	case DecisionProceed:
		return "All categories sufficiently covered. Proceed with caching patterns."
	case DecisionAdditionalSearch:
		areas := "all areas"
		if len(weakest) > 0 {
			areas = strings.Join(weakest, ", ")
		}
		return "Execute 1-2 targeted Context7 searches focusing on: " + areas
	default:
		return "Broad gap in coverage. Consider different search terms or consult framework documentation."
	}
}

// roundOne rounds to one decimal, halves to even.
func roundOne(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// Status is the per-category marker used by text renderers.
func Status(score int) string {
	switch {
	case score >= ThresholdProceed:
		return "✓"
	case score >= ThresholdSearch:
		return "⚠"
	default:
		return "✗"
	}
}
