package history

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir(), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// freezeClock makes Now() advance one second per call from a fixed start.
func freezeClock(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	orig := timeNow
	timeNow = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { timeNow = orig })
}

func sampleResult(feature string, decision decomposition.Decision, score int) decomposition.Result {
	r := decomposition.Result{
		Feature:         feature,
		Decision:        decision,
		ComplexityScore: score,
		Metrics:         decomposition.ComplexityMetrics{Architecture: score, Setup: score, Testing: score, IntentScope: score, ResearchBreadth: score},
		Concerns: []decomposition.Concern{
			{Name: "models", Layer: decomposition.LayerModels, Scope: "schema", Components: []string{"Recipe"}},
			{Name: "backend-logic", Layer: decomposition.LayerBackend, Scope: "controllers"},
		},
		Coupling:  decomposition.CouplingLow,
		Rationale: "test",
	}
	if decision == decomposition.DecisionParts {
		r.Parts = decomposition.GenerateParts(r.Concerns)
	}
	return r
}

// ─── New ─────────────────────────────────────────────────────────────────────

func TestNew_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(Config{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, filepath.Join(dir, "history.db"))
	assert.Equal(t, 20, s.cfg.MaxResults, "zero MaxResults falls back to default")
}

func TestNew_IdempotentReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := New(Config{DataDir: dir})
	require.NoError(t, err)
	run, err := s1.Save("recipes", sampleResult("recipes", decomposition.DecisionSingleTask, 40))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := New(Config{DataDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "recipes", got.Feature)
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}
	t.Cleanup(func() { openDB = orig })

	_, err := New(Config{DataDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: open database")
}

// ─── Save / Get ──────────────────────────────────────────────────────────────

func TestSaveAndGet_RoundTrip(t *testing.T) {
	freezeClock(t)
	origID := newID
	newID = func() string { return "run-1" }
	t.Cleanup(func() { newID = origID })

	s := newTestStore(t)
	result := sampleResult("Recipe Sharing", decomposition.DecisionParts, 83)

	saved, err := s.Save("", result)
	require.NoError(t, err)
	assert.Equal(t, "run-1", saved.ID)
	assert.Equal(t, "Recipe Sharing", saved.Feature)
	assert.Equal(t, "recipe-sharing", saved.FeatureKey)
	assert.Equal(t, 2, saved.ConcernCount)
	assert.Equal(t, 2, saved.PartCount)
	assert.Equal(t, "2026-03-01 12:00:01", saved.CreatedAt)

	got, err := s.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, *saved, *got)
	assert.Equal(t, result, got.Result)
}

func TestSave_FeatureOverride(t *testing.T) {
	s := newTestStore(t)
	run, err := s.Save("Override Name", sampleResult("original", decomposition.DecisionSingleTask, 10))
	require.NoError(t, err)
	assert.Equal(t, "override-name", run.FeatureKey)
}

func TestSave_UnnamedFeature(t *testing.T) {
	s := newTestStore(t)
	run, err := s.Save("", sampleResult("", decomposition.DecisionSingleTask, 10))
	require.NoError(t, err)
	assert.Equal(t, "unnamed-feature", run.FeatureKey)
}

func TestSave_RejectsUnknownDecision(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save("x", decomposition.Result{Decision: "MAYBE"})
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ─── List / Latest ───────────────────────────────────────────────────────────

func TestList_FiltersAndOrder(t *testing.T) {
	freezeClock(t)
	s := newTestStore(t)

	saves := []struct {
		feature  string
		decision decomposition.Decision
		score    int
	}{
		{"recipes", decomposition.DecisionSingleTask, 40},
		{"Recipes", decomposition.DecisionParts, 75},
		{"billing", decomposition.DecisionParts, 90},
		{"recipes", decomposition.DecisionParts, 85},
	}
	for _, sv := range saves {
		_, err := s.Save(sv.feature, sampleResult(sv.feature, sv.decision, sv.score))
		require.NoError(t, err)
	}

	all, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 85, all[0].ComplexityScore, "newest first")
	assert.Equal(t, 40, all[3].ComplexityScore)

	recipes, err := s.List(ListOptions{Feature: "RECIPES"})
	require.NoError(t, err)
	assert.Len(t, recipes, 3)

	parts, err := s.List(ListOptions{Feature: "recipes", Decision: decomposition.DecisionParts})
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	limited, err := s.List(ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = s.List(ListOptions{Decision: "SPLIT"})
	assert.Error(t, err)
}

func TestList_SameSecondKeepsInsertOrder(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Save(fmt.Sprintf("f%d", i), sampleResult("", decomposition.DecisionSingleTask, i))
		require.NoError(t, err)
	}

	runs, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "f2", runs[0].Feature)
	assert.Equal(t, "f0", runs[2].Feature)
}

func TestLatest(t *testing.T) {
	freezeClock(t)
	s := newTestStore(t)

	_, err := s.Latest("recipes")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Save("recipes", sampleResult("recipes", decomposition.DecisionSingleTask, 30))
	require.NoError(t, err)
	second, err := s.Save("recipes", sampleResult("recipes", decomposition.DecisionParts, 88))
	require.NoError(t, err)

	latest, err := s.Latest("recipes")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

// ─── Delete ──────────────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	run, err := s.Save("x", sampleResult("x", decomposition.DecisionSingleTask, 10))
	require.NoError(t, err)

	require.NoError(t, s.Delete(run.ID))
	_, err = s.Get(run.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(run.ID), ErrNotFound)
}

// ─── Stats ───────────────────────────────────────────────────────────────────

func TestStats_Empty(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRuns)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Equal(t, 0, stats.ByDecision["PARTS"])
	assert.Empty(t, stats.LastRunAt)
}

func TestStats(t *testing.T) {
	freezeClock(t)
	s := newTestStore(t)

	for _, sv := range []struct {
		feature  string
		decision decomposition.Decision
		score    int
	}{
		{"a", decomposition.DecisionSingleTask, 40},
		{"a", decomposition.DecisionParts, 80},
		{"b", decomposition.DecisionParts, 85},
	} {
		_, err := s.Save(sv.feature, sampleResult(sv.feature, sv.decision, sv.score))
		require.NoError(t, err)
	}

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.Features)
	assert.Equal(t, 1, stats.ByDecision["SINGLE_TASK"])
	assert.Equal(t, 2, stats.ByDecision["PARTS"])
	assert.Equal(t, 68.3, stats.AverageScore)
	assert.Equal(t, "2026-03-01 12:00:03", stats.LastRunAt)
}
