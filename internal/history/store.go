// Package history persists decomposition analysis runs in SQLite so
// planners can revisit earlier decisions for a feature.
//
// The store uses the pure-Go modernc.org/sqlite driver with WAL mode.
// Each saved run keeps the full result record as JSON alongside a few
// indexed summary columns used for filtering and statistics.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// newID is a package-level var so tests can pin run IDs.
var newID = func() string { return uuid.New().String() }

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("analysis run not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Run is one persisted analysis.
type Run struct {
	ID              string                      `json:"id"`
	Feature         string                      `json:"feature"`
	FeatureKey      string                      `json:"feature_key"`
	Decision        decomposition.Decision      `json:"decision"`
	ComplexityScore int                         `json:"complexity_score"`
	Coupling        decomposition.CouplingLevel `json:"coupling"`
	ConcernCount    int                         `json:"concern_count"`
	PartCount       int                         `json:"part_count"`
	Result          decomposition.Result        `json:"result"`
	CreatedAt       string                      `json:"created_at"`
}

// ListOptions filters List. Zero values mean "no filter"; Limit <= 0
// uses the configured default.
type ListOptions struct {
	Feature  string                 `json:"feature,omitempty"`
	Decision decomposition.Decision `json:"decision,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	TotalRuns    int            `json:"total_runs"`
	ByDecision   map[string]int `json:"by_decision"`
	AverageScore float64        `json:"average_score"`
	Features     int            `json:"features"`
	LastRunAt    string         `json:"last_run_at,omitempty"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// maxListLimit caps a single List call.
const maxListLimit = 500

// Config holds history store configuration.
type Config struct {
	DataDir    string
	MaxResults int
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(home, ".partwise"),
		MaxResults: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the analysis history backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			seq              INTEGER PRIMARY KEY AUTOINCREMENT,
			id               TEXT    NOT NULL UNIQUE,
			feature          TEXT    NOT NULL DEFAULT '',
			feature_key      TEXT    NOT NULL,
			decision         TEXT    NOT NULL,
			complexity_score INTEGER NOT NULL,
			coupling         TEXT    NOT NULL,
			concern_count    INTEGER NOT NULL DEFAULT 0,
			part_count       INTEGER NOT NULL DEFAULT 0,
			result           TEXT    NOT NULL,
			created_at       TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_runs_feature  ON runs(feature_key, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_decision ON runs(decision);
		CREATE INDEX IF NOT EXISTS idx_runs_created  ON runs(created_at DESC);
	`)
	return err
}

// ─── Runs ────────────────────────────────────────────────────────────────────

// Save stores an analysis result. feature overrides result.Feature when
// non-empty.
func (s *Store) Save(feature string, result decomposition.Result) (*Run, error) {
	if feature == "" {
		feature = result.Feature
	}
	if err := decomposition.ValidateDecision(result.Decision); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("history: encode result: %w", err)
	}

	run := &Run{
		ID:              newID(),
		Feature:         feature,
		FeatureKey:      Slugify(feature),
		Decision:        result.Decision,
		ComplexityScore: result.ComplexityScore,
		Coupling:        result.Coupling,
		ConcernCount:    len(result.Concerns),
		PartCount:       len(result.Parts),
		Result:          result,
		CreatedAt:       Now(),
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, feature, feature_key, decision, complexity_score, coupling,
		                   concern_count, part_count, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Feature, run.FeatureKey, string(run.Decision), run.ComplexityScore,
		string(run.Coupling), run.ConcernCount, run.PartCount, string(data), run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("history: insert run: %w", err)
	}
	return run, nil
}

const runColumns = `id, feature, feature_key, decision, complexity_score, coupling,
		concern_count, part_count, result, created_at`

// Get returns one run by ID.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	return run, nil
}

// Latest returns the most recent run for a feature, or ErrNotFound.
func (s *Store) Latest(feature string) (*Run, error) {
	runs, err := s.List(ListOptions{Feature: feature, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs for feature %q", ErrNotFound, feature)
	}
	return &runs[0], nil
}

// List returns runs newest first.
func (s *Store) List(opts ListOptions) ([]Run, error) {
	if opts.Decision != "" {
		if err := decomposition.ValidateDecision(opts.Decision); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}
	limit = min(limit, maxListLimit)

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []any
	if opts.Feature != "" {
		query += ` AND feature_key = ?`
		args = append(args, Slugify(opts.Feature))
	}
	if opts.Decision != "" {
		query += ` AND decision = ?`
		args = append(args, string(opts.Decision))
	}
	query += ` ORDER BY created_at DESC, seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Delete removes a run. Deleting an unknown ID returns ErrNotFound.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("history: delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("history: delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate statistics over all runs.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByDecision: map[string]int{
		string(decomposition.DecisionSingleTask): 0,
		string(decomposition.DecisionParts):      0,
	}}

	var avg sql.NullFloat64
	var last sql.NullString
	err := s.db.QueryRow(
		`SELECT COUNT(*), AVG(complexity_score), COUNT(DISTINCT feature_key), MAX(created_at) FROM runs`,
	).Scan(&stats.TotalRuns, &avg, &stats.Features, &last)
	if err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	if avg.Valid {
		stats.AverageScore = roundOne(avg.Float64)
	}
	stats.LastRunAt = last.String

	rows, err := s.db.Query(`SELECT decision, COUNT(*) FROM runs GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("history: stats by decision: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var d string
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return nil, fmt.Errorf("history: stats by decision: %w", err)
		}
		stats.ByDecision[d] = n
	}
	return stats, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		r        Run
		decision string
		coupling string
		data     string
	)
	if err := row.Scan(
		&r.ID, &r.Feature, &r.FeatureKey, &decision, &r.ComplexityScore, &coupling,
		&r.ConcernCount, &r.PartCount, &data, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.Decision = decomposition.Decision(decision)
	r.Coupling = decomposition.CouplingLevel(coupling)
	if err := json.Unmarshal([]byte(data), &r.Result); err != nil {
		return nil, fmt.Errorf("decode result of run %s: %w", r.ID, err)
	}
	return &r, nil
}

func roundOne(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
