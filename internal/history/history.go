// Package history keeps a SQLite log of randomizer runs so a table can be
// reproduced later from its seed and options.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Faultbox/godo/pkg/scene"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	flags TEXT NOT NULL,
	input_path TEXT NOT NULL,
	output_path TEXT NOT NULL,
	records INTEGER NOT NULL,
	inconsistencies INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS failures (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	record INTEGER NOT NULL,
	section TEXT NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (run_id, record)
);
`

// Run is one logged randomizer run.
type Run struct {
	ID              string
	StartedAt       time.Time
	Seed            int64
	Options         scene.Options
	Input           string
	Output          string
	Records         int
	Inconsistencies int
	Failures        []Failure
}

// Failure is one record that could not be transformed.
type Failure struct {
	Record  int
	Section string
	Message string
}

// NewRun builds a Run from a finished table report.
func NewRun(seed int64, opts scene.Options, report *scene.Report) Run {
	r := Run{
		StartedAt: time.Now().UTC(),
		Seed:      seed,
		Options:   opts,
	}
	if report == nil {
		return r
	}
	r.Records = report.Records
	r.Inconsistencies = len(report.Inconsistencies)
	for _, f := range report.Failures {
		r.Failures = append(r.Failures, Failure{Record: f.Record, Section: f.Section, Message: f.Err.Error()})
	}
	return r
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run log at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add stores run and returns its ID. A run without an ID gets a new one.
func (s *Store) Add(ctx context.Context, run Run) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, seed, flags, input_path, output_path, records, inconsistencies)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().UnixMilli(),
		run.Seed,
		encodeFlags(run.Options.Flags()),
		run.Input,
		run.Output,
		run.Records,
		run.Inconsistencies,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, f := range run.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, record, section, message) VALUES (?, ?, ?, ?)`,
			run.ID, f.Record, f.Section, f.Message,
		); err != nil {
			return "", fmt.Errorf("insert failure for record %d: %w", f.Record, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// List returns the most recent runs first, without their failures.
// limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, seed, flags, input_path, output_path, records, inconsistencies
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run with its failures in record order.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, seed, flags, input_path, output_path, records, inconsistencies
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record, section, message FROM failures WHERE run_id = ? ORDER BY record`, id)
	if err != nil {
		return Run{}, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Record, &f.Section, &f.Message); err != nil {
			return Run{}, fmt.Errorf("scan failure: %w", err)
		}
		r.Failures = append(r.Failures, f)
	}
	return r, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		started int64
		flags   string
	)
	err := sc.Scan(&r.ID, &started, &r.Seed, &flags, &r.Input, &r.Output, &r.Records, &r.Inconsistencies)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt = time.UnixMilli(started).UTC()
	r.Options = scene.OptionsFromFlags(decodeFlags(flags))
	return r, nil
}

// encodeFlags writes the legacy flag array as a string of '0' and '1'.
func encodeFlags(flags []bool) string {
	var b strings.Builder
	b.Grow(len(flags))
	for _, f := range flags {
		if f {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func decodeFlags(s string) []bool {
	flags := make([]bool, len(s))
	for i := range s {
		flags[i] = s[i] == '1'
	}
	return flags
}
