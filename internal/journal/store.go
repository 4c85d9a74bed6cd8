// Package journal keeps an optional SQLite history of runs and encoded units.
//
// The journal is informational. Completion is decided solely by sentinel
// files; nothing here is consulted when choosing whether to skip work.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists run history.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run in the running state.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, root, dry_run, started_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Root, boolToInt(run.DryRun),
		run.StartedAt.UTC().Format(timeLayout), StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the final status of a run. A nil runErr marks it completed.
func (s *Store) FinishRun(ctx context.Context, id string, runErr error) error {
	status := StatusCompleted
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error_message = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), status, message, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

// RecordUnit appends a unit outcome.
func (s *Store) RecordUnit(ctx context.Context, unit Unit) error {
	if unit.RecordedAt.IsZero() {
		unit.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (
            run_id, directory, label, output_path, file_count,
            status, attempts, duration_ms, error_message, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		unit.RunID, unit.Directory, unit.Label, nullableString(unit.OutputPath), unit.FileCount,
		unit.Status, unit.Attempts, unit.Duration.Milliseconds(), nullableString(unit.ErrorMessage),
		unit.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// List returns the most recent units, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Unit, error) {
	query := `SELECT u.id, u.run_id, r.mode, u.directory, u.label, u.output_path, u.file_count,
            u.status, u.attempts, u.duration_ms, u.error_message, u.recorded_at
        FROM units u JOIN runs r ON r.id = u.run_id
        ORDER BY u.recorded_at DESC, u.id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var (
			u          Unit
			output     sql.NullString
			message    sql.NullString
			durationMS int64
			recorded   string
		)
		if err := rows.Scan(&u.ID, &u.RunID, &u.Mode, &u.Directory, &u.Label, &output, &u.FileCount,
			&u.Status, &u.Attempts, &durationMS, &message, &recorded); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		u.OutputPath = output.String
		u.ErrorMessage = message.String
		u.Duration = time.Duration(durationMS) * time.Millisecond
		u.RecordedAt = parseTime(recorded)
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetRun fetches a run by id, returning nil when it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run      Run
		dryRun   int
		started  string
		finished sql.NullString
		message  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mode, root, dry_run, started_at, finished_at, status, error_message FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Mode, &run.Root, &dryRun, &started, &finished, &run.Status, &message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	run.ErrorMessage = message.String
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
