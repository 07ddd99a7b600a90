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

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// warningSeparator joins run warnings into a single column.
	warningSeparator = "\n"
)

// Store persists runs in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the ledger at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
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
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores run and its videos, replacing any earlier record with the
// same ID.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		for _, stmt := range []string{
			"DELETE FROM run_videos WHERE run_id = ?",
			"DELETE FROM runs WHERE id = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, run.ID); err != nil {
				return fmt.Errorf("replace run: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, target_language, started_at, finished_at, warnings) VALUES (?, ?, ?, ?, ?)`,
			run.ID,
			nullableString(run.Target),
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
			nullableString(strings.Join(run.Warnings, warningSeparator)),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for i, v := range run.Videos {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_videos (run_id, position, video_path, classification, state, demoted,
					subtitle_path, output_path, source_language, error_kind, error_message, elapsed_ms)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, v.Path, v.Classification, v.State, boolToInt(v.Demoted),
				nullableString(v.Subtitle), nullableString(v.Output), nullableString(v.SourceLanguage),
				nullableString(v.ErrorKind), nullableString(v.ErrorMessage), v.Elapsed.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert video %s: %w", v.Path, err)
			}
		}
		return tx.Commit()
	})
}

// List returns the most recent runs first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT r.id, r.target_language, r.started_at, r.finished_at,
		COUNT(v.position),
		COALESCE(SUM(CASE WHEN v.state = 'done' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN v.state = 'skipped' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN v.state = 'failed' THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN run_videos v ON v.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary           Summary
			target            sql.NullString
			started, finished string
		)
		if err := rows.Scan(&summary.ID, &target, &started, &finished,
			&summary.Videos, &summary.Done, &summary.Skipped, &summary.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.Target = target.String
		summary.StartedAt, _ = parseTime(started)
		summary.FinishedAt, _ = parseTime(finished)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Get loads a run with all of its videos.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var (
		run               Run
		target, warnings  sql.NullString
		started, finished string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, target_language, started_at, finished_at, warnings FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &target, &started, &finished, &warnings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	run.Target = target.String
	run.StartedAt, _ = parseTime(started)
	run.FinishedAt, _ = parseTime(finished)
	if warnings.String != "" {
		run.Warnings = strings.Split(warnings.String, warningSeparator)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT video_path, classification, state, demoted, subtitle_path, output_path,
			source_language, error_kind, error_message, elapsed_ms
		FROM run_videos WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get run videos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			v                                 Video
			demoted                           int
			subtitle, output, lang, kind, msg sql.NullString
			elapsedMS                         int64
		)
		if err := rows.Scan(&v.Path, &v.Classification, &v.State, &demoted, &subtitle, &output,
			&lang, &kind, &msg, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run video: %w", err)
		}
		v.Demoted = demoted != 0
		v.Subtitle = subtitle.String
		v.Output = output.String
		v.SourceLanguage = lang.String
		v.ErrorKind = kind.String
		v.ErrorMessage = msg.String
		v.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		run.Videos = append(run.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// Prune deletes runs that started before cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	bound := formatTime(cutoff)
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback()
		}()
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM run_videos WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)", bound); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", bound)
		if err != nil {
			return err
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// formatTime uses a fixed-width UTC layout so started_at sorts lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
