package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"recode/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const entryColumns = "path, filename, transcode, status"

// Open initializes or connects to the queue database and provisions the
// schema.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InsertBatch inserts scan results one row at a time. A duplicate
// (path, filename) key is logged and skipped without aborting the rest of
// the batch; any other error aborts and is returned to the caller.
// The number of rows actually inserted is returned.
func (s *Store) InsertBatch(ctx context.Context, entries []Entry) (int, error) {
	inserted := 0
	for _, entry := range entries {
		if !entry.Transcode.Valid() || !entry.Status.Valid() {
			return inserted, fmt.Errorf("invalid entry %s/%s: transcode=%q status=%q",
				entry.Path, entry.Filename, entry.Transcode, entry.Status)
		}
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO queue (`+entryColumns+`) VALUES (?, ?, ?, ?)`,
			entry.Path,
			entry.Filename,
			string(entry.Transcode),
			string(entry.Status),
		)
		if err != nil {
			if isUniqueViolation(err) {
				s.logger.Warn("duplicate queue entry skipped",
					"path", entry.Path, "filename", entry.Filename)
				continue
			}
			return inserted, fmt.Errorf("insert entry %s: %w", entry.SourcePath(), err)
		}
		inserted++
	}
	s.logger.Info("inserted scan results", "inserted", inserted, "total", len(entries))
	return inserted, nil
}

// SelectBatch returns entries eligible for transcoding in queue order.
// A limit of zero or less selects without a cap.
func (s *Store) SelectBatch(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM queue WHERE transcode = ? AND status = ? ORDER BY rowid`
	args := []any{string(FlagTranscode), string(StatusQueued)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	entries, err := s.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select batch: %w", err)
	}
	return entries, nil
}

// SelectRetry returns every entry with a failed status.
func (s *Store) SelectRetry(ctx context.Context) ([]Entry, error) {
	entries, err := s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM queue WHERE status = ? ORDER BY rowid`,
		string(StatusFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("select retry: %w", err)
	}
	return entries, nil
}

// SelectAll returns every tracked entry in queue order.
func (s *Store) SelectAll(ctx context.Context) ([]Entry, error) {
	entries, err := s.queryEntries(ctx, `SELECT `+entryColumns+` FROM queue ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select all: %w", err)
	}
	return entries, nil
}

// UpdateStatus sets the status for the matching unique key.
func (s *Store) UpdateStatus(ctx context.Context, path, filename string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue SET status = ? WHERE path = ? AND filename = ?`,
		string(status),
		path,
		filename,
	)
	if err != nil {
		return fmt.Errorf("update status for %s/%s: %w", path, filename, err)
	}
	s.logger.Info("status updated", "path", path, "filename", filename, "status", string(status))
	return nil
}

// Aggregate returns a count per status, defaulting unseen statuses to zero,
// plus the list of failed entries.
func (s *Store) Aggregate(ctx context.Context) (Summary, error) {
	summary := Summary{Counts: make(map[Status]int, len(allStatuses))}
	for _, status := range allStatuses {
		summary.Counts[status] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(status) FROM queue GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan aggregate row: %w", err)
		}
		summary.Counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("aggregate rows: %w", err)
	}

	failed, err := s.SelectRetry(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary.Failed = failed
	return summary, nil
}

// Count returns the total number of tracked rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count queue rows: %w", err)
	}
	return count, nil
}

// ReclaimActive flips entries orphaned at active back to failed. An active
// row outside a running transcode is evidence of a crash mid-encode;
// failing it routes the file into the retry set.
func (s *Store) ReclaimActive(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE queue SET status = ? WHERE status = ?`,
		string(StatusFailed),
		string(StatusActive),
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim active entries: %w", err)
	}
	reclaimed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if reclaimed > 0 {
		s.logger.Warn("reclaimed entries stuck at active from a previous run", "reclaimed", reclaimed)
	}
	return reclaimed, nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var transcode, status string
		if err := rows.Scan(&entry.Path, &entry.Filename, &transcode, &status); err != nil {
			return nil, err
		}
		entry.Transcode = Flag(transcode)
		entry.Status = Status(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
