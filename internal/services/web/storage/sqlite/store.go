package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/fawdetect/fawdetect/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/fawdetect/fawdetect/internal/services/web/storage"
	"github.com/fawdetect/fawdetect/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for detections and session summaries.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ webstorage.Store = (*Store)(nil)

// Open opens and migrates a detection SQLite store, creating the parent
// directory when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendDetections logs records in one transaction.
func (s *Store) AppendDetections(ctx context.Context, records []webstorage.DetectionRecord) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append detections: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO detections (recorded_at, class, confidence, object_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append detections: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, record := range records {
		class := strings.TrimSpace(record.Class)
		if class == "" {
			return fmt.Errorf("detection class is required")
		}
		recordedAt := record.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = s.now()
		}
		if _, err := stmt.ExecContext(ctx, timeToUnixMillis(recordedAt), class, record.Confidence, record.ObjectID); err != nil {
			return fmt.Errorf("append detection: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append detections: %w", err)
	}
	return nil
}

// ListDetections returns the most recent detections, newest first.
func (s *Store) ListDetections(ctx context.Context, limit int) ([]webstorage.DetectionRecord, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, recorded_at, class, confidence, object_id
		 FROM detections
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]webstorage.DetectionRecord, 0)
	for rows.Next() {
		var record webstorage.DetectionRecord
		var recordedAt int64
		if err := rows.Scan(&record.ID, &recordedAt, &record.Class, &record.Confidence, &record.ObjectID); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		record.RecordedAt = unixMillisToTime(recordedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return records, nil
}

// PutSessionSummary inserts summary and returns it with its assigned id.
func (s *Store) PutSessionSummary(ctx context.Context, summary webstorage.SessionSummary) (webstorage.SessionSummary, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.SessionSummary{}, fmt.Errorf("storage is not configured")
	}
	if summary.InfestedCount < 0 || summary.NotInfestedCount < 0 {
		return webstorage.SessionSummary{}, fmt.Errorf("summary counts must not be negative")
	}
	if summary.RecordedAt.IsZero() {
		summary.RecordedAt = s.now()
	}
	summary.RecordedAt = summary.RecordedAt.UTC().Truncate(time.Millisecond)

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO session_summaries (recorded_at, infested_count, not_infested_count) VALUES (?, ?, ?)`,
		timeToUnixMillis(summary.RecordedAt),
		summary.InfestedCount,
		summary.NotInfestedCount,
	)
	if err != nil {
		return webstorage.SessionSummary{}, fmt.Errorf("put session summary: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return webstorage.SessionSummary{}, fmt.Errorf("read session summary id: %w", err)
	}
	summary.ID = id
	return summary, nil
}

// ListSessionSummaries returns all summaries ordered by id.
func (s *Store) ListSessionSummaries(ctx context.Context) ([]webstorage.SessionSummary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, recorded_at, infested_count, not_infested_count
		 FROM session_summaries
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list session summaries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	summaries := make([]webstorage.SessionSummary, 0)
	for rows.Next() {
		var summary webstorage.SessionSummary
		var recordedAt int64
		if err := rows.Scan(&summary.ID, &recordedAt, &summary.InfestedCount, &summary.NotInfestedCount); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		summary.RecordedAt = unixMillisToTime(recordedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}
	return summaries, nil
}

// DeleteSessionSummary removes one summary. It returns storage.ErrNotFound
// when no row has the id.
func (s *Store) DeleteSessionSummary(ctx context.Context, id int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_summaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session summary: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session summary: %w", err)
	}
	if affected == 0 {
		return webstorage.ErrNotFound
	}
	return nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
