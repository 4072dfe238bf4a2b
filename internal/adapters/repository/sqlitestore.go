package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/pkg/metrics"
)

// SQLiteStore is a persistent Store implementation backed by SQLite. Rows
// keep insertion order via rowid, which preserves the creation-ordered pool
// semantics of MemStore across restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a SQLite-backed report store
// at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}

	// Ensure schema exists.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS reports (
  id            TEXT PRIMARY KEY,
  kind          TEXT NOT NULL CHECK (kind IN ('lost','found')),
  breed         TEXT NOT NULL DEFAULT '',
  color         TEXT NOT NULL DEFAULT '',
  lat           REAL NOT NULL,
  lng           REAL NOT NULL,
  owner_user_id TEXT NOT NULL DEFAULT '',
  anchor_date   TEXT NOT NULL,
  status        TEXT NOT NULL CHECK (status IN ('active','resolved','expired')),
  description   TEXT NOT NULL DEFAULT '',
  photo_url     TEXT NOT NULL DEFAULT '',
  created_at    TEXT NOT NULL,
  updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_kind_status ON reports(kind, status);
CREATE INDEX IF NOT EXISTS idx_reports_owner ON reports(owner_user_id);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const reportColumns = "id, kind, breed, color, lat, lng, owner_user_id, anchor_date, status, description, photo_url, created_at, updated_at"

// Create persists a new report, assigning its ID and timestamps.
func (s *SQLiteStore) Create(ctx context.Context, r *model.Report) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := r.Validate(); err != nil {
		metrics.RecordStoreError()
		return model.Report{}, err
	}

	stored := *r
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = model.StatusActive
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		stored.ID, string(stored.Kind), stored.Breed, stored.Color,
		stored.Location.Lat, stored.Location.Lng, stored.OwnerUserID,
		stored.AnchorDate.UTC().Format(time.RFC3339), string(stored.Status),
		stored.Description, stored.PhotoURL,
		stored.CreatedAt.Format(time.RFC3339Nano), stored.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		metrics.RecordStoreError()
		return model.Report{}, fmt.Errorf("insert report: %w", err)
	}

	if n, err := s.count(ctx); err == nil {
		metrics.UpdateTotalReports(n)
	}
	return stored, nil
}

// Get returns the report with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Report{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Report{}, fmt.Errorf("select report: %w", err)
	}
	return r, nil
}

// List returns reports matching the filter in creation order.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	args := make([]any, 0, 3)
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY rowid`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

// ActiveByKind returns the active reports of the given kind in creation
// order.
func (s *SQLiteStore) ActiveByKind(ctx context.Context, kind model.Kind) ([]model.Report, error) {
	return s.List(ctx, Filter{Kind: kind, Status: model.StatusActive})
}

// UpdateStatus transitions a report's lifecycle status.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !status.Valid() {
		metrics.RecordStoreError()
		return model.Report{}, ErrInvalidStatus
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		metrics.RecordStoreError()
		return model.Report{}, fmt.Errorf("update report status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Report{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Count returns the number of reports tracked by the store.
func (s *SQLiteStore) Count(ctx context.Context) int {
	n, err := s.count(ctx)
	if err != nil {
		return 0
	}
	return n
}

func (s *SQLiteStore) count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanReport.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (model.Report, error) {
	var (
		r                        model.Report
		kind, status             string
		anchor, created, updated string
	)
	if err := row.Scan(
		&r.ID, &kind, &r.Breed, &r.Color,
		&r.Location.Lat, &r.Location.Lng, &r.OwnerUserID,
		&anchor, &status, &r.Description, &r.PhotoURL,
		&created, &updated,
	); err != nil {
		return model.Report{}, err
	}
	r.Kind = model.Kind(kind)
	r.Status = model.Status(status)

	// Timestamps were written by this store; parse failures indicate an
	// externally corrupted row and surface as zero times rather than errors.
	r.AnchorDate, _ = time.Parse(time.RFC3339, anchor)
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return r, nil
}
