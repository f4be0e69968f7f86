package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/reports"

	_ "modernc.org/sqlite"
)

// Sync states for the export pipeline.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("not found")

// SQLiteRepository is the queryable entry store. It implements
// reports.EntrySource for the aggregation layer and the CRUD surface for
// the HTTP handlers and export worker.
type SQLiteRepository struct {
	db *sql.DB
}

// PendingSyncEntry is the minimal payload the export worker needs to
// build a sync message.
type PendingSyncEntry struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchEntries implements reports.EntrySource. Soft-deleted rows are
// always excluded; the category comes back joined so the aggregators can
// group without extra lookups.
func (r *SQLiteRepository) FetchEntries(ctx context.Context, f reports.Filter) ([]core.Entry, error) {
	query := `SELECT e.id, e.kind, e.amount_cents, e.entry_date, e.note,
		c.id, c.name, c.color
		FROM entries e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.deleted_at IS NULL`
	args := make([]any, 0, 3)

	if f.Type != "" {
		query += " AND e.kind = ?"
		args = append(args, string(f.Type))
	}
	if !f.Range.Start.IsZero() {
		query += " AND e.entry_date >= ?"
		args = append(args, f.Range.Start.Key())
	}
	if !f.Range.End.IsZero() {
		query += " AND e.entry_date <= ?"
		args = append(args, f.Range.End.Key())
	}
	query += " ORDER BY e.entry_date, e.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// CreateEntry persists a validated entry and returns it with its ID set.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate entry: %w", err)
	}

	var categoryID any
	if e.Category != nil {
		categoryID = e.Category.ID
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (kind, amount_cents, entry_date, category_id, note)
		VALUES (?, ?, ?, ?, ?)`,
		string(e.Type), e.Amount.Cents, e.Date.Key(), categoryID, e.Note)
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"kind", e.Type,
		"amount_cents", e.Amount.Cents,
		"entry_date", e.Date.Key())

	return e, nil
}

// SoftDeleteEntry marks an entry deleted without removing the row.
func (r *SQLiteRepository) SoftDeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Entry soft deleted", "id", id)
	return nil
}

// GetEntry retrieves a single live entry by ID.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.kind, e.amount_cents, e.entry_date, e.note,
		c.id, c.name, c.color
		FROM entries e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.id = ? AND e.deleted_at IS NULL`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

// ListCategories returns all categories of the given kind, or every
// category when kind is empty.
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.EntryType) ([]core.Category, error) {
	query := `SELECT id, name, color FROM categories`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// GetCategory retrieves a category by ID.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("query category: %w", err)
	}
	return c, nil
}

// GetPendingSyncEntries returns entries waiting for export, oldest first.
// Errored entries are retried until maxAttempts is reached.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit, maxAttempts int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM entries
		WHERE deleted_at IS NULL
		AND (sync_status = ? OR (sync_status = ? AND sync_attempts < ?))
		ORDER BY created_at LIMIT ?`, SyncPending, SyncError, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync entries: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync entry: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync entries: %w", err)
	}
	return pending, nil
}

// MarkSynced marks an entry as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = ?, sync_attempts = sync_attempts + 1 WHERE id = ?`,
		SyncError, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e        core.Entry
		kind     string
		dateStr  string
		catID    sql.NullInt64
		catName  sql.NullString
		catColor sql.NullString
	)
	if err := row.Scan(&e.ID, &kind, &e.Amount.Cents, &dateStr, &e.Note,
		&catID, &catName, &catColor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Entry{}, err
		}
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	e.Type = core.EntryType(kind)
	if err := e.Type.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}

	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		// Fail loudly on malformed rows rather than silently coercing
		return core.Entry{}, fmt.Errorf("entry %d has malformed date %q: %w", e.ID, dateStr, err)
	}
	e.Date = core.DateOf(parsed)

	if catID.Valid {
		e.Category = &core.Category{
			ID:    catID.Int64,
			Name:  catName.String,
			Color: catColor.String,
		}
	}
	return e, nil
}
