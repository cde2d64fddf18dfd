package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognisphere-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite. It backs the
// vault for the MCP server and the CLI, where no Postgres is available.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite vault store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_vault (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		memory_date TEXT NOT NULL,
		category TEXT NOT NULL,
		notes TEXT DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		photo_url TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_memory_patient ON memory_vault(patient_id);
	CREATE INDEX IF NOT EXISTS idx_memory_date ON memory_vault(memory_date);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

const sqliteColumns = `id, patient_id, title, memory_date, category, notes, tags, photo_url, created_at, updated_at`

func scanSQLiteEntry(s scanner) (*domain.MemoryEntry, error) {
	entry := &domain.MemoryEntry{}
	var category, tags string

	err := s.Scan(
		&entry.ID, &entry.PatientID, &entry.Title, &entry.Date, &category,
		&entry.Notes, &tags, &entry.PhotoURL, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = domain.MemoryCategory(category)
	if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return entry, nil
}

// Save stores or replaces a memory entry.
func (s *SQLiteStore) Save(ctx context.Context, entry *domain.MemoryEntry) error {
	now := time.Now().UTC()
	assignID(entry)

	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var createdAt time.Time
	err = s.db.QueryRowContext(ctx,
		"SELECT created_at FROM memory_vault WHERE id = ?", entry.ID,
	).Scan(&createdAt)

	if err == nil {
		entry.CreatedAt = createdAt
		entry.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `
			UPDATE memory_vault SET
				patient_id = ?,
				title = ?,
				memory_date = ?,
				category = ?,
				notes = ?,
				tags = ?,
				photo_url = ?,
				updated_at = ?
			WHERE id = ?
		`,
			entry.PatientID,
			entry.Title,
			entry.Date,
			string(entry.Category),
			entry.Notes,
			string(tags),
			entry.PhotoURL,
			now,
			entry.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update: %w", err)
		}
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memory_vault (`+sqliteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.PatientID,
		entry.Title,
		entry.Date,
		string(entry.Category),
		entry.Notes,
		string(tags),
		entry.PhotoURL,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	return nil
}

// Get retrieves one entry by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.MemoryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sqliteColumns+" FROM memory_vault WHERE id = ?", id)

	entry, err := scanSQLiteEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return entry, nil
}

// List returns entries matching opts, newest date first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*domain.MemoryEntry, error) {
	var where []string
	var args []interface{}
	if opts.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, opts.PatientID)
	}
	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(opts.Category))
	}

	query := "SELECT " + sqliteColumns + " FROM memory_vault"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY memory_date DESC, created_at DESC LIMIT ?"
	args = append(args, opts.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	result := []*domain.MemoryEntry{}
	for rows.Next() {
		entry, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Count returns the number of entries for patientID.
func (s *SQLiteStore) Count(ctx context.Context, patientID string) (int64, error) {
	var count int64
	var err error
	if patientID == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory_vault").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory_vault WHERE patient_id = ?", patientID).Scan(&count)
	}
	return count, err
}

// Delete removes an entry by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM memory_vault WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExportJSON exports entries to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, patientID string, writer io.Writer) error {
	return exportJSON(ctx, s, patientID, writer)
}

// ImportJSON imports entries from a JSON reader.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
