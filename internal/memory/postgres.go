package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/cognisphere-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL vault store.
// It expects the memory_vault table to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL vault store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

const pgSelect = `
	SELECT id, patient_id, title, to_char(memory_date, 'YYYY-MM-DD'), category,
		notes, tags, photo_url, created_at, updated_at
	FROM memory_vault`

func scanPostgresEntry(s scanner) (*domain.MemoryEntry, error) {
	entry := &domain.MemoryEntry{}
	var category string
	var tags pq.StringArray

	err := s.Scan(
		&entry.ID, &entry.PatientID, &entry.Title, &entry.Date, &category,
		&entry.Notes, &tags, &entry.PhotoURL, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = domain.MemoryCategory(category)
	entry.Tags = []string(tags)
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return entry, nil
}

// Save upserts a memory entry by id.
func (s *PostgresStore) Save(ctx context.Context, entry *domain.MemoryEntry) error {
	now := time.Now().UTC()
	assignID(entry)
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := `
		INSERT INTO memory_vault (
			id, patient_id, title, memory_date, category,
			notes, tags, photo_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			patient_id = EXCLUDED.patient_id,
			title = EXCLUDED.title,
			memory_date = EXCLUDED.memory_date,
			category = EXCLUDED.category,
			notes = EXCLUDED.notes,
			tags = EXCLUDED.tags,
			photo_url = EXCLUDED.photo_url,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.PatientID,
		entry.Title,
		entry.Date,
		string(entry.Category),
		entry.Notes,
		pq.Array(entry.Tags),
		entry.PhotoURL,
		createdAt,
		now,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}

	entry.UpdatedAt = now
	return nil
}

// Get retrieves one entry by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.MemoryEntry, error) {
	entry, err := scanPostgresEntry(s.db.QueryRowContext(ctx, pgSelect+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	return entry, nil
}

// List returns entries matching opts, newest date first.
func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*domain.MemoryEntry, error) {
	var where []string
	var args []interface{}
	if opts.PatientID != "" {
		args = append(args, opts.PatientID)
		where = append(where, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if opts.Category != "" {
		args = append(args, string(opts.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := pgSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.limit())
	query += fmt.Sprintf(" ORDER BY memory_date DESC, created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	result := []*domain.MemoryEntry{}
	for rows.Next() {
		entry, err := scanPostgresEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, entry)
	}

	return result, rows.Err()
}

// Count returns the number of entries for patientID.
func (s *PostgresStore) Count(ctx context.Context, patientID string) (int64, error) {
	var count int64
	var err error
	if patientID == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory_vault").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory_vault WHERE patient_id = $1", patientID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count memories: %w", err)
	}
	return count, nil
}

// Delete removes an entry by id.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM memory_vault WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
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
func (s *PostgresStore) ExportJSON(ctx context.Context, patientID string, writer io.Writer) error {
	return exportJSON(ctx, s, patientID, writer)
}

// ImportJSON imports entries from a JSON reader.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
