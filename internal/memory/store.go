// Package memory provides the patient memory vault: persistent storage for
// personal memories, summary insights over them and the prompt used by the
// memory assistant.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cognisphere-server/internal/domain"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// ListOptions filters and bounds a List call. Empty fields match everything.
type ListOptions struct {
	PatientID string
	Category  domain.MemoryCategory
	Limit     int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Store defines the interface for memory vault storage operations.
type Store interface {
	// Save creates the entry when it has no ID, otherwise creates or
	// replaces the entry with that ID. ID and timestamps are filled in.
	Save(ctx context.Context, entry *domain.MemoryEntry) error

	// Get returns domain.ErrNotFound when no entry has the id.
	Get(ctx context.Context, id string) (*domain.MemoryEntry, error)

	// List returns entries newest date first.
	List(ctx context.Context, opts ListOptions) ([]*domain.MemoryEntry, error)

	// Count returns the number of entries for patientID, or all entries when
	// patientID is empty.
	Count(ctx context.Context, patientID string) (int64, error)

	// Delete returns domain.ErrNotFound when no entry has the id.
	Delete(ctx context.Context, id string) error

	// ExportJSON writes every entry for patientID (all when empty).
	ExportJSON(ctx context.Context, patientID string, writer io.Writer) error

	// ImportJSON loads an export. Entries whose ID already exists or that
	// fail validation are skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// VaultExport represents the JSON export format.
type VaultExport struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Count      int                   `json:"count"`
	Memories   []*domain.MemoryEntry `json:"memories"`
}

const exportVersion = "1.0"

func assignID(entry *domain.MemoryEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
}

func exportJSON(ctx context.Context, s Store, patientID string, writer io.Writer) error {
	all, err := s.List(ctx, ListOptions{PatientID: patientID, Limit: maxExportLimit})
	if err != nil {
		return fmt.Errorf("failed to list memories: %w", err)
	}

	export := &VaultExport{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Memories:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func importJSON(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export VaultExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, entry := range export.Memories {
		if entry == nil || len(entry.Validate()) > 0 {
			skipped++
			continue
		}
		if entry.ID != "" {
			_, err := s.Get(ctx, entry.ID)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
			}
		}
		if err := s.Save(ctx, entry); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}
	return imported, skipped, nil
}
