package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognisphere-server/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEntry(title, date string, category domain.MemoryCategory, tags ...string) *domain.MemoryEntry {
	return &domain.MemoryEntry{
		PatientID: "patient-1",
		Title:     title,
		Date:      date,
		Category:  category,
		Notes:     "notes for " + title,
		Tags:      tags,
	}
}

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "vault.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
	assert.Equal(t, dbPath, store.Path())
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("Wedding day", "1975-06-14", domain.MemoryFamilyEvent, "family", "wedding")
	entry.PhotoURL = "https://example.com/wedding.jpg"
	require.NoError(t, store.Save(ctx, entry))

	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.False(t, entry.UpdatedAt.IsZero())

	got, err := store.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Title, got.Title)
	assert.Equal(t, "1975-06-14", got.Date)
	assert.Equal(t, domain.MemoryFamilyEvent, got.Category)
	assert.Equal(t, []string{"family", "wedding"}, got.Tags)
	assert.Equal(t, entry.PhotoURL, got.PhotoURL)
	assert.Equal(t, "patient-1", got.PatientID)
}

func TestSQLiteStore_SaveUpdatesExisting(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("Trip", "2001-08-01", domain.MemoryTravel)
	require.NoError(t, store.Save(ctx, entry))
	originalID := entry.ID

	entry.Title = "Trip to Lisbon"
	entry.Tags = []string{"portugal"}
	require.NoError(t, store.Save(ctx, entry))
	assert.Equal(t, originalID, entry.ID)

	got, err := store.Get(ctx, originalID)
	require.NoError(t, err)
	assert.Equal(t, "Trip to Lisbon", got.Title)
	assert.Equal(t, []string{"portugal"}, got.Tags)

	count, err := store.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	store := createTestStore(t)

	got, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestSQLiteStore_NilTagsRoundTripAsEmpty(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("Graduation", "1990-05-20", domain.MemoryAchievement)
	entry.Tags = nil
	require.NoError(t, store.Save(ctx, entry))

	got, err := store.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestSQLiteStore_List(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleEntry("old", "1980-01-01", domain.MemoryTravel)))
	require.NoError(t, store.Save(ctx, sampleEntry("newest", "2020-12-31", domain.MemoryOther)))
	require.NoError(t, store.Save(ctx, sampleEntry("middle", "2000-06-15", domain.MemoryTravel)))
	other := sampleEntry("someone else", "2022-01-01", domain.MemoryTravel)
	other.PatientID = "patient-2"
	require.NoError(t, store.Save(ctx, other))

	titles := func(entries []*domain.MemoryEntry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Title)
		}
		return out
	}

	all, err := store.List(ctx, ListOptions{PatientID: "patient-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "old"}, titles(all))

	travel, err := store.List(ctx, ListOptions{PatientID: "patient-1", Category: domain.MemoryTravel})
	require.NoError(t, err)
	assert.Equal(t, []string{"middle", "old"}, titles(travel))

	limited, err := store.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"someone else", "newest"}, titles(limited))

	none, err := store.List(ctx, ListOptions{PatientID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	count, err := store.Count(ctx, "patient-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("Delete me", "2010-10-10", domain.MemoryOther)
	require.NoError(t, store.Save(ctx, entry))

	require.NoError(t, store.Delete(ctx, entry.ID))
	_, err := store.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, entry.ID), domain.ErrNotFound)
}

func TestSQLiteStore_ExportImport(t *testing.T) {
	source := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, source.Save(ctx, sampleEntry("one", "2011-01-01", domain.MemoryTravel, "sea")))
	require.NoError(t, source.Save(ctx, sampleEntry("two", "2012-02-02", domain.MemoryMedical)))

	var buf bytes.Buffer
	require.NoError(t, source.ExportJSON(ctx, "patient-1", &buf))

	var export VaultExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 2, export.Count)

	target := createTestStore(t)
	imported, skipped, err := target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	imported, skipped, err = target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)

	got, err := target.Get(ctx, export.Memories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, export.Memories[0].Title, got.Title)
}

func TestSQLiteStore_ImportSkipsInvalid(t *testing.T) {
	store := createTestStore(t)
	payload := `{"version":"1.0","memories":[
		{"title":"ok","date":"2020-01-01","category":"Other"},
		{"title":"","date":"2020-01-01","category":"Other"},
		{"title":"bad date","date":"01/01/2020","category":"Other"}
	]}`

	imported, skipped, err := store.ImportJSON(context.Background(), bytes.NewBufferString(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, skipped)
}

func TestSQLiteStore_ImportRejectsGarbage(t *testing.T) {
	store := createTestStore(t)
	_, _, err := store.ImportJSON(context.Background(), bytes.NewBufferString("not json"))
	assert.Error(t, err)
}
