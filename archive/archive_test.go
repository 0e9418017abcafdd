package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestRecordAndList verifies run insertion and retrieval ordering
func TestRecordAndList(t *testing.T) {
	store := testStore(t)

	older := Run{
		Job:          "grad-tuition",
		Kind:         "tuition",
		SourceURL:    "https://example.edu/tuition",
		ArtifactPath: "out/grad_tuition.json",
		Records:      7,
		ScrapedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := Run{
		Job:          "academic-calendar",
		Kind:         "calendar",
		SourceURL:    "https://example.edu/calendar",
		ArtifactPath: "out/calendar.json",
		Records:      42,
		ScrapedAt:    time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}

	olderID, err := store.Record(older)
	require.NoError(t, err)
	newerID, err := store.Record(newer)
	require.NoError(t, err)
	assert.NotEqual(t, olderID, newerID)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "academic-calendar", runs[0].Job, "most recent first")
	assert.Equal(t, newerID, runs[0].RunID)
	assert.Equal(t, 42, runs[0].Records)
	assert.Equal(t, "grad-tuition", runs[1].Job)
	assert.Equal(t, older.ScrapedAt, runs[1].ScrapedAt)
}

// TestRecord_GeneratesID verifies ids and timestamps are filled in
func TestRecord_GeneratesID(t *testing.T) {
	store := testStore(t)

	id, err := store.Record(Run{Job: "holds", Kind: "holds", SourceURL: "https://example.edu/holds"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].ScrapedAt.IsZero())
}

// TestList_Empty verifies an empty archive lists no runs
func TestList_Empty(t *testing.T) {
	store := testStore(t)

	runs, err := store.List()

	require.NoError(t, err)
	assert.Empty(t, runs)
}
