package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreRankedAndSummarized(t *testing.T) {
	combos := Defaults()
	require.Len(t, combos, 15)
	assert.Equal(t, "WIZ-001", combos[0].ID)
	for i, c := range combos {
		assert.NotEmpty(t, c.RagContent)
		if i > 0 {
			assert.LessOrEqual(t, combos[i-1].Rank, c.Rank)
		}
	}

	// Callers get their own copy.
	combos[0].Blade = "changed"
	assert.Equal(t, "Wizard Rod", Defaults()[0].Blade)
}

func TestStoreStartsOnEmbeddedSource(t *testing.T) {
	store := NewStore(Defaults())
	src := store.Source()
	assert.Equal(t, SourceEmbedded, src.Kind)
	assert.Equal(t, 15, src.Records)
	assert.Equal(t, 15, store.Len())
}

func TestStoreLoadCSVReplacesDataset(t *testing.T) {
	store := NewStore(Defaults())

	n, err := store.LoadCSV("meta.csv", "id,rank,blade\nA,2,Alpha\nB,1,Beta")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "B", snap[0].ID)

	src := store.Source()
	assert.Equal(t, SourceOverride, src.Kind)
	assert.Equal(t, "meta.csv", src.Name)
	assert.Equal(t, 2, src.Records)
}

func TestStoreLoadCSVFailureKeepsDataset(t *testing.T) {
	store := NewStore(Defaults())

	for _, text := range []string{"", "id,rank,blade", "id,rank,blade\nA,1"} {
		_, err := store.LoadCSV("bad.csv", text)
		assert.ErrorIs(t, err, ErrEmptyDataset)
	}
	assert.Equal(t, 15, store.Len())
	assert.Equal(t, SourceEmbedded, store.Source().Kind)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := NewStore(Defaults())
	snap := store.Snapshot()
	snap[0].ID = "mutated"
	assert.Equal(t, "WIZ-001", store.Snapshot()[0].ID)
}

func TestStoreLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combos.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,rank,blade\nZ,4,Zeta\n"), 0o644))

	store := NewStore(Defaults())
	n, err := store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "combos.csv", store.Source().Name)

	_, err = store.LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
