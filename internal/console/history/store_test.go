package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storesUnderTest lets the same behavior suite run against both
// implementations.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sqlStore, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), 100)
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(100),
		"sqlite": sqlStore,
	}
}

func TestStoreAppendAndList(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(FamilyCommand, "write"))
			require.NoError(t, store.Append(FamilyCommand, "edit foo.txt"))

			got, err := store.List(FamilyCommand)
			require.NoError(t, err)
			assert.Equal(t, []string{"edit foo.txt", "write"}, got, "newest first")
		})
	}
}

func TestStoreFamiliesIsolated(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(FamilyCommand, "set nu"))
			require.NoError(t, store.Append(FamilySearch, "TODO"))
			require.NoError(t, store.Append(FamilyExpression, "1+1"))

			cmd, err := store.List(FamilyCommand)
			require.NoError(t, err)
			assert.Equal(t, []string{"set nu"}, cmd)

			search, err := store.List(FamilySearch)
			require.NoError(t, err)
			assert.Equal(t, []string{"TODO"}, search)
		})
	}
}

func TestStoreSkipsEmptyAndConsecutiveDuplicates(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(FamilyCommand, ""))
			require.NoError(t, store.Append(FamilyCommand, "write"))
			require.NoError(t, store.Append(FamilyCommand, "write"))
			require.NoError(t, store.Append(FamilyCommand, "quit"))
			require.NoError(t, store.Append(FamilyCommand, "write"))

			got, err := store.List(FamilyCommand)
			require.NoError(t, err)
			assert.Equal(t, []string{"write", "quit", "write"}, got,
				"only adjacent duplicates collapse")
		})
	}
}

func TestMemoryStoreCapacity(t *testing.T) {
	store := NewMemoryStore(3)
	for _, text := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Append(FamilyCommand, text))
	}

	got, err := store.List(FamilyCommand)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, got, "oldest entry evicted")
}

func TestSQLiteStoreCapacity(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), 2)
	require.NoError(t, err)
	defer store.Close()

	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(FamilySearch, text))
	}

	got, err := store.List(FamilySearch)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, got)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLite(path, 100)
	require.NoError(t, err)
	require.NoError(t, store.Append(FamilyCommand, "edit main.go"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path, 100)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.List(FamilyCommand)
	require.NoError(t, err)
	assert.Equal(t, []string{"edit main.go"}, got)
}

func TestListEmptyFamily(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.List(FamilyExpression)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}
