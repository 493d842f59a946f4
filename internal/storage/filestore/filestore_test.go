package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "media"))
	require.NoError(t, err)
	profileID := uuid.New()

	rel, err := store.Save(profileID, "Учебный План.PDF", []byte("content"))
	require.NoError(t, err)

	assert.Regexp(t, `^profiles/`+profileID.String()+`/[a-z0-9-]+-[0-9a-f]{8}\.pdf$`, rel)

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	require.NoError(t, store.Remove(rel, "profiles/missing.pdf"))
	_, err = os.Stat(filepath.Join(store.Dir(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SameNameDoesNotOverwrite(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	profileID := uuid.New()

	first, err := store.Save(profileID, "a.txt", []byte("1"))
	require.NoError(t, err)
	second, err := store.Save(profileID, "a.txt", []byte("2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStore_RemoveStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	outside := filepath.Join(parent, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	store, err := New(filepath.Join(parent, "media"))
	require.NoError(t, err)

	require.NoError(t, store.Remove("../outside.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
