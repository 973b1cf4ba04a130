package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillscope/internal/types"
)

func TestCheckpointStore_RoundTrip(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	checkpoint := NewCheckpoint("octocat")
	checkpoint.Completed[PhaseRepositories] = true
	checkpoint.Corpus.Repositories = []types.Repository{{FullName: "octocat/hello"}}

	require.NoError(t, store.Save(checkpoint))

	loaded, err := store.Load("octocat")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, checkpoint.RunID, loaded.RunID)
	assert.Equal(t, "octocat", loaded.Username)
	assert.True(t, loaded.Completed[PhaseRepositories])
	assert.False(t, loaded.Completed[PhaseCommits])
	require.Len(t, loaded.Corpus.Repositories, 1)
	assert.Equal(t, "octocat/hello", loaded.Corpus.Repositories[0].FullName)
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestCheckpointStore_LoadMissingReturnsNil(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load("nobody")

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCheckpointStore_LoadCorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCheckpointStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "octocat.json"), []byte("{truncated"), 0o644))

	_, err = store.Load("octocat")

	require.Error(t, err)
}

func TestCheckpointStore_Clear(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(NewCheckpoint("octocat")))
	require.NoError(t, store.Clear("octocat"))

	loaded, err := store.Load("octocat")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing again is a no-op.
	assert.NoError(t, store.Clear("octocat"))
}

func TestCheckpointStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCheckpointStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(NewCheckpoint("octocat")))

	_, err = os.Stat(filepath.Join(dir, "octocat.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewCheckpoint(t *testing.T) {
	checkpoint := NewCheckpoint("octocat")

	assert.NotEqual(t, [16]byte{}, [16]byte(checkpoint.RunID))
	assert.Equal(t, "octocat", checkpoint.Username)
	assert.Empty(t, checkpoint.Completed)
	assert.Equal(t, "octocat", checkpoint.Corpus.Username)
}
