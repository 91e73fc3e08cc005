package hidden

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the Store contract against any implementation.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	ok, err := s.Has("req-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add("req-1"))
	require.NoError(t, s.Add("req-2"))

	ok, err = s.Has("req-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Adding the same key twice is idempotent.
	require.NoError(t, s.Add("req-1"))

	require.NoError(t, s.Clear())
	ok, err = s.Has("req-1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Has("req-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestLevelStore(t *testing.T) {
	s, err := OpenLevel(filepath.Join(t.TempDir(), "hidden"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestLevelStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden")

	s, err := OpenLevel(path)
	require.NoError(t, err)
	require.NoError(t, s.Add("req-1"))
	require.NoError(t, s.Close())

	s, err = OpenLevel(path)
	require.NoError(t, err)
	defer s.Close()
	ok, err := s.Has("req-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
