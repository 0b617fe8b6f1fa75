package kv

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json"))

	v, ok, err := s.Get("modalShown")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileStore_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)

	require.NoError(t, s.Set("modalShown", "true"))

	v, ok, err := s.Get("modalShown")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	// A fresh instance sees the persisted value
	other := NewFileStore(path)
	v, ok, err = other.Get("modalShown")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestFileStore_PreservesOtherKeys(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "3"))

	a, _, err := s.Get("a")
	require.NoError(t, err)
	b, _, err := s.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "3", a)
	assert.Equal(t, "2", b)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path)
	_, _, err := s.Get("modalShown")
	assert.Error(t, err)
	assert.Error(t, s.Set("modalShown", "true"))
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s := NewFileStore(path)
	_, ok, err := s.Get("modalShown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	var wg sync.WaitGroup
	keys := []string{"k1", "k2", "k3", "k4", "k5", "k6"}
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			// Separate instances model separate processes sharing the file
			assert.NoError(t, NewFileStore(path).Set(k, "v"))
		}(k)
	}
	wg.Wait()

	s := NewFileStore(path)
	for _, k := range keys {
		_, ok, err := s.Get(k)
		require.NoError(t, err)
		assert.True(t, ok, "key %s lost", k)
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	_, ok, err := s.Get("x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("x", "y"))
	v, ok, err := s.Get("x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestStore_Interface(t *testing.T) {
	var _ Store = &FileStore{}
	var _ Store = &MemStore{}
}
