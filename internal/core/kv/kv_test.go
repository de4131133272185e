package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"file":   NewFile(filepath.Join(t.TempDir(), "records")),
		"memory": NewMemory(),
	}
}

func TestStore_GetPutDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("api_history")
			require.NoError(t, err)
			assert.False(t, ok, "missing key")

			require.NoError(t, s.Put("api_history", []byte(`[1]`)))
			require.NoError(t, s.Put("api_history", []byte(`[2,3]`)))

			got, ok, err := s.Get("api_history")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[2,3]`, string(got), "put overwrites")

			require.NoError(t, s.Delete("api_history"))
			_, ok, err = s.Get("api_history")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Delete("api_history"), "deleting a missing key")
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(got))
}

func TestSQLite_ClosedStore(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "double close")

	_, _, err = s.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put("k", nil), ErrClosed)
	assert.ErrorIs(t, s.Delete("k"), ErrClosed)
}

func TestFile_RejectsPathKeys(t *testing.T) {
	f := NewFile(t.TempDir())

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, f.Put(key, []byte("x")), key)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Put("k", value))
	value[0] = 'z'

	got, _, _ := m.Get("k")
	assert.Equal(t, "abc", string(got))
	got[1] = 'z'

	again, _, _ := m.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", filepath.Join(dir, "nested", "history.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	s, err = Open(BackendFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open("redis", "")
	assert.Error(t, err)
}
