package history

import (
	"bytes"
	"fmt"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/apitester/internal/core/kv"
	"github.com/sadopc/apitester/internal/core/request"
)

func newItem(i int, at time.Time) request.HistoryItem {
	return request.NewHistoryItem(request.Request{
		URL:     fmt.Sprintf("https://api.example.com/items/%d", i),
		Method:  request.MethodGet,
		Headers: []request.KeyValue{{Key: "X-Seq", Value: fmt.Sprint(i)}},
	}, at)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestStore_LoadMissingRecord(t *testing.T) {
	store := NewStore(kv.NewMemory())

	items := store.Load()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_AppendBoundsAndOrders(t *testing.T) {
	store := NewStore(kv.NewMemory())
	store.Load()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, store.Append(newItem(i, base.Add(time.Duration(i)*time.Minute))))
	}

	items := store.Items()
	require.Len(t, items, MaxEntries)
	assert.Equal(t, "https://api.example.com/items/11", items[0].URL)
	assert.Equal(t, "https://api.example.com/items/2", items[9].URL)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].Timestamp.After(items[i].Timestamp), "most recent first at %d", i)
	}
}

func TestStore_ReloadReproducesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	backend, err := kv.NewSQLite(path)
	require.NoError(t, err)

	store := NewStore(backend)
	store.Load()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		require.NoError(t, store.Append(newItem(i, base.Add(time.Duration(i)*time.Second))))
	}
	want := store.Items()
	require.NoError(t, store.Close())

	backend, err = kv.NewSQLite(path)
	require.NoError(t, err)
	reopened := NewStore(backend)
	defer reopened.Close()

	got := reopened.Load()
	require.Len(t, got, MaxEntries)
	for i := range want {
		assert.Equal(t, want[i].Request, got[i].Request)
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "timestamp %d", i)
	}
}

func TestStore_AppendIsFullOverwrite(t *testing.T) {
	backend := kv.NewMemory()
	store := NewStore(backend)
	store.Load()

	require.NoError(t, store.Append(newItem(1, time.Now())))
	require.NoError(t, store.Append(newItem(2, time.Now())))

	raw, ok, err := backend.Get(Key)
	require.NoError(t, err)
	require.True(t, ok)

	other := NewStore(backend)
	got := other.Load()
	require.Len(t, got, 2)
	assert.Equal(t, "https://api.example.com/items/2", got[0].URL)
	assert.Contains(t, string(raw), `"url":"https://api.example.com/items/1"`)
}

func TestStore_ClearThenLoad(t *testing.T) {
	backend := kv.NewMemory()
	store := NewStore(backend)
	store.Load()
	require.NoError(t, store.Append(newItem(1, time.Now())))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Items())

	_, ok, err := backend.Get(Key)
	require.NoError(t, err)
	assert.False(t, ok, "record deleted")
	assert.Empty(t, NewStore(backend).Load())
}

func TestStore_CorruptRecordFallsBackToEmpty(t *testing.T) {
	logs := captureLog(t)
	backend := kv.NewMemory()
	require.NoError(t, backend.Put(Key, []byte(`{not json`)))

	items := NewStore(backend).Load()

	assert.Empty(t, items)
	assert.Contains(t, logs.String(), "history load error")
}

func TestStore_LoadDropsUnknownMethodsAndTruncates(t *testing.T) {
	logs := captureLog(t)
	backend := kv.NewMemory()

	var raw bytes.Buffer
	raw.WriteString(`[{"url":"https://bad","method":"TRACE","headers":[],"body":"","timestamp":"2024-01-01T00:00:00Z"}`)
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&raw, `,{"url":"https://ok/%d","method":"GET","headers":[],"body":"","timestamp":"2024-01-01T00:00:00Z"}`, i)
	}
	raw.WriteString("]")
	require.NoError(t, backend.Put(Key, raw.Bytes()))

	items := NewStore(backend).Load()

	require.Len(t, items, MaxEntries)
	assert.Equal(t, "https://ok/0", items[0].URL)
	assert.Contains(t, logs.String(), "TRACE")
}

func TestStore_ItemsAreCopies(t *testing.T) {
	store := NewStore(kv.NewMemory())
	store.Load()
	item := newItem(1, time.Now())
	require.NoError(t, store.Append(item))

	item.Headers[0].Value = "mutated by caller"
	got := store.Items()
	got[0].Headers[0].Value = "mutated by reader"

	assert.Equal(t, "1", store.Items()[0].Headers[0].Value)
}

type failingBackend struct{ kv.Store }

func (failingBackend) Put(string, []byte) error { return fmt.Errorf("disk full") }
func (failingBackend) Delete(string) error      { return fmt.Errorf("disk full") }

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	store := NewStore(failingBackend{kv.NewMemory()})
	store.Load()

	err := store.Append(newItem(1, time.Now()))
	assert.ErrorContains(t, err, "writing history")
	assert.Equal(t, 1, store.Len())

	err = store.Clear()
	assert.ErrorContains(t, err, "clearing history")
	assert.Equal(t, 0, store.Len())
}

func TestStore_Search(t *testing.T) {
	store := NewStore(kv.NewMemory())
	store.Load()
	require.NoError(t, store.Append(request.NewHistoryItem(request.Request{URL: "https://api.example.com/users", Method: request.MethodGet}, time.Now())))
	require.NoError(t, store.Append(request.NewHistoryItem(request.Request{URL: "https://other.org/orders", Method: request.MethodPost}, time.Now())))

	assert.Len(t, store.Search(""), 2)

	got := store.Search("users")
	require.Len(t, got, 1)
	assert.Equal(t, "https://api.example.com/users", got[0].URL)

	got = store.Search("POST orders")
	require.Len(t, got, 1)
	assert.Equal(t, request.MethodPost, got[0].Method)

	assert.Empty(t, store.Search("zzzz"))
}
