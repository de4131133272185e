// Package history keeps the most recently sent requests.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/sadopc/apitester/internal/core/kv"
	"github.com/sadopc/apitester/internal/core/request"
)

const (
	// Key is the record the history is stored under.
	Key = "api_history"
	// MaxEntries bounds the number of items kept.
	MaxEntries = 10
)

// Store manages request history persistence. Items are ordered most recent
// first and the whole list is rewritten on every change.
type Store struct {
	backend kv.Store
	key     string
	max     int

	mu    sync.RWMutex
	items []request.HistoryItem
}

// NewStore creates a history store over backend. Call Load before use.
func NewStore(backend kv.Store) *Store {
	return &Store{backend: backend, key: Key, max: MaxEntries}
}

// Load reads the persisted history and replaces the in-memory list with it.
// A missing record yields an empty history; an unreadable or corrupt one is
// logged and also yields an empty history.
func (s *Store) Load() []request.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.read()
	return cloneItems(s.items)
}

func (s *Store) read() []request.HistoryItem {
	data, ok, err := s.backend.Get(s.key)
	if err != nil {
		log.Printf("history load error: %v", err)
		return []request.HistoryItem{}
	}
	if !ok || len(data) == 0 {
		return []request.HistoryItem{}
	}

	var decoded []request.HistoryItem
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("history load error: parsing %s: %v", s.key, err)
		return []request.HistoryItem{}
	}

	items := make([]request.HistoryItem, 0, len(decoded))
	for _, item := range decoded {
		if !item.Method.Valid() {
			log.Printf("history: dropping entry for %q with method %q", item.URL, item.Method)
			continue
		}
		items = append(items, item)
	}
	if len(items) > s.max {
		items = items[:s.max]
	}
	return items
}

// Append records item as the most recent entry, evicts anything beyond the
// limit and persists the result. The in-memory list is updated even when
// the write fails.
func (s *Store) Append(item request.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.Request = item.Request.Clone()
	items := make([]request.HistoryItem, 0, s.max)
	items = append(items, item)
	items = append(items, s.items...)
	if len(items) > s.max {
		items = items[:s.max]
	}
	s.items = items

	return s.persist()
}

// Items returns a copy of the current history, most recent first.
func (s *Store) Items() []request.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Len returns the number of items held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes every item and deletes the persisted record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []request.HistoryItem{}
	if err := s.backend.Delete(s.key); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Search fuzzy-matches query against "METHOD URL" of every item and returns
// the matches best first. An empty query returns the whole history.
func (s *Store) Search(query string) []request.HistoryItem {
	items := s.Items()
	if query == "" {
		return items
	}
	matches := fuzzy.FindFrom(query, searchSource(items))
	out := make([]request.HistoryItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.backend.Put(s.key, data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

type searchSource []request.HistoryItem

func (s searchSource) String(i int) string { return string(s[i].Method) + " " + s[i].URL }
func (s searchSource) Len() int            { return len(s) }

func cloneItems(items []request.HistoryItem) []request.HistoryItem {
	out := make([]request.HistoryItem, len(items))
	for i, item := range items {
		item.Request = item.Request.Clone()
		out[i] = item
	}
	return out
}
