// Package state holds the composer's session: the request being edited,
// the last response, the loading flag and the history, with change
// notification for whatever renders them.
package state

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/core/request"
)

// Change is a set of flags describing what a notification is about.
type Change uint8

const (
	RequestChanged Change = 1 << iota
	ResponseChanged
	LoadingChanged
	HistoryChanged
)

// Has reports whether c includes every flag in f.
func (c Change) Has(f Change) bool { return c&f == f }

// Dispatcher sends a request and always produces a response.
type Dispatcher interface {
	Send(ctx context.Context, r request.Request) request.Response
}

// Option configures a Store.
type Option func(*Store)

// WithDropStaleResponses discards completions whose dispatch id is not the
// most recent one. Without it the last completion to arrive wins.
func WithDropStaleResponses(drop bool) Option {
	return func(s *Store) { s.dropStale = drop }
}

// WithClock overrides the time source used to stamp history items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the central application state.
type Store struct {
	dispatcher Dispatcher
	history    *history.Store
	dropStale  bool
	now        func() time.Time

	// sendMu keeps history order equal to dispatch order.
	sendMu sync.Mutex

	mu       sync.Mutex
	current  request.Request
	response *request.Response
	loading  bool
	latest   string

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// NewStore creates the session, loading the persisted history once.
func NewStore(d Dispatcher, h *history.Store, opts ...Option) *Store {
	s := &Store{
		dispatcher: d,
		history:    h,
		now:        time.Now,
		current:    request.DefaultRequest(),
		subs:       make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	h.Load()
	return s
}

// Subscribe registers fn to be called after every state change. The
// returned function removes the subscription. fn runs on the goroutine that
// made the change and must not block.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Request returns a copy of the request being edited.
func (s *Store) Request() request.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// SetRequest replaces the request being edited with a copy of r.
func (s *Store) SetRequest(r request.Request) {
	s.updateRequest(func(cur *request.Request) { *cur = r.Clone() })
}

// SetURL sets the request URL.
func (s *Store) SetURL(u string) {
	s.updateRequest(func(cur *request.Request) { cur.URL = u })
}

// SetMethod sets the request method.
func (s *Store) SetMethod(m request.Method) {
	s.updateRequest(func(cur *request.Request) { cur.Method = m })
}

// SetBody sets the raw request body.
func (s *Store) SetBody(body string) {
	s.updateRequest(func(cur *request.Request) { cur.Body = body })
}

// AddHeader appends an empty header row.
func (s *Store) AddHeader() {
	s.updateRequest(func(cur *request.Request) {
		cur.Headers = append(cur.Headers, request.KeyValue{})
	})
}

// RemoveHeader deletes the header row at index. Out of range is a no-op.
func (s *Store) RemoveHeader(index int) {
	s.updateRequest(func(cur *request.Request) {
		if index < 0 || index >= len(cur.Headers) {
			return
		}
		headers := make([]request.KeyValue, 0, len(cur.Headers)-1)
		headers = append(headers, cur.Headers[:index]...)
		cur.Headers = append(headers, cur.Headers[index+1:]...)
	})
}

// SetHeader replaces the header row at index. Out of range is a no-op.
func (s *Store) SetHeader(index int, kv request.KeyValue) {
	s.updateRequest(func(cur *request.Request) {
		if index < 0 || index >= len(cur.Headers) {
			return
		}
		cur.Headers[index] = kv
	})
}

func (s *Store) updateRequest(fn func(*request.Request)) {
	s.mu.Lock()
	fn(&s.current)
	s.mu.Unlock()
	s.notify(RequestChanged)
}

// Response returns the last response shown, if any.
func (s *Store) Response() (request.Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.response == nil {
		return request.Response{}, false
	}
	return *s.response, true
}

// Loading reports whether a dispatch is awaiting its response.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// History returns the history, most recent first.
func (s *Store) History() []request.HistoryItem {
	return s.history.Items()
}

// Send records the current request in the history and dispatches it in the
// background. The returned channel yields the response once and is then
// closed. Every dispatch gets a fresh id, stamped on its response as
// DispatchID. Send returns nil and does nothing when the URL is empty.
func (s *Store) Send(ctx context.Context) <-chan request.Response {
	s.sendMu.Lock()
	s.mu.Lock()
	if s.current.URL == "" {
		s.mu.Unlock()
		s.sendMu.Unlock()
		return nil
	}
	req := s.current.Clone()
	id := uuid.NewString()
	s.latest = id
	s.loading = true
	s.response = nil
	s.mu.Unlock()

	err := s.history.Append(request.NewHistoryItem(req, s.now()))
	s.sendMu.Unlock()
	if err != nil {
		log.Printf("history: %v", err)
	}
	s.notify(LoadingChanged | ResponseChanged | HistoryChanged)

	log.Printf("dispatch %s: %s %s", id, req.Method, req.URL)

	out := make(chan request.Response, 1)
	go func() {
		defer close(out)
		resp := s.dispatcher.Send(ctx, req)
		resp.DispatchID = id
		log.Printf("dispatch %s: %d %s in %dms", id, resp.Status, resp.StatusText, resp.Time)
		s.complete(resp)
		out <- resp
	}()
	return out
}

// LatestDispatch returns the id of the most recent dispatch, or "" before
// the first one.
func (s *Store) LatestDispatch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Store) complete(resp request.Response) {
	s.mu.Lock()
	if s.dropStale && resp.DispatchID != s.latest {
		s.mu.Unlock()
		log.Printf("dispatch %s: dropping stale response", resp.DispatchID)
		return
	}
	s.response = &resp
	s.loading = false
	s.mu.Unlock()
	s.notify(ResponseChanged | LoadingChanged)
}

// LoadFromHistory makes a copy of item's request the current request. The
// timestamp is not carried over.
func (s *Store) LoadFromHistory(item request.HistoryItem) {
	s.SetRequest(item.ToRequest())
}

// ClearHistory empties the history and deletes its persisted record.
func (s *Store) ClearHistory() {
	if err := s.history.Clear(); err != nil {
		log.Printf("history: %v", err)
	}
	s.notify(HistoryChanged)
}

// StatusColor returns the display category of a status code.
func (s *Store) StatusColor(status int) request.StatusCategory {
	return request.CategoryOf(status)
}

// SearchHistory fuzzy-matches query against the history, best match first.
func (s *Store) SearchHistory(query string) []request.HistoryItem {
	return s.history.Search(query)
}
