package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/core/kv"
	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/core/state"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

type fakeDispatcher struct {
	resp request.Response
	got  chan request.Request
}

func (f *fakeDispatcher) Send(_ context.Context, r request.Request) request.Response {
	if f.got != nil {
		f.got <- r
	}
	return f.resp
}

func okResponse() request.Response {
	return request.Response{
		Status: 200, StatusText: "OK", Time: 5,
		Data: json.RawMessage(`{"id":1}`), Size: "8 bytes",
	}
}

// testApp creates an App over an in-memory history, already resized.
func testApp(t *testing.T, d state.Dispatcher) (App, *state.Store) {
	t.Helper()
	store := state.NewStore(d, history.NewStore(kv.NewMemory()))
	a := New(context.Background(), store, theme.Default())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m.(App), store
}

func ctrl(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// drain runs cmd and feeds every resulting message back into the app,
// skipping timers.
func drain(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		return a
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return a // tick or blink
	}
	switch msg := msg.(type) {
	case nil:
		return a
	case tea.BatchMsg:
		for _, c := range msg {
			a = drain(t, a, c)
		}
		return a
	case msgs.ResponseMsg, msgs.StatusMsg, msgs.HistorySelectMsg, msgs.HistoryClearMsg,
		msgs.HistoryCloseMsg, msgs.HistoryFilterMsg, msgs.URLChangedMsg,
		msgs.HeaderAddMsg, msgs.HeaderRemoveMsg, msgs.HeaderEditMsg, msgs.ModeChangedMsg,
		msgs.CurlImportedMsg:
		var next tea.Cmd
		a, next = update(t, a, msg)
		return drain(t, a, next)
	default:
		return a
	}
}

func stubClipboard(t *testing.T, fn func(string) error) {
	t.Helper()
	orig := writeClipboard
	writeClipboard = fn
	t.Cleanup(func() { writeClipboard = orig })
}

func TestNew_DefaultState(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{resp: okResponse()})

	assert.Equal(t, msgs.ModeNormal, a.mode)
	assert.Equal(t, msgs.FocusURL, a.focus)
	assert.True(t, a.ready)
	assert.Equal(t, store.Request().URL, a.editor.URL())
	assert.Contains(t, a.View(), "Send a request to see the response")
}

func TestView_NotReady(t *testing.T) {
	store := state.NewStore(&fakeDispatcher{}, history.NewStore(kv.NewMemory()))
	a := New(context.Background(), store, theme.Default())
	assert.Equal(t, "Loading...", a.View())
}

func TestSend_ShowsResponseAndRecordsHistory(t *testing.T) {
	d := &fakeDispatcher{resp: okResponse(), got: make(chan request.Request, 1)}
	a, store := testApp(t, d)

	a, cmd := update(t, a, ctrl(tea.KeyCtrlR))
	assert.True(t, a.response.Loading())
	require.Len(t, store.History(), 1)

	a = drain(t, a, cmd)
	sent := <-d.got
	assert.Equal(t, request.DefaultRequest().URL, sent.URL)

	resp, ok := a.response.Response()
	require.True(t, ok)
	assert.Equal(t, 200, resp.Status)
	assert.False(t, a.response.Loading())
	assert.Contains(t, a.View(), "200 OK")
}

func TestSend_EmptyURL(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{resp: okResponse()})
	store.SetURL("")

	a, _ = update(t, a, ctrl(tea.KeyCtrlR))
	assert.False(t, a.response.Loading())
	assert.Empty(t, store.History())
	assert.Equal(t, "Enter a URL first", a.toast.Text())
}

func TestTypingURLUpdatesSession(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{})

	a, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/x")})
	a = drain(t, a, cmd)
	assert.Equal(t, request.DefaultRequest().URL+"/x", store.Request().URL)
}

func TestCycleMethod(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{})

	a, _ = update(t, a, ctrl(tea.KeyCtrlL))
	assert.Equal(t, request.MethodPost, store.Request().Method)
	assert.Contains(t, a.View(), "POST")
}

func TestCycleFocus_SkipsBodyForGET(t *testing.T) {
	a, _ := testApp(t, &fakeDispatcher{})

	a, _ = update(t, a, ctrl(tea.KeyTab))
	assert.Equal(t, msgs.FocusHeaders, a.focus)
	a, _ = update(t, a, ctrl(tea.KeyTab))
	assert.Equal(t, msgs.FocusResponse, a.focus)
	a, _ = update(t, a, ctrl(tea.KeyTab))
	assert.Equal(t, msgs.FocusURL, a.focus)
	a, _ = update(t, a, ctrl(tea.KeyShiftTab))
	assert.Equal(t, msgs.FocusResponse, a.focus)
}

func TestCycleFocus_IncludesBodyForPOST(t *testing.T) {
	a, _ := testApp(t, &fakeDispatcher{})
	a, _ = update(t, a, ctrl(tea.KeyCtrlL))

	a, _ = update(t, a, ctrl(tea.KeyTab))
	a, _ = update(t, a, ctrl(tea.KeyTab))
	assert.Equal(t, msgs.FocusBody, a.focus)

	// PUT, PATCH, DELETE: leaving body methods moves focus off the body.
	for i := 0; i < 3; i++ {
		a, _ = update(t, a, ctrl(tea.KeyCtrlL))
	}
	assert.Equal(t, msgs.FocusURL, a.focus)
}

func TestHeaders_RemoveThroughTable(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{})
	a, _ = update(t, a, ctrl(tea.KeyTab))
	require.Equal(t, msgs.FocusHeaders, a.focus)

	a, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	drain(t, a, cmd)
	assert.Empty(t, store.Request().Headers)
}

func TestHeaders_AddAndEditThroughTable(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{})
	a, _ = update(t, a, ctrl(tea.KeyTab))

	a, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	a = drain(t, a, cmd)
	require.Len(t, store.Request().Headers, 2)
	assert.Equal(t, msgs.ModeInsert, a.mode)

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Accept")})
	// ctrl+r is text while a cell is being edited
	a, _ = update(t, a, ctrl(tea.KeyCtrlR))
	assert.Empty(t, store.History())

	a, cmd = update(t, a, ctrl(tea.KeyEnter))
	a = drain(t, a, cmd)
	assert.Equal(t, request.KeyValue{Key: "Accept"}, store.Request().Headers[1])
	assert.Equal(t, msgs.ModeNormal, a.mode)
}

func TestHistoryOverlay_LoadAndClear(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{resp: okResponse()})
	store.SetURL("https://example.com/first")
	<-store.Send(context.Background())
	store.SetURL("https://example.com/second")

	a, _ = update(t, a, ctrl(tea.KeyCtrlH))
	require.True(t, a.historyOpen)
	assert.Equal(t, msgs.ModeHistory, a.mode)
	assert.Contains(t, a.View(), "https://example.com/first")

	a, cmd := update(t, a, ctrl(tea.KeyEnter))
	a = drain(t, a, cmd)
	assert.False(t, a.historyOpen)
	assert.Equal(t, "https://example.com/first", store.Request().URL)
	assert.Equal(t, "https://example.com/first", a.editor.URL())

	a, _ = update(t, a, ctrl(tea.KeyCtrlH))
	a, cmd = update(t, a, ctrl(tea.KeyCtrlD))
	a = drain(t, a, cmd)
	assert.Empty(t, store.History())
	assert.Empty(t, a.history.Items())
}

func TestHistoryOverlay_Filter(t *testing.T) {
	a, store := testApp(t, &fakeDispatcher{resp: okResponse()})
	for _, u := range []string{"https://example.com/users", "https://example.com/orders"} {
		store.SetURL(u)
		<-store.Send(context.Background())
	}

	a, _ = update(t, a, ctrl(tea.KeyCtrlH))
	a, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("users")})
	a = drain(t, a, cmd)
	require.Len(t, a.history.Items(), 1)
	assert.Equal(t, "https://example.com/users", a.history.Items()[0].URL)

	a, cmd = update(t, a, ctrl(tea.KeyEsc))
	a = drain(t, a, cmd)
	assert.False(t, a.historyOpen)
}

func TestCopyCurl(t *testing.T) {
	var copied string
	stubClipboard(t, func(s string) error { copied = s; return nil })

	a, _ := testApp(t, &fakeDispatcher{})
	a, cmd := update(t, a, ctrl(tea.KeyCtrlO))
	a = drain(t, a, cmd)

	assert.Contains(t, copied, "curl")
	assert.Contains(t, copied, request.DefaultRequest().URL)
	assert.Equal(t, "Copied as curl", a.toast.Text())
}

func TestCopyResponse(t *testing.T) {
	var copied string
	stubClipboard(t, func(s string) error { copied = s; return nil })

	a, _ := testApp(t, &fakeDispatcher{resp: okResponse()})

	a, cmd := update(t, a, ctrl(tea.KeyCtrlY))
	a = drain(t, a, cmd)
	assert.Equal(t, "No response to copy", a.toast.Text())

	a, cmd = update(t, a, ctrl(tea.KeyCtrlR))
	a = drain(t, a, cmd)
	a, cmd = update(t, a, ctrl(tea.KeyCtrlY))
	a = drain(t, a, cmd)
	assert.Equal(t, "{\n  \"id\": 1\n}", copied)
}

func TestCopy_ClipboardError(t *testing.T) {
	stubClipboard(t, func(string) error { return errors.New("no display") })

	a, _ := testApp(t, &fakeDispatcher{})
	a, cmd := update(t, a, ctrl(tea.KeyCtrlO))
	a = drain(t, a, cmd)
	assert.Equal(t, "Clipboard error: no display", a.toast.Text())
}

func TestQuit(t *testing.T) {
	a, _ := testApp(t, &fakeDispatcher{})
	_, cmd := update(t, a, ctrl(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPasteCurl(t *testing.T) {
	orig := readClipboard
	readClipboard = func() (string, error) {
		return `curl -X PUT -H 'X-A: 1' -d '{"a":1}' https://example.com/items/1`, nil
	}
	t.Cleanup(func() { readClipboard = orig })

	a, store := testApp(t, &fakeDispatcher{})
	a, cmd := update(t, a, ctrl(tea.KeyCtrlP))
	a = drain(t, a, cmd)

	req := store.Request()
	assert.Equal(t, request.MethodPut, req.Method)
	assert.Equal(t, "https://example.com/items/1", req.URL)
	assert.Equal(t, []request.KeyValue{{Key: "X-A", Value: "1"}}, req.Headers)
	assert.Equal(t, "https://example.com/items/1", a.editor.URL())
	assert.Equal(t, `{"a":1}`, a.editor.Body())
}

func TestPasteCurl_Invalid(t *testing.T) {
	orig := readClipboard
	readClipboard = func() (string, error) { return "curl -H 'A: b'", nil }
	t.Cleanup(func() { readClipboard = orig })

	a, store := testApp(t, &fakeDispatcher{})
	a, cmd := update(t, a, ctrl(tea.KeyCtrlP))
	a = drain(t, a, cmd)

	assert.Equal(t, request.DefaultRequest().URL, store.Request().URL)
	assert.Contains(t, a.toast.Text(), "Import failed")
}
