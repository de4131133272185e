package msgs

import (
	"github.com/sadopc/apitester/internal/core/request"
)

// Panel focus targets
type PanelFocus int

const (
	FocusURL PanelFocus = iota
	FocusHeaders
	FocusBody
	FocusResponse
)

func (f PanelFocus) String() string {
	switch f {
	case FocusURL:
		return "URL"
	case FocusHeaders:
		return "HEADERS"
	case FocusBody:
		return "BODY"
	case FocusResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// AppMode represents the current input mode.
type AppMode int

const (
	ModeNormal AppMode = iota
	ModeInsert
	ModeHistory
	ModeSearch
)

func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeHistory:
		return "HISTORY"
	case ModeSearch:
		return "SEARCH"
	default:
		return "UNKNOWN"
	}
}

// ResponseMsg is emitted when a dispatch completes.
type ResponseMsg struct {
	Response request.Response
}

// URLChangedMsg carries the edited URL.
type URLChangedMsg struct {
	URL string
}

// BodyChangedMsg carries the edited request body.
type BodyChangedMsg struct {
	Body string
}

// HeaderAddMsg appends an empty header row.
type HeaderAddMsg struct{}

// HeaderRemoveMsg removes the header row at Index.
type HeaderRemoveMsg struct {
	Index int
}

// HeaderEditMsg replaces the header row at Index.
type HeaderEditMsg struct {
	Index int
	Pair  request.KeyValue
}

// HistoryFilterMsg asks for the history filtered by Query.
type HistoryFilterMsg struct {
	Query string
}

// HistorySelectMsg loads Item into the editor.
type HistorySelectMsg struct {
	Item request.HistoryItem
}

// HistoryClearMsg empties the history.
type HistoryClearMsg struct{}

// HistoryCloseMsg closes the history overlay.
type HistoryCloseMsg struct{}

// ModeChangedMsg is emitted when a panel enters or leaves text input.
type ModeChangedMsg struct {
	Mode AppMode
}

// StatusMsg shows a temporary message.
type StatusMsg struct {
	Text    string
	IsError bool
}

// CurlImportedMsg carries a request parsed from a pasted curl command.
type CurlImportedMsg struct {
	Request request.Request
	Err     error
}
