// Package app is the terminal front end: a Bubble Tea model that edits the
// session's request, sends it and renders the response and history.
package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/core/state"
	"github.com/sadopc/apitester/internal/export"
	"github.com/sadopc/apitester/internal/import/curl"
	"github.com/sadopc/apitester/internal/ui/components"
	"github.com/sadopc/apitester/internal/ui/layout"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/panels/editor"
	"github.com/sadopc/apitester/internal/ui/panels/history"
	"github.com/sadopc/apitester/internal/ui/panels/response"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Swapped out in tests.
var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
)

// App is the root Bubble Tea model.
type App struct {
	editor   editor.Model
	response response.Model
	history  history.Model

	statusBar components.StatusBar
	toast     components.Toast

	ctx   context.Context
	store *state.Store

	mode        msgs.AppMode
	focus       msgs.PanelFocus
	historyOpen bool
	layout      layout.PanelLayout
	keys        KeyMap

	theme  theme.Theme
	styles theme.Styles

	width  int
	height int
	ready  bool
}

// New creates a new App model over store. ctx bounds every dispatch.
func New(ctx context.Context, store *state.Store, t theme.Theme) App {
	s := theme.NewStyles(t)

	a := App{
		editor:    editor.New(t, s),
		response:  response.New(t, s),
		history:   history.New(t, s),
		statusBar: components.NewStatusBar(t),
		toast:     components.NewToast(t),

		ctx:   ctx,
		store: store,

		mode:  msgs.ModeNormal,
		focus: msgs.FocusURL,
		keys:  DefaultKeyMap(),

		theme:  t,
		styles: s,
	}
	a.editor.SetRequest(store.Request())
	a.syncResponse()
	a.updateFocus()
	return a
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = layout.Calculate(msg.Width, msg.Height)
		a.resizePanels()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case msgs.ResponseMsg:
		a.syncResponse()
		return a, nil

	case msgs.URLChangedMsg:
		a.store.SetURL(msg.URL)
		return a, nil

	case msgs.BodyChangedMsg:
		a.store.SetBody(msg.Body)
		return a, nil

	case msgs.HeaderAddMsg:
		a.store.AddHeader()
		return a, nil

	case msgs.HeaderRemoveMsg:
		a.store.RemoveHeader(msg.Index)
		a.editor.SetHeaders(a.store.Request().Headers)
		return a, nil

	case msgs.HeaderEditMsg:
		a.store.SetHeader(msg.Index, msg.Pair)
		return a, nil

	case msgs.ModeChangedMsg:
		a.setMode(msg.Mode)
		return a, nil

	case msgs.HistoryFilterMsg:
		a.history.SetItems(a.store.SearchHistory(msg.Query))
		return a, nil

	case msgs.HistorySelectMsg:
		a.store.LoadFromHistory(msg.Item)
		a.editor.SetRequest(a.store.Request())
		a.closeHistory()
		cmd := a.toast.Show("Loaded "+string(msg.Item.Method)+" "+msg.Item.URL, false, 2*time.Second)
		return a, cmd

	case msgs.HistoryClearMsg:
		a.store.ClearHistory()
		a.history.SetItems(nil)
		a.statusBar.SetHistorySize(0)
		cmd := a.toast.Show("History cleared", false, 2*time.Second)
		return a, cmd

	case msgs.HistoryCloseMsg:
		a.closeHistory()
		return a, nil

	case msgs.StatusMsg:
		cmd := a.toast.Show(msg.Text, msg.IsError, 0)
		return a, cmd

	case msgs.CurlImportedMsg:
		if msg.Err != nil {
			cmd := a.toast.Show("Import failed: "+msg.Err.Error(), true, 3*time.Second)
			return a, cmd
		}
		a.store.SetRequest(msg.Request)
		a.editor.SetRequest(a.store.Request())
		a.focus = msgs.FocusURL
		a.updateFocus()
		cmd := a.toast.Show("Imported "+string(msg.Request.Method)+" "+msg.Request.URL, false, 2*time.Second)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.toast, cmd = a.toast.Update(msg)
	cmds = append(cmds, cmd)
	a.response, cmd = a.response.Update(msg)
	cmds = append(cmds, cmd)
	if a.historyOpen {
		a.history, cmd = a.history.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.historyOpen {
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd
	}

	// Text entry owns every key but quit until it ends.
	if a.editor.Editing() {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}
	if a.focus == msgs.FocusResponse && a.response.Searching() {
		var cmd tea.Cmd
		a.response, cmd = a.response.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.SendRequest):
		return a.sendRequest()
	case key.Matches(msg, a.keys.History):
		return a.openHistory()
	case key.Matches(msg, a.keys.CopyResponse):
		return a, a.copyResponse()
	case key.Matches(msg, a.keys.CopyCurl):
		return a, a.copyCurl()
	case key.Matches(msg, a.keys.PasteCurl):
		return a, pasteCurl
	case key.Matches(msg, a.keys.CycleMethod):
		a.cycleMethod()
		return a, nil
	case key.Matches(msg, a.keys.CycleFocus):
		a.cycleFocus(false)
		return a, nil
	case key.Matches(msg, a.keys.CycleFocusRev):
		a.cycleFocus(true)
		return a, nil
	}

	var cmd tea.Cmd
	if a.focus == msgs.FocusResponse {
		a.response, cmd = a.response.Update(msg)
	} else {
		a.editor, cmd = a.editor.Update(msg)
	}
	return a, cmd
}

func (a App) sendRequest() (tea.Model, tea.Cmd) {
	ch := a.store.Send(a.ctx)
	if ch == nil {
		cmd := a.toast.Show("Enter a URL first", true, 2*time.Second)
		return a, cmd
	}
	a.response.SetResponse(nil)
	a.statusBar.SetResponse(nil)
	a.statusBar.SetLoading(true)
	a.statusBar.SetHistorySize(len(a.store.History()))
	cmd := tea.Batch(a.response.SetLoading(true), waitForResponse(ch))
	return a, cmd
}

// waitForResponse turns the dispatch's single delivery into a message.
func waitForResponse(ch <-chan request.Response) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-ch
		if !ok {
			return nil
		}
		return msgs.ResponseMsg{Response: resp}
	}
}

// syncResponse copies the session's response and loading flag into the
// panels. The session decides which completion is shown.
func (a *App) syncResponse() {
	loading := a.store.Loading()
	a.response.SetLoading(loading)
	a.statusBar.SetLoading(loading)
	a.statusBar.SetHistorySize(len(a.store.History()))

	if resp, ok := a.store.Response(); ok {
		a.response.SetResponse(&resp)
		a.statusBar.SetResponse(&resp)
		return
	}
	a.response.SetResponse(nil)
	a.statusBar.SetResponse(nil)
}

func (a App) openHistory() (tea.Model, tea.Cmd) {
	a.historyOpen = true
	a.setMode(msgs.ModeHistory)
	cmd := a.history.Open(a.store.History())
	return a, cmd
}

func (a *App) closeHistory() {
	a.historyOpen = false
	a.setMode(msgs.ModeNormal)
}

func (a *App) cycleMethod() {
	next := a.store.Request().Method.Next()
	a.store.SetMethod(next)
	a.editor.SetMethod(next)
	if a.focus == msgs.FocusBody && !next.SupportsBody() {
		a.focus = msgs.FocusURL
		a.updateFocus()
	}
}

func (a App) copyResponse() tea.Cmd {
	if _, ok := a.response.Response(); !ok {
		return func() tea.Msg { return msgs.StatusMsg{Text: "No response to copy", IsError: true} }
	}
	return copyCmd(a.response.BodyText(), "Response copied")
}

func (a App) copyCurl() tea.Cmd {
	return copyCmd(export.AsCurl(a.store.Request()), "Copied as curl")
}

func pasteCurl() tea.Msg {
	text, err := readClipboard()
	if err != nil {
		return msgs.CurlImportedMsg{Err: err}
	}
	req, err := curl.ParseCurl(text)
	return msgs.CurlImportedMsg{Request: req, Err: err}
}

func copyCmd(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return msgs.StatusMsg{Text: "Clipboard error: " + err.Error(), IsError: true}
		}
		return msgs.StatusMsg{Text: done}
	}
}

func (a *App) setMode(mode msgs.AppMode) {
	a.mode = mode
	a.statusBar.SetMode(mode)
}

func (a *App) cycleFocus(reverse bool) {
	panels := []msgs.PanelFocus{msgs.FocusURL, msgs.FocusHeaders}
	if a.store.Request().Method.SupportsBody() {
		panels = append(panels, msgs.FocusBody)
	}
	panels = append(panels, msgs.FocusResponse)

	idx := 0
	for i, p := range panels {
		if p == a.focus {
			idx = i
			break
		}
	}

	if reverse {
		idx = (idx - 1 + len(panels)) % len(panels)
	} else {
		idx = (idx + 1) % len(panels)
	}

	a.focus = panels[idx]
	a.updateFocus()
}

func (a *App) updateFocus() {
	a.editor.SetFocus(a.focus)
	a.response.SetFocused(a.focus == msgs.FocusResponse)
	a.statusBar.SetFocus(a.focus)
}

func (a *App) resizePanels() {
	l := a.layout
	a.editor.SetSize(l.EditorWidth, l.EditorHeight)
	a.response.SetSize(l.ResponseWidth, l.ResponseHeight)
	a.history.SetSize(min(a.width-4, 100), a.height)
	a.statusBar.SetWidth(a.width)
	a.updateFocus()
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var panels string
	if a.layout.Stacked {
		panels = lipgloss.JoinVertical(lipgloss.Left, a.editor.View(), a.response.View())
	} else {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, a.editor.View(), a.response.View())
	}

	main := lipgloss.JoinVertical(lipgloss.Left, panels, a.statusBar.View())

	if a.historyOpen {
		main = overlayCenter(a.history.View(), a.width, a.height, a.theme)
	}
	if a.toast.Visible {
		main = overlayTopRight(main, a.toast.View(), a.width)
	}
	return main
}

func overlayCenter(overlay string, width, height int, t theme.Theme) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(t.Base),
	)
}

func overlayTopRight(bg, overlay string, width int) string {
	gap := max(width-lipgloss.Width(overlay)-2, 0)
	positioned := lipgloss.NewStyle().MarginLeft(gap).Render(overlay)
	return positioned + "\n" + bg
}
