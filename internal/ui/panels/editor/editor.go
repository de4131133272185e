package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/ui/components"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Model is the request editor: method and URL bar, header rows and body.
// The text inputs own what is typed; every edit is reported as a message.
type Model struct {
	url     textinput.Model
	headers components.KVTable
	body    textarea.Model
	method  request.Method

	focus   msgs.PanelFocus
	focused bool
	styles  theme.Styles
	th      theme.Theme
	width   int
	height  int
}

// New creates a new editor model.
func New(t theme.Theme, s theme.Styles) Model {
	url := textinput.New()
	url.Placeholder = "https://api.example.com/resource"
	url.Prompt = ""
	url.CharLimit = 2048

	body := textarea.New()
	body.Placeholder = `{"key": "value"}`
	body.ShowLineNumbers = false
	body.CharLimit = 0

	return Model{
		url:     url,
		headers: components.NewKVTable(s),
		body:    body,
		method:  request.MethodGet,
		styles:  s,
		th:      t,
	}
}

// SetRequest replaces everything shown with r.
func (m *Model) SetRequest(r request.Request) {
	m.method = r.Method
	m.url.SetValue(r.URL)
	m.url.CursorEnd()
	m.headers.SetPairs(r.Headers)
	m.body.SetValue(r.Body)
}

// SetMethod updates the method badge.
func (m *Model) SetMethod(method request.Method) {
	m.method = method
}

// SetHeaders refreshes the header rows.
func (m *Model) SetHeaders(pairs []request.KeyValue) {
	m.headers.SetPairs(pairs)
}

// URL returns the URL as typed.
func (m Model) URL() string {
	return m.url.Value()
}

// Body returns the body as typed.
func (m Model) Body() string {
	return m.body.Value()
}

// Editing reports whether a header cell is being edited.
func (m Model) Editing() bool {
	return m.headers.Editing()
}

// SetFocus moves the editor's input focus to one of its sections. Any other
// panel blurs the editor.
func (m *Model) SetFocus(f msgs.PanelFocus) {
	m.focus = f
	m.focused = f == msgs.FocusURL || f == msgs.FocusHeaders || f == msgs.FocusBody
	m.url.Blur()
	m.body.Blur()
	switch f {
	case msgs.FocusURL:
		m.url.Focus()
	case msgs.FocusBody:
		m.body.Focus()
	}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	innerW := max(w-2, 0)
	m.url.Width = max(innerW-10, 10)
	m.headers.SetSize(innerW)
	m.body.SetWidth(innerW)
	m.body.SetHeight(m.bodyHeight())
}

// bodyHeight is what is left after the border, URL bar, section titles and
// header rows.
func (m Model) bodyHeight() int {
	rows := max(len(m.headers.Pairs()), 1)
	return max(m.height-2-1-1-rows-1-1, 3)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case msgs.FocusURL:
		before := m.url.Value()
		m.url, cmd = m.url.Update(msg)
		if after := m.url.Value(); after != before {
			cmd = tea.Batch(cmd, func() tea.Msg { return msgs.URLChangedMsg{URL: after} })
		}
	case msgs.FocusHeaders:
		m.headers, cmd = m.headers.Update(msg)
		m.body.SetHeight(m.bodyHeight())
	case msgs.FocusBody:
		if !m.method.SupportsBody() {
			return m, nil
		}
		before := m.body.Value()
		m.body, cmd = m.body.Update(msg)
		if after := m.body.Value(); after != before {
			cmd = tea.Batch(cmd, func() tea.Msg { return msgs.BodyChangedMsg{Body: after} })
		}
	}
	return m, cmd
}

func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}
	innerW := max(m.width-2, 0)
	innerH := max(m.height-2, 0)

	badge := lipgloss.NewStyle().
		Foreground(m.th.MethodColor(m.method)).
		Bold(true).
		Width(7).
		Render(string(m.method))
	urlBar := badge + " " + m.url.View()

	sections := []string{
		urlBar,
		m.sectionTitle("Headers", msgs.FocusHeaders, fmt.Sprintf(" (%d)", len(m.headers.Pairs()))),
		m.headers.View(),
		m.sectionTitle("Body", msgs.FocusBody, ""),
	}
	if m.method.SupportsBody() {
		sections = append(sections, m.body.View())
	} else {
		sections = append(sections, m.styles.Hint.Render(string(m.method)+" requests are sent without a body"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return border.Width(innerW).Height(innerH).MaxHeight(m.height).Render(content)
}

func (m Model) sectionTitle(title string, section msgs.PanelFocus, suffix string) string {
	style := m.styles.Muted
	if m.focused && m.focus == section {
		style = m.styles.Section
	}
	return style.Render(title + suffix)
}
