package response

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Model is the response panel: a status line over the body viewer.
type Model struct {
	body    BodyModel
	spinner spinner.Model

	styles  theme.Styles
	th      theme.Theme
	focused bool
	loading bool
	resp    *request.Response
	width   int
	height  int
}

// New creates a new response panel model.
func New(t theme.Theme, s theme.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Mauve)

	return Model{
		body:    NewBodyModel(s),
		spinner: sp,
		styles:  s,
		th:      t,
	}
}

// SetResponse shows resp. nil returns the panel to its empty state.
func (m *Model) SetResponse(resp *request.Response) {
	if resp == nil {
		m.resp = nil
		m.body.Clear()
		return
	}
	r := *resp
	m.resp = &r
	m.body.SetContent(r.Data, r.ContentType)
}

// Response returns the response on display.
func (m Model) Response() (request.Response, bool) {
	if m.resp == nil {
		return request.Response{}, false
	}
	return *m.resp, true
}

// BodyText returns the displayed body without colors.
func (m Model) BodyText() string {
	return m.body.PlainText()
}

// SetLoading puts the panel into loading state.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	wasLoading := m.loading
	m.loading = loading
	if loading && !wasLoading {
		return m.spinner.Tick
	}
	return nil
}

// Loading reports whether the panel shows the loading state.
func (m Model) Loading() bool {
	return m.loading
}

// Searching reports whether the body search bar has focus.
func (m Model) Searching() bool {
	return m.body.Searching()
}

// SetFocused sets whether this panel has focus.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h

	// Reserve space: 1 for status line, 2 for border
	innerW := max(w-2, 0)
	innerH := max(h-3, 0)
	m.body.SetSize(innerW, innerH)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	if m.resp == nil || m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}

	innerW := max(m.width-2, 0)
	innerH := max(m.height-2, 0)

	var content string
	switch {
	case m.loading:
		msg := fmt.Sprintf("%s Sending request...", m.spinner.View())
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, msg)
	case m.resp == nil:
		msg := m.styles.Muted.Render("Send a request to see the response")
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, msg)
	default:
		body := lipgloss.NewStyle().Width(innerW).Height(max(innerH-1, 0)).Render(m.body.View())
		content = lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(innerW), body)
	}

	return border.Width(innerW).Height(innerH).Render(content)
}

func (m Model) renderStatus(width int) string {
	r := m.resp
	color := m.th.CategoryColor(request.CategoryOf(r.Status))
	status := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(StatusLine(*r))
	meta := m.styles.Muted.Render(fmt.Sprintf("  %d ms  %s", r.Time, r.Size))
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(status + meta)
}

// StatusLine renders "<status> <statusText>", or only the text for a
// response that never reached a server.
func StatusLine(r request.Response) string {
	if r.Status == 0 {
		return r.StatusText
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", r.Status, r.StatusText))
}
