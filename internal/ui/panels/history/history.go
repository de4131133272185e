package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Model is the history overlay: a filter input over the recent requests.
type Model struct {
	filter textinput.Model
	items  []request.HistoryItem
	cursor int
	now    func() time.Time

	styles theme.Styles
	th     theme.Theme
	width  int
	height int
}

// New creates a new history overlay.
func New(t theme.Theme, s theme.Styles) Model {
	ti := textinput.New()
	ti.Placeholder = "filter by method or URL"
	ti.Prompt = "/ "
	ti.CharLimit = 256

	return Model{
		filter: ti,
		now:    time.Now,
		styles: s,
		th:     t,
	}
}

// Open resets the filter and focuses it.
func (m *Model) Open(items []request.HistoryItem) tea.Cmd {
	m.filter.SetValue("")
	m.cursor = 0
	m.SetItems(items)
	return m.filter.Focus()
}

// SetItems replaces the listed items, most relevant first.
func (m *Model) SetItems(items []request.HistoryItem) {
	m.items = items
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Items returns the listed items.
func (m Model) Items() []request.HistoryItem {
	return m.items
}

// Query returns the filter text.
func (m Model) Query() string {
	return m.filter.Value()
}

// SetSize sets the overlay size.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.filter.Width = max(w-8, 10)
}

// Update handles navigation, selection and filtering.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return msgs.HistoryCloseMsg{} }
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.items) == 0 {
				return m, nil
			}
			item := m.items[m.cursor]
			return m, func() tea.Msg { return msgs.HistorySelectMsg{Item: item} }
		case "ctrl+d":
			return m, func() tea.Msg { return msgs.HistoryClearMsg{} }
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		m.cursor = 0
		cmd = tea.Batch(cmd, func() tea.Msg { return msgs.HistoryFilterMsg{Query: after} })
	}
	return m, cmd
}

// View renders the overlay box.
func (m Model) View() string {
	innerW := max(m.width-4, 20)

	lines := []string{
		m.styles.Title.Render("History"),
		m.filter.View(),
		"",
	}
	if len(m.items) == 0 {
		empty := "No requests yet"
		if m.filter.Value() != "" {
			empty = "No matches"
		}
		lines = append(lines, m.styles.Muted.Render(empty))
	}
	for i, item := range m.items {
		lines = append(lines, m.renderItem(item, i == m.cursor, innerW-2))
	}
	lines = append(lines, "", m.styles.Hint.Render("enter: load  ctrl+d: clear  esc: close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.th.BorderFocused).
		Padding(0, 1).
		Width(innerW).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderItem(item request.HistoryItem, selected bool, width int) string {
	method := lipgloss.NewStyle().
		Foreground(m.th.MethodColor(item.Method)).
		Bold(true).
		Width(7).
		Render(string(item.Method))
	when := humanize.RelTime(item.Timestamp, m.now(), "ago", "from now")
	whenW := len(when) + 1

	urlW := max(width-2-7-1-whenW, 5)
	url := item.URL
	if len(url) > urlW {
		url = url[:max(urlW-3, 0)] + "..."
	}
	url = fmt.Sprintf("%-*s", urlW, url)

	prefix := "  "
	if selected {
		prefix = "> "
		url = m.styles.Cursor.Render(url)
	} else {
		url = m.styles.Normal.Render(url)
	}
	return prefix + method + " " + url + " " + m.styles.Muted.Render(when)
}
