package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Column identifies which column is focused.
type Column int

const (
	ColKey Column = iota
	ColValue
)

// KVTable edits header rows. It keeps a local copy for rendering and reports
// every change as a message so the owner can apply it to the session.
type KVTable struct {
	pairs   []request.KeyValue
	cursor  int
	column  Column
	editing bool
	input   textinput.Model
	width   int
	styles  theme.Styles
}

// NewKVTable creates a new KVTable.
func NewKVTable(styles theme.Styles) KVTable {
	ti := textinput.New()
	ti.CharLimit = 256

	return KVTable{
		styles: styles,
		input:  ti,
		width:  60,
	}
}

// SetPairs replaces all rows. It is ignored while a cell is being edited so
// the edit in progress is not lost.
func (m *KVTable) SetPairs(pairs []request.KeyValue) {
	if m.editing {
		return
	}
	m.pairs = append([]request.KeyValue(nil), pairs...)
	if m.cursor >= len(m.pairs) {
		m.cursor = len(m.pairs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Pairs returns a copy of all rows.
func (m KVTable) Pairs() []request.KeyValue {
	out := make([]request.KeyValue, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Cursor returns the selected row index.
func (m KVTable) Cursor() int {
	return m.cursor
}

// SetSize sets the table width.
func (m *KVTable) SetSize(w int) {
	m.width = w
}

// Editing returns whether the table is in edit mode.
func (m KVTable) Editing() bool {
	return m.editing
}

// Init implements tea.Model.
func (m KVTable) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m KVTable) Update(msg tea.Msg) (KVTable, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}
	return m.updateNormal(msg)
}

func (m KVTable) updateNormal(msg tea.Msg) (KVTable, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.pairs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "left", "h", "right", "l":
		if m.column == ColKey {
			m.column = ColValue
		} else {
			m.column = ColKey
		}
	case "enter", "i":
		if len(m.pairs) == 0 {
			return m, nil
		}
		m.startEditing()
		return m, tea.Batch(textinput.Blink, modeCmd(msgs.ModeInsert))
	case "a":
		m.pairs = append(m.pairs, request.KeyValue{})
		m.cursor = len(m.pairs) - 1
		m.column = ColKey
		m.startEditing()
		return m, tea.Batch(
			func() tea.Msg { return msgs.HeaderAddMsg{} },
			textinput.Blink,
			modeCmd(msgs.ModeInsert),
		)
	case "d", "x":
		if len(m.pairs) == 0 {
			return m, nil
		}
		index := m.cursor
		m.pairs = append(m.pairs[:index:index], m.pairs[index+1:]...)
		if m.cursor >= len(m.pairs) && m.cursor > 0 {
			m.cursor = len(m.pairs) - 1
		}
		return m, func() tea.Msg { return msgs.HeaderRemoveMsg{Index: index} }
	}
	return m, nil
}

func (m KVTable) updateEditing(msg tea.Msg) (KVTable, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "enter":
			cmd := m.commitEdit()
			m.editing = false
			return m, tea.Batch(cmd, modeCmd(msgs.ModeNormal))
		case "tab":
			cmd := m.commitEdit()
			if m.column == ColKey {
				m.column = ColValue
			} else {
				m.column = ColKey
			}
			m.startEditing()
			return m, tea.Batch(cmd, textinput.Blink)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *KVTable) startEditing() {
	m.editing = true
	if m.column == ColKey {
		m.input.SetValue(m.pairs[m.cursor].Key)
	} else {
		m.input.SetValue(m.pairs[m.cursor].Value)
	}
	m.input.Focus()
	m.input.CursorEnd()
}

func (m *KVTable) commitEdit() tea.Cmd {
	m.input.Blur()
	if m.cursor >= len(m.pairs) {
		return nil
	}
	if m.column == ColKey {
		m.pairs[m.cursor].Key = m.input.Value()
	} else {
		m.pairs[m.cursor].Value = m.input.Value()
	}
	edit := msgs.HeaderEditMsg{Index: m.cursor, Pair: m.pairs[m.cursor]}
	return func() tea.Msg { return edit }
}

func modeCmd(mode msgs.AppMode) tea.Cmd {
	return func() tea.Msg { return msgs.ModeChangedMsg{Mode: mode} }
}

// View implements tea.Model.
func (m KVTable) View() string {
	if len(m.pairs) == 0 {
		return m.styles.Muted.Render("  No headers (a to add)")
	}

	// "> " cursor prefix plus " | " separator
	prefixW := 2
	separatorW := 3
	available := m.width - prefixW - separatorW
	if available < 10 {
		available = 10
	}
	keyW := available / 2
	valW := available - keyW

	m.input.Width = keyW - 1
	if m.column == ColValue {
		m.input.Width = valW - 1
	}

	sep := m.styles.KVSeparator.Render(" | ")
	rows := make([]string, 0, len(m.pairs))
	for i, pair := range m.pairs {
		isCursor := i == m.cursor

		prefix := "  "
		if isCursor {
			prefix = "> "
		}

		keyStr := m.cell(pair.Key, "key", keyW, isCursor, ColKey, m.styles.KVKey)
		valStr := m.cell(pair.Value, "value", valW, isCursor, ColValue, m.styles.KVValue)

		rows = append(rows, prefix+keyStr+sep+valStr)
	}

	return strings.Join(rows, "\n")
}

func (m KVTable) cell(text, placeholder string, width int, isCursor bool, col Column, style lipgloss.Style) string {
	if isCursor && m.editing && m.column == col {
		return padRight(m.input.View(), width)
	}
	shown := truncate(text, width)
	if shown == "" {
		shown = placeholder
		style = m.styles.Muted
	}
	if isCursor && m.column == col {
		style = m.styles.Cursor
	}
	return style.Render(padRight(shown, width))
}

func truncate(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if len(s) > maxW {
		if maxW > 3 {
			return s[:maxW-3] + "..."
		}
		return s[:maxW]
	}
	return s
}

func padRight(s string, width int) string {
	// Use lipgloss to handle ANSI-aware width
	return lipgloss.NewStyle().Width(width).Render(s)
}
