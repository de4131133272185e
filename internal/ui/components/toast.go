package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/ui/theme"
)

// toastDismissMsg dismisses the toast that was shown with the same id.
type toastDismissMsg struct{ id int }

// Toast is an auto-dismiss notification.
type Toast struct {
	Visible bool
	text    string
	isError bool
	id      int
	theme   theme.Theme
}

// NewToast creates a new toast component.
func NewToast(t theme.Theme) Toast {
	return Toast{theme: t}
}

// Show displays a toast message and returns a Cmd for auto-dismiss.
func (m *Toast) Show(text string, isError bool, duration time.Duration) tea.Cmd {
	m.Visible = true
	m.text = text
	m.isError = isError
	m.id++
	if duration <= 0 {
		duration = 3 * time.Second
	}
	id := m.id
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// Text returns the message being shown.
func (m Toast) Text() string {
	return m.text
}

// Update implements tea.Model.
func (m Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	if d, ok := msg.(toastDismissMsg); ok && d.id == m.id {
		m.Visible = false
		m.text = ""
	}
	return m, nil
}

// View renders the toast notification.
func (m Toast) View() string {
	if !m.Visible || m.text == "" {
		return ""
	}

	fg := m.theme.Green
	if m.isError {
		fg = m.theme.Red
	}

	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(m.theme.Surface).
		Bold(true).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg)

	return style.Render(m.text)
}
