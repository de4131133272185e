package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// StatusBar is a full-width bottom status bar.
type StatusBar struct {
	resp        *request.Response
	loading     bool
	historySize int
	mode        msgs.AppMode
	focus       msgs.PanelFocus
	width       int
	theme       theme.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(t theme.Theme) StatusBar {
	return StatusBar{
		theme: t,
		mode:  msgs.ModeNormal,
	}
}

// SetResponse sets the response summarized on the left. nil clears it.
func (m *StatusBar) SetResponse(resp *request.Response) {
	m.resp = resp
}

// SetLoading marks a dispatch as in flight.
func (m *StatusBar) SetLoading(loading bool) {
	m.loading = loading
}

// SetHistorySize sets the number of history entries shown on the right.
func (m *StatusBar) SetHistorySize(n int) {
	m.historySize = n
}

// SetMode sets the current app mode.
func (m *StatusBar) SetMode(mode msgs.AppMode) {
	m.mode = mode
}

// SetFocus sets the focused panel.
func (m *StatusBar) SetFocus(f msgs.PanelFocus) {
	m.focus = f
}

// SetWidth sets the available width.
func (m *StatusBar) SetWidth(w int) {
	m.width = w
}

// Init implements tea.Model.
func (m StatusBar) Init() tea.Cmd {
	return nil
}

// View renders the status bar.
func (m StatusBar) View() string {
	barStyle := lipgloss.NewStyle().
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Width(m.width)
	seg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Background(m.theme.Surface)
	}

	var leftParts []string
	switch {
	case m.loading:
		leftParts = append(leftParts, seg(m.theme.Yellow).Render("sending..."))
	case m.resp != nil:
		category := request.CategoryOf(m.resp.Status)
		leftParts = append(leftParts,
			seg(m.theme.CategoryColor(category)).Bold(true).Render(strconv.Itoa(m.resp.Status)),
			seg(m.theme.Subtext).Render(formatDuration(time.Duration(m.resp.Time)*time.Millisecond)),
			seg(m.theme.Subtext).Render(formatSize(m.resp.Size)),
		)
		if m.resp.ContentType != "" {
			leftParts = append(leftParts, seg(m.theme.Muted).Render(m.resp.ContentType))
		}
	}
	left := strings.Join(leftParts, " │ ")

	modeStr := seg(m.theme.Mauve).Bold(true).
		Render("[" + m.mode.String() + " " + m.focus.String() + "]")

	hint := seg(m.theme.Muted).Render(fmt.Sprintf("history %d  ctrl+r:send  ctrl+h:history", m.historySize))

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(modeStr)
	rightWidth := lipgloss.Width(hint)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent+2 >= m.width {
		line := " " + left + " " + modeStr + " " + hint
		return barStyle.Render(line)
	}

	remaining := m.width - totalContent - 2 // padding
	gap1 := remaining / 2
	gap2 := remaining - gap1

	line := " " + left +
		strings.Repeat(" ", gap1) + modeStr +
		strings.Repeat(" ", gap2) + hint

	return barStyle.Render(line)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// formatSize turns a "<n> bytes" size into a humanized one.
func formatSize(size string) string {
	n, err := strconv.ParseUint(strings.TrimSuffix(size, " bytes"), 10, 64)
	if err != nil {
		return size
	}
	return humanize.IBytes(n)
}
