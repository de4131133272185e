package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/jsonfmt"
)

// Styles holds pre-computed Lip Gloss styles for the current theme.
type Styles struct {
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style

	Title   lipgloss.Style
	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
	Cursor  lipgloss.Style
	Section lipgloss.Style
	Match   lipgloss.Style

	KVKey       lipgloss.Style
	KVValue     lipgloss.Style
	KVSeparator lipgloss.Style

	// JSON token styles, indexed by jsonfmt.Kind
	Tokens map[jsonfmt.Kind]lipgloss.Style
}

// NewStyles creates a Styles set from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		FocusedBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused),
		UnfocusedBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderUnfocused),

		Title:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Normal:  lipgloss.NewStyle().Foreground(t.Text),
		Muted:   lipgloss.NewStyle().Foreground(t.Muted),
		Bold:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Red),
		Hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Cursor:  lipgloss.NewStyle().Background(t.Overlay).Foreground(t.Text),
		Section: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Match:   lipgloss.NewStyle().Background(t.Yellow).Foreground(t.Base).Bold(true),

		KVKey:       lipgloss.NewStyle().Foreground(t.Mauve),
		KVValue:     lipgloss.NewStyle().Foreground(t.Text),
		KVSeparator: lipgloss.NewStyle().Foreground(t.Muted),

		Tokens: map[jsonfmt.Kind]lipgloss.Style{
			jsonfmt.Key:     lipgloss.NewStyle().Foreground(t.Blue),
			jsonfmt.String:  lipgloss.NewStyle().Foreground(t.Green),
			jsonfmt.Number:  lipgloss.NewStyle().Foreground(t.Peach),
			jsonfmt.Boolean: lipgloss.NewStyle().Foreground(t.Mauve),
			jsonfmt.Null:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		},
	}
}

// Token renders text in the style for kind.
func (s Styles) Token(kind jsonfmt.Kind, text string) string {
	st, ok := s.Tokens[kind]
	if !ok {
		return text
	}
	return st.Render(text)
}
