package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/request"
)

// Theme holds all colors for the application.
type Theme struct {
	Name string

	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color

	Accent lipgloss.Color
	Red    lipgloss.Color
	Peach  lipgloss.Color
	Yellow lipgloss.Color
	Green  lipgloss.Color
	Teal   lipgloss.Color
	Blue   lipgloss.Color
	Mauve  lipgloss.Color

	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color
}

// MethodColor returns the color for an HTTP method.
func (t Theme) MethodColor(m request.Method) lipgloss.Color {
	switch m {
	case request.MethodGet:
		return t.Green
	case request.MethodPost:
		return t.Yellow
	case request.MethodPut:
		return t.Blue
	case request.MethodPatch:
		return t.Peach
	case request.MethodDelete:
		return t.Red
	default:
		return t.Text
	}
}

// CategoryColor returns the color for a status category.
func (t Theme) CategoryColor(c request.StatusCategory) lipgloss.Color {
	switch c {
	case request.StatusSuccess:
		return t.Green
	case request.StatusClientError:
		return t.Peach
	case request.StatusServerError:
		return t.Red
	default:
		return t.Subtext
	}
}

// CatppuccinMocha is the default dark theme.
var CatppuccinMocha = Theme{
	Name:    "Catppuccin Mocha",
	Base:    lipgloss.Color("#1e1e2e"),
	Surface: lipgloss.Color("#313244"),
	Overlay: lipgloss.Color("#45475a"),
	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Muted:   lipgloss.Color("#585b70"),
	Accent:  lipgloss.Color("#cba6f7"),
	Red:     lipgloss.Color("#f38ba8"),
	Peach:   lipgloss.Color("#fab387"),
	Yellow:  lipgloss.Color("#f9e2af"),
	Green:   lipgloss.Color("#a6e3a1"),
	Teal:    lipgloss.Color("#94e2d5"),
	Blue:    lipgloss.Color("#89b4fa"),
	Mauve:   lipgloss.Color("#cba6f7"),

	BorderFocused:   lipgloss.Color("#cba6f7"),
	BorderUnfocused: lipgloss.Color("#585b70"),
}

var Nord = Theme{
	Name:    "Nord",
	Base:    lipgloss.Color("#2e3440"),
	Surface: lipgloss.Color("#3b4252"),
	Overlay: lipgloss.Color("#434c5e"),
	Text:    lipgloss.Color("#eceff4"),
	Subtext: lipgloss.Color("#d8dee9"),
	Muted:   lipgloss.Color("#4c566a"),
	Accent:  lipgloss.Color("#88c0d0"),
	Red:     lipgloss.Color("#bf616a"),
	Peach:   lipgloss.Color("#d08770"),
	Yellow:  lipgloss.Color("#ebcb8b"),
	Green:   lipgloss.Color("#a3be8c"),
	Teal:    lipgloss.Color("#8fbcbb"),
	Blue:    lipgloss.Color("#5e81ac"),
	Mauve:   lipgloss.Color("#b48ead"),

	BorderFocused:   lipgloss.Color("#88c0d0"),
	BorderUnfocused: lipgloss.Color("#4c566a"),
}

var Dracula = Theme{
	Name:    "Dracula",
	Base:    lipgloss.Color("#282a36"),
	Surface: lipgloss.Color("#44475a"),
	Overlay: lipgloss.Color("#6272a4"),
	Text:    lipgloss.Color("#f8f8f2"),
	Subtext: lipgloss.Color("#bfbfbf"),
	Muted:   lipgloss.Color("#6272a4"),
	Accent:  lipgloss.Color("#bd93f9"),
	Red:     lipgloss.Color("#ff5555"),
	Peach:   lipgloss.Color("#ffb86c"),
	Yellow:  lipgloss.Color("#f1fa8c"),
	Green:   lipgloss.Color("#50fa7b"),
	Teal:    lipgloss.Color("#8be9fd"),
	Blue:    lipgloss.Color("#8be9fd"),
	Mauve:   lipgloss.Color("#ff79c6"),

	BorderFocused:   lipgloss.Color("#bd93f9"),
	BorderUnfocused: lipgloss.Color("#6272a4"),
}

var GruvboxDark = Theme{
	Name:    "Gruvbox",
	Base:    lipgloss.Color("#282828"),
	Surface: lipgloss.Color("#3c3836"),
	Overlay: lipgloss.Color("#504945"),
	Text:    lipgloss.Color("#ebdbb2"),
	Subtext: lipgloss.Color("#d5c4a1"),
	Muted:   lipgloss.Color("#665c54"),
	Accent:  lipgloss.Color("#fabd2f"),
	Red:     lipgloss.Color("#fb4934"),
	Peach:   lipgloss.Color("#fe8019"),
	Yellow:  lipgloss.Color("#fabd2f"),
	Green:   lipgloss.Color("#b8bb26"),
	Teal:    lipgloss.Color("#8ec07c"),
	Blue:    lipgloss.Color("#83a598"),
	Mauve:   lipgloss.Color("#d3869b"),

	BorderFocused:   lipgloss.Color("#fabd2f"),
	BorderUnfocused: lipgloss.Color("#665c54"),
}

var catalog = map[string]Theme{}

func init() {
	for _, t := range []Theme{CatppuccinMocha, Nord, Dracula, GruvboxDark} {
		catalog[normalizeKey(t.Name)] = t
	}
}

// Default returns the default theme.
func Default() Theme {
	return CatppuccinMocha
}

// Resolve looks up a theme by name, falling back to the default.
func Resolve(name string) Theme {
	if t, ok := catalog[normalizeKey(name)]; ok {
		return t
	}
	return Default()
}

// Names returns the built-in theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, t := range catalog {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
