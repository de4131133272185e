package layout

// PanelLayout holds calculated dimensions for the editor/response layout.
type PanelLayout struct {
	Width  int
	Height int

	EditorWidth   int
	ResponseWidth int

	// Stacked puts the response below the editor on narrow terminals.
	Stacked        bool
	EditorHeight   int
	ResponseHeight int

	ContentHeight int // height minus status bar
}

const (
	statusBarHeight = 1
	stackBreakpoint = 80
	minEditorHeight = 8
)

// Calculate computes the panel layout from terminal dimensions.
func Calculate(width, height int) PanelLayout {
	l := PanelLayout{
		Width:         width,
		Height:        height,
		ContentHeight: height - statusBarHeight,
	}
	if l.ContentHeight < 1 {
		l.ContentHeight = 1
	}

	if width < stackBreakpoint {
		l.Stacked = true
		l.EditorWidth = width
		l.ResponseWidth = width
		l.EditorHeight = clamp(l.ContentHeight/2, minEditorHeight, l.ContentHeight)
		l.ResponseHeight = l.ContentHeight - l.EditorHeight
		return l
	}

	l.EditorWidth = width * 2 / 5
	l.ResponseWidth = width - l.EditorWidth
	l.EditorHeight = l.ContentHeight
	l.ResponseHeight = l.ContentHeight
	return l
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
