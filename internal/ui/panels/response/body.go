package response

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/jsonfmt"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// BodyModel displays the response data. JSON is colored token by token;
// text bodies that arrived as a JSON string are highlighted by content type.
type BodyModel struct {
	viewport  viewport.Model
	find      finder
	styles    theme.Styles
	width     int
	height    int
	wrap      bool
	hasBody   bool
	searching bool
	data      json.RawMessage
	contType  string
}

// NewBodyModel creates a new body viewer.
func NewBodyModel(s theme.Styles) BodyModel {
	vp := viewport.New(0, 0)
	return BodyModel{
		viewport: vp,
		find:     newFinder(s),
		styles:   s,
	}
}

// SetContent sets the response data and renders it.
func (m *BodyModel) SetContent(data json.RawMessage, contentType string) {
	m.data = data
	m.contType = contentType
	m.hasBody = !jsonfmt.IsEmpty(data)
	m.viewport.GotoTop()
	m.renderContent()
}

// Clear removes the content.
func (m *BodyModel) Clear() {
	m.data = nil
	m.hasBody = false
	m.viewport.SetContent("")
}

// SetSize updates the viewport dimensions.
func (m *BodyModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.find.setWidth(w)
	vpH := h
	if m.searching {
		vpH-- // Reserve 1 line for search bar
	}
	m.viewport.Width = w
	m.viewport.Height = vpH
	if m.searching {
		m.renderMatches()
	} else if m.hasBody {
		m.renderContent()
	}
}

// Searching returns whether search is active.
func (m BodyModel) Searching() bool {
	return m.searching
}

// PlainText returns the body as it would be copied: indented JSON, or the
// decoded text for text bodies.
func (m BodyModel) PlainText() string {
	return PlainText(m.data, m.contType)
}

func (m *BodyModel) renderContent() {
	if !m.hasBody {
		return
	}

	var out string
	if text, lexerName, ok := textBody(m.data, m.contType); ok {
		out = highlight(text, lexerName)
	} else {
		out = jsonfmt.Highlight(m.data, nil, m.styles.Token)
	}
	if m.wrap && m.width > 0 {
		out = wrapText(out, m.width)
	}
	m.viewport.SetContent(out)
}

// segments splits the body for searching. JSON is split into tokens; a text
// body is one plain segment.
func (m BodyModel) segments() (segs []jsonfmt.Segment, text bool) {
	if body, _, ok := textBody(m.data, m.contType); ok {
		return []jsonfmt.Segment{{Kind: jsonfmt.Plain, Text: body}}, true
	}
	indented, err := jsonfmt.Indent(m.data)
	if err != nil {
		return []jsonfmt.Segment{{Kind: jsonfmt.Plain, Text: string(m.data)}}, true
	}
	return jsonfmt.Tokenize(indented), false
}

// renderMatches shows the body unwrapped, so match lines are viewport lines.
func (m *BodyModel) renderMatches() {
	if !m.hasBody {
		return
	}
	segs, text := m.segments()
	out, lines := markMatches(segs, m.find.query(), m.styles, text)
	m.find.setLines(lines)
	m.viewport.SetContent(out)
	if len(lines) > 0 {
		m.viewport.SetYOffset(lines[0])
	}
}

func (m *BodyModel) stopSearch() {
	m.searching = false
	m.find.close()
	m.viewport.Height = m.height
	m.renderContent()
}

func (m BodyModel) Init() tea.Cmd {
	return nil
}

func (m BodyModel) Update(msg tea.Msg) (BodyModel, tea.Cmd) {
	if m.searching && m.find.input.Focused() {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.stopSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.find, cmd = m.find.update(msg)
		m.renderMatches()
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "/", "ctrl+f":
			if !m.hasBody {
				return m, nil
			}
			m.searching = true
			m.find.open()
			m.viewport.Height = m.height - 1
			return m, nil
		case "w":
			m.wrap = !m.wrap
			m.renderContent()
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "n", "N":
			if m.searching {
				delta := 1
				if keyMsg.String() == "N" {
					delta = -1
				}
				if line := m.find.step(delta); line >= 0 {
					m.viewport.SetYOffset(line)
				}
				return m, nil
			}
		case "esc":
			if m.searching {
				m.stopSearch()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m BodyModel) View() string {
	if !m.hasBody {
		return m.styles.Muted.Render("Empty response body")
	}
	if m.searching {
		bar := lipgloss.NewStyle().Width(m.width).Render(m.find.view())
		return m.viewport.View() + "\n" + bar
	}
	return m.viewport.View()
}

// PlainText renders data without colors.
func PlainText(data json.RawMessage, contentType string) string {
	if jsonfmt.IsEmpty(data) {
		return ""
	}
	if text, _, ok := textBody(data, contentType); ok {
		return text
	}
	text, err := jsonfmt.Indent(data)
	if err != nil {
		return string(data)
	}
	return text
}

// textBody unwraps data when it is a JSON string holding a non-JSON body.
func textBody(data json.RawMessage, contentType string) (text, lexerName string, ok bool) {
	lexerName = detectLexer(contentType)
	if lexerName == "json" {
		return "", "", false
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", "", false
	}
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return "", "", false
	}
	return text, lexerName, true
}

// detectLexer maps Content-Type to a chroma lexer name.
func detectLexer(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case ct == "":
		return "json"
	case strings.Contains(ct, "json"):
		return "json"
	case strings.Contains(ct, "html"):
		return "html"
	case strings.Contains(ct, "xml"):
		return "xml"
	case ct == "text/css":
		return "css"
	case strings.Contains(ct, "javascript"):
		return "javascript"
	case strings.Contains(ct, "yaml"):
		return "yaml"
	default:
		return "text"
	}
}

// highlight applies chroma syntax highlighting to source code.
func highlight(source, lexerName string) string {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get("monokai")
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}

// wrapText performs simple word wrapping using lipgloss.
func wrapText(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

