package response

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/jsonfmt"
	"github.com/sadopc/apitester/internal/ui/theme"
)

var searchKinds = map[string]jsonfmt.Kind{}

func init() {
	for _, k := range []jsonfmt.Kind{jsonfmt.Key, jsonfmt.String, jsonfmt.Number, jsonfmt.Boolean, jsonfmt.Null} {
		searchKinds[k.String()] = k
	}
}

// bodyQuery is a parsed search. "number:42" only matches number tokens;
// anything without a known kind prefix matches every token.
type bodyQuery struct {
	text    string
	kind    jsonfmt.Kind
	anyKind bool
}

func parseQuery(raw string) bodyQuery {
	if prefix, rest, ok := strings.Cut(raw, ":"); ok {
		if kind, known := searchKinds[strings.ToLower(prefix)]; known {
			return bodyQuery{text: rest, kind: kind}
		}
	}
	return bodyQuery{text: raw, anyKind: true}
}

// accepts reports whether a segment of kind k is searched. Structural
// segments of JSON are never searched; text bodies are a single plain
// segment and only take unfiltered queries.
func (q bodyQuery) accepts(k jsonfmt.Kind, text bool) bool {
	if k == jsonfmt.Plain {
		return text && q.anyKind
	}
	return q.anyKind || q.kind == k
}

// markMatches renders segs with token colors, highlighting every occurrence
// of q inside a searched segment. A match never spans two segments. It
// returns the line of each match in order.
func markMatches(segs []jsonfmt.Segment, q bodyQuery, s theme.Styles, text bool) (string, []int) {
	var b strings.Builder
	var lines []int
	line := 0

	for _, seg := range segs {
		rest := seg.Text
		if q.text != "" && q.accepts(seg.Kind, text) {
			for {
				i := indexFold(rest, q.text)
				if i < 0 {
					break
				}
				line += strings.Count(rest[:i], "\n")
				lines = append(lines, line)
				b.WriteString(s.Token(seg.Kind, rest[:i]))
				b.WriteString(s.Match.Render(rest[i : i+len(q.text)]))
				rest = rest[i+len(q.text):]
			}
		}
		b.WriteString(s.Token(seg.Kind, rest))
		line += strings.Count(rest, "\n")
	}
	return b.String(), lines
}

// indexFold is a case-insensitive strings.Index.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// finder is the prompt under the body and the match lines of its query.
type finder struct {
	input   textinput.Model
	styles  theme.Styles
	lines   []int
	current int
}

func newFinder(s theme.Styles) finder {
	ti := textinput.New()
	ti.Placeholder = "text, or key:/string:/number:/boolean:/null: text"
	ti.CharLimit = 256
	ti.Prompt = "/ "
	return finder{input: ti, styles: s}
}

func (f *finder) open() {
	f.input.SetValue("")
	f.input.Focus()
	f.lines = nil
	f.current = 0
}

func (f *finder) close() {
	f.input.Blur()
	f.input.SetValue("")
	f.lines = nil
	f.current = 0
}

func (f finder) query() bodyQuery {
	return parseQuery(f.input.Value())
}

func (f *finder) setWidth(w int) {
	f.input.Width = max(w-20, 10)
}

func (f finder) update(msg tea.Msg) (finder, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		f.input.Blur()
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *finder) setLines(lines []int) {
	f.lines = lines
	if f.current >= len(lines) {
		f.current = 0
	}
}

// step moves to the next (delta 1) or previous (delta -1) match and returns
// its line, or -1 without matches.
func (f *finder) step(delta int) int {
	if len(f.lines) == 0 {
		return -1
	}
	f.current = (f.current + delta + len(f.lines)) % len(f.lines)
	return f.lines[f.current]
}

func (f finder) view() string {
	info := ""
	if f.query().text != "" {
		if len(f.lines) == 0 {
			info = f.styles.Error.Render(" No matches")
		} else {
			info = f.styles.Muted.Render(fmt.Sprintf(" %d/%d", f.current+1, len(f.lines)))
		}
	}
	return f.input.View() + info
}
