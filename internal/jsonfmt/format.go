// Package jsonfmt renders JSON values for display: two-space indentation and
// per-token classification that callers turn into markup or terminal colors.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Indent re-indents raw JSON with two spaces per level.
func Indent(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indenting json: %w", err)
	}
	return buf.String(), nil
}

// IsEmpty reports whether raw holds no value or the JSON null literal.
func IsEmpty(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

// Format renders raw as HTML-safe markup with every token wrapped in
// <span class="CATEGORY">. Empty input and null render as "".
func Format(raw []byte) string {
	return Highlight(raw, htmlEscaper.Replace, func(k Kind, text string) string {
		return `<span class="` + k.String() + `">` + text + `</span>`
	})
}

// Highlight indents raw, tokenizes it and joins the segments, passing every
// segment's text through escape and every non-plain segment through style.
// Input that is not valid JSON is returned escaped but unstyled.
func Highlight(raw []byte, escape func(string) string, style func(Kind, string) string) string {
	if IsEmpty(raw) {
		return ""
	}
	if escape == nil {
		escape = func(s string) string { return s }
	}
	text, err := Indent(raw)
	if err != nil {
		return escape(string(raw))
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, seg := range Tokenize(text) {
		escaped := escape(seg.Text)
		if seg.Kind == Plain || style == nil {
			b.WriteString(escaped)
			continue
		}
		b.WriteString(style(seg.Kind, escaped))
	}
	return b.String()
}
