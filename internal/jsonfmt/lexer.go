package jsonfmt

import "strings"

// Kind classifies a lexical segment of serialized JSON.
type Kind int

const (
	Plain Kind = iota
	Key
	String
	Number
	Boolean
	Null
)

// String returns the category name used in markup.
func (k Kind) String() string {
	switch k {
	case Key:
		return "key"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	default:
		return "plain"
	}
}

// Segment is a run of text with a single classification. Concatenating the
// Text of every segment returned by Tokenize reproduces the input.
type Segment struct {
	Kind Kind
	Text string
}

// Tokenize splits serialized JSON into classified segments. Structural
// characters and whitespace end up in Plain segments. A string followed by
// optional whitespace and a colon is a Key and the colon is part of it.
func Tokenize(src string) []Segment {
	l := lexer{src: src}
	l.run()
	return l.segs
}

type lexer struct {
	src   string
	pos   int
	plain int // start of the pending plain run
	segs  []Segment
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '"':
			l.lexString()
		case c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
			l.lexNumber()
		case isDigit(c):
			l.lexNumber()
		case isWordStart(c):
			l.lexWord()
		default:
			l.pos++
		}
	}
	l.flushPlain(len(l.src))
}

func (l *lexer) lexString() {
	start := l.pos
	i := l.pos + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
			continue
		case '"':
			end := i + 1
			kind := String
			j := end
			for j < len(l.src) && isSpace(l.src[j]) {
				j++
			}
			if j < len(l.src) && l.src[j] == ':' {
				kind = Key
				end = j + 1
			}
			l.emit(start, end, kind)
			return
		}
		i++
	}
	// Unterminated string: leave the quote as plain text and move on.
	l.pos++
}

func (l *lexer) lexNumber() {
	start := l.pos
	i := l.pos
	if l.src[i] == '-' {
		i++
	}
	i = skipDigits(l.src, i)
	if i < len(l.src) && l.src[i] == '.' {
		i = skipDigits(l.src, i+1)
	}
	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		j := i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if k := skipDigits(l.src, j); k > j {
			i = k
		}
	}
	l.emit(start, i, Number)
}

func (l *lexer) lexWord() {
	start := l.pos
	i := l.pos
	for i < len(l.src) && isWordChar(l.src[i]) {
		i++
	}
	switch l.src[start:i] {
	case "true", "false":
		l.emit(start, i, Boolean)
	case "null":
		l.emit(start, i, Null)
	default:
		l.pos = i
	}
}

func (l *lexer) emit(start, end int, kind Kind) {
	l.flushPlain(start)
	l.segs = append(l.segs, Segment{Kind: kind, Text: l.src[start:end]})
	l.pos = end
	l.plain = end
}

func (l *lexer) flushPlain(end int) {
	if end > l.plain {
		l.segs = append(l.segs, Segment{Kind: Plain, Text: l.src[l.plain:end]})
	}
	l.plain = end
}

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return strings.IndexByte(" \t\r\n", c) >= 0 }

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool { return isWordStart(c) || isDigit(c) }
