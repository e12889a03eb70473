package parser

import (
	"strings"

	"github.com/robinvdvleuten/moneytree/ast"
)

// Lexer tokenizes book file source in a single pass with no backtracking.
// The format is line-oriented: newlines are significant and emitted as
// NEWLINE tokens; comments run from ';' to the end of the line.
type Lexer struct {
	source   []byte
	filename string
	pos      int // current byte position
	line     int // current line (1-indexed)
	column   int // current column (1-indexed)
}

// NewLexer creates a lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// ScanAll lexes the entire source and returns all tokens, terminated by EOF.
func (l *Lexer) ScanAll() []Token {
	// Roughly one token per 8 bytes in typical book files.
	tokens := make([]Token, 0, len(l.source)/8+16)

	for l.pos < len(l.source) {
		l.skipBlanks()
		if l.pos >= len(l.source) {
			break
		}

		if l.peek() == ';' {
			l.skipComment()
			continue
		}

		tokens = append(tokens, l.scanToken())
	}

	tokens = append(tokens, Token{Type: EOF, Pos: l.position()})
	return tokens
}

func (l *Lexer) scanToken() Token {
	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '\n':
		l.advance()
		return Token{Type: NEWLINE, Pos: pos}

	case ch == '"':
		return l.scanString(pos)

	case ch >= '0' && ch <= '9':
		if l.isDatePattern() {
			return l.scanDate(pos)
		}
		return l.scanNumber(pos)

	case ch == '-' || ch == '+':
		next := l.peekAt(1)
		if next >= '0' && next <= '9' {
			return l.scanNumber(pos)
		}
		l.advance()
		return Token{Type: ILLEGAL, Value: string(ch), Pos: pos}

	case isWordStart(ch):
		return l.scanWord(pos)

	default:
		l.advance()
		return Token{Type: ILLEGAL, Value: string(ch), Pos: pos}
	}
}

// scanString scans a double-quoted string with \" and \\ escapes.
func (l *Lexer) scanString(pos ast.Position) Token {
	l.advance() // opening quote

	var sb strings.Builder
	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '\n' {
			break
		}
		l.advance()
		if ch == '"' {
			return Token{Type: STRING, Value: sb.String(), Pos: pos}
		}
		if ch == '\\' && l.pos < len(l.source) {
			next := l.peek()
			if next == '"' || next == '\\' {
				sb.WriteByte(next)
				l.advance()
				continue
			}
		}
		sb.WriteByte(ch)
	}

	// Unterminated string.
	return Token{Type: ILLEGAL, Value: sb.String(), Pos: pos}
}

// isDatePattern reports whether the input at the current position looks like
// YYYY-MM-DD.
func (l *Lexer) isDatePattern() bool {
	for i, want := range "dddd-dd-dd" {
		ch := l.peekAt(i)
		if want == 'd' {
			if ch < '0' || ch > '9' {
				return false
			}
		} else if ch != byte(want) {
			return false
		}
	}
	// The character after the date must not extend the word.
	return !isWordChar(l.peekAt(10))
}

func (l *Lexer) scanDate(pos ast.Position) Token {
	start := l.pos
	for i := 0; i < 10; i++ {
		l.advance()
	}
	return Token{Type: DATE, Value: string(l.source[start:l.pos]), Pos: pos}
}

func (l *Lexer) scanNumber(pos ast.Position) Token {
	start := l.pos
	if ch := l.peek(); ch == '-' || ch == '+' {
		l.advance()
	}
	for l.pos < len(l.source) {
		ch := l.peek()
		if (ch < '0' || ch > '9') && ch != '.' {
			break
		}
		l.advance()
	}
	return Token{Type: NUMBER, Value: string(l.source[start:l.pos]), Pos: pos}
}

// scanWord scans keywords, identifiers, paths and id:... markers.
func (l *Lexer) scanWord(pos ast.Position) Token {
	start := l.pos
	for l.pos < len(l.source) && isWordChar(l.peek()) {
		l.advance()
	}
	word := string(l.source[start:l.pos])

	if value, ok := strings.CutPrefix(word, "id:"); ok {
		return Token{Type: ID, Value: value, Pos: pos}
	}
	if typ, ok := keywords[word]; ok {
		return Token{Type: typ, Value: word, Pos: pos}
	}
	if strings.Contains(word, "/") {
		return Token{Type: PATH, Value: word, Pos: pos}
	}
	return Token{Type: IDENT, Value: word, Pos: pos}
}

func isWordStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isWordChar(ch byte) bool {
	return isWordStart(ch) ||
		ch >= '0' && ch <= '9' ||
		ch == '/' || ch == ':' || ch == '-' || ch == '.' || ch == '\''
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.source) {
		ch := l.peek()
		if ch != ' ' && ch != '\t' && ch != '\r' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.source) && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) position() ast.Position {
	return ast.Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}
	return l.source[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.source) {
		return
	}
	if l.source[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}
