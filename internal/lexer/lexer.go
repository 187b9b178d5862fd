package lexer

import "strings"

// Lexer scans the rune buffer of one .tree source file into a flat token
// stream. It tracks byte offsets only; line/column resolution is deferred
// to ast.SourceRange.GetLineAndColumn, which re-scans the same buffer on
// demand when a diagnostic actually needs to be printed.
type Lexer struct {
	src []rune
	pos int // rune index; Token.StartByte/EndByte hold rune indices too (equal to byte offsets only for ASCII source)
}

func New(src []rune) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

// isLetter matches spec.md §6's `[A-Za-z]+` token rule, plus the
// underscore wildcard binder (`_`, `_x`) that spec.md §8's own worked
// examples use in case patterns without ever adding it to the token table.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// Next scans and returns the next token, advancing the cursor past it.
// At end of input it returns an EOF token forever. A run of one or more
// line breaks (possibly separated by blank lines) collapses into a single
// Newline token; the grammar only cares that a boundary occurred, not how
// many blank lines separated two declarations.
func (l *Lexer) Next() Token {
	l.skipSpace()

	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, StartByte: start, EndByte: start}
	}

	if l.peek() == '\n' {
		for l.peek() == '\n' || isSpace(l.peek()) {
			l.pos++
		}
		return Token{Kind: Newline, Text: "\n", StartByte: start, EndByte: l.pos}
	}

	r := l.peek()

	switch {
	case isLetter(r):
		for isLetter(l.peek()) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		if kw, ok := keywords[text]; ok {
			return Token{Kind: kw, Text: text, StartByte: start, EndByte: l.pos}
		}
		return Token{Kind: Identifier, Text: text, StartByte: start, EndByte: l.pos}

	case isDigit(r):
		for isDigit(l.peek()) {
			l.pos++
		}
		if l.peek() == '.' && isDigit(l.peekAt(1)) {
			l.pos++
			for isDigit(l.peek()) {
				l.pos++
			}
			return Token{Kind: Float, Text: string(l.src[start:l.pos]), StartByte: start, EndByte: l.pos}
		}
		return Token{Kind: Number, Text: string(l.src[start:l.pos]), StartByte: start, EndByte: l.pos}

	case r == '"':
		l.pos++
		var sb strings.Builder
		for l.peek() != '"' && l.pos < len(l.src) {
			sb.WriteRune(l.peek())
			l.pos++
		}
		l.pos++ // closing quote
		return Token{Kind: String, Text: sb.String(), StartByte: start, EndByte: l.pos}

	case r == '-' && l.peekAt(1) == '>':
		l.pos += 2
		return Token{Kind: Arrow, Text: "->", StartByte: start, EndByte: l.pos}

	case r == ':' && l.peekAt(1) == ':':
		l.pos += 2
		return Token{Kind: DoubleColon, Text: "::", StartByte: start, EndByte: l.pos}

	case r == '+' && l.peekAt(1) == '+':
		l.pos += 2
		return Token{Kind: PlusPlus, Text: "++", StartByte: start, EndByte: l.pos}

	case r == '=':
		l.pos++
		return Token{Kind: Equals, Text: "=", StartByte: start, EndByte: l.pos}
	case r == '|':
		l.pos++
		return Token{Kind: Pipe, Text: "|", StartByte: start, EndByte: l.pos}
	case r == '(':
		l.pos++
		return Token{Kind: LParen, Text: "(", StartByte: start, EndByte: l.pos}
	case r == ')':
		l.pos++
		return Token{Kind: RParen, Text: ")", StartByte: start, EndByte: l.pos}
	case r == '+':
		l.pos++
		return Token{Kind: Plus, Text: "+", StartByte: start, EndByte: l.pos}
	case r == '-':
		l.pos++
		return Token{Kind: Minus, Text: "-", StartByte: start, EndByte: l.pos}
	case r == '*':
		l.pos++
		return Token{Kind: Star, Text: "*", StartByte: start, EndByte: l.pos}
	case r == '/':
		l.pos++
		return Token{Kind: Slash, Text: "/", StartByte: start, EndByte: l.pos}
	}

	l.pos++
	return Token{Kind: EOF, Text: string(r), StartByte: start, EndByte: l.pos}
}

func (l *Lexer) skipSpace() {
	for isSpace(l.peek()) {
		l.pos++
	}
}
