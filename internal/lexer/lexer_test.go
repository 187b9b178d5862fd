package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	l := New([]rune("case of data _x foo123"))

	kinds := []Kind{KeywordCase, KeywordOf, KeywordData, Identifier, Identifier, Number, EOF}
	texts := []string{"case", "of", "data", "_x", "foo", "123", ""}

	for i, want := range kinds {
		tok := l.Next()
		assert.Equal(t, want, tok.Kind, "token %d", i)
		assert.Equal(t, texts[i], tok.Text, "token %d text", i)
	}
}

func TestLexerNumbersAndFloats(t *testing.T) {
	l := New([]rune("42 3.14"))

	n := l.Next()
	assert.Equal(t, Number, n.Kind)
	assert.Equal(t, "42", n.Text)

	f := l.Next()
	assert.Equal(t, Float, f.Kind)
	assert.Equal(t, "3.14", f.Text)
}

func TestLexerOperatorsAndPunctuation(t *testing.T) {
	l := New([]rune("-> :: + - * / ++ | ( )"))

	want := []Kind{Arrow, DoubleColon, Plus, Minus, Star, Slash, PlusPlus, Pipe, LParen, RParen}
	for i, k := range want {
		tok := l.Next()
		assert.Equal(t, k, tok.Kind, "token %d", i)
	}
}

func TestLexerCollapsesBlankLinesIntoOneNewline(t *testing.T) {
	l := New([]rune("a\n\n\nb"))

	assert.Equal(t, Identifier, l.Next().Kind)
	nl := l.Next()
	assert.Equal(t, Newline, nl.Kind)
	assert.Equal(t, Identifier, l.Next().Kind)
	assert.Equal(t, EOF, l.Next().Kind)
}

func TestLexerStringLiteral(t *testing.T) {
	l := New([]rune(`"hello world"`))
	tok := l.Next()
	assert.Equal(t, String, tok.Kind)
	assert.Equal(t, "hello world", tok.Text)
}
