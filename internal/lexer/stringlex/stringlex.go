// Package stringlex tokenizes the interior of string and character
// literals into text runs and escape sequences.
package stringlex

import (
	"fmt"

	"github.com/orizon-lang/jlex/internal/source"
)

// TokenID identifies the kind of a literal interior token.
type TokenID int

const (
	TEXT TokenID = iota
	BACKSPACE
	FORM_FEED
	NEWLINE
	CR
	TAB
	SINGLE_QUOTE
	DOUBLE_QUOTE
	BACKSLASH
	TEMPLATE_START
	OCTAL_ESCAPE
	OCTAL_ESCAPE_INVALID
	UNICODE_ESCAPE
	UNICODE_ESCAPE_INVALID
	ESCAPE_SEQUENCE_INVALID
)

var names = [...]string{
	TEXT:                    "TEXT",
	BACKSPACE:               "BACKSPACE",
	FORM_FEED:               "FORM_FEED",
	NEWLINE:                 "NEWLINE",
	CR:                      "CR",
	TAB:                     "TAB",
	SINGLE_QUOTE:            "SINGLE_QUOTE",
	DOUBLE_QUOTE:            "DOUBLE_QUOTE",
	BACKSLASH:               "BACKSLASH",
	TEMPLATE_START:          "TEMPLATE_START",
	OCTAL_ESCAPE:            "OCTAL_ESCAPE",
	OCTAL_ESCAPE_INVALID:    "OCTAL_ESCAPE_INVALID",
	UNICODE_ESCAPE:          "UNICODE_ESCAPE",
	UNICODE_ESCAPE_INVALID:  "UNICODE_ESCAPE_INVALID",
	ESCAPE_SEQUENCE_INVALID: "ESCAPE_SEQUENCE_INVALID",
}

func (id TokenID) String() string {
	if id >= 0 && int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(id))
}

// IsInvalid reports whether the id marks a malformed escape.
func (id TokenID) IsInvalid() bool {
	return id == OCTAL_ESCAPE_INVALID || id == UNICODE_ESCAPE_INVALID || id == ESCAPE_SEQUENCE_INVALID
}

// simpleEscapes maps the character after a backslash to its token.
var simpleEscapes = map[rune]TokenID{
	'b':  BACKSPACE,
	'f':  FORM_FEED,
	'n':  NEWLINE,
	'r':  CR,
	't':  TAB,
	'\'': SINGLE_QUOTE,
	'"':  DOUBLE_QUOTE,
	'\\': BACKSLASH,
	'{':  TEMPLATE_START,
}

// Token is one piece of a literal interior.
type Token struct {
	ID     TokenID
	Offset int
	Length int
	Text   string
}

// Lexer splits literal content into tokens.
type Lexer struct {
	in *source.Input
}

// New creates a lexer over the cursor in, which must be positioned at the
// first character of the literal interior.
func New(in *source.Input) *Lexer {
	return &Lexer{in: in}
}

// Tokenize lexes text completely.
func Tokenize(text string) []Token {
	l := New(source.NewInput(text))
	var tokens []Token
	for {
		tok, ok := l.NextToken()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token, or false at the end of input.
func (l *Lexer) NextToken() (Token, bool) {
	for {
		switch l.in.Read() {
		case source.EOF:
			l.in.Backup(1)
			if l.in.ReadLength() > 0 {
				return l.token(TEXT), true
			}
			return Token{}, false
		case '\\':
			if l.in.ReadLength() > 1 {
				// End the pending text run before the backslash.
				l.in.Backup(1)
				return l.token(TEXT), true
			}
			return l.escape(), true
		}
	}
}

// escape scans an escape sequence whose backslash has been read.
func (l *Lexer) escape() Token {
	c := l.in.Read()
	if id, ok := simpleEscapes[c]; ok {
		return l.token(id)
	}
	switch {
	case c >= '0' && c <= '7':
		return l.octal(c)
	case c == 'u':
		return l.unicode()
	case c == source.EOF:
		l.in.Backup(1)
	}
	return l.token(ESCAPE_SEQUENCE_INVALID)
}

// octal scans up to three octal digits. A three digit escape above \377
// is OCTAL_ESCAPE_INVALID.
func (l *Lexer) octal(first rune) Token {
	for digits := 1; digits < 3; digits++ {
		c := l.in.Read()
		if c < '0' || c > '7' {
			l.in.Backup(1)
			return l.token(OCTAL_ESCAPE)
		}
	}
	if first > '3' {
		return l.token(OCTAL_ESCAPE_INVALID)
	}
	return l.token(OCTAL_ESCAPE)
}

// unicode scans the rest of \uXXXX after the first 'u'. Repeated 'u'
// characters are allowed.
func (l *Lexer) unicode() Token {
	c := l.in.Read()
	for c == 'u' {
		c = l.in.Read()
	}
	for digits := 0; digits < 4; digits++ {
		if digits > 0 {
			c = l.in.Read()
		}
		if !isHexDigit(c) {
			l.in.Backup(1)
			return l.token(UNICODE_ESCAPE_INVALID)
		}
	}
	return l.token(UNICODE_ESCAPE)
}

func (l *Lexer) token(id TokenID) Token {
	n := l.in.ReadLength()
	off, text := l.in.Consume(n)
	return Token{ID: id, Offset: off, Length: n, Text: text}
}

func isHexDigit(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
