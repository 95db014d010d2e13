// Package textblock splits the content of a text block into indentation,
// text and newline tokens.
//
// The lexer works in two phases. The first call to NextToken reads all of
// the remaining input, records where every line starts and computes the
// indentation shared by the lines, then rewinds the cursor. Every call
// after that emits one precomputed token.
package textblock

import (
	"fmt"
	"unicode"

	"github.com/orizon-lang/jlex/internal/source"
)

// TokenID identifies the kind of a text block token.
type TokenID int

const (
	INDENT TokenID = iota
	TEXT
	NEWLINE
)

func (id TokenID) String() string {
	switch id {
	case INDENT:
		return "INDENT"
	case TEXT:
		return "TEXT"
	case NEWLINE:
		return "NEWLINE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(id))
}

// Token is one piece of a text block.
type Token struct {
	ID     TokenID
	Offset int
	Length int
	Text   string
}

type segment struct {
	id     TokenID
	length int
}

// Lexer emits INDENT, TEXT and NEWLINE tokens for each line of a text
// block, skipping empty segments.
type Lexer struct {
	in       *source.Input
	scanned  bool
	indent   int
	segments []segment
	next     int
}

// New creates a lexer over the cursor in, positioned at the first line of
// the text block content.
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

// Indent returns the common indentation. It is only meaningful after the
// first call to NextToken.
func (l *Lexer) Indent() int {
	return l.indent
}

// NextToken returns the next token, or false at the end of input.
func (l *Lexer) NextToken() (Token, bool) {
	if !l.scanned {
		l.scan()
	}
	if l.next >= len(l.segments) {
		return Token{}, false
	}
	seg := l.segments[l.next]
	l.next++
	for i := 0; i < seg.length; i++ {
		l.in.Read()
	}
	off, text := l.in.Consume(seg.length)
	return Token{ID: seg.id, Offset: off, Length: seg.length, Text: text}, true
}

type line struct {
	whitespace int // leading whitespace
	length     int // without the newline
	newline    bool
}

// scan is the first phase: it reads the whole input, computes the common
// indentation and the token boundaries, and rewinds.
func (l *Lexer) scan() {
	l.scanned = true

	var lines []line
	cur := line{}
	leading := true
	for {
		c := l.in.Read()
		if c == source.EOF {
			break
		}
		if c == '\n' {
			cur.newline = true
			lines = append(lines, cur)
			cur = line{}
			leading = true
			continue
		}
		cur.length++
		if leading && isIndentChar(c) {
			cur.whitespace++
		} else {
			leading = false
		}
	}
	lines = append(lines, cur)
	l.in.Backup(l.in.ReadLengthEOF())

	l.indent = commonIndent(lines)
	for _, ln := range lines {
		indent := min(l.indent, ln.whitespace)
		l.add(INDENT, indent)
		l.add(TEXT, ln.length-indent)
		if ln.newline {
			l.add(NEWLINE, 1)
		}
	}
}

func (l *Lexer) add(id TokenID, length int) {
	if length > 0 {
		l.segments = append(l.segments, segment{id: id, length: length})
	}
}

// commonIndent returns the smallest leading whitespace of the lines that
// contain something other than whitespace. The last line always counts:
// it holds the closing delimiter and its indentation is significant.
func commonIndent(lines []line) int {
	indent := -1
	for i, ln := range lines {
		last := i == len(lines)-1
		if ln.whitespace == ln.length && !last {
			continue
		}
		if indent < 0 || ln.whitespace < indent {
			indent = ln.whitespace
		}
	}
	if indent < 0 {
		return 0
	}
	return indent
}

func isIndentChar(c rune) bool {
	return c != '\n' && unicode.IsSpace(c)
}
