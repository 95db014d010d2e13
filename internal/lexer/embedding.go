package lexer

import (
	"github.com/orizon-lang/jlex/internal/lexer/stringlex"
	"github.com/orizon-lang/jlex/internal/lexer/textblock"
	"github.com/orizon-lang/jlex/internal/source"
)

// Fragment is a token of a literal's content, with offsets in the same
// coordinates as the literal token.
type Fragment struct {
	Offset int
	Length int
	Text   string

	// Layout is INDENT, TEXT or NEWLINE inside a complete text block and
	// TEXT everywhere else.
	Layout textblock.TokenID

	// Escape classifies TEXT fragments; it is stringlex.TEXT for layout
	// fragments.
	Escape stringlex.TokenID
}

// Embedded lexes the content of a string, character or text block token.
// Delimiters are not part of the result: the opening quote (or, for a
// text block, the opening line), the closing quote(s) and the '}' that
// starts a template continuation. Text block fragments other than complete
// ones are lexed like strings, since their indentation depends on parts
// not present in the token. Other tokens yield nil.
func Embedded(tok Token) []Fragment {
	text := []rune(tok.Text)
	start, end, ok := contentBounds(tok, text)
	if !ok {
		return nil
	}
	base := tok.Offset + start
	content := text[start:end]

	if tok.ID == MULTILINE_STRING_LITERAL && tok.Part == source.Complete {
		var out []Fragment
		tb := textblock.New(source.NewInputRunes(content))
		for {
			lt, ok := tb.NextToken()
			if !ok {
				return out
			}
			if lt.ID != textblock.TEXT {
				out = append(out, Fragment{
					Offset: base + lt.Offset,
					Length: lt.Length,
					Text:   lt.Text,
					Layout: lt.ID,
					Escape: stringlex.TEXT,
				})
				continue
			}
			out = appendEscapes(out, content[lt.Offset:lt.Offset+lt.Length], base+lt.Offset)
		}
	}
	return appendEscapes(nil, content, base)
}

func appendEscapes(out []Fragment, content []rune, base int) []Fragment {
	sl := stringlex.New(source.NewInputRunes(content))
	for {
		st, ok := sl.NextToken()
		if !ok {
			return out
		}
		out = append(out, Fragment{
			Offset: base + st.Offset,
			Length: st.Length,
			Text:   st.Text,
			Layout: textblock.TEXT,
			Escape: st.ID,
		})
	}
}

// contentBounds returns the rune range of a literal token holding its
// content.
func contentBounds(tok Token, text []rune) (int, int, bool) {
	start, end := 0, len(text)
	fromBrace := tok.Part == source.Middle || tok.Part == source.End
	closed := tok.Part == source.Complete || tok.Part == source.End

	switch tok.ID {
	case STRING_LITERAL, CHAR_LITERAL:
		start = 1
		if !fromBrace {
			start = delimiterLength(text)
		}
		if closed {
			end--
		}
	case MULTILINE_STRING_LITERAL:
		if fromBrace {
			start = 1
		} else {
			// Skip the opening quotes and the rest of their line.
			for start < len(text) && text[start] != '\n' {
				start++
			}
			start++
		}
		if closed {
			end -= 3
		}
	default:
		return 0, 0, false
	}
	if start > end || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// delimiterLength returns the raw length of the opening quote, which may
// itself be spelled as a unicode escape.
func delimiterLength(text []rune) int {
	if len(text) == 0 || text[0] != '\\' {
		return 1
	}
	n := 1
	for n < len(text) && text[n] == 'u' {
		n++
	}
	if n == 1 || n+4 > len(text) {
		return 1
	}
	for _, c := range text[n : n+4] {
		if !isHexDigit(c) {
			return 1
		}
	}
	return n + 4
}

// IsTemplateStart reports whether a literal token stops at the opening of
// an embedded expression, as opposed to being cut off by a line end or the
// end of input.
func (t Token) IsTemplateStart() bool {
	if t.Part != source.Start && t.Part != source.Middle {
		return false
	}
	if t.ID != STRING_LITERAL && t.ID != MULTILINE_STRING_LITERAL {
		return false
	}
	return endsWithTemplateStart([]rune(t.Text))
}

// Unterminated reports whether a literal or comment token reached a line
// end or the end of input before its closing delimiter.
func (t Token) Unterminated() bool {
	switch t.ID {
	case STRING_LITERAL, MULTILINE_STRING_LITERAL:
		return t.Part == source.Start && !t.IsTemplateStart()
	case CHAR_LITERAL, BLOCK_COMMENT, JAVADOC_COMMENT:
		return t.Part == source.Start
	}
	return false
}

// endsWithTemplateStart reports whether text ends in `\{` with the
// backslash not itself escaped.
func endsWithTemplateStart(text []rune) bool {
	n := len(text)
	if n < 2 || text[n-1] != '{' {
		return false
	}
	backslashes := 0
	for i := n - 2; i >= 0 && text[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}
