package lexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/jlex/internal/lexer/stringlex"
)

// Position represents a position in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, in characters
	Offset int // 0-based character offset in source
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in the source code.
type Span struct {
	Start Position
	End   Position
}

// ErrorSeverity classifies the severity of lexical errors.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // informational
	SeverityWarning                      // suspicious but well formed
	SeverityError                        // rejected by a compiler
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorCategory categorizes lexical errors.
type ErrorCategory int

const (
	CategoryUnicodeError       ErrorCategory = iota // malformed unicode escapes
	CategoryUnterminatedString                      // unclosed string, char or text block
	CategoryInvalidCharacter                        // characters no token can start with
	CategoryMalformedNumber                         // invalid numeric literals
	CategoryInvalidEscape                           // invalid escape sequences
	CategoryCommentError                            // unclosed or stray comment delimiters
)

var errorCategoryNames = [...]string{
	CategoryUnicodeError:       "unicode",
	CategoryUnterminatedString: "unterminated-literal",
	CategoryInvalidCharacter:   "invalid-character",
	CategoryMalformedNumber:    "malformed-number",
	CategoryInvalidEscape:      "invalid-escape",
	CategoryCommentError:       "comment",
}

func (c ErrorCategory) String() string {
	if c >= 0 && int(c) < len(errorCategoryNames) {
		return errorCategoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Code returns the stable error code used by tooling.
func (c ErrorCategory) Code() string {
	switch c {
	case CategoryUnicodeError:
		return "E001"
	case CategoryUnterminatedString:
		return "E002"
	case CategoryInvalidCharacter:
		return "E003"
	case CategoryMalformedNumber:
		return "E004"
	case CategoryInvalidEscape:
		return "E005"
	case CategoryCommentError:
		return "E006"
	default:
		return "E999"
	}
}

// Diagnostic is a lexical problem found in a token stream.
type Diagnostic struct {
	Position Position
	Span     Span
	Message  string

	Category ErrorCategory
	Severity ErrorSeverity
	Code     string

	LineContent string
	Suggestions []string
}

// Format returns the diagnostic as "file:line:col: severity: message".
func (d Diagnostic) Format(filename string) string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		filename, d.Position.Line, d.Position.Column, d.Severity, d.Message, d.Code)
}

// FormatDetailed adds the offending line, a caret under the position and
// the suggestions.
func (d Diagnostic) FormatDetailed(filename string) string {
	var b strings.Builder
	b.WriteString(d.Format(filename))
	if d.LineContent != "" {
		fmt.Fprintf(&b, "\n  %s\n  %s^", d.LineContent, strings.Repeat(" ", d.Position.Column-1))
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(&b, "\n    - %s", s)
	}
	return b.String()
}

// Diagnostics is a list of diagnostics ordered by position.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// ByCategory returns the diagnostics of one category.
func (ds Diagnostics) ByCategory(c ErrorCategory) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Diagnose reports the lexical problems in tokens, which must have been
// produced from src. Escape sequences are checked by lexing the content of
// every string, character and text block token.
func Diagnose(src string, tokens []Token) Diagnostics {
	idx := NewLineIndex([]rune(src))
	var out Diagnostics
	add := func(offset, length int, cat ErrorCategory, sev ErrorSeverity, msg string, suggestions ...string) {
		start := idx.Position(offset)
		out = append(out, Diagnostic{
			Position:    start,
			Span:        Span{Start: start, End: idx.Position(offset + length)},
			Message:     msg,
			Category:    cat,
			Severity:    sev,
			Code:        cat.Code(),
			LineContent: idx.LineContent(start.Line),
			Suggestions: suggestions,
		})
	}

	for _, tok := range tokens {
		switch tok.ID {
		case ERROR:
			if strings.HasPrefix(tok.Text, `\u`) {
				add(tok.Offset, tok.Length, CategoryUnicodeError, SeverityError,
					fmt.Sprintf("unicode escape %q does not start a token", tok.Text))
				continue
			}
			add(tok.Offset, tok.Length, CategoryInvalidCharacter, SeverityError,
				fmt.Sprintf("invalid character %q", tok.Text))

		case FLOAT_LITERAL_INVALID:
			add(tok.Offset, tok.Length, CategoryMalformedNumber, SeverityError,
				fmt.Sprintf("malformed floating-point literal %q", tok.Text),
				numberSuggestion(tok.Text))

		case INVALID_COMMENT_END:
			add(tok.Offset, tok.Length, CategoryCommentError, SeverityWarning,
				"comment end \"*/\" outside of a comment")

		case BLOCK_COMMENT, JAVADOC_COMMENT:
			if tok.Unterminated() {
				add(tok.Offset, tok.Length, CategoryCommentError, SeverityError,
					"unterminated comment", "add */ to close the comment")
			}

		case STRING_LITERAL, CHAR_LITERAL, MULTILINE_STRING_LITERAL:
			if tok.Unterminated() {
				add(tok.Offset, tok.Length, CategoryUnterminatedString, SeverityError,
					"unterminated "+literalName(tok.ID), "add the closing "+closingDelimiter(tok.ID))
			}
			for _, f := range Embedded(tok) {
				if !f.Escape.IsInvalid() {
					continue
				}
				cat := CategoryInvalidEscape
				msg := fmt.Sprintf("invalid escape sequence %q", f.Text)
				switch f.Escape {
				case stringlex.UNICODE_ESCAPE_INVALID:
					cat = CategoryUnicodeError
					msg = fmt.Sprintf("malformed unicode escape %q", f.Text)
				case stringlex.OCTAL_ESCAPE_INVALID:
					msg = fmt.Sprintf("octal escape %q is out of range", f.Text)
				}
				add(f.Offset, f.Length, cat, SeverityError, msg)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Offset < out[j].Position.Offset
	})
	return out
}

func numberSuggestion(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "0x") && !strings.Contains(lower, "p"):
		return "hexadecimal floating-point literals need a binary exponent such as p0"
	case strings.Count(text, ".") > 1:
		return "use a single decimal point"
	}
	return "add at least one digit to the exponent"
}

func literalName(id TokenID) string {
	switch id {
	case CHAR_LITERAL:
		return "character literal"
	case MULTILINE_STRING_LITERAL:
		return "text block"
	}
	return "string literal"
}

func closingDelimiter(id TokenID) string {
	switch id {
	case CHAR_LITERAL:
		return "quote (')"
	case MULTILINE_STRING_LITERAL:
		return `delimiter (""")`
	}
	return `quote (")`
}

// LineIndex maps character offsets to line and column numbers. Lines end
// at "\n", "\r" or "\r\n".
type LineIndex struct {
	src        []rune
	lineStarts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src []rune) *LineIndex {
	return &LineIndex{src: src, lineStarts: lineStarts(src)}
}

func lineStarts(src []rune) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Lines returns the number of lines.
func (li *LineIndex) Lines() int {
	return len(li.lineStarts)
}

// LineStart returns the offset of the line containing offset.
func (li *LineIndex) LineStart(offset int) int {
	return li.lineStarts[li.line(offset)]
}

func (li *LineIndex) line(offset int) int {
	return sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
}

// Position converts an offset to a position. Offsets past the end map to
// the end of the last line.
func (li *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, len(li.src)))
	line := li.line(offset)
	return Position{Line: line + 1, Column: offset - li.lineStarts[line] + 1, Offset: offset}
}

// LineContent returns the text of a 1-based line without its terminator.
func (li *LineIndex) LineContent(line int) string {
	if line < 1 || line > len(li.lineStarts) {
		return ""
	}
	start := li.lineStarts[line-1]
	end := len(li.src)
	if line < len(li.lineStarts) {
		end = li.lineStarts[line]
	}
	for end > start && (li.src[end-1] == '\n' || li.src[end-1] == '\r') {
		end--
	}
	return string(li.src[start:end])
}
