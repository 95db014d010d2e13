package lexer

import "github.com/orizon-lang/jlex/internal/source"

// finishString scans a string literal or text block whose opening quote
// has been read. With continuation set, the literal resumes after the '}'
// closing an embedded expression and the token starts at that brace.
func (s *Scanner) finishString(id TokenID, continuation bool) Token {
	quotes := 0 // run of unescaped quotes inside a text block
	for {
		c := s.r.next()
		switch c {
		case '"':
			if !continuation && id == STRING_LITERAL && s.in.ReadLength() == 2 {
				if s.opensTextBlock() {
					id = MULTILINE_STRING_LITERAL
					continue
				}
				return s.token(id)
			}
			if id == MULTILINE_STRING_LITERAL {
				quotes++
				if quotes >= 3 && (continuation || s.in.ReadLength() > 6) {
					return s.tokenPart(id, endPart(continuation))
				}
				continue
			}
			return s.tokenPart(id, endPart(continuation))

		case '\\':
			quotes = 0
			switch e := s.r.next(); e {
			case '{':
				s.pushLiteral(id)
				return s.tokenPart(id, startPart(continuation))
			case source.EOF:
				s.r.backup(1)
			case '\r', '\n':
				if id == STRING_LITERAL {
					// The newline still terminates the literal.
					s.r.backup(1)
				}
			}

		case '\r', '\n':
			quotes = 0
			if c == '\r' {
				s.r.consumeNewline()
			}
			if id != MULTILINE_STRING_LITERAL {
				return s.tokenPart(id, source.Start)
			}

		case source.EOF:
			return s.tokenPart(id, source.Start)

		default:
			quotes = 0
		}
	}
}

// opensTextBlock is called after `""` at the start of a literal. It
// consumes the rest of a text block opening (a third quote followed only
// by whitespace up to a newline) and reports true, or restores the cursor
// to just after `""` and reports false.
func (s *Scanner) opensTextBlock() bool {
	mark := s.in.ReadLengthEOF()
	if s.r.next() != '"' {
		s.r.backup(1)
		return false
	}
	c := s.r.next()
	for isWhitespace(c) && c != '\n' {
		c = s.r.next()
	}
	if c != '\n' {
		s.r.rewind(mark)
		return false
	}
	return true
}

func (s *Scanner) finishChar() Token {
	for {
		switch s.r.next() {
		case '\'':
			return s.token(CHAR_LITERAL)
		case '\\':
			switch s.r.next() {
			case '\r', '\n', source.EOF:
				s.r.backup(1)
			}
		case '\r':
			s.r.consumeNewline()
			return s.tokenPart(CHAR_LITERAL, source.Start)
		case '\n', source.EOF:
			return s.tokenPart(CHAR_LITERAL, source.Start)
		}
	}
}

// pushLiteral enters the embedded expression of a literal of kind id,
// suspending the literal currently pending, if any.
func (s *Scanner) pushLiteral(id TokenID) {
	if s.state.Pending != NoLiteral {
		s.state.History = append(s.state.History, LiteralFrame{
			Pending: s.state.Pending,
			Braces:  s.state.Braces,
		})
	}
	s.state.Pending = id
	s.state.Braces = 0
}

// popLiteral leaves the current embedded expression and restores the
// enclosing one.
func (s *Scanner) popLiteral() {
	n := len(s.state.History)
	if n == 0 {
		s.state.Pending = NoLiteral
		s.state.Braces = 0
		return
	}
	top := s.state.History[n-1]
	s.state.Pending = top.Pending
	s.state.Braces = top.Braces
	if n == 1 {
		s.state.History = nil
	} else {
		s.state.History = s.state.History[:n-1]
	}
}

func startPart(continuation bool) source.PartType {
	if continuation {
		return source.Middle
	}
	return source.Start
}

func endPart(continuation bool) source.PartType {
	if continuation {
		return source.End
	}
	return source.Complete
}
