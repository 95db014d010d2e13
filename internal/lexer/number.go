package lexer

// Language versions that changed the numeric literal grammar.
const (
	versionBinaryLiterals = 7
	versionUnderscores    = 7
)

// zeroLiteral scans a numeric literal starting with '0'.
func (s *Scanner) zeroLiteral() Token {
	c := s.r.next()
	switch {
	case c == 'x' || c == 'X':
		return s.finishHex()
	case (c == 'b' || c == 'B') && s.state.Version >= versionBinaryLiterals:
		return s.finishBinary()
	}
	return s.finishNumber(c, false)
}

// finishHex scans a hexadecimal integer or floating literal after "0x".
// A hex floating literal needs a binary exponent; without one it is
// FLOAT_LITERAL_INVALID.
func (s *Scanner) finishHex() Token {
	inFraction := false
	afterDigit := false
	for {
		c := s.r.next()
		switch {
		case isHexDigit(c):
			afterDigit = true
		case c == '.':
			if inFraction {
				return s.token(FLOAT_LITERAL_INVALID)
			}
			inFraction = true
			afterDigit = false
		case c == 'p' || c == 'P':
			return s.finishExponent()
		case c == 'l' || c == 'L':
			return s.token(LONG_LITERAL)
		case c == '_' && s.separatorAllowed(afterDigit, isHexDigit):
		default:
			s.r.backup(1)
			if inFraction {
				return s.token(FLOAT_LITERAL_INVALID)
			}
			return s.token(INT_LITERAL)
		}
	}
}

// finishBinary scans a binary literal after "0b".
func (s *Scanner) finishBinary() Token {
	afterDigit := false
	for {
		c := s.r.next()
		switch {
		case isBinaryDigit(c):
			afterDigit = true
		case c == 'l' || c == 'L':
			return s.token(LONG_LITERAL)
		case c == '_' && s.separatorAllowed(afterDigit, isBinaryDigit):
		default:
			s.r.backup(1)
			return s.token(INT_LITERAL)
		}
	}
}

// finishNumber scans the rest of a decimal literal; c is the first
// character not yet classified.
func (s *Scanner) finishNumber(c rune, inFraction bool) Token {
	afterDigit := true
	for {
		switch {
		case c == '.':
			if inFraction {
				return s.token(FLOAT_LITERAL_INVALID)
			}
			inFraction = true
			afterDigit = false
		case c == 'l' || c == 'L':
			return s.token(LONG_LITERAL)
		case c == 'd' || c == 'D':
			return s.token(DOUBLE_LITERAL)
		case c == 'f' || c == 'F':
			return s.token(FLOAT_LITERAL)
		case isDigit(c):
			afterDigit = true
		case c == 'e' || c == 'E':
			return s.finishExponent()
		case c == '_' && s.separatorAllowed(afterDigit, isDigit):
		default:
			s.r.backup(1)
			if inFraction {
				return s.token(DOUBLE_LITERAL)
			}
			return s.token(INT_LITERAL)
		}
		c = s.r.next()
	}
}

// finishExponent scans an exponent after 'e' or 'p': an optional sign and
// at least one digit, then an optional float or double suffix.
func (s *Scanner) finishExponent() Token {
	c := s.r.next()
	if c == '+' || c == '-' {
		c = s.r.next()
	}
	if !isDigit(c) {
		s.r.backup(1)
		return s.token(FLOAT_LITERAL_INVALID)
	}
	for {
		c = s.r.next()
		if isDigit(c) || c == '_' && s.separatorAllowed(true, isDigit) {
			continue
		}
		break
	}
	switch c {
	case 'd', 'D':
		return s.token(DOUBLE_LITERAL)
	case 'f', 'F':
		return s.token(FLOAT_LITERAL)
	}
	s.r.backup(1)
	return s.token(DOUBLE_LITERAL)
}

// separatorAllowed decides an underscore just read inside a literal: it
// belongs to the literal only when the version supports digit separators
// and it sits directly between two digits of the literal's radix.
func (s *Scanner) separatorAllowed(afterDigit bool, digit func(rune) bool) bool {
	if s.state.Version < versionUnderscores || !afterDigit {
		return false
	}
	c := s.r.next()
	s.r.backup(1)
	return digit(c)
}
