package lexer

import "unicode"

// isWhitespace mirrors java.lang.Character.isWhitespace: space separators
// other than the non-breaking ones, plus the ASCII control whitespace.
func isWhitespace(c rune) bool {
	switch {
	case c < 0:
		return false
	case c >= '\t' && c <= '\r', c >= 0x1c && c <= 0x1f:
		return true
	case c == 0xa0 || c == 0x2007 || c == 0x202f:
		return false
	}
	return unicode.In(c, unicode.Zs, unicode.Zl, unicode.Zp)
}

// isIdentifierStart mirrors Character.isJavaIdentifierStart.
func isIdentifierStart(c rune) bool {
	if c < 0 {
		return false
	}
	if c < 0x80 {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
	}
	return unicode.IsLetter(c) || unicode.In(c, unicode.Sc, unicode.Pc, unicode.Nl)
}

// isIdentifierPart mirrors Character.isJavaIdentifierPart, including the
// identifier-ignorable control characters.
func isIdentifierPart(c rune) bool {
	if c < 0 {
		return false
	}
	if c < 0x80 {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '_' || c == '$' || isIgnorable(c)
	}
	return isIdentifierStart(c) || isIgnorable(c) ||
		unicode.In(c, unicode.Nd, unicode.Mn, unicode.Mc)
}

func isIgnorable(c rune) bool {
	return c >= 0 && c <= 8 || c >= 0x0e && c <= 0x1b || c >= 0x7f && c <= 0x9f ||
		unicode.Is(unicode.Cf, c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isBinaryDigit(c rune) bool {
	return c == '0' || c == '1'
}

func hexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isHighSurrogate(c rune) bool { return c >= 0xd800 && c <= 0xdbff }
func isLowSurrogate(c rune) bool  { return c >= 0xdc00 && c <= 0xdfff }

func combineSurrogates(hi, lo rune) rune {
	return (hi-0xd800)<<10 + (lo - 0xdc00) + 0x10000
}
