// Package lexer implements a restartable lexical analyzer for Java source.
//
// The scanner never fails: malformed input is reported through dedicated
// token ids (ERROR, FLOAT_LITERAL_INVALID, INVALID_COMMENT_END) or through
// literal and comment tokens whose part type is source.Start. Its complete
// context between two tokens is a State value, so lexing can stop at any
// token boundary and later resume from a saved state.
package lexer

import (
	"github.com/orizon-lang/jlex/internal/source"
)

// Option configures a Scanner.
type Option func(*options)

type options struct {
	version    int
	fileName   string
	moduleFile string
}

// WithVersion sets the language version.
func WithVersion(v int) Option {
	return func(o *options) { o.version = v }
}

// WithVersionString sets the language version from a level string such as
// "1.8" or "17". Unparseable strings leave the version unchanged.
func WithVersionString(s string) Option {
	return func(o *options) {
		if v, err := ParseVersion(s); err == nil {
			o.version = v
		}
	}
}

// WithFileName sets the name of the file being lexed. Only the module
// declaration file name has an effect.
func WithFileName(name string) Option {
	return func(o *options) { o.fileName = name }
}

// WithModuleFileName changes the file name that selects module declaration
// mode, ModuleFileName by default.
func WithModuleFileName(name string) Option {
	return func(o *options) { o.moduleFile = name }
}

func buildOptions(opts []Option) options {
	o := options{version: DefaultVersion, moduleFile: ModuleFileName}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// initialState returns the state at the start of a file.
func (o options) initialState() State {
	st := State{Version: o.version}
	if o.fileName != "" && o.fileName == o.moduleFile {
		st.Module = ModuleTop
	}
	return st
}

// Scanner is the main character-level scanner. A Scanner is not safe for
// concurrent use; scanners sharing nothing can run in parallel.
type Scanner struct {
	in    *source.Input
	r     reader
	state State

	// varVerdicts holds the meaning of "var" tokens ahead of the scanner,
	// by offset, as found by lookahead. It is shared with the lookahead
	// scanners, so a run of "var" words is resolved once.
	varVerdicts map[int]bool
	lookahead   bool
}

// New creates a scanner at the start of src.
func New(src string, opts ...Option) *Scanner {
	return NewInput(source.NewInput(src), opts...)
}

// NewInput creates a scanner over an existing cursor, at a fresh state.
func NewInput(in *source.Input, opts ...Option) *Scanner {
	return resume(in, buildOptions(opts).initialState())
}

// Resume creates a scanner over src continuing from a saved state. The
// language version is taken from the state.
func Resume(src string, st State) *Scanner {
	return resume(source.NewInput(src), st.Clone())
}

// ResumeAt creates a scanner over buf starting at offset with a saved
// state. Token offsets are relative to the start of buf.
func ResumeAt(buf []rune, offset int, st State) *Scanner {
	return resume(source.NewInputAt(buf, offset), st.Clone())
}

func resume(in *source.Input, st State) *Scanner {
	s := &Scanner{in: in, state: st}
	s.r.in = in
	return s
}

// State returns a snapshot of the scanner state at the current token
// boundary.
func (s *Scanner) State() State {
	return s.state.Clone()
}

// Offset returns the offset at which the next token starts.
func (s *Scanner) Offset() int {
	return s.in.Offset()
}

// Version returns the language version in effect.
func (s *Scanner) Version() int {
	return s.state.Version
}

// Tokenize lexes src completely and returns its tokens without the final
// EOF token.
func Tokenize(src string, opts ...Option) []Token {
	return New(src, opts...).All()
}

// All lexes the rest of the input and returns its tokens without the final
// EOF token.
func (s *Scanner) All() []Token {
	var tokens []Token
	for {
		tok := s.NextToken()
		if tok.ID == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// NextToken scans and returns the next token. At the end of input it
// returns a zero-length EOF token, repeatedly.
func (s *Scanner) NextToken() Token {
	c := s.r.next()
	switch c {
	case '#':
		// Exotic identifiers (#"...") are not supported.
		return s.token(ERROR)

	case '"':
		return s.finishString(STRING_LITERAL, false)

	case '\'':
		return s.finishChar()

	case '/':
		switch s.r.next() {
		case '/':
			return s.finishLineComment()
		case '=':
			return s.token(SLASHEQ)
		case '*':
			return s.finishBlockComment()
		}
		s.r.backup(1)
		return s.token(SLASH)

	case '=':
		if s.r.next() == '=' {
			return s.token(EQEQ)
		}
		s.r.backup(1)
		return s.token(EQ)

	case '>':
		switch s.r.next() {
		case '>':
			switch s.r.next() {
			case '>':
				if s.r.next() == '=' {
					return s.token(GTGTGTEQ)
				}
				s.r.backup(1)
				return s.token(GTGTGT)
			case '=':
				return s.token(GTGTEQ)
			}
			s.r.backup(1)
			return s.token(GTGT)
		case '=':
			return s.token(GTEQ)
		}
		s.r.backup(1)
		return s.token(GT)

	case '<':
		switch s.r.next() {
		case '<':
			if s.r.next() == '=' {
				return s.token(LTLTEQ)
			}
			s.r.backup(1)
			return s.token(LTLT)
		case '=':
			return s.token(LTEQ)
		}
		s.r.backup(1)
		return s.token(LT)

	case '+':
		switch s.r.next() {
		case '+':
			return s.token(PLUSPLUS)
		case '=':
			return s.token(PLUSEQ)
		}
		s.r.backup(1)
		return s.token(PLUS)

	case '-':
		switch s.r.next() {
		case '-':
			return s.token(MINUSMINUS)
		case '=':
			return s.token(MINUSEQ)
		case '>':
			return s.token(ARROW)
		}
		s.r.backup(1)
		return s.token(MINUS)

	case '*':
		switch s.r.next() {
		case '/':
			return s.token(INVALID_COMMENT_END)
		case '=':
			return s.token(STAREQ)
		}
		s.r.backup(1)
		return s.token(STAR)

	case '|':
		switch s.r.next() {
		case '|':
			return s.token(BARBAR)
		case '=':
			return s.token(BAREQ)
		}
		s.r.backup(1)
		return s.token(BAR)

	case '&':
		switch s.r.next() {
		case '&':
			return s.token(AMPAMP)
		case '=':
			return s.token(AMPEQ)
		}
		s.r.backup(1)
		return s.token(AMP)

	case '%':
		if s.r.next() == '=' {
			return s.token(PERCENTEQ)
		}
		s.r.backup(1)
		return s.token(PERCENT)

	case '^':
		if s.r.next() == '=' {
			return s.token(CARETEQ)
		}
		s.r.backup(1)
		return s.token(CARET)

	case '!':
		if s.r.next() == '=' {
			return s.token(BANGEQ)
		}
		s.r.backup(1)
		return s.token(BANG)

	case '.':
		c = s.r.next()
		switch {
		case c == '.':
			if s.r.next() == '.' {
				return s.token(ELLIPSIS)
			}
			s.r.backup(2)
		case isDigit(c):
			return s.finishNumber(s.r.next(), true)
		default:
			s.r.backup(1)
		}
		return s.token(DOT)

	case '~':
		return s.token(TILDE)
	case ',':
		return s.token(COMMA)
	case ';':
		s.state.Module = s.state.Module.onSemicolon()
		return s.token(SEMICOLON)
	case ':':
		if s.r.next() == ':' {
			return s.token(COLONCOLON)
		}
		s.r.backup(1)
		return s.token(COLON)
	case '?':
		return s.token(QUESTION)
	case '(':
		s.state.Module = s.state.Module.onLeftParen()
		return s.token(LPAREN)
	case ')':
		s.state.Module = s.state.Module.onRightParen()
		return s.token(RPAREN)
	case '[':
		return s.token(LBRACKET)
	case ']':
		return s.token(RBRACKET)
	case '{':
		if s.state.Pending != NoLiteral {
			s.state.Braces++
		}
		s.state.Module = s.state.Module.onLeftBrace()
		return s.token(LBRACE)
	case '}':
		if s.state.Pending != NoLiteral {
			if s.state.Braces == 0 {
				id := s.state.Pending
				s.popLiteral()
				return s.finishString(id, true)
			}
			s.state.Braces--
		}
		s.state.Module = ModuleNone
		return s.token(RBRACE)
	case '@':
		s.state.Module = s.state.Module.onAt()
		return s.token(AT)

	case '0':
		return s.zeroLiteral()
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.finishNumber(s.r.next(), false)

	case '\t', '\n', 0x0b, '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return s.finishWhitespace()
	case ' ':
		c = s.r.next()
		if c == source.EOF || !isWhitespace(c) {
			s.r.backup(1)
			s.state.Module = s.state.Module.onWhitespace()
			return s.token(WHITESPACE)
		}
		return s.finishWhitespace()

	case source.EOF:
		return s.token(EOF)
	}

	if c < 0x80 {
		if isIdentifierStart(c) {
			return s.finishIdentifier(keywordTrie.child(c))
		}
		return s.token(ERROR)
	}
	c, _ = s.r.translateSurrogates(c)
	switch {
	case isIdentifierStart(c):
		return s.finishIdentifier(nil)
	case isWhitespace(c):
		return s.finishWhitespace()
	}
	return s.token(ERROR)
}

func (s *Scanner) finishWhitespace() Token {
	for {
		c := s.r.next()
		// Surrogates never form whitespace, so no translation here.
		if c == source.EOF || !isWhitespace(c) {
			s.r.backup(1)
			s.state.Module = s.state.Module.onWhitespace()
			return s.token(WHITESPACE)
		}
	}
}

func (s *Scanner) finishLineComment() Token {
	for {
		switch s.r.next() {
		case '\r':
			s.r.consumeNewline()
			return s.token(LINE_COMMENT)
		case '\n', source.EOF:
			return s.token(LINE_COMMENT)
		}
	}
}

// finishBlockComment scans a block or javadoc comment after "/*".
func (s *Scanner) finishBlockComment() Token {
	id := BLOCK_COMMENT
	c := s.r.next()
	if c == '*' {
		c = s.r.next()
		if c == '/' {
			// "/**/" is an empty block comment, not javadoc.
			return s.token(BLOCK_COMMENT)
		}
		id = JAVADOC_COMMENT
	}
	for {
		for c == '*' {
			c = s.r.next()
			if c == '/' {
				return s.token(id)
			}
		}
		if c == source.EOF {
			return s.tokenPart(id, source.Start)
		}
		c = s.r.next()
	}
}

// finishIdentifier scans the rest of an identifier whose first character
// has been read. node is the keyword trie position after that character,
// nil when no keyword can match.
func (s *Scanner) finishIdentifier(node *keywordNode) Token {
	for {
		c := s.r.next()
		cp, reads := s.r.translateSurrogates(c)
		if c == source.EOF || !isIdentifierPart(cp) {
			s.r.backup(reads)
			break
		}
		node = node.child(cp)
	}
	if node == nil || node.kw == nil || !node.kw.applies(s.state.Version, s.state.Module) {
		return s.token(IDENTIFIER)
	}
	kw := node.kw
	if kw.id == VAR && !s.varIsKeyword() {
		return s.token(IDENTIFIER)
	}
	if kw.next != nil {
		s.state.Module = kw.next(s.state.Module)
	}
	return s.token(kw.id)
}

// varIsKeyword decides the contextual "var": it is a keyword only when the
// next token other than whitespace and comments is an identifier. The
// lookahead runs on a forked cursor and a copy of the state, so nothing
// read here is consumed. A "var" met by the lookahead is decided there and
// its verdict recorded, so the scanner does not decide it again.
func (s *Scanner) varIsKeyword() bool {
	start := s.in.Offset()
	if v, ok := s.varVerdicts[start]; ok {
		if !s.lookahead {
			delete(s.varVerdicts, start)
		}
		return v
	}

	c := s.r.next()
	s.r.backup(1)
	if c == source.EOF {
		return false
	}
	if s.varVerdicts == nil {
		s.varVerdicts = make(map[int]bool)
	}
	look := resume(s.in.Fork(), s.state.Clone())
	look.varVerdicts = s.varVerdicts
	look.lookahead = true

	keyword := false
	if tok := look.NextToken(); tok.ID.IsTrivia() {
		for tok.ID.IsTrivia() {
			tok = look.NextToken()
		}
		keyword = tok.ID == IDENTIFIER
	}
	if s.lookahead {
		s.varVerdicts[start] = keyword
	}
	return keyword
}

// token closes the current token as a complete token of the given id.
func (s *Scanner) token(id TokenID) Token {
	return s.tokenPart(id, source.Complete)
}

func (s *Scanner) tokenPart(id TokenID, part source.PartType) Token {
	n := s.in.ReadLength()
	off, text := s.in.Consume(n)
	s.r.lastReads = [2]int{}
	tok := Token{ID: id, Offset: off, Length: n, Text: text, Part: part}
	if part == source.Complete {
		if fixed := id.FixedText(); fixed != "" && fixed == text {
			tok.Text = fixed
			tok.Flyweight = true
		} else if id == WHITESPACE && text == " " {
			tok.Text = singleSpace
			tok.Flyweight = true
		}
	}
	return tok
}

const singleSpace = " "
