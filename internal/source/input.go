// Package source provides the character cursor shared by the jlex lexers.
package source

// EOF is returned by Read once the buffer is exhausted. It is distinct from
// any rune value a buffer can hold.
const EOF rune = -1

// Input is a forward cursor over a character buffer with unbounded pushback
// inside the current token.
//
// Reads past the end of the buffer return EOF and still count as reads, so
// Backup can undo them the same way as ordinary characters.
type Input struct {
	buf   []rune
	start int // first char of the current token
	pos   int // next read position; may exceed len(buf) after EOF reads
}

// NewInput creates a cursor positioned at the start of text.
func NewInput(text string) *Input {
	return &Input{buf: []rune(text)}
}

// NewInputRunes creates a cursor over an existing rune slice.
func NewInputRunes(buf []rune) *Input {
	return &Input{buf: buf}
}

// NewInputAt creates a cursor over buf whose first token starts at offset.
// Token offsets stay relative to the start of buf.
func NewInputAt(buf []rune, offset int) *Input {
	if offset < 0 || offset > len(buf) {
		panic("source: offset out of range")
	}
	return &Input{buf: buf, start: offset, pos: offset}
}

// Read returns the next character or EOF.
func (in *Input) Read() rune {
	p := in.pos
	in.pos++
	if p >= len(in.buf) {
		return EOF
	}
	return in.buf[p]
}

// Backup pushes back n reads. Backing up past the token start panics, as
// that is always a lexer bug.
func (in *Input) Backup(n int) {
	if n < 0 || in.pos-n < in.start {
		panic("source: backup beyond token start")
	}
	in.pos -= n
}

// ReadLength returns the number of characters read in the current token,
// not counting EOF reads.
func (in *Input) ReadLength() int {
	if in.pos > len(in.buf) {
		return len(in.buf) - in.start
	}
	return in.pos - in.start
}

// ReadLengthEOF returns the number of reads in the current token including
// EOF reads.
func (in *Input) ReadLengthEOF() int {
	return in.pos - in.start
}

// ReadText returns the raw text of the current token.
func (in *Input) ReadText() string {
	return string(in.buf[in.start : in.start+in.ReadLength()])
}

// Consume closes the current token after its first n characters. Anything
// read beyond n is pushed back and becomes part of the next token. It
// returns the offset and text of the closed token.
func (in *Input) Consume(n int) (int, string) {
	if n < 0 || n > in.ReadLength() {
		panic("source: consume beyond read length")
	}
	start := in.start
	in.start += n
	in.pos = in.start
	return start, string(in.buf[start:in.start])
}

// Fork returns an independent cursor whose current token starts at the
// read position of in. Both cursors share the buffer, so offsets stay
// absolute; reads on the fork never move in.
func (in *Input) Fork() *Input {
	p := in.pos
	if p > len(in.buf) {
		p = len(in.buf)
	}
	return &Input{buf: in.buf, start: p, pos: p}
}

// Offset returns the absolute offset of the current token start.
func (in *Input) Offset() int {
	return in.start
}
