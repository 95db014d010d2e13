package lexer

import "github.com/orizon-lang/jlex/internal/source"

// reader produces logical characters: unicode escapes (\uXXXX, any number
// of 'u') are decoded transparently. It remembers the raw length of the
// last two logical reads so that either can be undone.
type reader struct {
	in *source.Input

	// lastReads[0] is the raw length of the most recent logical read,
	// lastReads[1] the one before. Zero means unknown.
	lastReads [2]int
}

// next reads one logical character.
func (r *reader) next() rune {
	mark := r.in.ReadLengthEOF()
	c := r.in.Read()
	if c != '\\' {
		r.push(1)
		return c
	}

	first := r.in.Read()
	if first != 'u' {
		r.in.Backup(r.in.ReadLengthEOF() - mark - 1)
		r.push(1)
		return c
	}
	for first == 'u' {
		first = r.in.Read()
	}
	digits := [4]rune{first, r.in.Read(), r.in.Read(), r.in.Read()}

	value := 0
	for _, d := range digits {
		v := hexValue(d)
		if v < 0 {
			// Broken escape: the backslash stands for itself.
			r.in.Backup(r.in.ReadLengthEOF() - mark - 1)
			r.push(1)
			return c
		}
		value = value*16 + v
	}
	r.push(r.in.ReadLengthEOF() - mark)
	return rune(value)
}

func (r *reader) push(n int) {
	r.lastReads[1] = r.lastReads[0]
	r.lastReads[0] = n
}

// backup undoes the last one or two logical reads.
func (r *reader) backup(howMany int) {
	switch howMany {
	case 1:
		if r.lastReads[0] == 0 {
			panic("lexer: backup(1) without a preceding read")
		}
		r.in.Backup(r.lastReads[0])
		r.lastReads[0], r.lastReads[1] = r.lastReads[1], 0
	case 2:
		if r.lastReads[0] == 0 || r.lastReads[1] == 0 {
			panic("lexer: backup(2) without two preceding reads")
		}
		r.in.Backup(r.lastReads[0] + r.lastReads[1])
		r.lastReads = [2]int{}
	default:
		panic("lexer: backup supports one or two reads")
	}
}

// rewind moves the cursor back to mark (a ReadLengthEOF value) and forgets
// the pushback record.
func (r *reader) rewind(mark int) {
	r.in.Backup(r.in.ReadLengthEOF() - mark)
	r.lastReads = [2]int{}
}

// consumeNewline swallows a '\n' following a '\r'.
func (r *reader) consumeNewline() {
	if r.next() != '\n' {
		r.backup(1)
	}
}

// translateSurrogates combines c with a following low surrogate when c is a
// high surrogate. It returns the resulting code point and the number of
// logical reads it spans.
func (r *reader) translateSurrogates(c rune) (rune, int) {
	if !isHighSurrogate(c) {
		return c, 1
	}
	lo := r.next()
	if lo != source.EOF && isLowSurrogate(lo) {
		return combineSurrogates(c, lo), 2
	}
	// A lone high surrogate stays as is and lexes as an error.
	r.backup(1)
	return c, 1
}
