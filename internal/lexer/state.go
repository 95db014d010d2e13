package lexer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
)

// ErrInvalidState is returned when a persisted scanner state cannot be
// decoded.
var ErrInvalidState = errors.New("invalid scanner state")

// LiteralFrame is a suspended enclosing template literal.
type LiteralFrame struct {
	Pending TokenID `json:"pending"`
	Braces  int     `json:"braces"`
}

// State is everything the scanner carries from one token to the next.
// Two scanners resumed from equal states over equal input produce equal
// token streams.
type State struct {
	// Pending is the literal kind whose embedded expression is being
	// scanned, or NoLiteral.
	Pending TokenID `json:"pending"`

	// Braces counts unmatched '{' inside the current embedded expression.
	Braces int `json:"braces"`

	// History holds enclosing template literals, innermost last.
	History []LiteralFrame `json:"history,omitempty"`

	Module  ModuleState `json:"module"`
	Version int         `json:"version"`
}

// Equal reports whether s and o resume identically.
func (s State) Equal(o State) bool {
	if s.Pending != o.Pending || s.Braces != o.Braces || s.Module != o.Module ||
		s.Version != o.Version || len(s.History) != len(o.History) {
		return false
	}
	for i := range s.History {
		if s.History[i] != o.History[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	if s.History != nil {
		s.History = append([]LiteralFrame(nil), s.History...)
	}
	return s
}

// InLiteral reports whether the scanner is inside an embedded expression.
func (s State) InLiteral() bool {
	return s.Pending != NoLiteral
}

// Depth returns the number of template literals currently open.
func (s State) Depth() int {
	if s.Pending == NoLiteral {
		return 0
	}
	return len(s.History) + 1
}

// Key returns the canonical encoding of s as a string, suitable as a map
// key. Equal states have equal keys.
func (s State) Key() string {
	return string(s.appendBinary(nil))
}

// Hash returns a 64-bit FNV-1a hash of the canonical encoding.
func (s State) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write(s.appendBinary(nil))
	return h.Sum64()
}

// String returns a compact debug representation.
func (s State) String() string {
	if s.Pending == NoLiteral {
		return fmt.Sprintf("{v%d module=%s}", s.Version, s.Module)
	}
	return fmt.Sprintf("{v%d module=%s pending=%s braces=%d depth=%d}",
		s.Version, s.Module, s.Pending, s.Braces, s.Depth())
}

// MarshalBinary encodes s as a sequence of unsigned varints:
// version, module, pending, braces, len(history), then pending/braces per
// history frame.
func (s State) MarshalBinary() ([]byte, error) {
	return s.appendBinary(nil), nil
}

func (s State) appendBinary(b []byte) []byte {
	b = binary.AppendUvarint(b, uint64(s.Version))
	b = binary.AppendUvarint(b, uint64(s.Module))
	b = binary.AppendUvarint(b, uint64(s.Pending))
	b = binary.AppendUvarint(b, uint64(s.Braces))
	b = binary.AppendUvarint(b, uint64(len(s.History)))
	for _, f := range s.History {
		b = binary.AppendUvarint(b, uint64(f.Pending))
		b = binary.AppendUvarint(b, uint64(f.Braces))
	}
	return b
}

// UnmarshalBinary decodes a state produced by MarshalBinary.
func (s *State) UnmarshalBinary(data []byte) error {
	d := decoder{data: data}
	var st State
	st.Version = int(d.uvarint("version"))
	st.Module = ModuleState(d.uvarint("module"))
	st.Pending = TokenID(d.uvarint("pending"))
	st.Braces = int(d.uvarint("braces"))
	n := d.uvarint("history length")
	if d.err == nil && n > uint64(len(data)) {
		d.err = fmt.Errorf("%w: history length %d exceeds input", ErrInvalidState, n)
	}
	for i := uint64(0); i < n && d.err == nil; i++ {
		f := LiteralFrame{
			Pending: TokenID(d.uvarint("history pending")),
			Braces:  int(d.uvarint("history braces")),
		}
		st.History = append(st.History, f)
	}
	if d.err != nil {
		return d.err
	}
	if len(d.data) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidState, len(d.data))
	}
	if err := st.Validate(); err != nil {
		return err
	}
	*s = st
	return nil
}

// DecodeState decodes a state produced by MarshalBinary.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := s.UnmarshalBinary(data); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate checks the invariants of a state built outside the scanner.
func (s State) Validate() error {
	if s.Braces < 0 {
		return fmt.Errorf("%w: negative brace depth %d", ErrInvalidState, s.Braces)
	}
	if s.Module < ModuleNone {
		return fmt.Errorf("%w: module state %d", ErrInvalidState, s.Module)
	}
	if s.Pending != NoLiteral && !isTemplateLiteral(s.Pending) {
		return fmt.Errorf("%w: pending literal %s", ErrInvalidState, s.Pending)
	}
	if s.Pending == NoLiteral && (s.Braces != 0 || len(s.History) != 0) {
		return fmt.Errorf("%w: brace depth or history without pending literal", ErrInvalidState)
	}
	for i, f := range s.History {
		if !isTemplateLiteral(f.Pending) || f.Braces < 0 {
			return fmt.Errorf("%w: history frame %d", ErrInvalidState, i)
		}
	}
	return nil
}

func isTemplateLiteral(id TokenID) bool {
	return id == STRING_LITERAL || id == MULTILINE_STRING_LITERAL
}

type decoder struct {
	data []byte
	err  error
}

func (d *decoder) uvarint(field string) uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data)
	if n <= 0 {
		d.err = fmt.Errorf("%w: truncated %s", ErrInvalidState, field)
		return 0
	}
	if v > 1<<31 {
		d.err = fmt.Errorf("%w: %s out of range", ErrInvalidState, field)
		return 0
	}
	d.data = d.data[n:]
	return v
}
