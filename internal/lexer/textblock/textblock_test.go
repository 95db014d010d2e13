package textblock

import (
	"testing"

	"github.com/orizon-lang/jlex/internal/source"
)

func TestTokenize(t *testing.T) {
	type tok struct {
		id   TokenID
		text string
	}
	tests := []struct {
		input  string
		indent int
		want   []tok
	}{
		{"", 0, nil},
		{
			"    a\n      b\n    ", 4,
			[]tok{
				{INDENT, "    "}, {TEXT, "a"}, {NEWLINE, "\n"},
				{INDENT, "    "}, {TEXT, "  b"}, {NEWLINE, "\n"},
				{INDENT, "    "},
			},
		},
		{
			"    a\n      b\n    c", 4,
			[]tok{
				{INDENT, "    "}, {TEXT, "a"}, {NEWLINE, "\n"},
				{INDENT, "    "}, {TEXT, "  b"}, {NEWLINE, "\n"},
				{INDENT, "    "}, {TEXT, "c"},
			},
		},
		{
			// Blank lines do not count, the closing line does.
			"    a\n\n  \n  ", 2,
			[]tok{
				{INDENT, "  "}, {TEXT, "  a"}, {NEWLINE, "\n"},
				{NEWLINE, "\n"},
				{INDENT, "  "}, {NEWLINE, "\n"},
				{INDENT, "  "},
			},
		},
		{
			"\ta\n\t\tb", 1,
			[]tok{
				{INDENT, "\t"}, {TEXT, "a"}, {NEWLINE, "\n"},
				{INDENT, "\t"}, {TEXT, "\tb"},
			},
		},
		{"x", 0, []tok{{TEXT, "x"}}},
	}

	for i, tt := range tests {
		l := New(source.NewInput(tt.input))
		var got []Token
		for {
			tok, ok := l.NextToken()
			if !ok {
				break
			}
			got = append(got, tok)
		}
		if l.Indent() != tt.indent {
			t.Fatalf("tests[%d] - expected indent %d, got %d", i, tt.indent, l.Indent())
		}
		if len(got) != len(tt.want) {
			t.Fatalf("tests[%d] - expected %d tokens, got %d: %v", i, len(tt.want), len(got), got)
		}
		offset := 0
		for j, w := range tt.want {
			if got[j].ID != w.id || got[j].Text != w.text {
				t.Fatalf("tests[%d] - token %d: expected %s %q, got %s %q", i, j, w.id, w.text, got[j].ID, got[j].Text)
			}
			if got[j].Offset != offset {
				t.Fatalf("tests[%d] - token %d: expected offset %d, got %d", i, j, offset, got[j].Offset)
			}
			offset += got[j].Length
		}
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	input := "  x\n\t\n    y z\n  "
	text := ""
	for _, tok := range Tokenize(input) {
		text += tok.Text
	}
	if text != input {
		t.Fatalf("expected %q, got %q", input, text)
	}
}
