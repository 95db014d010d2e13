package lexer

import (
	"testing"

	"github.com/orizon-lang/jlex/internal/lexer/stringlex"
	"github.com/orizon-lang/jlex/internal/lexer/textblock"
)

type fragment struct {
	layout textblock.TokenID
	escape stringlex.TokenID
	offset int
	text   string
}

func checkFragments(t *testing.T, tok Token, want []fragment) {
	t.Helper()

	got := Embedded(tok)
	if len(got) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Layout != w.layout || g.Escape != w.escape || g.Offset != w.offset || g.Text != w.text {
			t.Fatalf("fragment %d: expected %s/%s %q @%d, got %s/%s %q @%d",
				i, w.layout, w.escape, w.text, w.offset, g.Layout, g.Escape, g.Text, g.Offset)
		}
		if g.Length != len([]rune(g.Text)) {
			t.Fatalf("fragment %d: length %d does not match %q", i, g.Length, g.Text)
		}
	}
}

func TestEmbeddedString(t *testing.T) {
	tokens := Tokenize(`x = "a\tb";`)
	checkFragments(t, tokens[4], []fragment{
		{textblock.TEXT, stringlex.TEXT, 5, "a"},
		{textblock.TEXT, stringlex.TAB, 6, `\t`},
		{textblock.TEXT, stringlex.TEXT, 8, "b"},
	})
}

func TestEmbeddedEscapedDelimiter(t *testing.T) {
	tokens := Tokenize(`\u0022ab"`)
	if len(tokens) != 1 || tokens[0].ID != STRING_LITERAL {
		t.Fatalf("expected one string literal, got %v", tokens)
	}
	checkFragments(t, tokens[0], []fragment{
		{textblock.TEXT, stringlex.TEXT, 6, "ab"},
	})
}

func TestEmbeddedChar(t *testing.T) {
	checkFragments(t, Tokenize(`'\n'`)[0], []fragment{
		{textblock.TEXT, stringlex.NEWLINE, 1, `\n`},
	})
	checkFragments(t, Tokenize(`'\101'`)[0], []fragment{
		{textblock.TEXT, stringlex.OCTAL_ESCAPE, 1, `\101`},
	})
}

func TestEmbeddedTextBlock(t *testing.T) {
	src := "\"\"\"\n    a\n      b\\n\n    c\"\"\""
	tokens := Tokenize(src)
	if len(tokens) != 1 {
		t.Fatalf("expected one token, got %v", tokens)
	}
	checkFragments(t, tokens[0], []fragment{
		{textblock.INDENT, stringlex.TEXT, 4, "    "},
		{textblock.TEXT, stringlex.TEXT, 8, "a"},
		{textblock.NEWLINE, stringlex.TEXT, 9, "\n"},
		{textblock.INDENT, stringlex.TEXT, 10, "    "},
		{textblock.TEXT, stringlex.TEXT, 14, "  b"},
		{textblock.TEXT, stringlex.NEWLINE, 17, `\n`},
		{textblock.NEWLINE, stringlex.TEXT, 19, "\n"},
		{textblock.INDENT, stringlex.TEXT, 20, "    "},
		{textblock.TEXT, stringlex.TEXT, 24, "c"},
	})
}

func TestEmbeddedTemplateParts(t *testing.T) {
	tokens := Tokenize(`"a\{x}b\{y}c"`)
	checkFragments(t, tokens[0], []fragment{
		{textblock.TEXT, stringlex.TEXT, 1, "a"},
		{textblock.TEXT, stringlex.TEMPLATE_START, 2, `\{`},
	})
	checkFragments(t, tokens[2], []fragment{
		{textblock.TEXT, stringlex.TEXT, 6, "b"},
		{textblock.TEXT, stringlex.TEMPLATE_START, 7, `\{`},
	})
	checkFragments(t, tokens[4], []fragment{
		{textblock.TEXT, stringlex.TEXT, 11, "c"},
	})
}

func TestEmbeddedOtherTokens(t *testing.T) {
	for _, tok := range Tokenize("x 1 // c\n") {
		if got := Embedded(tok); got != nil {
			t.Fatalf("expected no fragments for %v, got %v", tok, got)
		}
	}
	if got := Embedded(Tokenize(`""`)[0]); len(got) != 0 {
		t.Fatalf("expected no fragments for an empty string, got %v", got)
	}
}

func TestTemplateStartAndUnterminated(t *testing.T) {
	tests := []struct {
		input        string
		template     bool
		unterminated bool
	}{
		{`"a\{`, true, false},
		{`"a\\{`, false, true},
		{`"a\\\{`, true, false},
		{"\"a\n", false, true},
		{`"a"`, false, false},
		{"'a", false, true},
		{"/* a", false, true},
		{"\"\"\"\n\\{", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Tokenize(tt.input)[0]
			if tok.IsTemplateStart() != tt.template {
				t.Errorf("IsTemplateStart() = %v, want %v", tok.IsTemplateStart(), tt.template)
			}
			if tok.Unterminated() != tt.unterminated {
				t.Errorf("Unterminated() = %v, want %v", tok.Unterminated(), tt.unterminated)
			}
		})
	}
}
