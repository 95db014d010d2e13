package lexer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func sameTokens(t *testing.T, label string, got, want []Token) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("%s: expected %d tokens, got %d\nwant %v\ngot  %v", label, len(want), len(got), want, got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: token %d differs: expected %v, got %v", label, i, want[i], got[i])
		}
	}
}

const incrementalSource = `package demo;

import java.util.List;

public class Demo {
    private static final int LIMIT = 1_000;

    /** Greets. */
    String greet(String name) {
        var prefix = "Hello, ";
        String block = """
            Dear \{ name },
              welcome.
            """;
        return prefix + "\{ name }!" + block; // done
    }

    int sum(List<Integer> xs) {
        int total = 0;
        for (var x : xs) { total += x; }
        return total >>> 1;
    }
}
`

// TestIncrementalAccuracy checks that incremental results equal a full lex
// after assorted edits.
func TestIncrementalAccuracy(t *testing.T) {
	testCases := []struct {
		name      string
		original  string
		changePos int
		deleteLen int
		insertion string
	}{
		{"insert statement", incrementalSource, strings.Index(incrementalSource, "int total"), 0, "int unused = 2;\n        "},
		{"open comment", incrementalSource, strings.Index(incrementalSource, "int sum"), 0, "/* "},
		{"close comment", "a /* b\nc */ d\ne", 2, 2, ""},
		{"open string", incrementalSource, strings.Index(incrementalSource, "private"), 0, `"`},
		{"edit text block", incrementalSource, strings.Index(incrementalSource, "welcome"), 0, `"""x`},
		{"break template", incrementalSource, strings.Index(incrementalSource, "\\{ name }!"), 1, ""},
		{"add template", incrementalSource, strings.Index(incrementalSource, "Hello"), 0, "\\{ a "},
		{"var lookahead", "var\n\nx = 1;", len("var\n\n"), 1, "="},
		{"var after comment", "var /*\n\n*/ x", len("var /*\n\n*/ "), 1, "("},
		{"var chain", "int a;\nvar\nvar\nvar\nx", len("int a;\nvar\nvar\nvar\n"), 1, "1"},
		{"var chain restored", "int a;\nvar\nvar\nvar\n1", len("int a;\nvar\nvar\nvar\n"), 1, "x"},
		{"escaped var chain", "int a;\nv\\u0061r\n/* c */ var\nx", len("int a;\nv\\u0061r\n/* c */ var\n"), 1, "2"},
		{"append", incrementalSource, len(incrementalSource), 0, "class Tail {}\n"},
		{"delete all", incrementalSource, 0, len(incrementalSource), ""},
		{"prepend", incrementalSource, 0, 0, "// header\n"},
		{"number exponent", "double d = 1e\n5;", len("double d = 1e"), 0, "+"},
		{"crlf", "a\r\nb\r\nc", 2, 1, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			il := NewIncrementalLexer()
			if _, err := il.LexIncremental("Demo.java", []byte(tc.original)); err != nil {
				t.Fatalf("initial lex failed: %v", err)
			}

			modified := tc.original[:tc.changePos] + tc.insertion + tc.original[tc.changePos+tc.deleteLen:]
			got, err := il.LexIncremental("Demo.java", []byte(modified))
			if err != nil {
				t.Fatalf("incremental lex failed: %v", err)
			}
			sameTokens(t, tc.name, got, Tokenize(modified, WithFileName("Demo.java")))
		})
	}
}

// TestIncrementalEveryPosition inserts and deletes at every offset of a
// small source.
func TestIncrementalEveryPosition(t *testing.T) {
	src := "class A {\n  var s = \"a\\{ b }c\";\n  /* c */ int x = 0x1p3;\n}\n"
	insertions := []string{"x", "\"", "/*", "*/", "\n", "{", "}", "\\{", "'", " ", "\"\"\"\n"}
	runes := []rune(src)

	for pos := 0; pos <= len(runes); pos++ {
		for _, ins := range insertions {
			il := NewIncrementalLexer()
			if _, err := il.LexIncremental("A.java", []byte(src)); err != nil {
				t.Fatal(err)
			}
			modified := string(runes[:pos]) + ins + string(runes[pos:])
			got, err := il.LexIncremental("A.java", []byte(modified))
			if err != nil {
				t.Fatal(err)
			}
			sameTokens(t, fmt.Sprintf("insert %q at %d", ins, pos), got, Tokenize(modified))

			if pos < len(runes) {
				deleted := string(runes[:pos]) + string(runes[pos+1:])
				got, err = il.LexIncremental("A.java", []byte(deleted))
				if err != nil {
					t.Fatal(err)
				}
				sameTokens(t, fmt.Sprintf("delete at %d", pos), got, Tokenize(deleted))
			}
		}
	}
}

func TestRestartIndexWalksBackOverVarChain(t *testing.T) {
	il := NewIncrementalLexer()
	src := "int a;\nvar\nvar\nvar\nx"
	if _, err := il.LexIncremental("V.java", []byte(src)); err != nil {
		t.Fatal(err)
	}

	il.cacheMux.RLock()
	cached := il.cache["V.java"]
	il.cacheMux.RUnlock()

	i := restartIndex(cached, len(src)-1)
	if got := cached.Tokens[i]; got.ID != WHITESPACE || got.Offset != len("int a;") {
		t.Fatalf("expected to restart after the semicolon, got %v", got.Token)
	}
}

func TestSpelledVar(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"var", true},
		{`v\u0061r`, true},
		{`\u0076\u0061\u0072`, true},
		{"vars", false},
		{"va", false},
		{"Var", false},
	}
	for i, tt := range tests {
		tok := Tokenize(tt.input, WithVersion(8))[0]
		if got := spelledVar(tok); got != tt.want {
			t.Fatalf("tests[%d] - spelledVar(%q) = %v, want %v", i, tt.input, got, tt.want)
		}
	}
	if spelledVar(Tokenize("int")[0]) {
		t.Fatal("keywords other than var are not var")
	}
}

func TestIncrementalModuleFile(t *testing.T) {
	il := NewIncrementalLexer()
	src := "module m {\n  requires a;\n}\n"
	if _, err := il.LexIncremental("src/module-info.java", []byte(src)); err != nil {
		t.Fatal(err)
	}

	modified := "module m {\n  requires transitive a;\n  exports p to q;\n}\n"
	got, err := il.LexIncremental("src/module-info.java", []byte(modified))
	if err != nil {
		t.Fatal(err)
	}
	sameTokens(t, "module", got, Tokenize(modified, WithFileName(ModuleFileName)))
	if got[len(got)-2].ID != RBRACE {
		t.Fatalf("unexpected tail %v", got[len(got)-2:])
	}
}

func TestIncrementalStats(t *testing.T) {
	il := NewIncrementalLexer()
	src := generateJavaSource(50)

	if _, err := il.LexIncremental("Big.java", []byte(src)); err != nil {
		t.Fatal(err)
	}
	if _, err := il.LexIncremental("Big.java", []byte(src)); err != nil {
		t.Fatal(err)
	}

	pos := len(src) / 2
	pos += strings.IndexByte(src[pos:], '\n') + 1
	modified := src[:pos] + "int inserted = 1;\n" + src[pos:]
	tokens, err := il.LexIncremental("Big.java", []byte(modified))
	if err != nil {
		t.Fatal(err)
	}
	sameTokens(t, "big", tokens, Tokenize(modified))

	stats := il.GetStats()
	if stats.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", stats.CacheHits)
	}
	if stats.CacheMisses != 2 {
		t.Errorf("expected 2 cache misses, got %d", stats.CacheMisses)
	}
	if stats.IncrementalRuns != 1 {
		t.Errorf("expected 1 incremental run, got %d", stats.IncrementalRuns)
	}
	if stats.CharactersSkipped <= int64(len(src)) {
		t.Errorf("expected most of the edited file to be skipped, skipped %d", stats.CharactersSkipped)
	}
	if stats.TokensReused <= stats.TokensRelexed {
		t.Errorf("expected more reused than relexed tokens: %+v", stats)
	}
}

func TestIncrementalStateAt(t *testing.T) {
	il := NewIncrementalLexer()
	src := `x = "a\{ b + c }d";`
	if _, err := il.LexIncremental("T.java", []byte(src)); err != nil {
		t.Fatal(err)
	}

	st, boundary, ok := il.StateAt("T.java", strings.Index(src, "c"))
	if !ok {
		t.Fatal("expected a cached state")
	}
	if boundary != strings.Index(src, "c") || st.Pending != STRING_LITERAL {
		t.Fatalf("unexpected state %s at %d", st, boundary)
	}

	resumed := ResumeAt([]rune(src), boundary, st).All()
	full := Tokenize(src)
	sameTokens(t, "resume", resumed, full[len(full)-len(resumed):])

	if _, _, ok := il.StateAt("missing.java", 0); ok {
		t.Fatal("expected no state for an unknown file")
	}
}

func TestIncrementalInvalidEncoding(t *testing.T) {
	il := NewIncrementalLexer()
	_, err := il.LexIncremental("bad.java", []byte{'a', 0xff, 'b'})
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestCacheInvalidation(t *testing.T) {
	il := NewIncrementalLexer()
	src := []byte("int x = 42;")

	if _, err := il.LexIncremental("a.java", src); err != nil {
		t.Fatal(err)
	}
	il.RemoveFile("a.java")
	if _, err := il.LexIncremental("a.java", src); err != nil {
		t.Fatal(err)
	}
	if _, err := il.LexIncremental("b.java", src); err != nil {
		t.Fatal(err)
	}
	il.ClearCache()
	if _, err := il.LexIncremental("a.java", src); err != nil {
		t.Fatal(err)
	}

	stats := il.GetStats()
	if stats.CacheHits != 0 || stats.CacheMisses != 4 {
		t.Fatalf("expected 4 misses and no hits, got %+v", stats)
	}
	if stats.CacheEvictions != 3 {
		t.Fatalf("expected 3 evictions, got %d", stats.CacheEvictions)
	}
}

func TestIncrementalConcurrentAccess(t *testing.T) {
	il := NewIncrementalLexer()
	src := generateJavaSource(20)
	want := Tokenize(src)

	var wg sync.WaitGroup
	results := make([][]Token, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens, err := il.LexIncremental("C.java", []byte(src))
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = tokens
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		sameTokens(t, fmt.Sprintf("goroutine %d", i), got, want)
	}
	// Callers own their slices.
	results[0][0].Text = "mutated"
	if results[1][0].Text == "mutated" {
		t.Fatal("results share memory")
	}
}
