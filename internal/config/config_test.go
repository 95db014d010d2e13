package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orizon-lang/jlex/internal/lexer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jlex.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LanguageVersion() != lexer.DefaultVersion || cfg.Workers < 1 || cfg.ModuleFile != lexer.ModuleFileName {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		content string
		version int
		workers int
		errText string
	}{
		{`{"version": "1.8", "workers": 2}`, 8, 2, ""},
		{`{"version": "21.0.2", "verbose": true}`, 21, -1, ""},
		{`{}`, lexer.DefaultVersion, -1, ""},
		{`{"version": "next"}`, 0, 0, "invalid language version"},
		{`{"workers": -3}`, 0, 0, "workers must be positive"},
		{`{"version": 17}`, 0, 0, "failed to parse"},
	}

	for i, tt := range tests {
		cfg, err := Load(writeConfig(t, tt.content))
		if tt.errText != "" {
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Fatalf("tests[%d] - expected error containing %q, got %v", i, tt.errText, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error %v", i, err)
		}
		if cfg.LanguageVersion() != tt.version {
			t.Fatalf("tests[%d] - expected version %d, got %d", i, tt.version, cfg.LanguageVersion())
		}
		if tt.workers > 0 && cfg.Workers != tt.workers {
			t.Fatalf("tests[%d] - expected %d workers, got %d", i, tt.workers, cfg.Workers)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := Default()
	cfg.Version = "17"
	cfg.Debug = true
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Fatalf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLexerOptions(t *testing.T) {
	cfg := Default()
	cfg.Version = "4"

	src := "enum module"
	got := lexer.Tokenize(src, append(cfg.LexerOptions(), lexer.WithFileName("A.java"))...)
	if got[0].ID != lexer.IDENTIFIER || got[2].ID != lexer.IDENTIFIER {
		t.Fatalf("expected identifiers at version 4, got %v", got)
	}

	cfg.Version = "17"
	got = lexer.Tokenize(src, append(cfg.LexerOptions(), lexer.WithFileName(lexer.ModuleFileName))...)
	if got[0].ID != lexer.ENUM || got[2].ID != lexer.MODULE {
		t.Fatalf("expected enum and module keywords, got %v", got)
	}
}

func TestCustomModuleFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"module_file": "module.jav"}`))
	if err != nil {
		t.Fatal(err)
	}
	got := lexer.Tokenize("module m {}", append(cfg.LexerOptions(), lexer.WithFileName("module.jav"))...)
	if got[0].ID != lexer.MODULE {
		t.Fatalf("expected a module keyword, got %v", got[0])
	}
}
