package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPrintVersion(t *testing.T) {
	info := GetVersionInfo(17)

	var buf bytes.Buffer
	if err := PrintVersion(&buf, "jlex", info, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"jlex v" + Version, "Language Version: 17", "Platform: "} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Commit:") {
		t.Errorf("unknown commit should not be printed:\n%s", out)
	}

	buf.Reset()
	if err := PrintVersion(&buf, "jlex", info, true); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Tool != "jlex" || decoded.VersionInfo.LanguageVersion != 17 {
		t.Fatalf("unexpected version info %+v", decoded)
	}
}

func TestLoggerLevels(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		verbose, debug bool
		want           []string
	}{
		{false, false, []string{"[WARN] 03:04:05: w", "[ERROR] 03:04:05: e"}},
		{true, false, []string{"[INFO] 03:04:05: i", "[WARN] 03:04:05: w", "[ERROR] 03:04:05: e"}},
		{false, true, []string{"[INFO] 03:04:05: i", "[DEBUG] 03:04:05: d", "[WARN] 03:04:05: w", "[ERROR] 03:04:05: e"}},
	}

	for i, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(tt.verbose, tt.debug)
		l.Out = &buf
		l.now = func() time.Time { return fixed }

		l.Info("i")
		l.Debug("d")
		l.Warn("w")
		l.Error("e")

		got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(got) != len(tt.want) {
			t.Fatalf("tests[%d] - expected %d lines, got %q", i, len(tt.want), got)
		}
		for j := range got {
			if got[j] != tt.want[j] {
				t.Fatalf("tests[%d] - line %d: expected %q, got %q", i, j, tt.want[j], got[j])
			}
		}
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	cmds := []CommandInfo{{Name: "tokens", Usage: "jlex tokens FILE...", Description: "print tokens", Examples: []string{"jlex tokens A.java"}}}

	PrintUsage(&buf, "jlex", cmds)
	if !strings.Contains(buf.String(), "    tokens       print tokens\n") {
		t.Fatalf("unexpected usage:\n%s", buf.String())
	}

	buf.Reset()
	PrintCommandUsage(&buf, "jlex", cmds[0])
	if !strings.Contains(buf.String(), "EXAMPLES:\n    jlex tokens A.java\n") {
		t.Fatalf("unexpected command usage:\n%s", buf.String())
	}
}

func TestValidateArgs(t *testing.T) {
	if err := ValidateArgs([]string{"a"}, 1, "u"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := ValidateArgs(nil, 1, "jlex tokens FILE"); err == nil || !strings.Contains(err.Error(), "jlex tokens FILE") {
		t.Fatalf("expected usage error, got %v", err)
	}
}
