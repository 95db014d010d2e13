package lexer

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// DefaultVersion is the language version used when none is configured.
const DefaultVersion = 10

// ParseVersion converts a language level string to the integer version the
// scanner understands. Both the legacy "1.x" spelling and plain release
// numbers are accepted: "1.8" is 8, "17" is 17, "21.0.2" is 21.
func ParseVersion(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty language version")
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return 0, fmt.Errorf("invalid language version %q: %w", s, err)
	}
	if v.Prerelease() != "" {
		return 0, fmt.Errorf("invalid language version %q: pre-release levels are not supported", s)
	}
	if v.Major() == 1 && v.Minor() > 0 {
		return int(v.Minor()), nil
	}
	if v.Major() > 1<<16 {
		return 0, fmt.Errorf("invalid language version %q: out of range", s)
	}
	return int(v.Major()), nil
}
