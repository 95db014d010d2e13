package watch

import (
	"fmt"
	"os"

	"github.com/orizon-lang/jlex/internal/lexer"
)

// Update is the result of handling one event.
type Update struct {
	Path        string
	Removed     bool
	Tokens      []lexer.Token
	Diagnostics lexer.Diagnostics
}

// Reloader re-lexes changed files, reusing the tokens of their previous
// version.
type Reloader struct {
	lexer *lexer.IncrementalLexer
}

// NewReloader creates a reloader backed by il.
func NewReloader(il *lexer.IncrementalLexer) *Reloader {
	return &Reloader{lexer: il}
}

// Load lexes the current content of path.
func (r *Reloader) Load(path string) (Update, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Update{}, fmt.Errorf("read %s: %w", path, err)
	}
	tokens, err := r.lexer.LexIncremental(path, data)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Path:        path,
		Tokens:      tokens,
		Diagnostics: lexer.Diagnose(string(data), tokens),
	}, nil
}

// Handle processes an event. Files that went away are dropped from the
// cache.
func (r *Reloader) Handle(ev Event) (Update, error) {
	if ev.Op.Gone() {
		r.lexer.RemoveFile(ev.Path)
		return Update{Path: ev.Path, Removed: true}, nil
	}
	if ev.Op&(OpCreate|OpWrite) == 0 {
		return Update{Path: ev.Path}, nil
	}
	return r.Load(ev.Path)
}

// Stats returns the statistics of the underlying lexer.
func (r *Reloader) Stats() lexer.LexingStats {
	return r.lexer.GetStats()
}
