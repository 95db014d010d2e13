package lexer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/orizon-lang/jlex/internal/source"
)

// ErrInvalidEncoding is returned for content that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// IncrementalLexer re-lexes changed source files, reusing the tokens of the
// unchanged regions. For each file it keeps the tokens of the last version
// together with the scanner state at every token boundary. After an edit,
// lexing restarts at a boundary before the change and stops as soon as the
// new stream reaches an old boundary past the change with an equal state;
// the rest of the old tokens are shifted into place.
//
// An IncrementalLexer is safe for concurrent use. Concurrent requests for
// the same file and content are coalesced.
type IncrementalLexer struct {
	opts []Option

	cache    map[string]*FileTokenCache
	cacheMux sync.RWMutex

	group singleflight.Group

	stats    LexingStats
	statsMux sync.Mutex
}

// FileTokenCache is the lexing result of one version of a file.
type FileTokenCache struct {
	LastAccess  time.Time
	Tokens      []CachedToken
	Content     []rune
	ContentHash [32]byte
	FileSize    int
	TokenCount  int
}

// CachedToken is a token with the scanner state it was lexed from.
type CachedToken struct {
	Token
	Before State
}

// LexingStats records cache and re-lexing activity.
type LexingStats struct {
	CacheHits       int64
	CacheMisses     int64
	CacheEvictions  int64
	IncrementalRuns int64
	SharedRuns      int64 // requests served by a concurrent identical request

	TokensReused  int64
	TokensRelexed int64

	TotalLexingTime     int64 // nanoseconds
	FilesAnalyzed       int64
	CharactersProcessed int64
	CharactersSkipped   int64
}

// NewIncrementalLexer creates an incremental lexer. The options apply to
// every file; the file name option is replaced by the base name of each
// file, so module declaration files are recognized by name.
func NewIncrementalLexer(opts ...Option) *IncrementalLexer {
	return &IncrementalLexer{
		opts:  opts,
		cache: make(map[string]*FileTokenCache),
	}
}

type lexResult struct {
	tokens []Token
}

// LexIncremental returns the tokens of content, the new version of
// filename. The returned slice is owned by the caller.
func (il *IncrementalLexer) LexIncremental(filename string, content []byte) ([]Token, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", filename, ErrInvalidEncoding)
	}
	hash := sha256.Sum256(content)
	key := filename + "\x00" + hex.EncodeToString(hash[:])

	v, err, shared := il.group.Do(key, func() (any, error) {
		return il.lex(filename, content, hash), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		il.statsMux.Lock()
		il.stats.SharedRuns++
		il.statsMux.Unlock()
	}
	tokens := v.(lexResult).tokens
	return append([]Token(nil), tokens...), nil
}

func (il *IncrementalLexer) lex(filename string, content []byte, hash [32]byte) lexResult {
	startTime := time.Now()
	defer func() {
		il.statsMux.Lock()
		il.stats.TotalLexingTime += time.Since(startTime).Nanoseconds()
		il.stats.FilesAnalyzed++
		il.statsMux.Unlock()
	}()

	il.cacheMux.RLock()
	cached, exists := il.cache[filename]
	il.cacheMux.RUnlock()

	if exists && cached.ContentHash == hash {
		il.statsMux.Lock()
		il.stats.CacheHits++
		il.stats.CharactersSkipped += int64(len(cached.Content))
		il.stats.TokensReused += int64(len(cached.Tokens))
		il.statsMux.Unlock()
		il.touch(filename, cached)
		return lexResult{tokens: plainTokens(cached.Tokens)}
	}

	il.statsMux.Lock()
	il.stats.CacheMisses++
	il.statsMux.Unlock()

	runes := []rune(string(content))
	var tokens []CachedToken
	if exists {
		tokens = il.relex(filename, cached, runes)
	} else {
		tokens = il.fullLex(filename, runes)
	}
	il.updateCache(filename, runes, hash, tokens)
	return lexResult{tokens: plainTokens(tokens)}
}

// fullLex lexes runes from the start.
func (il *IncrementalLexer) fullLex(filename string, runes []rune) []CachedToken {
	s := il.scanner(filename, runes)
	tokens, _ := collect(s, nil, -1, nil, 0)
	il.statsMux.Lock()
	il.stats.TokensRelexed += int64(len(tokens))
	il.stats.CharactersProcessed += int64(len(runes))
	il.statsMux.Unlock()
	return tokens
}

func (il *IncrementalLexer) scanner(filename string, runes []rune) *Scanner {
	opts := append(append([]Option(nil), il.opts...), WithFileName(filepath.Base(filename)))
	return ResumeAt(runes, 0, buildOptions(opts).initialState())
}

// relex re-lexes the region of runes that differs from the cached version.
func (il *IncrementalLexer) relex(filename string, old *FileTokenCache, runes []rune) []CachedToken {
	prefix := commonPrefix(old.Content, runes)
	suffix := commonSuffix(old.Content[prefix:], runes[prefix:])
	delta := len(runes) - len(old.Content)
	changeEnd := len(runes) - suffix // end of the changed region, new coordinates

	i := restartIndex(old, prefix)
	if i == 0 {
		return il.fullLex(filename, runes)
	}
	restart := old.Tokens[i]
	s := ResumeAt(runes, restart.Offset, restart.Before)

	result := make([]CachedToken, i, len(old.Tokens)+8)
	copy(result, old.Tokens[:i])
	result, relexed := collect(s, result, changeEnd, old, delta)
	scanned := s.Offset() - restart.Offset

	il.statsMux.Lock()
	il.stats.IncrementalRuns++
	il.stats.TokensReused += int64(len(result) - relexed)
	il.stats.TokensRelexed += int64(relexed)
	il.stats.CharactersProcessed += int64(scanned)
	il.stats.CharactersSkipped += int64(len(runes) - scanned)
	il.statsMux.Unlock()
	return result
}

// collect appends the tokens of s to out and returns it with the number of
// tokens lexed. Once the scanner has passed changeEnd (when non-negative)
// and stands on a boundary of old with an equal state, the remaining old
// tokens are shifted by delta and appended instead of being lexed.
func collect(s *Scanner, out []CachedToken, changeEnd int, old *FileTokenCache, delta int) ([]CachedToken, int) {
	relexed := 0
	for {
		off := s.Offset()
		before := s.State()
		if old != nil && changeEnd >= 0 && off >= changeEnd {
			if k, ok := old.boundary(off - delta); ok && old.Tokens[k].Before.Equal(before) {
				for _, ct := range old.Tokens[k:] {
					ct.Offset += delta
					out = append(out, ct)
				}
				return out, relexed
			}
		}
		tok := s.NextToken()
		if tok.ID == EOF {
			return out, relexed
		}
		relexed++
		out = append(out, CachedToken{Token: tok, Before: before})
	}
}

// boundary returns the index of the token starting at offset.
func (c *FileTokenCache) boundary(offset int) (int, bool) {
	k := sort.Search(len(c.Tokens), func(i int) bool {
		return c.Tokens[i].Offset >= offset
	})
	return k, k < len(c.Tokens) && c.Tokens[k].Offset == offset
}

// restartIndex returns the index of the token to resume lexing from when
// the first change is at offset prefix. Tokens only look ahead up to the
// end of their line, so the restart point is the token holding the line
// break before the change. The exception is "var", whose meaning depends
// on the next token, which may itself be a "var": the restart point moves
// back over every comment, whitespace and "var" before it.
func restartIndex(c *FileTokenCache, prefix int) int {
	if len(c.Tokens) == 0 {
		return 0
	}
	at := prefix - 1
	for at >= 0 && c.Content[at] != '\n' && c.Content[at] != '\r' {
		at--
	}
	if at < 0 {
		return 0
	}
	i := sort.Search(len(c.Tokens), func(i int) bool {
		return c.Tokens[i].End() > at
	})
	if i >= len(c.Tokens) {
		i = len(c.Tokens) - 1
	}
	for i > 0 && (c.Tokens[i-1].ID.IsTrivia() || spelledVar(c.Tokens[i-1].Token)) {
		i--
	}
	return i
}

// spelledVar reports whether tok is the word "var", as a keyword or as an
// identifier, possibly written with unicode escapes.
func spelledVar(tok Token) bool {
	switch tok.ID {
	case VAR:
		return true
	case IDENTIFIER:
	default:
		return false
	}
	if tok.Text == "var" {
		return true
	}
	r := reader{in: source.NewInput(tok.Text)}
	for _, want := range "var" {
		if r.next() != want {
			return false
		}
	}
	return r.next() == source.EOF
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffix(a, b []rune) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

func plainTokens(cached []CachedToken) []Token {
	tokens := make([]Token, len(cached))
	for i, ct := range cached {
		tokens[i] = ct.Token
	}
	return tokens
}

func (il *IncrementalLexer) touch(filename string, c *FileTokenCache) {
	il.cacheMux.Lock()
	if il.cache[filename] == c {
		c.LastAccess = time.Now()
	}
	il.cacheMux.Unlock()
}

// updateCache stores the new lexing results in the cache.
func (il *IncrementalLexer) updateCache(filename string, runes []rune, hash [32]byte, tokens []CachedToken) {
	il.cacheMux.Lock()
	il.cache[filename] = &FileTokenCache{
		ContentHash: hash,
		Content:     runes,
		Tokens:      tokens,
		LastAccess:  time.Now(),
		FileSize:    len(runes),
		TokenCount:  len(tokens),
	}
	il.cacheMux.Unlock()
}

// StateAt returns the scanner state at the last token boundary at or
// before offset in the cached version of filename, and that boundary.
func (il *IncrementalLexer) StateAt(filename string, offset int) (State, int, bool) {
	il.cacheMux.RLock()
	defer il.cacheMux.RUnlock()

	c, ok := il.cache[filename]
	if !ok || len(c.Tokens) == 0 {
		return State{}, 0, false
	}
	k := sort.Search(len(c.Tokens), func(i int) bool {
		return c.Tokens[i].Offset > offset
	}) - 1
	if k < 0 {
		k = 0
	}
	return c.Tokens[k].Before.Clone(), c.Tokens[k].Offset, true
}

// GetStats returns the current statistics.
func (il *IncrementalLexer) GetStats() LexingStats {
	il.statsMux.Lock()
	defer il.statsMux.Unlock()

	return il.stats
}

// ClearCache removes all cached files.
func (il *IncrementalLexer) ClearCache() {
	il.cacheMux.Lock()
	n := len(il.cache)
	il.cache = make(map[string]*FileTokenCache)
	il.cacheMux.Unlock()

	il.statsMux.Lock()
	il.stats.CacheEvictions += int64(n)
	il.statsMux.Unlock()
}

// RemoveFile removes a specific file from the cache.
func (il *IncrementalLexer) RemoveFile(filename string) {
	il.cacheMux.Lock()
	_, exists := il.cache[filename]
	delete(il.cache, filename)
	il.cacheMux.Unlock()

	if exists {
		il.statsMux.Lock()
		il.stats.CacheEvictions++
		il.statsMux.Unlock()
	}
}
