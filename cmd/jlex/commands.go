package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/jlex/internal/cli"
	"github.com/orizon-lang/jlex/internal/config"
	"github.com/orizon-lang/jlex/internal/lexer"
	"github.com/orizon-lang/jlex/internal/source"
	"github.com/orizon-lang/jlex/internal/watch"
)

// commonFlags are accepted by every lexing command and override the
// configuration file.
type commonFlags struct {
	configPath string
	lang       string
	workers    int
	verbose    bool
	debug      bool
}

func newFlagSet(e env, name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		cli.PrintCommandUsage(e.stderr, toolName, commandInfo(name))
		fmt.Fprintln(e.stderr, "OPTIONS:")
		fs.PrintDefaults()
	}

	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", "", "configuration file (default "+config.DefaultFileName+")")
	fs.StringVar(&c.lang, "lang", "", "language level, such as 1.8 or 17")
	fs.IntVar(&c.workers, "j", 0, "number of files lexed in parallel")
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
	fs.BoolVar(&c.debug, "debug", false, "debug logging")
	return fs, c
}

// resolve loads the configuration and applies the flags that were set.
func (c *commonFlags) resolve(e env, fs *flag.FlagSet) (*config.Config, *cli.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			cfg.Version = c.lang
		case "j":
			cfg.Workers = c.workers
		case "v":
			cfg.Verbose = c.verbose
		case "debug":
			cfg.Debug = c.debug
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := cli.NewLogger(cfg.Verbose, cfg.Debug)
	logger.Out = e.stderr
	logger.Debug("language version %d, %d workers", cfg.LanguageVersion(), cfg.Workers)
	return cfg, logger, nil
}

// parse parses args. It reports false when only help was requested.
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type fileResult struct {
	Path   string
	Source string
	Tokens []lexer.Token
}

// readSource reads a file, or standard input for "-".
func readSource(e env, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, lexer.ErrInvalidEncoding)
	}
	return data, nil
}

// lexFiles lexes paths in parallel, at most cfg.Workers at a time. The
// results are in the order of paths.
func lexFiles(ctx context.Context, e env, cfg *config.Config, logger *cli.Logger, paths []string) ([]fileResult, error) {
	stdin := 0
	for _, path := range paths {
		if path == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, errors.New("standard input (-) may be given only once")
	}

	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readSource(e, path)
			if err != nil {
				return err
			}
			src := string(data)
			opts := append(cfg.LexerOptions(), lexer.WithFileName(filepath.Base(path)))
			tokens := lexer.Tokenize(src, opts...)
			logger.Debug("%s: %d tokens", path, len(tokens))
			results[i] = fileResult{Path: path, Source: src, Tokens: tokens}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type tokenJSON struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	ID     string `json:"id"`
	Text   string `json:"text"`
	Part   string `json:"part,omitempty"`
}

type fileTokensJSON struct {
	Path   string      `json:"path"`
	Tokens []tokenJSON `json:"tokens"`
}

func runTokens(ctx context.Context, e env, args []string) error {
	fs, common := newFlagSet(e, "tokens")
	jsonOutput := fs.Bool("json", false, "print tokens as JSON")
	trivia := fs.Bool("trivia", true, "include whitespace and comments")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("tokens").Usage); err != nil {
		return err
	}
	cfg, logger, err := common.resolve(e, fs)
	if err != nil {
		return err
	}

	results, err := lexFiles(ctx, e, cfg, logger, fs.Args())
	if err != nil {
		return err
	}

	files := make([]fileTokensJSON, 0, len(results))
	for _, r := range results {
		f := fileTokensJSON{Path: r.Path, Tokens: []tokenJSON{}}
		for _, tok := range r.Tokens {
			if !*trivia && tok.ID.IsTrivia() {
				continue
			}
			tj := tokenJSON{Offset: tok.Offset, Length: tok.Length, ID: tok.ID.String(), Text: tok.Text}
			if tok.Part != source.Complete {
				tj.Part = tok.Part.String()
			}
			f.Tokens = append(f.Tokens, tj)
		}
		files = append(files, f)
	}

	if *jsonOutput {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}
	for _, f := range files {
		if len(files) > 1 {
			fmt.Fprintf(e.stdout, "# %s\n", f.Path)
		}
		for _, tj := range f.Tokens {
			fmt.Fprintf(e.stdout, "%d\t%d\t%s\t%q", tj.Offset, tj.Length, tj.ID, tj.Text)
			if tj.Part != "" {
				fmt.Fprintf(e.stdout, "\t%s", tj.Part)
			}
			fmt.Fprintln(e.stdout)
		}
	}
	return nil
}

func runCheck(ctx context.Context, e env, args []string) error {
	fs, common := newFlagSet(e, "check")
	detailed := fs.Bool("detailed", false, "show the offending line and suggestions")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("check").Usage); err != nil {
		return err
	}
	cfg, logger, err := common.resolve(e, fs)
	if err != nil {
		return err
	}

	results, err := lexFiles(ctx, e, cfg, logger, fs.Args())
	if err != nil {
		return err
	}

	errorCount, warningCount := 0, 0
	for _, r := range results {
		for _, d := range lexer.Diagnose(r.Source, r.Tokens) {
			if *detailed {
				fmt.Fprintln(e.stdout, d.FormatDetailed(r.Path))
			} else {
				fmt.Fprintln(e.stdout, d.Format(r.Path))
			}
			switch d.Severity {
			case lexer.SeverityError:
				errorCount++
			case lexer.SeverityWarning:
				warningCount++
			}
		}
	}
	logger.Info("%d files checked: %d errors, %d warnings", len(results), errorCount, warningCount)
	if errorCount > 0 {
		return errFindings
	}
	return nil
}

type stateJSON struct {
	Path    string      `json:"path"`
	Offset  int         `json:"offset"`
	State   lexer.State `json:"state"`
	Encoded string      `json:"encoded"`
}

func runState(e env, args []string) error {
	fs, common := newFlagSet(e, "state")
	at := fs.Int("at", -1, "character offset; negative means the end of the file")
	jsonOutput := fs.Bool("json", false, "print the state as JSON")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("state").Usage); err != nil {
		return err
	}
	cfg, _, err := common.resolve(e, fs)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	data, err := readSource(e, path)
	if err != nil {
		return err
	}
	il := lexer.NewIncrementalLexer(cfg.LexerOptions()...)
	if _, err := il.LexIncremental(path, data); err != nil {
		return err
	}

	offset := *at
	if offset < 0 {
		offset = utf8.RuneCount(data)
	}
	st, boundary, ok := il.StateAt(path, offset)
	if !ok {
		return fmt.Errorf("%s: no tokens", path)
	}
	encoded, err := st.MarshalBinary()
	if err != nil {
		return err
	}

	if *jsonOutput {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stateJSON{Path: path, Offset: boundary, State: st, Encoded: hex.EncodeToString(encoded)})
	}
	fmt.Fprintf(e.stdout, "offset:  %d\n", boundary)
	fmt.Fprintf(e.stdout, "state:   %s\n", st)
	fmt.Fprintf(e.stdout, "encoded: %s\n", hex.EncodeToString(encoded))
	return nil
}

func runWatch(ctx context.Context, e env, args []string) error {
	fs, common := newFlagSet(e, "watch")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("watch").Usage); err != nil {
		return err
	}
	cfg, logger, err := common.resolve(e, fs)
	if err != nil {
		return err
	}

	w, err := watch.New(watch.JavaFiles)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	reloader := watch.NewReloader(lexer.NewIncrementalLexer(cfg.LexerOptions()...))
	report := func(up watch.Update) {
		if up.Removed {
			logger.Info("%s removed", up.Path)
			return
		}
		if up.Tokens == nil {
			return
		}
		for _, d := range up.Diagnostics {
			fmt.Fprintln(e.stdout, d.Format(up.Path))
		}
		logger.Info("%s: %d tokens, %d diagnostics", up.Path, len(up.Tokens), len(up.Diagnostics))
	}

	for _, path := range fs.Args() {
		files, err := watchTarget(w, path)
		if err != nil {
			return err
		}
		for _, f := range files {
			up, err := reloader.Load(f)
			if err != nil {
				logger.Warn("%v", err)
				continue
			}
			report(up)
		}
	}

	err = w.Run(ctx, func(ev watch.Event) error {
		logger.Debug("%s %s", ev.Op, ev.Path)
		up, err := reloader.Handle(ev)
		if err != nil {
			return err
		}
		report(up)
		return nil
	}, func(err error) {
		logger.Warn("%v", err)
	})

	stats := reloader.Stats()
	logger.Info("%d files analyzed, %d incremental runs, %d tokens reused, %d relexed",
		stats.FilesAnalyzed, stats.IncrementalRuns, stats.TokensReused, stats.TokensRelexed)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchTarget adds path to w and returns the Java files it currently
// holds.
func watchTarget(w *watch.Watcher, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && watch.JavaFiles(entry.Name()) {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}

func runVersion(e env, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	jsonOutput := fs.Bool("json", false, "print version information as JSON")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	return cli.PrintVersion(e.stdout, toolName, cli.GetVersionInfo(lexer.DefaultVersion), *jsonOutput)
}
