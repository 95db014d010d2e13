// Package config loads the JSON configuration of the jlex tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/orizon-lang/jlex/internal/lexer"
)

// DefaultFileName is the configuration file looked up in the working
// directory when none is given.
const DefaultFileName = ".jlex.json"

// Config is the tool configuration. Zero values are replaced by defaults
// when loading.
type Config struct {
	// Version is the language level, such as "1.8" or "17".
	Version string `json:"version"`
	// Workers bounds the number of files lexed in parallel.
	Workers int  `json:"workers"`
	Verbose bool `json:"verbose"`
	Debug   bool `json:"debug"`
	// ModuleFile is the base name of files lexed as module declarations.
	ModuleFile string `json:"module_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:    strconv.Itoa(lexer.DefaultVersion),
		Workers:    runtime.GOMAXPROCS(0),
		ModuleFile: lexer.ModuleFileName,
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults; an empty path means DefaultFileName.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fill() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.ModuleFile == "" {
		c.ModuleFile = def.ModuleFile
	}
}

// Validate checks the values of c.
func (c *Config) Validate() error {
	if _, err := lexer.ParseVersion(c.Version); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// LanguageVersion returns the configured language level. Validate must
// have succeeded.
func (c *Config) LanguageVersion() int {
	v, err := lexer.ParseVersion(c.Version)
	if err != nil {
		return lexer.DefaultVersion
	}
	return v
}

// LexerOptions returns the scanner options shared by all files. Callers
// add lexer.WithFileName for each file.
func (c *Config) LexerOptions() []lexer.Option {
	return []lexer.Option{
		lexer.WithVersion(c.LanguageVersion()),
		lexer.WithModuleFileName(c.ModuleFile),
	}
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
