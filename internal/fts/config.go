// Package fts provides text analysis: tokenizers, stopwords and stemming,
// packaged as named analyzers for text fields.
package fts

import (
	"fmt"
)

// Config describes how an analyzer turns text into terms.
type Config struct {
	Tokenizer       string // default "word_v3"
	CaseSensitive   bool   // default false
	Language        string // default "english"
	Stemming        bool   // default true
	RemoveStopwords bool   // default true
	ASCIIFolding    bool   // default false
}

// Supported tokenizers
var SupportedTokenizers = map[string]bool{
	"word_v3":    true, // Default: word boundaries with smart handling
	"whitespace": true, // Split on whitespace only
	"character":  true, // Character-level tokens
	"ngram":      true, // N-gram tokenization
	"keyword":    true, // Whole input as a single token
}

// Supported languages for stemming and stopwords
var SupportedLanguages = map[string]bool{
	"english":   true,
	"french":    true,
	"spanish":   true,
	"russian":   true,
	"swedish":   true,
	"norwegian": true,
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Tokenizer:       "word_v3",
		CaseSensitive:   false,
		Language:        "english",
		Stemming:        true,
		RemoveStopwords: true,
		ASCIIFolding:    false,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Tokenizer == "" {
		return fmt.Errorf("%w: tokenizer cannot be empty", ErrInvalidConfig)
	}
	if !SupportedTokenizers[c.Tokenizer] {
		return fmt.Errorf("%w: unsupported tokenizer: %q", ErrInvalidConfig, c.Tokenizer)
	}

	if c.Language == "" {
		return fmt.Errorf("%w: language cannot be empty", ErrInvalidConfig)
	}
	if !SupportedLanguages[c.Language] {
		return fmt.Errorf("%w: unsupported language: %q", ErrInvalidConfig, c.Language)
	}
	return nil
}

// Clone creates a copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Equal checks if two configs are equal.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}

// Parse parses an analyzer option which can be:
//   - nil: no analyzer configured
//   - string: the name of a built-in analyzer
//   - map: a custom configuration, starting from DefaultConfig
func Parse(v any) (*Analyzer, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil

	case string:
		return Lookup(val)

	case map[string]any:
		cfg := DefaultConfig()

		if tokenizer, ok := val["tokenizer"].(string); ok {
			cfg.Tokenizer = tokenizer
		}
		if caseSensitive, ok := val["case_sensitive"].(bool); ok {
			cfg.CaseSensitive = caseSensitive
		}
		if language, ok := val["language"].(string); ok {
			cfg.Language = language
		}
		if stemming, ok := val["stemming"].(bool); ok {
			cfg.Stemming = stemming
		}
		if removeStopwords, ok := val["remove_stopwords"].(bool); ok {
			cfg.RemoveStopwords = removeStopwords
		}
		if asciiFolding, ok := val["ascii_folding"].(bool); ok {
			cfg.ASCIIFolding = asciiFolding
		}

		name, _ := val["name"].(string)
		if name == "" {
			name = "custom"
		}
		return NewAnalyzer(name, cfg)

	default:
		return nil, fmt.Errorf("%w: analyzer must be a name or object, got %T", ErrInvalidConfig, v)
	}
}

// ToMap converts the config to a map for JSON serialization.
func (c *Config) ToMap() map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"tokenizer":        c.Tokenizer,
		"case_sensitive":   c.CaseSensitive,
		"language":         c.Language,
		"stemming":         c.Stemming,
		"remove_stopwords": c.RemoveStopwords,
		"ascii_folding":    c.ASCIIFolding,
	}
}
