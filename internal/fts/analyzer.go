package fts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kljensen/snowball"
)

var (
	ErrUnknownAnalyzer = errors.New("unknown analyzer")
	ErrInvalidConfig   = errors.New("invalid analyzer config")
)

// Analyzer turns text into index terms: tokenize, drop stopwords, stem.
// An Analyzer is immutable and safe for concurrent use.
type Analyzer struct {
	name      string
	config    Config
	tokenizer Tokenizer
	stopwords StopwordSet
}

// NewAnalyzer validates cfg and builds a named analyzer from it.
func NewAnalyzer(name string, cfg *Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		name:      name,
		config:    *cfg,
		tokenizer: NewTokenizer(cfg),
	}
	if cfg.RemoveStopwords {
		a.stopwords = stopwordsForLanguage(cfg.Language)
	}
	return a, nil
}

// Name returns the analyzer's identity.
func (a *Analyzer) Name() string { return a.name }

// Config returns a copy of the analyzer configuration.
func (a *Analyzer) Config() Config { return a.config }

// Analyze returns the terms for text, in input order, duplicates kept.
func (a *Analyzer) Analyze(text string) []string {
	tokens := a.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	tokens = RemoveStopwords(tokens, a.stopwords)
	if !a.config.Stemming || a.config.Tokenizer == "keyword" {
		return tokens
	}
	for i, tok := range tokens {
		tokens[i] = a.stem(tok)
	}
	return tokens
}

func (a *Analyzer) stem(token string) string {
	stemmed, err := snowball.Stem(token, a.config.Language, true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

var builtinAnalyzers = func() map[string]*Analyzer {
	configs := map[string]*Config{
		"standard":   {Tokenizer: "word_v3", Language: "english", RemoveStopwords: true},
		"simple":     {Tokenizer: "word_v3", Language: "english"},
		"whitespace": {Tokenizer: "whitespace", Language: "english"},
		"keyword":    {Tokenizer: "keyword", Language: "english", CaseSensitive: true},
	}
	for lang := range SupportedLanguages {
		configs[lang] = &Config{Tokenizer: "word_v3", Language: lang, Stemming: true, RemoveStopwords: true}
	}

	out := make(map[string]*Analyzer, len(configs))
	for name, cfg := range configs {
		a, err := NewAnalyzer(name, cfg)
		if err != nil {
			panic(fmt.Sprintf("fts: builtin analyzer %s: %v", name, err))
		}
		out[name] = a
	}
	return out
}()

// Lookup returns the built-in analyzer with the given name.
func Lookup(name string) (*Analyzer, error) {
	a, ok := builtinAnalyzers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalyzer, name)
	}
	return a, nil
}

// Names returns the sorted names of the built-in analyzers.
func Names() []string {
	names := make([]string, 0, len(builtinAnalyzers))
	for name := range builtinAnalyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
