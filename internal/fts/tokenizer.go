package fts

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into raw tokens. Case folding and ASCII folding are
// applied by the tokenizer; stopwords and stemming are applied by Analyzer.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// NewTokenizer creates a tokenizer based on the config.
func NewTokenizer(cfg *Config) Tokenizer {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var split func(string) []string
	switch cfg.Tokenizer {
	case "whitespace":
		split = strings.Fields
	case "character":
		split = splitCharacters
	case "ngram":
		split = func(s string) []string { return splitNgrams(s, 3) }
	case "keyword":
		split = splitKeyword
	default:
		split = splitWords
	}

	caseSensitive, fold := cfg.CaseSensitive, cfg.ASCIIFolding
	return TokenizerFunc(func(text string) []string {
		if text == "" {
			return nil
		}
		if fold {
			text = foldASCII(text)
		}
		if !caseSensitive {
			text = strings.ToLower(text)
		}
		tokens := split(text)
		if len(tokens) == 0 {
			return nil
		}
		return tokens
	})
}

// splitWords implements word_v3: letters, digits and underscores form words,
// everything else separates them.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isWordChar(r)
	})
}

// isWordChar returns true if the rune should be part of a word token.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func splitCharacters(text string) []string {
	var tokens []string
	for _, r := range text {
		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}

func splitNgrams(text string, n int) []string {
	runes := []rune(strings.ReplaceAll(text, " ", ""))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) < n {
		return []string{string(runes)}
	}
	tokens := make([]string, 0, len(runes)-n+1)
	for i := 0; i <= len(runes)-n; i++ {
		tokens = append(tokens, string(runes[i:i+n]))
	}
	return tokens
}

// splitKeyword keeps the whole (trimmed) input as one token.
func splitKeyword(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return []string{text}
}

var asciiFoldings = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'æ': "a",
	'ç': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ý': "y", 'ÿ': "y",
	'ß': "ss",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A", 'Æ': "A",
	'Ç': "C",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'Ñ': "N",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O", 'Ø': "O",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'Ý': "Y",
}

// foldASCII converts common accented Latin characters to ASCII equivalents.
func foldASCII(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			result.WriteRune(r)
			continue
		}
		if repl, ok := asciiFoldings[r]; ok {
			result.WriteString(repl)
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
