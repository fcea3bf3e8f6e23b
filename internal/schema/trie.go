package schema

import (
	"strings"

	"github.com/vexsearch/fieldmap/internal/mapper"
)

// trie indexes declared field names by their dot-separated segments.
type trie struct {
	children map[string]*trie
	name     string
	mapper   *mapper.Mapper
}

func newTrie() *trie {
	return &trie{children: make(map[string]*trie)}
}

func (t *trie) insert(name string, m *mapper.Mapper) {
	node := t
	for _, seg := range strings.Split(name, ".") {
		child, ok := node.children[seg]
		if !ok {
			child = newTrie()
			node.children[seg] = child
		}
		node = child
	}
	node.name = name
	node.mapper = m
}

// longestPrefix returns the deepest declared name that is field itself or a
// dotted prefix of it.
func (t *trie) longestPrefix(field string) (*mapper.Mapper, string, bool) {
	var (
		found *mapper.Mapper
		name  string
	)
	node := t
	rest := field
	for {
		seg, tail, more := strings.Cut(rest, ".")
		child, ok := node.children[seg]
		if !ok {
			break
		}
		node = child
		if node.mapper != nil {
			found, name = node.mapper, node.name
		}
		if !more {
			break
		}
		rest = tail
	}
	return found, name, found != nil
}
