package fts

import "sort"

// AnalyzerSet is the analyzer configuration of one schema: a default analyzer
// plus per-field overrides. It is built once and never modified.
type AnalyzerSet struct {
	def      *Analyzer
	perField map[string]*Analyzer
}

// NewAnalyzerSet builds a set. A nil default falls back to "standard".
func NewAnalyzerSet(def *Analyzer, perField map[string]*Analyzer) *AnalyzerSet {
	if def == nil {
		def = builtinAnalyzers["standard"]
	}
	fields := make(map[string]*Analyzer, len(perField))
	for name, a := range perField {
		if a != nil {
			fields[name] = a
		}
	}
	return &AnalyzerSet{def: def, perField: fields}
}

// Default returns the analyzer used for fields without an override.
func (s *AnalyzerSet) Default() *Analyzer { return s.def }

// For returns the analyzer of a field, or the default.
func (s *AnalyzerSet) For(field string) *Analyzer {
	if a, ok := s.perField[field]; ok {
		return a
	}
	return s.def
}

// Fields returns the sorted names of the fields with an override.
func (s *AnalyzerSet) Fields() []string {
	names := make([]string, 0, len(s.perField))
	for name := range s.perField {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
