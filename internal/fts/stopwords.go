package fts

import "strings"

// StopwordSet is a set of lower-case stopwords.
type StopwordSet map[string]struct{}

func newStopwordSet(words string) StopwordSet {
	set := make(StopwordSet)
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

var stopwordsByLanguage = map[string]StopwordSet{
	"english": newStopwordSet(`
		a an and are as at be by for from has he in is it its of on that the
		to was were will with i me my we our you your they their this but or
		not no so if do does did have had been being which who what when
		where how why all each some any most other such only own same than
		too very can just should now also more`),
	"spanish": newStopwordSet(`
		el la los las un una unos unas y o pero de del al a en con por para
		es son fue ser que se su sus lo le les mi tu nos no si como mas muy`),
	"french": newStopwordSet(`
		le la les un une des et ou mais de du au aux en dans avec par pour
		est sont etre que qui se sa son ses ce cette il elle nous vous ne pas`),
}

// stopwordsForLanguage returns the stopword set of a language, or nil when
// no list is bundled for it.
func stopwordsForLanguage(language string) StopwordSet {
	return stopwordsByLanguage[language]
}

// IsStopword returns true if the token is in the set, ignoring case.
func IsStopword(token string, set StopwordSet) bool {
	_, ok := set[strings.ToLower(token)]
	return ok
}

// RemoveStopwords filters stopwords from a token list.
func RemoveStopwords(tokens []string, set StopwordSet) []string {
	if len(set) == 0 {
		return tokens
	}
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopword(t, set) {
			result = append(result, t)
		}
	}
	return result
}
