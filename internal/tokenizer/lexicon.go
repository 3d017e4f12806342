package tokenizer

import (
	"strings"
	"sync"
)

// Lexicon is an immutable stop-word and abbreviation table. A Lexicon is safe
// for concurrent use once built.
type Lexicon struct {
	stopwords     map[string]struct{}
	abbreviations map[string]struct{}
}

// NewLexicon builds a lexicon from lower-case word lists. Abbreviations are
// given without their trailing period ("dr", "e.g").
func NewLexicon(stopwords, abbreviations []string) *Lexicon {
	l := &Lexicon{
		stopwords:     make(map[string]struct{}, len(stopwords)),
		abbreviations: make(map[string]struct{}, len(abbreviations)),
	}
	for _, w := range stopwords {
		l.stopwords[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range abbreviations {
		l.abbreviations[strings.ToLower(strings.TrimSuffix(w, "."))] = struct{}{}
	}
	return l
}

// DefaultLexicon returns the shared English lexicon. It is built once.
var DefaultLexicon = sync.OnceValue(func() *Lexicon {
	return NewLexicon(englishStopwords, englishAbbreviations)
})

// IsStop reports whether the normalized word is a stop-word.
func (l *Lexicon) IsStop(word string) bool {
	_, ok := l.stopwords[word]
	return ok
}

// IsAbbreviation reports whether word (without trailing period) is a known abbreviation.
func (l *Lexicon) IsAbbreviation(word string) bool {
	_, ok := l.abbreviations[strings.ToLower(word)]
	return ok
}

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are", "aren't",
	"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can", "cannot", "could", "couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don", "don't", "down", "during",
	"each", "either", "else", "etc", "even", "ever", "every", "few", "for", "from", "further",
	"had", "hadn't", "has", "hasn't", "have", "haven't", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "isn't", "it", "it's", "its", "itself", "just",
	"may", "me", "might", "more", "most", "must", "my", "myself", "neither", "no", "nor", "not", "now",
	"of", "off", "often", "on", "once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
	"same", "she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "thus", "to", "too",
	"under", "until", "up", "upon", "us", "very", "was", "wasn't", "we", "were", "weren't", "what", "when", "where",
	"whether", "which", "while", "who", "whom", "whose", "why", "will", "with", "within", "without", "won't", "would",
	"yet", "you", "your", "yours", "yourself", "yourselves",
}

var englishAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "mt", "vs", "etc", "e.g", "i.e", "cf", "al",
	"inc", "ltd", "co", "corp", "fig", "no", "vol", "pp", "approx", "dept", "est", "jan", "feb", "mar",
	"apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec", "u.s", "u.k", "ph.d", "a.m", "p.m",
}
