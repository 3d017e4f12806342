package features

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"studygen/internal/domain"
)

// Options tunes feature extraction. Zero values select defaults.
type Options struct {
	KeywordLimit     int
	MinKeywordLength int
	MinWords         int
	MaxWords         int
}

func (o Options) withDefaults() Options {
	if o.KeywordLimit <= 0 {
		o.KeywordLimit = 10
	}
	if o.MinKeywordLength <= 0 {
		o.MinKeywordLength = 3
	}
	if o.MinWords <= 0 {
		o.MinWords = 6
	}
	if o.MaxWords < o.MinWords {
		o.MaxWords = 30
	}
	return o
}

// Keyword is a ranked term or two-word phrase.
type Keyword struct {
	Text          string
	Words         int
	Frequency     int
	Score         float64
	FirstSentence int
	firstOrdinal  int
}

// SentenceFeatures holds the score components of one sentence. All components
// are in [0,1] except TermFrequency, which is normalized across sentences by
// the scorers that use it.
type SentenceFeatures struct {
	TermFrequency  float64
	Position       float64
	Length         float64
	CapitalDensity float64
	Keywords       []string
	Terms          []string
}

// Set is the feature view of one document. It is read-only after Extract.
type Set struct {
	Sentences []SentenceFeatures
	Keywords  []Keyword

	terms     []domain.Term
	index     map[string]int
	counts    []map[string]int
	technical float64
}

// Extract computes term statistics, sentence features and ranked keywords.
// Identical documents always produce identical sets.
func Extract(doc *domain.Document, opts Options) *Set {
	opts = opts.withDefaults()
	s := &Set{index: make(map[string]int)}

	ordinal := 0
	firstOrdinal := make(map[string]int)
	technical, content := 0, 0
	s.counts = make([]map[string]int, len(doc.Sentences))
	for i, sent := range doc.Sentences {
		s.counts[i] = make(map[string]int)
		for _, tok := range sent.Tokens {
			ordinal++
			if tok.Stop {
				continue
			}
			content++
			if isTechnical(tok) {
				technical++
			}
			s.counts[i][tok.Norm]++
			if idx, ok := s.index[tok.Norm]; ok {
				s.terms[idx].Frequency++
				continue
			}
			s.index[tok.Norm] = len(s.terms)
			firstOrdinal[tok.Norm] = ordinal
			s.terms = append(s.terms, domain.Term{Text: tok.Norm, Frequency: 1, FirstSentence: i})
		}
	}
	if content > 0 {
		s.technical = float64(technical) / float64(content)
	}

	s.Keywords = rankKeywords(doc, s, firstOrdinal, opts)
	s.Sentences = sentenceFeatures(doc, s, opts)
	return s
}

// Terms returns the content terms in first-occurrence order.
func (s *Set) Terms() []domain.Term {
	out := make([]domain.Term, len(s.terms))
	copy(out, s.terms)
	return out
}

// Frequency returns the document frequency count of a normalized term.
func (s *Set) Frequency(term string) int {
	if idx, ok := s.index[term]; ok {
		return s.terms[idx].Frequency
	}
	return 0
}

// KeywordRank returns the 0-based rank of a keyword.
func (s *Set) KeywordRank(text string) (int, bool) {
	for i, kw := range s.Keywords {
		if kw.Text == text {
			return i, true
		}
	}
	return 0, false
}

// TechnicalRatio is the share of content tokens that look technical: long
// words, words with digits or hyphens, and acronyms.
func (s *Set) TechnicalRatio() float64 { return s.technical }

// TermSentenceMatrix returns tf·idf weights with one row per content term (in
// first-occurrence order) and one column per sentence.
func (s *Set) TermSentenceMatrix() [][]float64 {
	n := float64(len(s.counts))
	out := make([][]float64, len(s.terms))
	for r, term := range s.terms {
		df := 0
		for _, c := range s.counts {
			if c[term.Text] > 0 {
				df++
			}
		}
		idf := math.Log((1+n)/(1+float64(df))) + 1.0
		row := make([]float64, len(s.counts))
		for c, counts := range s.counts {
			row[c] = float64(counts[term.Text]) * idf
		}
		out[r] = row
	}
	return out
}

func sentenceFeatures(doc *domain.Document, s *Set, opts Options) []SentenceFeatures {
	maxFreq := 0
	for _, t := range s.terms {
		maxFreq = max(maxFreq, t.Frequency)
	}
	headingTerms := make(map[string]struct{})
	for _, h := range doc.Headings {
		for _, w := range strings.FieldsFunc(strings.ToLower(h), notWordRune) {
			headingTerms[w] = struct{}{}
		}
	}

	n := len(doc.Sentences)
	out := make([]SentenceFeatures, n)
	for i, sent := range doc.Sentences {
		var f SentenceFeatures
		contentCount := 0
		seen := make(map[string]struct{})
		overlap := 0
		for _, tok := range sent.Tokens {
			if tok.Stop {
				continue
			}
			contentCount++
			if maxFreq > 0 {
				f.TermFrequency += float64(s.Frequency(tok.Norm)) / float64(maxFreq)
			}
			if _, ok := seen[tok.Norm]; ok {
				continue
			}
			seen[tok.Norm] = struct{}{}
			f.Terms = append(f.Terms, tok.Norm)
			if _, ok := headingTerms[tok.Norm]; ok {
				overlap++
			}
		}
		if contentCount > 0 {
			f.TermFrequency /= math.Sqrt(float64(contentCount))
		}

		decay := 1 - float64(i)/float64(n)
		title := 0.0
		if sent.ParagraphStart {
			title = 0.5
		}
		switch {
		case overlap >= 2:
			title = 1
		case overlap == 1:
			title = max(title, 0.75)
		}
		f.Position = 0.7*decay + 0.3*title

		words := len(sent.Tokens)
		switch {
		case words < opts.MinWords:
			f.Length = float64(words) / float64(opts.MinWords)
		case words > opts.MaxWords:
			f.Length = float64(opts.MaxWords) / float64(words)
		default:
			f.Length = 1
		}

		if words > 1 {
			caps := 0
			for _, tok := range sent.Tokens[1:] {
				r, _ := utf8.DecodeRuneInString(tok.Text)
				if unicode.IsUpper(r) {
					caps++
				}
			}
			f.CapitalDensity = float64(caps) / float64(words)
		}

		for _, kw := range s.Keywords {
			if ContainsPhrase(sent, kw.Text) {
				f.Keywords = append(f.Keywords, kw.Text)
			}
		}
		out[i] = f
	}
	return out
}

func rankKeywords(doc *domain.Document, s *Set, firstOrdinal map[string]int, opts Options) []Keyword {
	var candidates []Keyword
	for _, t := range s.terms {
		if !keywordWord(t.Text, opts.MinKeywordLength) {
			continue
		}
		candidates = append(candidates, Keyword{
			Text:          t.Text,
			Words:         1,
			Frequency:     t.Frequency,
			Score:         float64(t.Frequency),
			FirstSentence: t.FirstSentence,
			firstOrdinal:  firstOrdinal[t.Text],
		})
	}

	type phrase struct {
		count, sentence, ordinal int
	}
	phrases := make(map[string]*phrase)
	var order []string
	ordinal := 0
	for i, sent := range doc.Sentences {
		for j, tok := range sent.Tokens {
			ordinal++
			if j == 0 {
				continue
			}
			prev := sent.Tokens[j-1]
			if prev.Stop || tok.Stop || !keywordWord(prev.Norm, opts.MinKeywordLength) || !keywordWord(tok.Norm, opts.MinKeywordLength) {
				continue
			}
			key := prev.Norm + " " + tok.Norm
			if p, ok := phrases[key]; ok {
				p.count++
				continue
			}
			phrases[key] = &phrase{count: 1, sentence: i, ordinal: ordinal - 1}
			order = append(order, key)
		}
	}
	for _, key := range order {
		p := phrases[key]
		if p.count < 2 {
			continue
		}
		candidates = append(candidates, Keyword{
			Text:          key,
			Words:         2,
			Frequency:     p.count,
			Score:         float64(p.count * 2),
			FirstSentence: p.sentence,
			firstOrdinal:  p.ordinal,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].firstOrdinal != candidates[j].firstOrdinal {
			return candidates[i].firstOrdinal < candidates[j].firstOrdinal
		}
		return candidates[i].Words > candidates[j].Words
	})

	var out []Keyword
	for _, c := range candidates {
		if len(out) == opts.KeywordLimit {
			break
		}
		if c.Words == 1 && coveredByPhrase(out, c.Text) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func coveredByPhrase(selected []Keyword, word string) bool {
	for _, kw := range selected {
		if kw.Words < 2 {
			continue
		}
		for _, w := range strings.Fields(kw.Text) {
			if w == word {
				return true
			}
		}
	}
	return false
}

// ContainsPhrase reports whether the sentence contains the normalized word or
// space-separated phrase as consecutive tokens.
func ContainsPhrase(sent domain.Sentence, phrase string) bool {
	return PhraseIndex(sent, phrase) >= 0
}

// PhraseIndex returns the index of the first token of phrase in the sentence,
// or -1.
func PhraseIndex(sent domain.Sentence, phrase string) int {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return -1
	}
	for i := 0; i+len(words) <= len(sent.Tokens); i++ {
		match := true
		for k, w := range words {
			if sent.Tokens[i+k].Norm != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func keywordWord(norm string, minLen int) bool {
	if utf8.RuneCountInString(norm) < minLen {
		return false
	}
	for _, r := range norm {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isTechnical(tok domain.Token) bool {
	if utf8.RuneCountInString(tok.Norm) >= 9 {
		return true
	}
	letters, upper := 0, 0
	for _, r := range tok.Text {
		switch {
		case unicode.IsDigit(r), r == '-':
			return true
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 2 && upper == letters
}

func notWordRune(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' }
