// Package flashcard builds prompt/answer cards from a tokenized document.
package flashcard

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"studygen/internal/cloze"
	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/matcher"
	"studygen/internal/tokenizer"
)

// Options tunes card generation. Zero values select defaults.
type Options struct {
	MinClauseWords int
	MaxClauseWords int
	MinBlankLength int
	Lexicon        *tokenizer.Lexicon
}

func (o Options) withDefaults() Options {
	if o.MinClauseWords <= 0 {
		o.MinClauseWords = 2
	}
	if o.MaxClauseWords < o.MinClauseWords {
		o.MaxClauseWords = 30
	}
	if o.MinBlankLength <= 0 {
		o.MinBlankLength = cloze.DefaultMinLength
	}
	if o.Lexicon == nil {
		o.Lexicon = tokenizer.DefaultLexicon()
	}
	return o
}

// Generate returns up to n cards, interleaving keyword definitions, question
// and answer cards and fill-in-the-blank cards. Cards with an answer already
// used (ignoring case) are skipped. A shortfall is not an error; Returned
// tells the caller how many cards were found.
func Generate(doc *domain.Document, set *features.Set, n int, opts Options) (*domain.FlashcardSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: flashcard count must be positive, got %d", domain.ErrInvalidArgument, n)
	}
	out := &domain.FlashcardSet{Requested: n, Cards: []domain.Flashcard{}}
	if doc == nil || doc.Len() == 0 {
		return out, nil
	}
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	opts = opts.withDefaults()

	order := byFrequency(set)
	pools := [][]domain.Flashcard{
		definitionCards(doc, set, opts),
		questionCards(doc, order, opts),
		blankCards(doc, set, order, opts),
	}
	next := make([]int, len(pools))
	seen := make(map[string]struct{})
	for len(out.Cards) < n {
		progressed := false
		for p := range pools {
			if len(out.Cards) == n {
				break
			}
			for next[p] < len(pools[p]) {
				card := pools[p][next[p]]
				next[p]++
				key := strings.ToLower(card.Answer)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out.Cards = append(out.Cards, card)
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	out.Returned = len(out.Cards)
	return out, nil
}

// byFrequency orders sentence indexes by frequency score, ties to the earlier
// sentence.
func byFrequency(set *features.Set) []int {
	order := make([]int, len(set.Sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return set.Sentences[order[a]].TermFrequency > set.Sentences[order[b]].TermFrequency
	})
	return order
}

func newCard(kind domain.CardKind, prompt, answer string, s domain.Sentence) domain.Flashcard {
	return domain.Flashcard{
		ID:     domain.ArtifactID(string(kind), prompt, answer),
		Kind:   kind,
		Prompt: prompt,
		Answer: answer,
		Source: s.Ref(),
	}
}

func definitionCards(doc *domain.Document, set *features.Set, opts Options) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, kw := range set.Keywords {
		for _, s := range doc.Sentences {
			at := features.PhraseIndex(s, kw.Text)
			if at < 0 {
				continue
			}
			if start, end, ok := definingClause(s, at, at+kw.Words-1, opts); ok {
				cards = append(cards, newCard(domain.CardKeywordDefinition, "Define: "+kw.Text, s.Text[start:end], s))
			}
			break
		}
	}
	return cards
}

var copulas = []string{"is defined as", "refers to", "means", "is", "are", "was", "were"}

var determiners = map[string]struct{}{"the": {}, "a": {}, "an": {}, "this": {}, "these": {}, "that": {}, "those": {}}

const clauseStop = ".;!?"

// definingClause finds the clause that defines the term spanning tokens
// first..last: a copula complement or an appositive set off by commas or
// dashes. The copula form needs the term to head the subject.
func definingClause(s domain.Sentence, first, last int, opts Options) (int, int, bool) {
	from := s.Tokens[last].End
	rest := s.Text[from:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	offset := from + len(rest) - len(trimmed)

	var start, end int
	switch {
	case strings.HasPrefix(trimmed, ","):
		start = offset + 1
		closing := strings.IndexAny(s.Text[start:], ","+clauseStop)
		if closing < 0 || s.Text[start+closing] != ',' {
			return 0, 0, false
		}
		end = start + closing
	case dashed(rest):
		dash := strings.IndexFunc(rest, isDash)
		_, size := utf8.DecodeRuneInString(rest[dash:])
		start = from + dash + size
		end = clauseEnd(s.Text, start)
		if i := strings.IndexFunc(s.Text[start:end], isDash); i >= 0 {
			end = start + i
		}
	default:
		if !headsSubject(s, first) {
			return 0, 0, false
		}
		lower := strings.ToLower(trimmed)
		matched := false
		for _, c := range copulas {
			if strings.HasPrefix(lower, c+" ") {
				start = offset + len(c)
				matched = true
				break
			}
		}
		if !matched {
			return 0, 0, false
		}
		end = clauseEnd(s.Text, start)
	}

	clause := s.Text[start:end]
	start += len(clause) - len(strings.TrimLeftFunc(clause, unicode.IsSpace))
	end = start + len(strings.TrimSpace(clause))
	end = start + len(strings.TrimRight(s.Text[start:end], `"')]’”» `))
	if start >= end {
		return 0, 0, false
	}
	words := len(strings.Fields(s.Text[start:end]))
	if words < opts.MinClauseWords || words > opts.MaxClauseWords {
		return 0, 0, false
	}
	return start, end, true
}

// headsSubject reports whether the token at index first opens the sentence,
// allowing only determiners before it.
func headsSubject(s domain.Sentence, first int) bool {
	for _, tok := range s.Tokens[:first] {
		if _, ok := determiners[tok.Norm]; !ok {
			return false
		}
	}
	return true
}

// clauseEnd returns the offset of the first clause-ending punctuation at or
// after start that is not inside a number, or the end of the text.
func clauseEnd(text string, start int) int {
	for i := start; i < len(text); i++ {
		if !strings.ContainsRune(clauseStop, rune(text[i])) {
			continue
		}
		if text[i] == '.' && i+1 < len(text) && text[i+1] >= '0' && text[i+1] <= '9' {
			continue
		}
		return i
	}
	return len(text)
}

func dashed(rest string) bool {
	for _, prefix := range []string{" - ", " – ", " — "} {
		if strings.HasPrefix(rest, prefix) {
			return true
		}
	}
	return false
}

func isDash(r rune) bool { return r == '-' || r == '–' || r == '—' }

func questionCards(doc *domain.Document, order []int, opts Options) []domain.Flashcard {
	ms := matcher.ForFlashcards(opts.Lexicon)
	var cards []domain.Flashcard
	for _, i := range order {
		s := doc.Sentences[i]
		if m, ok := matcher.First(ms, s); ok {
			cards = append(cards, newCard(domain.CardQA, m.Question, m.Answer, s))
		}
	}
	return cards
}

func blankCards(doc *domain.Document, set *features.Set, order []int, opts Options) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, i := range order {
		s := doc.Sentences[i]
		blank, ok := cloze.Pick(s, set, opts.MinBlankLength)
		if !ok {
			continue
		}
		cards = append(cards, newCard(domain.CardFillBlank, blank.Apply(s.Text, cloze.Underscores(blank.Word)), blank.Word, s))
	}
	return cards
}
