// Package quiz builds wh-questions, true/false statements and fill-in-the-blank
// items from a tokenized document.
package quiz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"studygen/internal/cloze"
	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/matcher"
	"studygen/internal/tokenizer"
)

const (
	kindWh = iota
	kindTrueFalse
	kindFillBlank
	kindCount
)

const maxFactCapitalDensity = 0.5

// shares is the target mix of wh, true/false and fill-in-the-blank items.
var shares = [kindCount]float64{0.4, 0.3, 0.3}

// Options tunes quiz generation. Zero values select defaults.
type Options struct {
	Lexicon        *tokenizer.Lexicon
	MinBlankLength int
	MinFactWords   int
}

func (o Options) withDefaults() Options {
	if o.Lexicon == nil {
		o.Lexicon = tokenizer.DefaultLexicon()
	}
	if o.MinBlankLength <= 0 {
		o.MinBlankLength = cloze.DefaultMinLength
	}
	if o.MinFactWords <= 0 {
		o.MinFactWords = 6
	}
	return o
}

// Generate returns up to n quiz items. Item types are mixed 40/30/30 and
// types that run out of material hand their slots to the others. A shortfall
// is reported through Returned, never as an error.
func Generate(doc *domain.Document, set *features.Set, n int, opts Options) (*domain.Quiz, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: question count must be positive, got %d", domain.ErrInvalidArgument, n)
	}
	out := &domain.Quiz{Requested: n, Items: []domain.QuizItem{}}
	if doc == nil || doc.Len() == 0 {
		return out, nil
	}
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	opts = opts.withDefaults()

	order := byFrequency(set)
	wh := whItems(doc, order, opts)
	statements := trueFalseItems(set, factSentences(doc, set, order, opts))
	blanks := blankItems(doc, set, order, opts)

	alloc := Allocate(n, [kindCount]int{len(wh), len(statements), len(blanks)})
	withOptions(wh[:alloc[kindWh]], wh, set)
	withOptions(blanks[:alloc[kindFillBlank]], blanks, set)
	lists := [kindCount][]domain.QuizItem{
		wh[:alloc[kindWh]],
		statements[:alloc[kindTrueFalse]],
		blanks[:alloc[kindFillBlank]],
	}

	for i := 0; ; i++ {
		added := false
		for k := range lists {
			if i < len(lists[k]) {
				out.Items = append(out.Items, lists[k][i])
				added = true
			}
		}
		if !added {
			break
		}
	}
	out.Returned = len(out.Items)
	return out, nil
}

// Allocate splits n slots over the item types by largest remainder on the
// target shares. Slots a type cannot fill are redistributed over the types
// that still have material, in proportion to their shares, until every slot
// is used or no material is left.
func Allocate(n int, available [kindCount]int) [kindCount]int {
	var got [kindCount]int
	remaining := n
	for remaining > 0 {
		var weights [kindCount]float64
		total := 0.0
		for k := range shares {
			if available[k] > got[k] {
				weights[k] = shares[k]
				total += shares[k]
			}
		}
		if total == 0 {
			break
		}
		quota := largestRemainder(remaining, weights, total)
		added := 0
		for k := range quota {
			take := min(quota[k], available[k]-got[k])
			got[k] += take
			added += take
		}
		if added == 0 {
			break
		}
		remaining -= added
	}
	return got
}

func largestRemainder(m int, weights [kindCount]float64, total float64) [kindCount]int {
	var quota [kindCount]int
	var frac [kindCount]float64
	left := m
	for k, w := range weights {
		if w == 0 {
			continue
		}
		raw := float64(m) * w / total
		quota[k] = int(math.Floor(raw))
		frac[k] = raw - float64(quota[k])
		left -= quota[k]
	}
	idx := []int{0, 1, 2}
	sort.SliceStable(idx, func(a, b int) bool { return frac[idx[a]] > frac[idx[b]] })
	for _, k := range idx {
		if left == 0 {
			break
		}
		if weights[k] > 0 {
			quota[k]++
			left--
		}
	}
	return quota
}

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

func newItem(kind domain.QuizKind, prompt, answer string, s domain.Sentence) domain.QuizItem {
	return domain.QuizItem{
		ID:            domain.ArtifactID(string(kind), prompt, answer),
		Kind:          kind,
		Prompt:        prompt,
		Answer:        answer,
		CorrectOption: -1,
		Source:        s.Ref(),
	}
}

func whItems(doc *domain.Document, order []int, opts Options) []domain.QuizItem {
	ms := matcher.ForQuiz(opts.Lexicon)
	var items []domain.QuizItem
	for _, i := range order {
		s := doc.Sentences[i]
		m, ok := matcher.First(ms, s)
		if !ok {
			continue
		}
		item := newItem(domain.QuizWh, m.Question, m.Answer, s)
		item.WhWord = m.WhWord
		items = append(items, item)
	}
	return items
}

func blankItems(doc *domain.Document, set *features.Set, order []int, opts Options) []domain.QuizItem {
	var items []domain.QuizItem
	for _, i := range order {
		s := doc.Sentences[i]
		blank, ok := cloze.Pick(s, set, opts.MinBlankLength)
		if !ok {
			continue
		}
		items = append(items, newItem(domain.QuizFillBlank, blank.Apply(s.Text, cloze.FixedBlank), blank.Word, s))
	}
	return items
}

// factSentences returns declarative sentences long enough to make a
// true/false statement from. Headline-like sentences where most words are
// capitalized are left out.
func factSentences(doc *domain.Document, set *features.Set, order []int, opts Options) []domain.Sentence {
	var out []domain.Sentence
	for _, i := range order {
		s := doc.Sentences[i]
		if len(s.Tokens) < opts.MinFactWords || set.Sentences[i].CapitalDensity > maxFactCapitalDensity {
			continue
		}
		text := strings.TrimRight(s.Text, `"')]’”» `)
		if strings.HasSuffix(text, "?") || strings.HasSuffix(text, "!") {
			continue
		}
		out = append(out, s)
	}
	return out
}
