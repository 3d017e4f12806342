package summarizer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"studygen/internal/domain"
	"studygen/internal/features"
)

// Algorithm names one of the supported sentence scoring strategies.
type Algorithm string

const (
	Auto      Algorithm = "auto"
	Frequency Algorithm = "frequency"
	GraphA    Algorithm = "graph_a"
	GraphB    Algorithm = "graph_b"
	Latent    Algorithm = "latent"
	Feature   Algorithm = "feature"
)

// Algorithms lists every selectable algorithm, auto first.
var Algorithms = []Algorithm{Auto, Frequency, GraphA, GraphB, Latent, Feature}

var aliases = map[string]Algorithm{
	"luhn":      Frequency,
	"textrank":  GraphA,
	"lexrank":   GraphB,
	"lsa":       Latent,
	"edmundson": Feature,
}

// ParseAlgorithm resolves an algorithm name. The names of the classic
// algorithms each variant follows (textrank, lexrank, lsa, luhn, edmundson)
// are accepted as aliases.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Auto, nil
	}
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	if a, ok := aliases[name]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, name)
}

// iterative reports whether the algorithm's cost grows super-linearly with
// the sentence count and is therefore subject to Options.MaxSentences.
func (a Algorithm) iterative() bool {
	return a == GraphA || a == GraphB || a == Latent
}

// Scorer assigns one score per sentence. Scores are returned, never stored on
// the document.
type Scorer interface {
	Score(doc *domain.Document, set *features.Set, opts Options) ([]float64, error)
}

// ScorerFor maps a concrete algorithm to its scorer.
func ScorerFor(a Algorithm) (Scorer, error) {
	switch a {
	case Frequency:
		return FrequencyScorer{}, nil
	case GraphA:
		return GraphScorer{Variant: TextRank}, nil
	case GraphB:
		return GraphScorer{Variant: LexRank}, nil
	case Latent:
		return LatentScorer{}, nil
	case Feature:
		return FeatureScorer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, a)
	}
}

// Options controls a summarization run.
type Options struct {
	Algorithm     Algorithm
	Ratio         float64
	SentenceCount int
	Weights       Weights
	MaxSentences  int
	Thresholds    Thresholds
}

const (
	DefaultRatio        = 0.3
	DefaultMaxSentences = 2000
)

func (o Options) validate() (Options, error) {
	if o.Ratio < 0 || o.Ratio > 1 || math.IsNaN(o.Ratio) {
		return o, fmt.Errorf("%w: summary ratio %v outside (0,1]", domain.ErrInvalidArgument, o.Ratio)
	}
	if o.SentenceCount < 0 {
		return o, fmt.Errorf("%w: sentence count %d is negative", domain.ErrInvalidArgument, o.SentenceCount)
	}
	if err := o.Weights.validate(); err != nil {
		return o, err
	}
	if o.Ratio == 0 {
		o.Ratio = DefaultRatio
	}
	if o.Algorithm == "" {
		o.Algorithm = Auto
	}
	if o.MaxSentences <= 0 {
		o.MaxSentences = DefaultMaxSentences
	}
	o.Thresholds = o.Thresholds.withDefaults()
	return o, nil
}

// Summarize scores every sentence with the requested (or auto-selected)
// algorithm and returns the top K sentences in document order.
func Summarize(doc *domain.Document, set *features.Set, opts Options) (*domain.Summary, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Len() == 0 {
		return nil, fmt.Errorf("%w: document has no sentences", domain.ErrInsufficientContent)
	}
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	algo := opts.Algorithm
	if algo == Auto {
		algo = Select(doc, set, opts.Thresholds)
	}
	if algo.iterative() && doc.Len() > opts.MaxSentences {
		return nil, fmt.Errorf("%w: %d sentences exceed the %s limit of %d", domain.ErrInputTooLarge, doc.Len(), algo, opts.MaxSentences)
	}
	scorer, err := ScorerFor(algo)
	if err != nil {
		return nil, err
	}
	scores, err := scorer.Score(doc, set, opts)
	if err != nil {
		return nil, fmt.Errorf("%s scoring: %w", algo, err)
	}
	picked := selectTop(doc, scores, Length(doc.Len(), opts.Ratio, opts.SentenceCount))

	summary := &domain.Summary{Algorithm: string(algo)}
	texts := make([]string, 0, len(picked))
	for _, i := range picked {
		s := doc.Sentences[i]
		summary.Sentences = append(summary.Sentences, domain.ScoredSentence{Index: s.Index, Text: s.Text, Score: scores[i]})
		texts = append(texts, s.Text)
	}
	summary.Text = strings.Join(texts, " ")
	summary.Stats = stats(doc, picked, summary.Text)
	return summary, nil
}

// Length is the number of sentences a summary keeps: the explicit count when
// given, round(n × ratio) otherwise, clamped to [1, n].
func Length(n int, ratio float64, count int) int {
	k := count
	if k <= 0 {
		k = int(math.Round(float64(n) * ratio))
	}
	return min(max(k, 1), n)
}

// selectTop picks the k best sentences, ties to the earlier sentence, skipping
// repeats of an already chosen sentence, and returns them in document order.
func selectTop(doc *domain.Document, scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
		if math.IsNaN(scores[i]) {
			scores[i] = 0
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa != sb {
			return sa > sb
		}
		return order[a] < order[b]
	})
	seen := make(map[string]struct{}, k)
	picked := make([]int, 0, k)
	for _, i := range order {
		if len(picked) == k {
			break
		}
		key := doc.Sentences[i].Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, i)
	}
	sort.Ints(picked)
	return picked
}

func stats(doc *domain.Document, picked []int, summaryText string) domain.SummaryStats {
	st := domain.SummaryStats{
		OriginalSentences: doc.Len(),
		SummarySentences:  len(picked),
		OriginalWords:     doc.WordCount(),
		SummaryChars:      utf8.RuneCountInString(summaryText),
	}
	all := make([]string, len(doc.Sentences))
	for i, s := range doc.Sentences {
		all[i] = s.Text
	}
	st.OriginalChars = utf8.RuneCountInString(strings.Join(all, " "))
	for _, i := range picked {
		st.SummaryWords += len(doc.Sentences[i].Tokens)
	}
	if st.OriginalWords > 0 {
		st.CompressionRatio = round1(float64(st.SummaryWords) / float64(st.OriginalWords) * 100)
		st.ReductionPercentage = round1(100 - st.CompressionRatio)
	}
	return st
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
