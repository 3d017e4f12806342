package summarizer

import (
	"studygen/internal/domain"
	"studygen/internal/features"
)

// FrequencyScorer ranks sentences by word frequency (stopwords filtered).
// Each content token contributes its max-normalized document frequency and
// the sum is divided by the square root of the content token count so long
// sentences are not favoured just for being long.
type FrequencyScorer struct{}

// Score returns the normalized term-frequency score of every sentence.
func (FrequencyScorer) Score(doc *domain.Document, set *features.Set, _ Options) ([]float64, error) {
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	scores := make([]float64, doc.Len())
	for i := range scores {
		scores[i] = set.Sentences[i].TermFrequency
	}
	return scores, nil
}
