package summarizer

import (
	"fmt"

	"studygen/internal/domain"
	"studygen/internal/features"
)

// Weights are the coefficients of the feature-weighted scorer. The zero value
// selects DefaultWeights.
type Weights struct {
	Position  float64 `yaml:"position" json:"position"`
	Length    float64 `yaml:"length" json:"length"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Keyword   float64 `yaml:"keyword" json:"keyword"`
}

// DefaultWeights favour term frequency, then position and keyword presence.
var DefaultWeights = Weights{Position: 0.25, Length: 0.15, Frequency: 0.35, Keyword: 0.25}

func (w Weights) isZero() bool { return w == Weights{} }

func (w Weights) validate() error {
	if w.Position < 0 || w.Length < 0 || w.Frequency < 0 || w.Keyword < 0 {
		return fmt.Errorf("%w: feature weights must not be negative", domain.ErrInvalidArgument)
	}
	return nil
}

// FeatureScorer combines position, length, frequency and keyword presence
// linearly. Every feature is scaled to [0,1] before weighting.
type FeatureScorer struct{}

func (FeatureScorer) Score(doc *domain.Document, set *features.Set, opts Options) ([]float64, error) {
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	w := opts.Weights
	if w.isZero() {
		w = DefaultWeights
	}
	maxFreq, maxKeywords := 0.0, 0
	for _, f := range set.Sentences {
		maxFreq = max(maxFreq, f.TermFrequency)
		maxKeywords = max(maxKeywords, len(f.Keywords))
	}
	scores := make([]float64, doc.Len())
	for i, f := range set.Sentences {
		freq, kw := 0.0, 0.0
		if maxFreq > 0 {
			freq = f.TermFrequency / maxFreq
		}
		if maxKeywords > 0 {
			kw = float64(len(f.Keywords)) / float64(maxKeywords)
		}
		scores[i] = w.Position*f.Position + w.Length*f.Length + w.Frequency*freq + w.Keyword*kw
	}
	return scores, nil
}
