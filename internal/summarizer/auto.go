package summarizer

import (
	"studygen/internal/domain"
	"studygen/internal/features"
)

// Thresholds drive the auto selector. Zero values select defaults.
type Thresholds struct {
	ShortDocument  int     `yaml:"short_document" json:"short_document"`
	LongDocument   int     `yaml:"long_document" json:"long_document"`
	TechnicalRatio float64 `yaml:"technical_ratio" json:"technical_ratio"`
}

// DefaultThresholds are used for any zero field of Thresholds.
var DefaultThresholds = Thresholds{ShortDocument: 10, LongDocument: 40, TechnicalRatio: 0.25}

func (t Thresholds) withDefaults() Thresholds {
	if t.ShortDocument <= 0 {
		t.ShortDocument = DefaultThresholds.ShortDocument
	}
	if t.LongDocument <= 0 {
		t.LongDocument = DefaultThresholds.LongDocument
	}
	if t.TechnicalRatio <= 0 {
		t.TechnicalRatio = DefaultThresholds.TechnicalRatio
	}
	return t
}

// Select picks a concrete algorithm from measurable document features. The
// rules are checked in order and the first match wins:
//
//	fewer than ShortDocument sentences      frequency
//	technical token share >= TechnicalRatio latent
//	two headings, or many short paragraphs  feature
//	at least LongDocument sentences         graph_b
//	anything else                           graph_a
func Select(doc *domain.Document, set *features.Set, th Thresholds) Algorithm {
	th = th.withDefaults()
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	n := doc.Len()
	switch {
	case n < th.ShortDocument:
		return Frequency
	case set.TechnicalRatio() >= th.TechnicalRatio:
		return Latent
	case structured(doc):
		return Feature
	case n >= th.LongDocument:
		return GraphB
	default:
		return GraphA
	}
}

func structured(doc *domain.Document) bool {
	if len(doc.Headings) >= 2 {
		return true
	}
	return doc.Paragraphs >= 3 && float64(doc.Paragraphs)/float64(doc.Len()) >= 0.2
}
