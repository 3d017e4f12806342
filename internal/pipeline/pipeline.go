// Package pipeline ties tokenization, feature extraction and the generators
// together behind the four calls the adapters use.
package pipeline

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"studygen/internal/config"
	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/flashcard"
	"studygen/internal/quiz"
	"studygen/internal/summarizer"
	"studygen/internal/tokenizer"
)

const (
	wordsPerMinute = 200
	studyFactor    = 3
	wordsPerCard   = 75

	complexWordLength = 7
)

// Settings are the generator defaults a Pipeline applies to every call.
type Settings struct {
	Lexicon    *tokenizer.Lexicon
	Features   features.Options
	Summary    summarizer.Options
	Flashcards flashcard.Options
	Quiz       quiz.Options
}

// SettingsFrom maps the application config onto generator options.
func SettingsFrom(cfg *config.AppConfig) (Settings, error) {
	algo, err := summarizer.ParseAlgorithm(cfg.Summarizer.Algorithm)
	if err != nil {
		return Settings{}, err
	}
	lex := tokenizer.DefaultLexicon()
	return Settings{
		Lexicon:  lex,
		Features: features.Options{KeywordLimit: cfg.Summarizer.KeywordLimit},
		Summary: summarizer.Options{
			Algorithm:    algo,
			Ratio:        cfg.Summarizer.Ratio,
			Weights:      cfg.Summarizer.Weights,
			MaxSentences: cfg.Summarizer.MaxSentences,
			Thresholds:   cfg.Summarizer.Auto,
		},
		Flashcards: flashcard.Options{
			MinBlankLength: cfg.Flashcards.MinBlankLength,
			MaxClauseWords: cfg.Flashcards.MaxClauseWords,
			Lexicon:        lex,
		},
		Quiz: quiz.Options{
			Lexicon:        lex,
			MinBlankLength: cfg.Flashcards.MinBlankLength,
			MinFactWords:   cfg.Quiz.MinFactWords,
		},
	}, nil
}

// SummaryRequest carries per-call overrides. Zero fields fall back to the
// pipeline settings. Ratio is a pointer so that an explicit 0 is rejected
// rather than read as "use the default".
type SummaryRequest struct {
	Algorithm     string
	Ratio         *float64
	SentenceCount int
	Weights       summarizer.Weights
}

// Pipeline runs the study generators over raw text. It remembers the
// tokenized document of the last text it saw so that asking for a summary,
// cards and a quiz of the same text tokenizes it once. A Pipeline is not
// safe for concurrent use.
type Pipeline struct {
	settings Settings
	logger   zerolog.Logger

	lastKey string
	doc     *domain.Document
	set     *features.Set
}

// New creates a pipeline. A nil lexicon selects the default English one.
func New(settings Settings, logger zerolog.Logger) *Pipeline {
	if settings.Lexicon == nil {
		settings.Lexicon = tokenizer.DefaultLexicon()
	}
	return &Pipeline{settings: settings, logger: logger}
}

// Summarize extracts the most salient sentences of text.
func (p *Pipeline) Summarize(text string, req SummaryRequest) (*domain.Summary, error) {
	opts := p.settings.Summary
	if req.Algorithm != "" {
		algo, err := summarizer.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return nil, err
		}
		opts.Algorithm = algo
	}
	if req.Ratio != nil {
		if *req.Ratio <= 0 {
			return nil, fmt.Errorf("summarize: %w: summary ratio %v outside (0,1]", domain.ErrInvalidArgument, *req.Ratio)
		}
		opts.Ratio = *req.Ratio
	}
	opts.SentenceCount = req.SentenceCount
	if req.Weights != (summarizer.Weights{}) {
		opts.Weights = req.Weights
	}

	doc, set, err := p.prepare(text)
	if err != nil {
		return nil, err
	}
	summary, err := summarizer.Summarize(doc, set, opts)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	p.logger.Debug().
		Str("requested", string(opts.Algorithm)).
		Str("algorithm", summary.Algorithm).
		Int("sentences", doc.Len()).
		Int("kept", summary.Stats.SummarySentences).
		Msg("summary built")
	return summary, nil
}

// Flashcards returns up to n flashcards for text.
func (p *Pipeline) Flashcards(text string, n int) (*domain.FlashcardSet, error) {
	doc, set, err := p.prepare(text)
	if err != nil {
		return nil, err
	}
	cards, err := flashcard.Generate(doc, set, n, p.settings.Flashcards)
	if err != nil {
		return nil, fmt.Errorf("flashcards: %w", err)
	}
	if cards.Returned < cards.Requested {
		p.logger.Debug().Int("requested", cards.Requested).Int("returned", cards.Returned).Msg("flashcard shortfall")
	}
	return cards, nil
}

// Quiz returns up to n quiz items for text.
func (p *Pipeline) Quiz(text string, n int) (*domain.Quiz, error) {
	doc, set, err := p.prepare(text)
	if err != nil {
		return nil, err
	}
	q, err := quiz.Generate(doc, set, n, p.settings.Quiz)
	if err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}
	if q.Returned < q.Requested {
		p.logger.Debug().Int("requested", q.Requested).Int("returned", q.Returned).Msg("quiz shortfall")
	}
	return q, nil
}

// Insights reports size, reading level, difficulty and study estimates for
// text, along with the algorithm auto selection would use.
func (p *Pipeline) Insights(text string) (*domain.Insights, error) {
	doc, set, err := p.prepare(text)
	if err != nil {
		return nil, err
	}
	words, letters, long := 0, 0, 0
	for _, s := range doc.Sentences {
		for _, t := range s.Tokens {
			n := utf8.RuneCountInString(t.Text)
			words++
			letters += n
			if n > complexWordLength {
				long++
			}
		}
	}
	avgWord := float64(letters) / float64(words)
	reading := float64(words) / wordsPerMinute
	keywords := make([]string, 0, len(set.Keywords))
	for _, kw := range set.Keywords {
		keywords = append(keywords, kw.Text)
	}
	difficulty := Difficulty(avgWord, float64(words)/float64(doc.Len()), float64(long)/float64(words), words)
	return &domain.Insights{
		Words:          words,
		Characters:     utf8.RuneCountInString(tokenizer.Normalize(text)),
		Sentences:      doc.Len(),
		Paragraphs:     doc.Paragraphs,
		ReadingLevel:   ReadingLevel(avgWord),
		ReadingMinutes: reading,
		StudyMinutes:   reading * studyFactor,
		PotentialCards: words / wordsPerCard,
		Difficulty:     difficulty,
		Assessment:     Assessment(difficulty),
		Keywords:       keywords,
		Algorithm:      string(summarizer.Select(doc, set, p.settings.Summary.Thresholds)),
	}, nil
}

// ReadingLevel maps an average word length in letters to a coarse band.
func ReadingLevel(avgWordLength float64) string {
	switch {
	case avgWordLength < 4:
		return "Elementary"
	case avgWordLength < 5:
		return "Middle School"
	case avgWordLength < 6:
		return "High School"
	default:
		return "College"
	}
}

// Difficulty scores a text from 0 to 100 by adding points for long words,
// long sentences, a high share of complex words and overall length.
func Difficulty(avgWordLength, avgSentenceLength, complexRatio float64, words int) int {
	score := band(avgWordLength, []float64{6, 5, 4}, []int{30, 20, 10}) +
		band(avgSentenceLength, []float64{20, 15, 10}, []int{25, 15, 5}) +
		band(complexRatio, []float64{0.2, 0.1, 0.05}, []int{25, 15, 10}) +
		band(float64(words), []float64{2000, 1000, 500}, []int{20, 10, 5})
	return min(score, 100)
}

// band returns the points of the first limit v exceeds.
func band(v float64, limits []float64, points []int) int {
	for i, limit := range limits {
		if v > limit {
			return points[i]
		}
	}
	return 0
}

// Assessment names the difficulty band of a score.
func Assessment(score int) string {
	switch {
	case score < 25:
		return "Easy"
	case score < 50:
		return "Moderate"
	case score < 75:
		return "Challenging"
	default:
		return "Difficult"
	}
}

func (p *Pipeline) prepare(text string) (*domain.Document, *features.Set, error) {
	normalized := tokenizer.Normalize(text)
	key := hashString(normalized)
	if p.doc != nil && key == p.lastKey {
		return p.doc, p.set, nil
	}
	doc, err := tokenizer.Tokenize(normalized, p.settings.Lexicon)
	if err != nil {
		return nil, nil, fmt.Errorf("tokenize: %w", err)
	}
	p.lastKey, p.doc = key, doc
	p.set = features.Extract(doc, p.settings.Features)
	p.logger.Debug().Int("sentences", doc.Len()).Int("headings", len(doc.Headings)).Msg("document prepared")
	return p.doc, p.set, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
