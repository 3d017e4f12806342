package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"studygen/internal/config"
	"studygen/internal/domain"
	"studygen/internal/summarizer"
)

const catsText = "Cats are mammals. Mammals are warm-blooded. Warm-blooded animals regulate body temperature."

var aiText = strings.Join([]string{
	"Artificial intelligence is the simulation of human intelligence by machines.",
	"Machine learning is a subset of artificial intelligence that lets computers learn from data.",
	"Machine learning models improve as they see more examples.",
	"Deep learning is a branch of machine learning based on neural networks.",
	"Neural networks are inspired by the structure of the human brain.",
	"Researchers trained the first neural networks in 1958.",
}, " ")

func newPipeline(t *testing.T, logger zerolog.Logger) *Pipeline {
	t.Helper()
	cfg, err := config.Load(t.TempDir() + "/absent.yaml")
	require.NoError(t, err)
	settings, err := SettingsFrom(cfg)
	require.NoError(t, err)
	return New(settings, logger)
}

func TestSummarize(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())
	summary, err := p.Summarize(catsText, SummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, "Mammals are warm-blooded.", summary.Text)
	require.Equal(t, string(summarizer.Frequency), summary.Algorithm)

	summary, err = p.Summarize(catsText, SummaryRequest{Algorithm: "textrank", SentenceCount: 2})
	require.NoError(t, err)
	require.Equal(t, string(summarizer.GraphA), summary.Algorithm)
	require.Len(t, summary.Sentences, 2)
}

func TestSummarizeErrors(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())

	_, err := p.Summarize("  \n\n ", SummaryRequest{})
	require.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = p.Summarize(catsText, SummaryRequest{Algorithm: "magic"})
	require.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = p.Summarize(catsText, SummaryRequest{Ratio: ratio(2)})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = p.Summarize(catsText, SummaryRequest{Ratio: ratio(0)})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSummarizeExplicitRatio(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())
	summary, err := p.Summarize(catsText, SummaryRequest{Ratio: ratio(1)})
	require.NoError(t, err)
	require.Len(t, summary.Sentences, 3)
}

func ratio(v float64) *float64 { return &v }

func TestFlashcardsAndQuiz(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())

	cards, err := p.Flashcards(aiText, 5)
	require.NoError(t, err)
	require.NotEmpty(t, cards.Cards)
	require.Equal(t, "Define: machine learning", cards.Cards[0].Prompt)

	q, err := p.Quiz(aiText, 6)
	require.NoError(t, err)
	require.Equal(t, 6, q.Requested)
	require.NotEmpty(t, q.Items)

	_, err = p.Flashcards(aiText, 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = p.Quiz(aiText, 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPrepareMemoizesLastText(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())

	doc, set, err := p.prepare(catsText)
	require.NoError(t, err)
	again, againSet, err := p.prepare(catsText + "  ")
	require.NoError(t, err)
	require.Same(t, doc, again)
	require.Same(t, set, againSet)

	other, _, err := p.prepare(aiText)
	require.NoError(t, err)
	require.NotSame(t, doc, other)
}

func TestInsights(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())
	in, err := p.Insights("The cat sat on the mat. The dog ran.")
	require.NoError(t, err)
	require.Equal(t, 9, in.Words)
	require.Equal(t, 36, in.Characters)
	require.Equal(t, 2, in.Sentences)
	require.Equal(t, 1, in.Paragraphs)
	require.Equal(t, "Elementary", in.ReadingLevel)
	require.InDelta(t, 0.045, in.ReadingMinutes, 1e-9)
	require.Equal(t, 0, in.PotentialCards)
	require.Equal(t, 0, in.Difficulty)
	require.Equal(t, "Easy", in.Assessment)
	require.Contains(t, in.Keywords, "cat")
	require.Equal(t, string(summarizer.Frequency), in.Algorithm)
}

func TestInsightsScalesWithLength(t *testing.T) {
	p := newPipeline(t, zerolog.Nop())
	text := strings.Repeat("Photosynthesis transforms sunlight into chemical energy. ", 30)
	in, err := p.Insights(text)
	require.NoError(t, err)
	require.Equal(t, 180, in.Words)
	require.InDelta(t, 0.9, in.ReadingMinutes, 1e-9)
	require.InDelta(t, 2.7, in.StudyMinutes, 1e-9)
	require.Equal(t, 2, in.PotentialCards)
	require.Equal(t, "College", in.ReadingLevel)
}

func TestReadingLevel(t *testing.T) {
	tests := map[float64]string{
		3.2: "Elementary",
		4.0: "Middle School",
		5.9: "High School",
		6.0: "College",
		8.4: "College",
	}
	for avg, want := range tests {
		require.Equal(t, want, ReadingLevel(avg), avg)
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		name                        string
		avgWord, avgSentence, ratio float64
		words                       int
		want                        int
		assessment                  string
	}{
		{name: "plain", avgWord: 3.5, avgSentence: 8, ratio: 0.01, words: 100, want: 0, assessment: "Easy"},
		{name: "moderate", avgWord: 4.5, avgSentence: 16, ratio: 0.06, words: 600, want: 40, assessment: "Moderate"},
		{name: "challenging", avgWord: 5.5, avgSentence: 18, ratio: 0.15, words: 1200, want: 60, assessment: "Challenging"},
		{name: "capped", avgWord: 7, avgSentence: 30, ratio: 0.4, words: 5000, want: 100, assessment: "Difficult"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Difficulty(tt.avgWord, tt.avgSentence, tt.ratio, tt.words)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.assessment, Assessment(got))
		})
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	p := newPipeline(t, zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := p.Summarize(catsText, SummaryRequest{})
	require.NoError(t, err)
	_, err = p.Flashcards(catsText, 50)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"message":"summary built"`)
	require.Contains(t, out, `"algorithm":"frequency"`)
	require.Contains(t, out, `"message":"flashcard shortfall"`)
}

func TestSettingsFromRejectsUnknownAlgorithm(t *testing.T) {
	cfg, err := config.Load(t.TempDir() + "/absent.yaml")
	require.NoError(t, err)
	cfg.Summarizer.Algorithm = "magic"
	_, err = SettingsFrom(cfg)
	require.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}
