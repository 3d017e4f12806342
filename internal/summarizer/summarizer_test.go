package summarizer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/summarizer"
	"studygen/internal/tokenizer"
)

const catsText = "Cats are mammals. Mammals are warm-blooded. Warm-blooded animals regulate body temperature."

var longText = strings.Join([]string{
	"The water cycle describes how water moves through the environment.",
	"Water evaporates from oceans and lakes when the sun heats the surface.",
	"The water vapour rises and cools in the upper atmosphere.",
	"Cooling vapour condenses into tiny droplets that form clouds.",
	"Clouds grow heavy as the droplets merge together.",
	"Eventually the droplets fall back to the ground as rain or snow.",
	"Rain collects in rivers that carry water back to the oceans.",
	"Some water soaks into the ground and becomes groundwater.",
	"Plants draw groundwater through their roots.",
	"Plants release water vapour through their leaves.",
	"This release from plants is called transpiration.",
	"The cycle repeats endlessly and keeps water moving around the planet.",
}, " ")

func tokenize(t *testing.T, text string) (*domain.Document, *features.Set) {
	t.Helper()
	doc, err := tokenizer.Tokenize(text, nil)
	require.NoError(t, err)
	return doc, features.Extract(doc, features.Options{})
}

func TestSummarizeSelectsMostFrequentSentence(t *testing.T) {
	doc, set := tokenize(t, catsText)
	summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: summarizer.Frequency, Ratio: 0.34})
	require.NoError(t, err)
	require.Equal(t, "Mammals are warm-blooded.", summary.Text)
	require.Equal(t, "frequency", summary.Algorithm)
	require.Len(t, summary.Sentences, 1)
	require.Equal(t, 1, summary.Sentences[0].Index)
}

func TestSummarizeLength(t *testing.T) {
	tests := []struct {
		n     int
		ratio float64
		count int
		want  int
	}{
		{n: 3, ratio: 0.34, want: 1},
		{n: 12, ratio: 0.3, want: 4},
		{n: 10, ratio: 0.25, want: 3},
		{n: 1, ratio: 0.1, want: 1},
		{n: 5, ratio: 1, want: 5},
		{n: 5, ratio: 0.3, count: 9, want: 5},
		{n: 5, ratio: 0.3, count: 2, want: 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%v_%d", tt.n, tt.ratio, tt.count), func(t *testing.T) {
			require.Equal(t, tt.want, summarizer.Length(tt.n, tt.ratio, tt.count))
		})
	}
}

func TestSummarizeEveryAlgorithmReturnsOrderedSubsequence(t *testing.T) {
	doc, set := tokenize(t, longText)
	for _, algo := range summarizer.Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: algo, Ratio: 0.3})
			require.NoError(t, err)
			require.Len(t, summary.Sentences, 4)
			require.NotEqual(t, "auto", summary.Algorithm)
			prev := -1
			for _, s := range summary.Sentences {
				require.Greater(t, s.Index, prev)
				require.Equal(t, doc.Sentences[s.Index].Text, s.Text)
				prev = s.Index
			}

			again, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: algo, Ratio: 0.3})
			require.NoError(t, err)
			require.Equal(t, summary, again)
		})
	}
}

func TestSummarizeFullRatioReturnsEverything(t *testing.T) {
	doc, set := tokenize(t, longText)
	summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: summarizer.GraphA, Ratio: 1})
	require.NoError(t, err)
	require.Len(t, summary.Sentences, doc.Len())
	require.Equal(t, 100.0, summary.Stats.CompressionRatio)
	require.Zero(t, summary.Stats.ReductionPercentage)
}

func TestSummarizeSingleSentence(t *testing.T) {
	doc, set := tokenize(t, "Photosynthesis turns light into chemical energy.")
	for _, algo := range summarizer.Algorithms {
		summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: algo, Ratio: 0.1})
		require.NoError(t, err, algo)
		require.Equal(t, "Photosynthesis turns light into chemical energy.", summary.Text, algo)
	}
}

func TestSummarizeSkipsRepeatedSentences(t *testing.T) {
	doc, set := tokenize(t, "Rivers carry water to the sea. Rivers carry water to the sea. Lakes hold still water.")
	summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: summarizer.Frequency, SentenceCount: 2})
	require.NoError(t, err)
	require.Equal(t, "Rivers carry water to the sea. Lakes hold still water.", summary.Text)
}

func TestSummarizeStats(t *testing.T) {
	doc, set := tokenize(t, catsText)
	summary, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: summarizer.Frequency, Ratio: 0.34})
	require.NoError(t, err)
	require.Equal(t, domain.SummaryStats{
		OriginalSentences:   3,
		SummarySentences:    1,
		OriginalWords:       11,
		SummaryWords:        3,
		OriginalChars:       len(catsText),
		SummaryChars:        len("Mammals are warm-blooded."),
		CompressionRatio:    27.3,
		ReductionPercentage: 72.7,
	}, summary.Stats)
}

func TestSummarizeErrors(t *testing.T) {
	doc, set := tokenize(t, catsText)

	_, err := summarizer.Summarize(doc, set, summarizer.Options{Ratio: 1.5})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = summarizer.Summarize(doc, set, summarizer.Options{Ratio: -0.2})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = summarizer.Summarize(doc, set, summarizer.Options{Algorithm: "magic"})
	require.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = summarizer.Summarize(&domain.Document{}, nil, summarizer.Options{})
	require.ErrorIs(t, err, domain.ErrInsufficientContent)

	_, err = summarizer.Summarize(doc, set, summarizer.Options{Weights: summarizer.Weights{Position: -1}})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSummarizeSentenceCeiling(t *testing.T) {
	doc, set := tokenize(t, longText)
	for _, algo := range []summarizer.Algorithm{summarizer.GraphA, summarizer.GraphB, summarizer.Latent} {
		_, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: algo, MaxSentences: 5})
		require.ErrorIs(t, err, domain.ErrInputTooLarge, algo)
	}
	_, err := summarizer.Summarize(doc, set, summarizer.Options{Algorithm: summarizer.Frequency, MaxSentences: 5})
	require.NoError(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]summarizer.Algorithm{
		"":          summarizer.Auto,
		"auto":      summarizer.Auto,
		"Graph_A":   summarizer.GraphA,
		"textrank":  summarizer.GraphA,
		"lexrank":   summarizer.GraphB,
		"lsa":       summarizer.Latent,
		"luhn":      summarizer.Frequency,
		"edmundson": summarizer.Feature,
		" feature ": summarizer.Feature,
	}
	for in, want := range tests {
		got, err := summarizer.ParseAlgorithm(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := summarizer.ParseAlgorithm("bogus")
	require.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestSelect(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		doc, set := tokenize(t, catsText)
		require.Equal(t, summarizer.Frequency, summarizer.Select(doc, set, summarizer.Thresholds{}))
	})
	t.Run("plain", func(t *testing.T) {
		doc, set := tokenize(t, longText)
		require.Equal(t, summarizer.GraphA, summarizer.Select(doc, set, summarizer.Thresholds{}))
	})
	t.Run("long", func(t *testing.T) {
		doc, set := tokenize(t, longText)
		require.Equal(t, summarizer.GraphB, summarizer.Select(doc, set, summarizer.Thresholds{LongDocument: 12}))
	})
	t.Run("structured", func(t *testing.T) {
		text := "# Evaporation\n\n" + longText[:strings.Index(longText, "Clouds")] + "\n\n# Precipitation\n\n" + longText[strings.Index(longText, "Clouds"):]
		doc, set := tokenize(t, text)
		require.Len(t, doc.Headings, 2)
		require.Equal(t, summarizer.Feature, summarizer.Select(doc, set, summarizer.Thresholds{}))
	})
	t.Run("technical", func(t *testing.T) {
		doc, set := tokenize(t, longText)
		require.Equal(t, summarizer.Latent, summarizer.Select(doc, set, summarizer.Thresholds{TechnicalRatio: 0.01}))
	})
}

func TestScorersReturnOneScorePerSentence(t *testing.T) {
	doc, set := tokenize(t, longText)
	for _, algo := range summarizer.Algorithms[1:] {
		scorer, err := summarizer.ScorerFor(algo)
		require.NoError(t, err)
		scores, err := scorer.Score(doc, set, summarizer.Options{})
		require.NoError(t, err)
		require.Len(t, scores, doc.Len(), algo)
		for _, s := range scores {
			require.GreaterOrEqual(t, s, 0.0)
		}
	}
	_, err := summarizer.ScorerFor(summarizer.Auto)
	require.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestGraphScoresSumToOne(t *testing.T) {
	doc, set := tokenize(t, longText)
	for _, v := range []summarizer.GraphVariant{summarizer.TextRank, summarizer.LexRank} {
		scores, err := summarizer.GraphScorer{Variant: v}.Score(doc, set, summarizer.Options{})
		require.NoError(t, err)
		total := 0.0
		for _, s := range scores {
			total += s
		}
		require.InDelta(t, 1.0, total, 1e-6)
	}
}
