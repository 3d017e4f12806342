package cloze_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studygen/internal/cloze"
	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/tokenizer"
)

func firstSentence(t *testing.T, text string) domain.Sentence {
	t.Helper()
	doc, err := tokenizer.Tokenize(text, nil)
	require.NoError(t, err)
	return doc.Sentences[0]
}

func TestPickPrefersRankedKeywords(t *testing.T) {
	doc, err := tokenizer.Tokenize("Artificial intelligence is the simulation of human intelligence by machines. "+
		"Machine learning is a subset of artificial intelligence that lets computers learn from data. "+
		"Machine learning models improve as they see more examples. "+
		"Deep learning is a branch of machine learning based on neural networks. "+
		"Neural networks are inspired by the structure of the human brain.", nil)
	require.NoError(t, err)
	set := features.Extract(doc, features.Options{})

	blank, ok := cloze.Pick(doc.Sentences[4], set, 0)
	require.True(t, ok)
	require.Equal(t, "human", blank.Word)
	require.Equal(t, "human", doc.Sentences[4].Text[blank.Start:blank.End])
}

func TestPickFallbacks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "noun suffix", text: "The river carries sediment to the delta.", want: "sediment"},
		{name: "capitalized", text: "Ships sailed from Lisbon every spring.", want: "Lisbon"},
		{name: "longest", text: "Birds build nests quickly.", want: "quickly"},
		{name: "skips repeats and numbers", text: "Water boils at 100 degrees and water freezes.", want: "degrees"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blank, ok := cloze.Pick(firstSentence(t, tt.text), nil, 0)
			require.True(t, ok)
			require.Equal(t, tt.want, blank.Word)
		})
	}
}

func TestPickNothingQualifies(t *testing.T) {
	_, ok := cloze.Pick(firstSentence(t, "It is a cat."), nil, 0)
	require.False(t, ok)
}

func TestBlankRendering(t *testing.T) {
	s := firstSentence(t, "The river carries sediment to the delta.")
	blank, ok := cloze.Pick(s, nil, 0)
	require.True(t, ok)
	require.Equal(t, "The river carries __________ to the delta.", blank.Apply(s.Text, cloze.FixedBlank))
	require.Equal(t, "The river carries ________ to the delta.", blank.Apply(s.Text, cloze.Underscores(blank.Word)))
}
