package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/tokenizer"
)

func sentences(t *testing.T, text string) (*domain.Document, *features.Set) {
	t.Helper()
	doc, err := tokenizer.Tokenize(text, nil)
	require.NoError(t, err)
	return doc, features.Extract(doc, features.Options{})
}

func TestNegate(t *testing.T) {
	doc, _ := sentences(t, "The treaty was signed in 1648. The river is not deep here. Birds are never awake at noon.")

	edit := negate(doc.Sentences[0])
	require.NotNil(t, edit)
	require.Equal(t, "The treaty was not signed in 1648.", apply(doc.Sentences[0].Text, edit))

	edit = negate(doc.Sentences[1])
	require.NotNil(t, edit)
	require.Equal(t, "The river is deep here.", apply(doc.Sentences[1].Text, edit))

	require.Nil(t, negate(doc.Sentences[2]))
}

func TestNegateOnlyAuxiliaries(t *testing.T) {
	doc, _ := sentences(t, "Mammals have hair and give birth to live young animals. "+
		"The cell had a nucleus and a thin outer membrane. "+
		"The early settlers did the planting work each spring. "+
		"Mammals have evolved from small reptiles over time. "+
		"Most birds do not swim in cold water. "+
		"Some cells do divide many times each day.")

	for _, s := range doc.Sentences[:3] {
		require.Nil(t, negate(s), s.Text)
	}

	want := []string{
		"Mammals have not evolved from small reptiles over time.",
		"Most birds do swim in cold water.",
		"Some cells do not divide many times each day.",
	}
	for i, s := range doc.Sentences[3:] {
		edit := negate(s)
		require.NotNil(t, edit, s.Text)
		require.Equal(t, want[i], apply(s.Text, edit))
	}
}

func TestAlterNumberSkipsGluedDigits(t *testing.T) {
	doc, _ := sentences(t, "The Roman army finished 2nd in the long war against Carthage. "+
		"The 2nd battle of the war lasted 12 days in total.")

	require.Nil(t, alterNumber(doc.Sentences[0]))

	edit := alterNumber(doc.Sentences[1])
	require.NotNil(t, edit)
	require.Equal(t, "The 2nd battle of the war lasted 24 days in total.", apply(doc.Sentences[1].Text, edit))
}

func TestChangeNumber(t *testing.T) {
	tests := map[string]string{
		"1779":    "1789",
		"500,000": "1,000,000",
		"3.14":    "6.28",
		"0":       "1",
		"12":      "24",
	}
	for in, want := range tests {
		got, ok := changeNumber(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
}

func TestSwapKeyword(t *testing.T) {
	doc, set := sentences(t, "Artificial intelligence is the simulation of human intelligence by machines. "+
		"Machine learning is a subset of artificial intelligence that lets computers learn from data. "+
		"Machine learning models improve as they see more examples. "+
		"Deep learning is a branch of machine learning based on neural networks. "+
		"Neural networks are inspired by the structure of the human brain.")
	s := doc.Sentences[2]
	edit := swapKeyword(s, set)
	require.NotNil(t, edit)
	require.Equal(t, "Machine learning", edit.Original)
	require.Equal(t, "Artificial intelligence", edit.Replacement)
	require.Equal(t, "Artificial intelligence models improve as they see more examples.", apply(s.Text, edit))
}

func TestSingleRegion(t *testing.T) {
	rendered, ok := singleRegion("Water boils at 100 degrees.", "Water boils at 200 degrees.")
	require.True(t, ok)
	require.Equal(t, "Water boils at [-100-] {+200+} degrees.", rendered)

	rendered, ok = singleRegion("The river is deep.", "The river is not deep.")
	require.True(t, ok)
	require.Equal(t, "The river is {+not+} deep.", rendered)

	_, ok = singleRegion("a b c d", "x b c y")
	require.False(t, ok)

	_, ok = singleRegion("same text", "same text")
	require.False(t, ok)
}

func TestTrueFalseAlternates(t *testing.T) {
	doc, set := sentences(t, "The treaty was signed in 1648 by both sides. The old bridge was built from local stone. "+
		"Farmers grow wheat in the northern valleys. The festival is held on 12 streets in the square.")
	items := trueFalseItems(set, doc.Sentences)
	require.Len(t, items, 4)

	require.False(t, items[0].Altered)
	require.Equal(t, "True", items[0].Answer)
	require.Equal(t, 0, items[0].CorrectOption)

	require.True(t, items[1].Altered)
	require.Equal(t, editNegation, items[1].Edit.Kind)
	require.Equal(t, "The old bridge was not built from local stone.", items[1].Prompt)
	require.Equal(t, "The old bridge was {+not+} built from local stone.", items[1].Explanation)

	require.False(t, items[2].Altered)

	require.True(t, items[3].Altered)
	require.Equal(t, editNumber, items[3].Edit.Kind)
	require.Equal(t, "The festival is held on 24 streets in the square.", items[3].Prompt)
}

func TestTrueFalseSkipsUnfalsifiableFacts(t *testing.T) {
	doc, _ := sentences(t, "The treaty was signed in 1648 by both sides. Farmers grow wheat in the northern valleys. "+
		"The old bridge was built from local stone. Cats sleep through most of the warm day.")
	items := trueFalseItems(&features.Set{}, doc.Sentences)
	require.Len(t, items, 3)

	require.False(t, items[0].Altered)
	require.True(t, items[1].Altered)
	require.Equal(t, "The old bridge was not built from local stone.", items[1].Prompt)
	require.False(t, items[2].Altered)
	require.Equal(t, "Cats sleep through most of the warm day.", items[2].Prompt)
}

func TestFactSentencesSkipHeadlines(t *testing.T) {
	doc, set := sentences(t, "The United Nations General Assembly Met In New York Today. "+
		"The assembly met in New York on a rainy day.")
	facts := factSentences(doc, set, []int{0, 1}, Options{}.withDefaults())
	require.Len(t, facts, 1)
	require.Equal(t, 1, facts[0].Index)
}
