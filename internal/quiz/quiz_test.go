package quiz_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"studygen/internal/cloze"
	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/quiz"
	"studygen/internal/tokenizer"
)

var plantText = strings.Join([]string{
	"Photosynthesis is the process plants use to turn light into chemical energy.",
	"Plants absorb water through their roots by drawing it up from the soil.",
	"Leaves appear green because chlorophyll reflects green light.",
	"The first photosynthesis experiments were carried out in 1779.",
	"Jan Ingenhousz worked in the Netherlands and in England.",
	"A single leaf can contain 500,000 chloroplasts per square millimetre.",
	"Chloroplasts are organelles that contain the green pigment chlorophyll.",
	"Oxygen is released into the air as a by-product of the reaction.",
}, " ")

func generate(t *testing.T, text string, n int) (*domain.Document, *domain.Quiz) {
	t.Helper()
	doc, err := tokenizer.Tokenize(text, nil)
	require.NoError(t, err)
	q, err := quiz.Generate(doc, features.Extract(doc, features.Options{}), n, quiz.Options{})
	require.NoError(t, err)
	return doc, q
}

func TestGenerateMixesItemTypes(t *testing.T) {
	_, q := generate(t, plantText, 10)
	require.Equal(t, 10, q.Requested)
	require.Equal(t, 10, q.Returned)
	require.Len(t, q.Items, 10)

	want := []domain.QuizKind{
		domain.QuizWh, domain.QuizTrueFalse, domain.QuizFillBlank,
		domain.QuizWh, domain.QuizTrueFalse, domain.QuizFillBlank,
		domain.QuizWh, domain.QuizTrueFalse, domain.QuizFillBlank,
		domain.QuizWh,
	}
	for i, item := range q.Items {
		require.Equal(t, want[i], item.Kind, "item %d", i)
	}
}

func TestGenerateItemsReferenceOneSentence(t *testing.T) {
	doc, q := generate(t, plantText, 10)
	altered := 0
	for _, item := range q.Items {
		require.Equal(t, doc.Sentences[item.Source.Index].Text, item.Source.Text)
		require.NotEmpty(t, item.ID)

		switch item.Kind {
		case domain.QuizWh:
			require.Contains(t, []string{"what", "how", "why", "when", "where"}, item.WhWord)
			require.Contains(t, item.Source.Text, item.Answer)
		case domain.QuizFillBlank:
			require.Contains(t, item.Prompt, cloze.FixedBlank)
			require.Equal(t, item.Source.Text, strings.Replace(item.Prompt, cloze.FixedBlank, item.Answer, 1))
		case domain.QuizTrueFalse:
			require.Equal(t, []string{"True", "False"}, item.Options)
			if !item.Altered {
				require.Nil(t, item.Edit)
				require.Equal(t, item.Source.Text, item.Prompt)
				require.Equal(t, "True", item.Answer)
				continue
			}
			altered++
			require.NotNil(t, item.Edit)
			require.Equal(t, "False", item.Answer)
			require.Equal(t, 1, item.CorrectOption)
			require.NotEqual(t, item.Source.Text, item.Prompt)
			require.Equal(t, item.Edit.Original, item.Source.Text[item.Edit.Start:item.Edit.End])
			require.Equal(t, item.Source.Text[:item.Edit.Start]+item.Edit.Replacement+item.Source.Text[item.Edit.End:], item.Prompt)
			require.NotEmpty(t, item.Explanation)
		}
		if item.Options != nil {
			require.LessOrEqual(t, len(item.Options), 4)
			require.Equal(t, item.Answer, item.Options[item.CorrectOption])
		} else {
			require.Equal(t, -1, item.CorrectOption)
		}
	}
	require.Positive(t, altered)
}

func TestGenerateIsIdempotent(t *testing.T) {
	_, a := generate(t, plantText, 7)
	_, b := generate(t, plantText, 7)
	require.Equal(t, a, b)
}

func TestGenerateShortfall(t *testing.T) {
	_, q := generate(t, "Cats purr.", 5)
	require.Equal(t, 5, q.Requested)
	require.Equal(t, len(q.Items), q.Returned)
	require.Less(t, q.Returned, 5)
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	doc, err := tokenizer.Tokenize(plantText, nil)
	require.NoError(t, err)
	_, err = quiz.Generate(doc, nil, -1, quiz.Options{})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		available [3]int
		want      [3]int
	}{
		{name: "even split", n: 10, available: [3]int{10, 10, 10}, want: [3]int{4, 3, 3}},
		{name: "largest remainder", n: 5, available: [3]int{10, 10, 10}, want: [3]int{2, 2, 1}},
		{name: "single", n: 1, available: [3]int{10, 10, 10}, want: [3]int{1, 0, 0}},
		{name: "reallocate shortfall", n: 10, available: [3]int{1, 10, 10}, want: [3]int{1, 5, 4}},
		{name: "exhausted", n: 10, available: [3]int{2, 1, 0}, want: [3]int{2, 1, 0}},
		{name: "nothing", n: 4, available: [3]int{}, want: [3]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, quiz.Allocate(tt.n, tt.available))
		})
	}
}
