// Package format renders study artifacts as plain display text.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"studygen/internal/domain"
)

var printer = message.NewPrinter(language.English)

var cardLabels = map[domain.CardKind]string{
	domain.CardKeywordDefinition: "Definition",
	domain.CardQA:                "Question",
	domain.CardFillBlank:         "Fill in the blank",
}

// Summary renders the summary text followed by its statistics.
func Summary(s *domain.Summary) string {
	if s == nil {
		return ""
	}
	st := s.Stats
	var b strings.Builder
	b.WriteString(s.Text)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Algorithm: %s\n", s.Algorithm)
	fmt.Fprintf(&b, "Sentences: %s of %s\n", count(st.SummarySentences), count(st.OriginalSentences))
	fmt.Fprintf(&b, "Words: %s of %s\n", count(st.SummaryWords), count(st.OriginalWords))
	fmt.Fprintf(&b, "Compression: %.1f%% (%.1f%% shorter)", st.CompressionRatio, st.ReductionPercentage)
	return b.String()
}

// Flashcards renders numbered front/back pairs.
func Flashcards(set *domain.FlashcardSet) string {
	if set == nil || len(set.Cards) == 0 {
		return "No flashcards could be generated from this text."
	}
	var b strings.Builder
	for i, c := range set.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, cardLabels[c.Kind], c.Prompt)
		fmt.Fprintf(&b, "   Answer: %s\n", c.Answer)
	}
	b.WriteString(shortfall(set.Requested, set.Returned, "flashcards"))
	return strings.TrimRight(b.String(), "\n")
}

// Quiz renders the questions with lettered options and without answers.
func Quiz(q *domain.Quiz) string {
	if q == nil || len(q.Items) == 0 {
		return "No quiz questions could be generated from this text."
	}
	var b strings.Builder
	for i, item := range q.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		prompt := item.Prompt
		if item.Kind == domain.QuizTrueFalse {
			prompt = "True or false: " + prompt
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, prompt)
		for j, opt := range item.Options {
			fmt.Fprintf(&b, "   %s) %s\n", Letter(j), opt)
		}
	}
	b.WriteString(shortfall(q.Requested, q.Returned, "questions"))
	return strings.TrimRight(b.String(), "\n")
}

// AnswerKey renders the answer of every quiz item, with the edit made to
// each false statement.
func AnswerKey(q *domain.Quiz) string {
	if q == nil || len(q.Items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Answer key\n")
	for i, item := range q.Items {
		answer := item.Answer
		if item.CorrectOption >= 0 && item.CorrectOption < len(item.Options) {
			answer = Letter(item.CorrectOption) + ") " + answer
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, answer)
		if item.Altered && item.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", item.Explanation)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Insights renders text statistics and study estimates.
func Insights(in *domain.Insights) string {
	if in == nil {
		return ""
	}
	lines := []string{
		"Words: " + count(in.Words),
		"Characters: " + count(in.Characters),
		"Sentences: " + count(in.Sentences),
		"Paragraphs: " + count(in.Paragraphs),
		"Reading Level: " + in.ReadingLevel,
		"Reading Time: " + Duration(in.ReadingMinutes),
		"Study Time: " + Duration(in.StudyMinutes),
		fmt.Sprintf("Potential Cards: ~%d", in.PotentialCards),
		fmt.Sprintf("Assessment: %s (%d/100)", in.Assessment, in.Difficulty),
		"Suggested Algorithm: " + in.Algorithm,
	}
	if len(in.Keywords) > 0 {
		lines = append(lines, "Keywords: "+strings.Join(in.Keywords, ", "))
	}
	return strings.Join(lines, "\n")
}

// Duration renders minutes as seconds, minutes or hours.
func Duration(minutes float64) string {
	switch {
	case minutes < 1:
		return fmt.Sprintf("%.0f seconds", minutes*60)
	case minutes < 60:
		return fmt.Sprintf("%.1f minutes", minutes)
	default:
		return fmt.Sprintf("%.1f hours", minutes/60)
	}
}

// Letter returns the option label for a zero-based index.
func Letter(i int) string { return string(rune('A' + i)) }

func shortfall(requested, returned int, noun string) string {
	if returned >= requested {
		return ""
	}
	return fmt.Sprintf("\n(%d of %d requested %s found)", returned, requested, noun)
}

// count renders n with thousands separators.
func count(n int) string { return printer.Sprintf("%d", n) }
