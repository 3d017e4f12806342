package quiz

import (
	"hash/fnv"
	"strings"

	"studygen/internal/domain"
	"studygen/internal/features"
)

const maxOptions = 4

// withOptions attaches multiple-choice options to the selected items. The
// distractors come from the answers of other items of the same kind (and the
// same wh-word) in pool, then from the document keywords. Items with fewer
// than two distractors get no options.
func withOptions(selected, pool []domain.QuizItem, set *features.Set) {
	for i := range selected {
		item := &selected[i]
		var sources []string
		for _, other := range pool {
			if other.WhWord == item.WhWord {
				sources = append(sources, other.Answer)
			}
		}
		for _, kw := range set.Keywords {
			if item.Kind == domain.QuizFillBlank && kw.Words > 1 {
				continue
			}
			sources = append(sources, kw.Text)
		}

		distractors := pickDistractors(item.Answer, sources)
		if len(distractors) < 2 {
			continue
		}
		pos := position(item.Prompt, len(distractors)+1)
		options := make([]string, 0, len(distractors)+1)
		options = append(options, distractors[:pos]...)
		options = append(options, item.Answer)
		options = append(options, distractors[pos:]...)
		item.Options = options
		item.CorrectOption = pos
	}
}

func pickDistractors(answer string, sources []string) []string {
	lower := strings.ToLower(answer)
	seen := map[string]struct{}{lower: {}}
	var out []string
	for _, src := range sources {
		if len(out) == maxOptions-1 {
			break
		}
		key := strings.ToLower(src)
		if _, dup := seen[key]; dup || strings.Contains(lower, key) || strings.Contains(key, lower) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, src)
	}
	return out
}

// position derives the answer's slot from the prompt so option order is
// stable across runs.
func position(prompt string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return int(h.Sum32() % uint32(n))
}
