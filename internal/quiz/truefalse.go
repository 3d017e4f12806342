package quiz

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"studygen/internal/domain"
	"studygen/internal/features"
	"studygen/internal/matcher"
)

const (
	editNegation = "negation"
	editNumber   = "number"
	editKeyword  = "keyword_swap"
)

var editKinds = []string{editNegation, editNumber, editKeyword}

// trueFalseItems turns fact sentences into statements. Items at odd positions
// are falsified; the kind of edit rotates and falls through to the next kind
// when a sentence offers nothing to edit. A fact that cannot be falsified
// when a false statement is due is skipped, so true and false alternate.
func trueFalseItems(set *features.Set, facts []domain.Sentence) []domain.QuizItem {
	items := make([]domain.QuizItem, 0, len(facts))
	rotation := 0
	for _, s := range facts {
		if len(items)%2 == 0 {
			items = append(items, statement(s, nil, ""))
			continue
		}
		var edit *domain.Edit
		var explanation string
		for attempt := 0; attempt < len(editKinds) && edit == nil; attempt++ {
			candidate := falsify(editKinds[(rotation+attempt)%len(editKinds)], s, set)
			if candidate == nil {
				continue
			}
			if rendered, ok := singleRegion(s.Text, apply(s.Text, candidate)); ok {
				edit, explanation = candidate, rendered
			}
		}
		rotation++
		if edit == nil {
			continue
		}
		items = append(items, statement(s, edit, explanation))
	}
	return items
}

func statement(s domain.Sentence, edit *domain.Edit, explanation string) domain.QuizItem {
	prompt, answer, correct := s.Text, "True", 0
	if edit != nil {
		prompt, answer, correct = apply(s.Text, edit), "False", 1
	}
	item := newItem(domain.QuizTrueFalse, prompt, answer, s)
	item.Options = []string{"True", "False"}
	item.CorrectOption = correct
	item.Altered = edit != nil
	item.Edit = edit
	item.Explanation = explanation
	return item
}

func apply(text string, e *domain.Edit) string {
	return text[:e.Start] + e.Replacement + text[e.End:]
}

func falsify(kind string, s domain.Sentence, set *features.Set) *domain.Edit {
	switch kind {
	case editNegation:
		return negate(s)
	case editNumber:
		return alterNumber(s)
	default:
		return swapKeyword(s, set)
	}
}

// negate inserts or removes "not" after the first auxiliary verb. Main-verb
// uses of have and do are not auxiliaries and are left alone.
func negate(s domain.Sentence) *domain.Edit {
	words := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		words[i] = tok.Text
	}
	for i, tok := range s.Tokens {
		if !matcher.Auxiliary(words, i) {
			continue
		}
		if i+1 < len(s.Tokens) && s.Tokens[i+1].Norm == "not" {
			next := s.Tokens[i+1]
			return &domain.Edit{Kind: editNegation, Start: tok.Start, End: next.End, Original: s.Text[tok.Start:next.End], Replacement: tok.Text}
		}
		for _, other := range s.Tokens {
			if other.Norm == "not" || other.Norm == "never" || other.Norm == "no" || strings.HasSuffix(other.Norm, "n't") {
				return nil
			}
		}
		return &domain.Edit{Kind: editNegation, Start: tok.Start, End: tok.End, Original: tok.Text, Replacement: tok.Text + " not"}
	}
	return nil
}

func alterNumber(s domain.Sentence) *domain.Edit {
	for _, tok := range s.Tokens {
		r, _ := utf8.DecodeRuneInString(tok.Text)
		if !unicode.IsDigit(r) || glued(s.Text, tok.Start, tok.End) {
			continue
		}
		if changed, ok := changeNumber(tok.Text); ok {
			return &domain.Edit{Kind: editNumber, Start: tok.Start, End: tok.End, Original: tok.Text, Replacement: changed}
		}
	}
	return nil
}

// glued reports whether text[start:end] touches a letter or digit on either
// side, as in ordinals ("2nd") and units ("5km"), where a new value would not
// read as a number any more.
func glued(text string, start, end int) bool {
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// changeNumber returns a different number of the same shape: years move by a
// decade, other values double.
func changeNumber(text string) (string, bool) {
	clean := strings.ReplaceAll(text, ",", "")
	if dot := strings.Index(clean, "."); dot >= 0 {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return "", false
		}
		if f == 0 {
			f = 0.5
		}
		return strconv.FormatFloat(f*2, 'f', len(clean)-dot-1, 64), true
	}
	v, err := strconv.Atoi(clean)
	if err != nil {
		return "", false
	}
	switch {
	case len(clean) == 4 && v >= 1000 && v <= 2099:
		v += 10
	case v == 0:
		v = 1
	default:
		v *= 2
	}
	out := strconv.Itoa(v)
	if strings.Contains(text, ",") {
		out = thousands(out)
	}
	return out, true
}

func thousands(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// swapKeyword replaces a keyword in the sentence with the nearest-ranked
// keyword of the same plurality that the sentence does not mention.
func swapKeyword(s domain.Sentence, set *features.Set) *domain.Edit {
	kws := set.Keywords
	for r, kw := range kws {
		at := features.PhraseIndex(s, kw.Text)
		if at < 0 {
			continue
		}
		repl, ok := nearestKeyword(s, kws, r)
		if !ok {
			continue
		}
		first, last := s.Tokens[at], s.Tokens[at+kw.Words-1]
		original := s.Text[first.Start:last.End]
		if r0, _ := utf8.DecodeRuneInString(original); unicode.IsUpper(r0) {
			rr, size := utf8.DecodeRuneInString(repl)
			repl = string(unicode.ToUpper(rr)) + repl[size:]
		}
		return &domain.Edit{Kind: editKeyword, Start: first.Start, End: last.End, Original: original, Replacement: repl}
	}
	return nil
}

func nearestKeyword(s domain.Sentence, kws []features.Keyword, r int) (string, bool) {
	want := plural(kws[r].Text)
	for d := 1; d < len(kws); d++ {
		for _, j := range []int{r - d, r + d} {
			if j < 0 || j >= len(kws) {
				continue
			}
			cand := kws[j]
			if plural(cand.Text) != want || features.ContainsPhrase(s, cand.Text) || sharesWord(cand.Text, kws[r].Text) {
				continue
			}
			return cand.Text, true
		}
	}
	return "", false
}

func plural(phrase string) bool {
	words := strings.Fields(phrase)
	last := words[len(words)-1]
	return strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") && !strings.HasSuffix(last, "is") && !strings.HasSuffix(last, "us")
}

func sharesWord(a, b string) bool {
	for _, x := range strings.Fields(a) {
		for _, y := range strings.Fields(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}

// singleRegion diffs the statement against its source word by word. It
// reports whether they differ in exactly one contiguous region and renders
// the diff with [-removed-] and {+added+} markers.
func singleRegion(source, altered string) (string, bool) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(wordLines(source), wordLines(altered))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	regions := 0
	editing := false
	var parts []string
	for _, d := range diffs {
		text := strings.TrimSpace(strings.ReplaceAll(d.Text, "\n", " "))
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			editing = false
			parts = append(parts, text)
		case diffmatchpatch.DiffDelete:
			if !editing {
				regions++
				editing = true
			}
			parts = append(parts, "[-"+text+"-]")
		case diffmatchpatch.DiffInsert:
			if !editing {
				regions++
				editing = true
			}
			parts = append(parts, "{+"+text+"+}")
		}
	}
	return strings.Join(parts, " "), regions == 1
}

func wordLines(s string) string {
	return strings.Join(strings.Fields(s), "\n") + "\n"
}
