// Package cloze picks the word to blank out of a sentence for fill-in-the-blank
// flashcards and quiz items.
package cloze

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"studygen/internal/domain"
	"studygen/internal/features"
)

// FixedBlank is the marker used where the blank must not reveal word length.
const FixedBlank = "__________"

// DefaultMinLength is the shortest word that may be blanked.
const DefaultMinLength = 4

var nounSuffixes = []string{"tion", "sion", "ment", "ness", "ity", "ism", "ist", "ology", "ance", "ence", "ure", "sis"}

// Blank is the chosen word and its byte span in the sentence text.
type Blank struct {
	Word  string
	Start int
	End   int
}

// Apply returns text with the blank's span replaced by marker.
func (b Blank) Apply(text, marker string) string {
	return text[:b.Start] + marker + text[b.End:]
}

// Underscores returns a blank as long as the word.
func Underscores(word string) string {
	return strings.Repeat("_", utf8.RuneCountInString(word))
}

// Pick chooses the blank for a sentence. Candidates are content words of at
// least minLength runes that occur once in the sentence, contain no digits and
// are not part of a multi-word keyword present in the sentence. Ranked
// keywords win, then noun-like or capitalized words, then the longest word;
// ties go to the earliest word. It reports false when nothing qualifies.
func Pick(s domain.Sentence, set *features.Set, minLength int) (Blank, bool) {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	counts := make(map[string]int, len(s.Tokens))
	for _, tok := range s.Tokens {
		counts[tok.Norm]++
	}
	inPhrase := make(map[int]struct{})
	if set != nil {
		for _, kw := range set.Keywords {
			if kw.Words < 2 {
				continue
			}
			if at := features.PhraseIndex(s, kw.Text); at >= 0 {
				for k := 0; k < kw.Words; k++ {
					inPhrase[at+k] = struct{}{}
				}
			}
		}
	}

	var candidates []int
	for i, tok := range s.Tokens {
		if tok.Stop || counts[tok.Norm] > 1 || utf8.RuneCountInString(tok.Text) < minLength || !wordLike(tok.Text) {
			continue
		}
		if _, ok := inPhrase[i]; ok {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return Blank{}, false
	}

	best := -1
	if set != nil {
		bestRank := 0
		for _, i := range candidates {
			if rank, ok := set.KeywordRank(s.Tokens[i].Norm); ok && (best < 0 || rank < bestRank) {
				best, bestRank = i, rank
			}
		}
	}
	if best < 0 {
		for _, i := range candidates {
			if nounLike(s.Tokens[i]) || (i > 0 && unicode.IsUpper(firstRune(s.Tokens[i].Text))) {
				best = i
				break
			}
		}
	}
	if best < 0 {
		for _, i := range candidates {
			if best < 0 || utf8.RuneCountInString(s.Tokens[i].Text) > utf8.RuneCountInString(s.Tokens[best].Text) {
				best = i
			}
		}
	}
	tok := s.Tokens[best]
	return Blank{Word: tok.Text, Start: tok.Start, End: tok.End}, true
}

func wordLike(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '’' {
			return false
		}
	}
	return true
}

func nounLike(tok domain.Token) bool {
	for _, suffix := range nounSuffixes {
		if strings.HasSuffix(tok.Norm, suffix) && len(tok.Norm) > len(suffix)+2 {
			return true
		}
	}
	return false
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
