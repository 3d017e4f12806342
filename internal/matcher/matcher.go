// Package matcher finds question-worthy spans in single sentences and turns
// them into wh-questions. Matchers are ordered; callers take the first hit.
package matcher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"studygen/internal/domain"
	"studygen/internal/tokenizer"
)

const maxSubjectWords = 6

// Match is a question extracted from one sentence. Start and End are the
// byte offsets of Answer in the sentence text.
type Match struct {
	WhWord   string
	Question string
	Answer   string
	Start    int
	End      int
}

// Matcher recognizes one kind of answerable span.
type Matcher interface {
	Name() string
	Match(s domain.Sentence) (Match, bool)
}

// First returns the match of the first matcher that accepts the sentence.
func First(ms []Matcher, s domain.Sentence) (Match, bool) {
	for _, m := range ms {
		if got, ok := m.Match(s); ok {
			return got, true
		}
	}
	return Match{}, false
}

// ForFlashcards returns the question/answer card matchers: person, place,
// time, cause, method, definition.
func ForFlashcards(lex *tokenizer.Lexicon) []Matcher {
	lex = orDefault(lex)
	return []Matcher{Who(lex), Where(lex), When(lex), Why(lex), How(lex), What(lex)}
}

// ForQuiz returns the wh-question matchers used by quizzes.
func ForQuiz(lex *tokenizer.Lexicon) []Matcher {
	lex = orDefault(lex)
	return []Matcher{How(lex), Why(lex), When(lex), Where(lex), What(lex)}
}

func orDefault(lex *tokenizer.Lexicon) *tokenizer.Lexicon {
	if lex == nil {
		return tokenizer.DefaultLexicon()
	}
	return lex
}

const months = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	monthWord    = regexp.MustCompile(`^(?:` + months + `|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)$`)
	digitOrMonth = regexp.MustCompile(`^(?i:since)\s+(?:\d|(?:` + months + `)\b)`)
)

// Where matches "in/at/within/near" followed by a capitalized place.
func Where(lex *tokenizer.Lexicon) Matcher {
	lex = orDefault(lex)
	return &spanMatcher{
		wh:  "where",
		lex: lex,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?i:in|at|within|near)\s+(?:the\s+)?\p{Lu}\p{L}+(?:\s+(?:of\s+)?\p{Lu}\p{L}+)*`),
		},
		strip: []string{"in", "at", "within", "near"},
		reject: func(span string) bool {
			words := strings.Fields(span)
			place := words[len(words)-1]
			for _, w := range words[1:] {
				if w != "the" && w != "of" {
					place = w
					break
				}
			}
			return monthWord.MatchString(place) || lex.IsStop(strings.ToLower(place))
		},
	}
}

// When matches years, calendar dates and during/after/before phrases.
func When(lex *tokenizer.Lexicon) Matcher {
	lex = orDefault(lex)
	prep := `\b(?i:in|on|during|by|since|until|after|before|around|from)\s+`
	return &spanMatcher{
		wh:  "when",
		lex: lex,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(prep + `(?:(?:early|late|mid)\s+)?(?:` + months + `)(?:\s+\d{1,2})?(?:,?\s+\d{4})?\b`),
			regexp.MustCompile(prep + `(?:the\s+)?(?:1\d{3}|20\d{2})s?\b`),
			regexp.MustCompile(`\b(?:` + months + `)\s+\d{1,2},?\s+\d{4}\b`),
			regexp.MustCompile(`\b(?i:during|after|before)\s+the\s+(?:\p{Lu}\p{L}+(?:\s+\p{Lu}\p{L}+)*|\p{Ll}+)`),
		},
		strip: []string{"in", "on"},
	}
}

// Why matches cause clauses introduced by because, due to and similar.
func Why(lex *tokenizer.Lexicon) Matcher {
	lex = orDefault(lex)
	return &spanMatcher{
		wh:  "why",
		lex: lex,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?i:because\s+of|because|due\s+to|owing\s+to|as\s+a\s+result\s+of|since)\s+[^,;:.!?]+`),
		},
		reject: digitOrMonth.MatchString,
	}
}

// How matches method clauses: "by means of", "by" plus a gerund, "using".
func How(lex *tokenizer.Lexicon) Matcher {
	lex = orDefault(lex)
	return &spanMatcher{
		wh:  "how",
		lex: lex,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?i:by\s+means\s+of|through\s+the\s+process\s+of|by\s+way\s+of)\s+[^,;:.!?]+`),
			regexp.MustCompile(`\b(?i:by|through|via)\s+\p{Ll}+ing\b[^,;:.!?]*`),
			regexp.MustCompile(`\busing\s+[^,;:.!?]+`),
		},
	}
}

// spanMatcher removes a matched span from the sentence and asks for it with
// a wh-word. The answer is the span minus an optional leading preposition.
type spanMatcher struct {
	wh       string
	lex      *tokenizer.Lexicon
	patterns []*regexp.Regexp
	strip    []string
	reject   func(span string) bool
}

func (m *spanMatcher) Name() string { return m.wh }

func (m *spanMatcher) Match(s domain.Sentence) (Match, bool) {
	for _, p := range m.patterns {
		for _, loc := range p.FindAllStringIndex(s.Text, -1) {
			start := loc[0]
			span := strings.TrimRightFunc(s.Text[start:loc[1]], unicode.IsSpace)
			end := start + len(span)
			if m.reject != nil && m.reject(span) {
				continue
			}
			answerStart := start + prefixLen(span, m.strip)
			if answerStart >= end {
				continue
			}
			q, ok := question(m.lex, m.wh, s.Text, start, end)
			if !ok {
				continue
			}
			return Match{WhWord: m.wh, Question: q, Answer: s.Text[answerStart:end], Start: answerStart, End: end}, true
		}
	}
	return Match{}, false
}

func prefixLen(span string, words []string) int {
	for _, w := range words {
		if len(span) <= len(w) || !strings.EqualFold(span[:len(w)], w) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(span[len(w):])
		if !unicode.IsSpace(r) {
			continue
		}
		rest := strings.TrimLeftFunc(span[len(w):], unicode.IsSpace)
		return len(span) - len(rest)
	}
	return 0
}

var (
	personPattern = regexp.MustCompile(`^(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\.)?(?:\s+\p{Lu}\p{Ll}+){1,3})\s+(\p{Ll}+)`)
	personVerbs   = map[string]struct{}{
		"was": {}, "is": {}, "wrote": {}, "invented": {}, "discovered": {}, "founded": {}, "proposed": {},
		"developed": {}, "built": {}, "led": {}, "became": {}, "made": {}, "won": {}, "said": {}, "argued": {},
		"found": {}, "described": {}, "created": {}, "designed": {}, "painted": {}, "composed": {}, "ruled": {},
		"introduced": {}, "published": {}, "showed": {}, "observed": {}, "studied": {}, "established": {},
	}
)

type whoMatcher struct{ lex *tokenizer.Lexicon }

// Who matches a sentence opening with a multi-word proper name followed by a
// verb of achievement or identity.
func Who(lex *tokenizer.Lexicon) Matcher { return whoMatcher{lex: orDefault(lex)} }

func (whoMatcher) Name() string { return "who" }

func (m whoMatcher) Match(s domain.Sentence) (Match, bool) {
	loc := personPattern.FindStringSubmatchIndex(s.Text)
	if loc == nil {
		return Match{}, false
	}
	name := s.Text[loc[2]:loc[3]]
	if m.lex.IsStop(strings.ToLower(strings.Fields(name)[0])) {
		return Match{}, false
	}
	verb := s.Text[loc[4]:loc[5]]
	if _, ok := personVerbs[verb]; !ok && !strings.HasSuffix(verb, "ed") {
		return Match{}, false
	}
	q, ok := question(m.lex, "who", s.Text, loc[2], loc[3])
	if !ok {
		return Match{}, false
	}
	return Match{WhWord: "who", Question: q, Answer: name, Start: loc[2], End: loc[3]}, true
}

var (
	definitionPattern = regexp.MustCompile(`^(\S+(?:\s+\S+){0,5}?)\s+(is\s+defined\s+as|refers\s+to|means|is|are|was|were)\s+(\S.*?)[\s.!?;:"')\]’”»]*$`)
	pronouns          = map[string]struct{}{
		"it": {}, "this": {}, "that": {}, "these": {}, "those": {}, "they": {}, "there": {}, "he": {}, "she": {},
		"we": {}, "i": {}, "you": {}, "here": {}, "such": {}, "which": {}, "what": {}, "who": {},
	}
)

type whatMatcher struct{ lex *tokenizer.Lexicon }

// What matches definitional sentences: a short subject, a copula and a
// complement. The complement is the answer.
func What(lex *tokenizer.Lexicon) Matcher { return whatMatcher{lex: orDefault(lex)} }

func (whatMatcher) Name() string { return "what" }

func (m whatMatcher) Match(s domain.Sentence) (Match, bool) {
	loc := definitionPattern.FindStringSubmatchIndex(s.Text)
	if loc == nil {
		return Match{}, false
	}
	subject := s.Text[loc[2]:loc[3]]
	words := strings.Fields(subject)
	if _, ok := pronouns[strings.ToLower(words[0])]; ok || strings.ContainsAny(subject, ",;:()") {
		return Match{}, false
	}
	content := false
	for _, tok := range tokenizer.Words(subject, m.lex) {
		if !tok.Stop {
			content = true
			break
		}
	}
	answer := s.Text[loc[6]:loc[7]]
	if !content || !strings.ContainsFunc(answer, unicode.IsLetter) {
		return Match{}, false
	}

	subj := strings.Join(lowerFirst(m.lex, words), " ")
	var q string
	switch copula := strings.Join(strings.Fields(strings.ToLower(s.Text[loc[4]:loc[5]])), " "); copula {
	case "refers to":
		q = "What " + doOrDoes(subj) + " " + subj + " refer to?"
	case "means":
		q = "What does " + subj + " mean?"
	case "is defined as":
		q = "What is " + subj + " defined as?"
	default:
		q = "What " + copula + " " + subj + "?"
	}
	return Match{WhWord: "what", Question: q, Answer: answer, Start: loc[6], End: loc[7]}, true
}

func doOrDoes(subject string) string {
	words := strings.Fields(subject)
	last := strings.ToLower(words[len(words)-1])
	if strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") && !strings.HasSuffix(last, "is") && !strings.HasSuffix(last, "us") {
		return "do"
	}
	return "does"
}

const trailingPunct = ".!?;:,\"')]’”» "

// question builds a wh-question for the sentence with text[start:end]
// removed. A span opening the sentence is replaced in place by the wh-word;
// otherwise the remaining clause is inverted around its first auxiliary, or
// wrapped in "<Wh> is it that ...?" when it has none.
func question(lex *tokenizer.Lexicon, wh, text string, start, end int) (string, bool) {
	body := strings.TrimRight(text, trailingPunct)
	if start >= len(body) {
		return "", false
	}
	end = min(end, len(body))
	before := strings.TrimRight(strings.TrimSpace(body[:start]), ",;:")
	tail := strings.TrimSpace(body[end:])
	fronted := strings.HasPrefix(tail, ",")
	after := strings.TrimSpace(strings.TrimLeft(tail, ","))
	wh = cases.Title(language.English).String(wh)

	switch {
	case before == "" && !fronted:
		if after == "" {
			return "", false
		}
		return wh + " " + after + "?", true
	case before == "":
		return invert(lex, wh, after)
	case after == "":
		return invert(lex, wh, before)
	default:
		return invert(lex, wh, before+" "+after)
	}
}

var auxiliaries = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "can": {}, "could": {}, "will": {}, "would": {}, "shall": {},
	"should": {}, "may": {}, "might": {}, "must": {},
}

// irregular past participles that follow a perfect "have".
var participles = map[string]struct{}{
	"become": {}, "begun": {}, "brought": {}, "built": {}, "done": {}, "found": {}, "gone": {}, "grown": {},
	"held": {}, "kept": {}, "known": {}, "led": {}, "left": {}, "lost": {}, "made": {}, "met": {}, "paid": {},
	"run": {}, "said": {}, "seen": {}, "sent": {}, "spent": {}, "stood": {}, "taught": {}, "thought": {},
	"told": {}, "won": {}, "written": {},
}

// notBare lists function words that can follow a main-verb "do" and are
// never bare verbs themselves.
var notBare = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"their": {}, "his": {}, "her": {}, "our": {}, "my": {}, "your": {}, "them": {}, "so": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "of": {}, "with": {}, "by": {}, "for": {}, "from": {}, "as": {}, "well": {},
	"too": {}, "also": {}, "more": {}, "much": {}, "many": {}, "some": {}, "any": {}, "no": {}, "all": {},
	"both": {}, "each": {}, "every": {}, "what": {}, "nothing": {}, "something": {}, "everything": {},
}

// Auxiliary reports whether words[i] works as an auxiliary verb. Forms of
// "have" count only before "been" or a past participle and forms of "do"
// only before a bare verb, so main-verb uses are neither inverted nor
// negated. A "not" or "never" between the two is skipped.
func Auxiliary(words []string, i int) bool {
	w := strings.ToLower(words[i])
	if _, ok := auxiliaries[w]; ok {
		return true
	}
	j := i + 1
	if j < len(words) {
		if n := bareWord(words[j]); n == "not" || n == "never" {
			j++
		}
	}
	if j >= len(words) {
		return false
	}
	next := bareWord(words[j])
	switch w {
	case "has", "have", "had":
		if _, ok := participles[next]; ok {
			return true
		}
		return next == "been" || strings.HasSuffix(next, "ed") || strings.HasSuffix(next, "en")
	case "do", "does", "did":
		return bareVerb(words[j])
	}
	return false
}

func bareWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }))
}

func bareVerb(w string) bool {
	if !startsLower(w) {
		return false
	}
	v := bareWord(w)
	if v == "" {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	if _, ok := notBare[v]; ok {
		return false
	}
	if strings.HasSuffix(v, "ing") || strings.HasSuffix(v, "ed") || strings.HasSuffix(v, "ly") {
		return false
	}
	return !strings.HasSuffix(v, "s") || strings.HasSuffix(v, "ss")
}

func invert(lex *tokenizer.Lexicon, wh, clause string) (string, bool) {
	words := strings.Fields(clause)
	if len(words) == 0 {
		return "", false
	}
	for i := 1; i < len(words) && i <= maxSubjectWords; i++ {
		if strings.HasSuffix(words[i-1], ",") {
			break
		}
		if !Auxiliary(words, i) {
			continue
		}
		parts := append([]string{wh, strings.ToLower(words[i])}, lowerFirst(lex, words[:i])...)
		parts = append(parts, words[i+1:]...)
		return strings.Join(parts, " ") + "?", true
	}
	return wh + " is it that " + strings.Join(lowerFirst(lex, words), " ") + "?", true
}

// lowerFirst lower-cases the opening word when it is a stop-word or a
// capitalized common word followed by a lower-case word. Proper names keep
// their case.
func lowerFirst(lex *tokenizer.Lexicon, words []string) []string {
	out := append([]string(nil), words...)
	if len(out) == 0 {
		return out
	}
	first := out[0]
	lower := strings.ToLower(first)
	switch {
	case lex.IsStop(lower):
		out[0] = lower
	case len(out) > 1 && titleCase(first) && startsLower(out[1]):
		out[0] = lower
	}
	return out
}

func titleCase(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, c := range w[size:] {
		if unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

func startsLower(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsLower(r)
}
