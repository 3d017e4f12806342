package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"studygen/internal/domain"
)

const maxHeadingWords = 12

var (
	wordPattern    = regexp.MustCompile(`\p{L}[\p{L}\p{N}]*(?:['’-][\p{L}\p{N}]+)*|\p{N}+(?:[.,]\p{N}+)*`)
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)
	headingMarker  = regexp.MustCompile(`^#{1,6}\s+`)
	bulletMarker   = regexp.MustCompile(`^(?:[-*•]|\d{1,3}[.)])\s+`)
)

// Tokenize splits text into paragraphs, sentences and word tokens. Stop-words
// are flagged on each token, not removed. It fails with domain.ErrEmptyInput
// when no sentence contains a word.
func Tokenize(text string, lex *Lexicon) (*domain.Document, error) {
	if lex == nil {
		lex = DefaultLexicon()
	}
	doc := &domain.Document{}
	for _, block := range paragraphBreak.Split(text, -1) {
		lines := splitLines(block)
		if len(lines) == 0 {
			continue
		}
		next := ""
		if len(lines) > 1 {
			next = lines[1]
		}
		if heading, ok := headingLine(lines[0], next, lex); ok {
			doc.Headings = append(doc.Headings, heading)
			lines = lines[1:]
		}
		first := true
		for _, segment := range segments(lines) {
			for _, raw := range splitSentences(segment, lex) {
				tokens := wordTokens(raw, lex)
				if len(tokens) == 0 {
					continue
				}
				doc.Sentences = append(doc.Sentences, domain.Sentence{
					Index:          len(doc.Sentences),
					Text:           raw,
					Tokens:         tokens,
					Paragraph:      doc.Paragraphs,
					ParagraphStart: first,
				})
				first = false
			}
		}
		if !first {
			doc.Paragraphs++
		}
	}
	if len(doc.Sentences) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return doc, nil
}

// Words returns the normalized word tokens of a free-standing string.
func Words(text string, lex *Lexicon) []domain.Token {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return wordTokens(text, lex)
}

func splitLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// headingLine reports whether line is a title-like line. Markdown headings
// always qualify; bare lines only when a capitalized line follows in the same
// block, so hard-wrapped sentences are not mistaken for titles.
func headingLine(line, next string, lex *Lexicon) (string, bool) {
	if loc := headingMarker.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	if next == "" {
		return "", false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	if strings.ContainsRune(".!?,;", last) {
		return "", false
	}
	if n := len(strings.Fields(line)); n == 0 || n > maxHeadingWords {
		return "", false
	}
	words := wordTokens(line, lex)
	if len(words) == 0 || lex.IsStop(words[len(words)-1].Norm) {
		return "", false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if loc := bulletMarker.FindStringIndex(next); loc != nil {
		next = next[loc[1]:]
	}
	following, _ := utf8.DecodeRuneInString(next)
	if !startsUpper(first) || !startsUpper(following) {
		return "", false
	}
	return strings.TrimSuffix(line, ":"), true
}

func startsUpper(r rune) bool { return unicode.IsUpper(r) || unicode.IsDigit(r) }

// segments joins wrapped lines back together. List items stay separate.
func segments(lines []string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range lines {
		if loc := bulletMarker.FindStringIndex(line); loc != nil {
			flush()
			out = append(out, line[loc[1]:])
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

func splitSentences(text string, lex *Lexicon) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminal(r) {
			i += size
			continue
		}
		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !isTerminal(next) && !isCloser(next) {
				break
			}
			end += n
		}
		if isBoundary(text, start, i, end, r, lex) {
			if s := strings.TrimSpace(text[start:end]); s != "" {
				out = append(out, s)
			}
			start = end
		}
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// isBoundary decides whether the punctuation run text[punct:end] ends a
// sentence. Ambiguous periods default to no split.
func isBoundary(text string, start, punct, end int, r rune, lex *Lexicon) bool {
	if end >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	if !unicode.IsSpace(next) {
		return false
	}
	if r != '.' {
		return true
	}
	rest := strings.TrimLeftFunc(text[end:], unicode.IsSpace)
	if rest == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) && !isOpener(first) {
		return false
	}
	word := lastWord(text[start:punct])
	if lex.IsAbbreviation(word) {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		c, _ := utf8.DecodeRuneInString(word)
		if unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

// lastWord returns the trailing run of letters and inner periods, e.g. "e.g"
// for "for e.g".
func lastWord(s string) string {
	i := len(s)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		i -= size
	}
	return strings.Trim(s[i:], ".")
}

func isTerminal(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool { return strings.ContainsRune(`"')]’”»`, r) }

func isOpener(r rune) bool { return strings.ContainsRune(`"'([‘“«`, r) }

func wordTokens(sentence string, lex *Lexicon) []domain.Token {
	locs := wordPattern.FindAllStringIndex(sentence, -1)
	if len(locs) == 0 {
		return nil
	}
	tokens := make([]domain.Token, 0, len(locs))
	for _, loc := range locs {
		surface := sentence[loc[0]:loc[1]]
		norm := strings.ToLower(strings.ReplaceAll(surface, "’", "'"))
		tokens = append(tokens, domain.Token{
			Text:  surface,
			Norm:  norm,
			Stop:  lex.IsStop(norm),
			Start: loc[0],
			End:   loc[1],
		})
	}
	return tokens
}
