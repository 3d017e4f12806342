package tokenizer

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	spaceRun     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankRun     = regexp.MustCompile(`\n{3,}`)
)

// Normalize prepares raw text for tokenization: line endings are unified,
// URLs and e-mail addresses are removed, runs of spaces collapse to one and
// blank lines are kept as single paragraph breaks.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
