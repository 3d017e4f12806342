package domain

import "strings"

// Token is a single word of a sentence. Offsets index into Sentence.Text.
type Token struct {
	Text  string
	Norm  string
	Stop  bool
	Start int
	End   int
}

// Sentence is one sentence of a tokenized document.
type Sentence struct {
	Index          int
	Text           string
	Tokens         []Token
	Paragraph      int
	ParagraphStart bool
}

// ContentTokens returns the tokens that are not stop-words.
func (s Sentence) ContentTokens() []Token {
	out := make([]Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if !t.Stop {
			out = append(out, t)
		}
	}
	return out
}

// Key is the normalized form used to detect repeated sentences.
func (s Sentence) Key() string {
	parts := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		parts[i] = t.Norm
	}
	return strings.Join(parts, " ")
}

// Ref returns the provenance reference for the sentence.
func (s Sentence) Ref() SentenceRef {
	return SentenceRef{Index: s.Index, Text: s.Text}
}

// Document is the tokenized form of an input text. It is never mutated after
// tokenization.
type Document struct {
	Sentences  []Sentence
	Headings   []string
	Paragraphs int
}

// Len returns the number of sentences.
func (d *Document) Len() int { return len(d.Sentences) }

// WordCount returns the number of word tokens across all sentences.
func (d *Document) WordCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Tokens)
	}
	return n
}

// Term is a normalized word or short phrase with document-level statistics.
type Term struct {
	Text          string
	Frequency     int
	Stop          bool
	FirstSentence int
}

// SentenceRef links a generated artifact back to its source sentence.
type SentenceRef struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ScoredSentence is a sentence selected into a summary with the score it got.
type ScoredSentence struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// SummaryStats describes the size of a summary relative to its source.
type SummaryStats struct {
	OriginalSentences   int     `json:"original_sentence_count"`
	SummarySentences    int     `json:"summary_sentence_count"`
	OriginalWords       int     `json:"original_words"`
	SummaryWords        int     `json:"summary_words"`
	OriginalChars       int     `json:"original_characters"`
	SummaryChars        int     `json:"summary_characters"`
	CompressionRatio    float64 `json:"compression_ratio"`
	ReductionPercentage float64 `json:"reduction_percentage"`
}

// Summary is the result of a summarization call.
type Summary struct {
	Text      string           `json:"summary_text"`
	Sentences []ScoredSentence `json:"sentence_list"`
	Algorithm string           `json:"algorithm_used"`
	Stats     SummaryStats     `json:"stats"`
}

// CardKind tags the variant of a flashcard.
type CardKind string

const (
	CardQA                CardKind = "qa"
	CardKeywordDefinition CardKind = "keyword_definition"
	CardFillBlank         CardKind = "fill_blank"
)

// Flashcard is a prompt/answer pair synthesized from one source sentence.
type Flashcard struct {
	ID     string      `json:"id"`
	Kind   CardKind    `json:"type"`
	Prompt string      `json:"prompt"`
	Answer string      `json:"answer"`
	Source SentenceRef `json:"source"`
}

// FlashcardSet is the best-effort result of a flashcard request.
type FlashcardSet struct {
	Cards     []Flashcard `json:"cards"`
	Requested int         `json:"count_requested"`
	Returned  int         `json:"count_returned"`
}

// QuizKind tags the variant of a quiz item.
type QuizKind string

const (
	QuizWh        QuizKind = "wh"
	QuizTrueFalse QuizKind = "true_false"
	QuizFillBlank QuizKind = "fill_blank"
)

// Edit describes the span of a source sentence that was replaced to build a
// false statement. Offsets index into the source sentence text.
type Edit struct {
	Kind        string `json:"kind"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// QuizItem is a single quiz question referencing exactly one source sentence.
type QuizItem struct {
	ID            string      `json:"id"`
	Kind          QuizKind    `json:"type"`
	WhWord        string      `json:"wh_word,omitempty"`
	Prompt        string      `json:"prompt"`
	Answer        string      `json:"answer"`
	Options       []string    `json:"options,omitempty"`
	CorrectOption int         `json:"correct_option"`
	Altered       bool        `json:"altered"`
	Edit          *Edit       `json:"edit,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
	Source        SentenceRef `json:"source"`
}

// Quiz is the best-effort result of a quiz request.
type Quiz struct {
	Items     []QuizItem `json:"items"`
	Requested int        `json:"count_requested"`
	Returned  int        `json:"count_returned"`
}

// Insights summarizes study-oriented statistics about a text.
type Insights struct {
	Words          int      `json:"words"`
	Characters     int      `json:"characters"`
	Sentences      int      `json:"sentences"`
	Paragraphs     int      `json:"paragraphs"`
	ReadingLevel   string   `json:"reading_level"`
	ReadingMinutes float64  `json:"reading_minutes"`
	StudyMinutes   float64  `json:"study_minutes"`
	PotentialCards int      `json:"potential_cards"`
	Difficulty     int      `json:"difficulty"`
	Assessment     string   `json:"assessment"`
	Keywords       []string `json:"keywords"`
	Algorithm      string   `json:"suggested_algorithm"`
}
