package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studygen/internal/domain"
	"studygen/internal/format"
	"studygen/internal/pipeline"
)

// StudyPort is the TUI-facing subset of the study pipeline.
type StudyPort interface {
	Summarize(text string, req pipeline.SummaryRequest) (*domain.Summary, error)
	Flashcards(text string, n int) (*domain.FlashcardSet, error)
	Quiz(text string, n int) (*domain.Quiz, error)
	Insights(text string) (*domain.Insights, error)
}

// Options selects what the viewer generates on start.
type Options struct {
	Title      string
	Summary    pipeline.SummaryRequest
	Flashcards int
	Questions  int
}

type tab int

const (
	tabSummary tab = iota
	tabFlashcards
	tabQuiz
	tabInsights
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Flashcards", "Quiz", "Insights"}

type loadedMsg struct {
	summary  *domain.Summary
	cards    *domain.FlashcardSet
	quiz     *domain.Quiz
	insights *domain.Insights
	err      error
}

// Model is the Bubble Tea model for the study viewer.
type Model struct {
	service  StudyPort
	text     string
	opts     Options
	input    textinput.Model
	viewport viewport.Model
	ready    bool
	loaded   bool
	status   string

	tab        tab
	showSource bool
	summary    *domain.Summary
	cards      *domain.FlashcardSet
	card       int
	flipped    bool
	quiz       *domain.Quiz
	question   int
	responses  map[int]bool
	insights   *domain.Insights
}

// New creates a viewer for text. Artifacts are generated when the program starts.
func New(service StudyPort, text string, opts Options) Model {
	if opts.Flashcards <= 0 {
		opts.Flashcards = 10
	}
	if opts.Questions <= 0 {
		opts.Questions = 10
	}
	ti := textinput.New()
	ti.Prompt = "answer> "
	ti.Placeholder = "Type an answer or option letter and press Enter"
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		text:      text,
		opts:      opts,
		input:     ti,
		viewport:  vp,
		status:    "Generating study material...",
		responses: map[int]bool{},
	}
}

// Init starts generation and the text input cursor blink.
func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, m.load) }

func (m Model) load() tea.Msg {
	var msg loadedMsg
	if msg.summary, msg.err = m.service.Summarize(m.text, m.opts.Summary); msg.err != nil {
		return msg
	}
	if msg.cards, msg.err = m.service.Flashcards(m.text, m.opts.Flashcards); msg.err != nil {
		return msg
	}
	if msg.quiz, msg.err = m.service.Quiz(m.text, m.opts.Questions); msg.err != nil {
		return msg
	}
	msg.insights, msg.err = m.service.Insights(m.text)
	return msg
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := bodyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header and tabs, status, input, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.summary, m.cards, m.quiz, m.insights = msg.summary, msg.cards, msg.quiz, msg.insights
			m.status = fmt.Sprintf("%d sentences kept, %d flashcards, %d questions",
				len(m.summary.Sentences), m.cards.Returned, m.quiz.Returned)
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if handled, next := m.handleKey(msg); handled {
			next.viewport.SetContent(next.renderBody())
			return next, nil
		}
	}
	var cmd tea.Cmd
	if m.tab == tabQuiz {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (bool, Model) {
	switch msg.String() {
	case "tab":
		return true, m.switchTab((m.tab + 1) % tabCount)
	case "shift+tab":
		return true, m.switchTab((m.tab + tabCount - 1) % tabCount)
	case "esc":
		if m.tab != tabQuiz {
			return false, m
		}
		m.input.Blur()
		return true, m
	}
	switch m.tab {
	case tabSummary:
		if msg.String() == "s" {
			m.showSource = !m.showSource
			return true, m
		}
	case tabFlashcards:
		if m.cards == nil || len(m.cards.Cards) == 0 {
			return false, m
		}
		switch msg.String() {
		case "right", "n":
			m.card = (m.card + 1) % len(m.cards.Cards)
			m.flipped = false
			return true, m
		case "left", "p":
			m.card = (m.card - 1 + len(m.cards.Cards)) % len(m.cards.Cards)
			m.flipped = false
			return true, m
		case " ", "enter", "f":
			m.flipped = !m.flipped
			return true, m
		}
	case tabQuiz:
		if m.quiz == nil || len(m.quiz.Items) == 0 {
			return false, m
		}
		switch msg.String() {
		case "down":
			m.question = (m.question + 1) % len(m.quiz.Items)
			m.input.SetValue("")
			return true, m
		case "up":
			m.question = (m.question - 1 + len(m.quiz.Items)) % len(m.quiz.Items)
			m.input.SetValue("")
			return true, m
		case "enter":
			response := strings.TrimSpace(m.input.Value())
			if response == "" {
				return true, m
			}
			correct := Check(m.quiz.Items[m.question], response)
			m.responses[m.question] = correct
			if correct {
				m.status = "Correct!"
			} else {
				m.status = "Not quite. The answer is " + m.quiz.Items[m.question].Answer
			}
			m.input.SetValue("")
			return true, m
		}
	}
	return false, m
}

func (m Model) switchTab(t tab) Model {
	m.tab = t
	if t == tabQuiz {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.viewport.GotoTop()
	return m
}

// Check reports whether response answers item. Option letters are accepted
// for items with options; comparison ignores case and surrounding space.
func Check(item domain.QuizItem, response string) bool {
	response = strings.TrimSpace(response)
	if len(response) == 1 && len(item.Options) > 0 {
		idx := int(strings.ToUpper(response)[0] - 'A')
		if idx >= 0 && idx < len(item.Options) {
			return idx == item.CorrectOption
		}
	}
	if item.Kind == domain.QuizTrueFalse {
		switch strings.ToLower(response) {
		case "t", "true":
			response = "True"
		case "f", "false":
			response = "False"
		}
	}
	return strings.EqualFold(response, strings.TrimSpace(item.Answer))
}

// Score returns the number of correct responses and the number answered.
func (m Model) Score() (correct, answered int) {
	for _, ok := range m.responses {
		answered++
		if ok {
			correct++
		}
	}
	return correct, answered
}

// View renders the TUI layout and the active tab.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "StudyGen"
	if m.opts.Title != "" {
		title += " · " + m.opts.Title
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)
	body := bodyBoxStyle.Render(m.viewport.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	out := header + "\n" + m.renderTabs() + "\n" + body + "\n"
	if m.tab == tabQuiz {
		out += inputBoxStyle.Render(m.input.View()) + "\n"
	}
	return out + status
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	hint := hintStyle.Render("tab: switch  ctrl+c: quit")
	return strings.Join(parts, " ") + "  " + hint
}

func (m Model) renderBody() string {
	if !m.loaded {
		return "Generating..."
	}
	switch m.tab {
	case tabSummary:
		if m.summary == nil {
			return "No summary."
		}
		if m.showSource {
			return hintStyle.Render("s: show summary") + "\n\n" + highlightSelected(m.text, m.summary.Sentences)
		}
		return hintStyle.Render("s: show selected sentences in the source") + "\n\n" + format.Summary(m.summary)
	case tabFlashcards:
		return m.renderCard()
	case tabQuiz:
		return m.renderQuestion()
	default:
		return format.Insights(m.insights)
	}
}

func (m Model) renderCard() string {
	if m.cards == nil || len(m.cards.Cards) == 0 {
		return format.Flashcards(m.cards)
	}
	c := m.cards.Cards[m.card]
	title := fmt.Sprintf("Card %d/%d  %s", m.card+1, len(m.cards.Cards), c.Kind)
	face := c.Prompt
	if m.flipped {
		face = highlightStyle.Render(c.Answer)
	}
	hint := hintStyle.Render("space: flip  left/right: previous/next")
	return title + "\n\n" + face + "\n\n" + hint
}

func (m Model) renderQuestion() string {
	if m.quiz == nil || len(m.quiz.Items) == 0 {
		return format.Quiz(m.quiz)
	}
	item := m.quiz.Items[m.question]
	correct, answered := m.Score()
	title := fmt.Sprintf("Question %d/%d  score %d/%d", m.question+1, len(m.quiz.Items), correct, answered)
	var b strings.Builder
	b.WriteString(title + "\n\n")
	if item.Kind == domain.QuizTrueFalse {
		b.WriteString("True or false: ")
	}
	b.WriteString(item.Prompt + "\n")
	for j, opt := range item.Options {
		fmt.Fprintf(&b, "  %s) %s\n", format.Letter(j), opt)
	}
	if ok, done := m.responses[m.question]; done {
		if ok {
			b.WriteString("\n" + highlightStyle.Render("Answered correctly"))
		} else {
			b.WriteString("\nAnswer: " + highlightStyle.Render(item.Answer))
		}
		if item.Altered && item.Explanation != "" {
			b.WriteString("\n" + hintStyle.Render(item.Explanation))
		}
	}
	b.WriteString("\n\n" + hintStyle.Render("up/down: previous/next question"))
	return b.String()
}

var (
	bodyBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// highlightSelected renders text with the summary sentences emphasized.
func highlightSelected(text string, selected []domain.ScoredSentence) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	for _, s := range selected {
		text = strings.Replace(text, s.Text, highlightStyle.Render(s.Text), 1)
	}
	return text
}
