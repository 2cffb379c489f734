package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contractiq/internal/domain"
)

// Asker is the TUI-facing subset of the question-answering pipeline.
type Asker interface {
	Ask(query string, topK int) (domain.Answer, error)
}

// Starter questions shown before the first message, matching the suggestions
// the original contract assistant offered.
var sampleQuestions = []string{
	"What are the payment terms?",
	"What is the contract duration?",
	"Are there any termination clauses?",
	"What are the key obligations?",
	"Are there any penalties mentioned?",
}

type chatTurn struct {
	question string
	answer   domain.Answer
}

// Model is the Bubble Tea model for the interactive chat session.
type Model struct {
	asker    Asker
	topK     int
	input    textinput.Model
	viewport viewport.Model
	turns    []chatTurn
	status   string
	thinking bool
	ready    bool
}

// New creates a chat session over the given asker.
func New(asker Asker, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your contracts and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		asker:    asker,
		topK:     topK,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

func askCmd(asker Asker, question string, topK int) tea.Cmd {
	return func() tea.Msg {
		answer, err := asker.Ask(question, topK)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 + 1 // header, input frame, status, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.turns = append(m.turns, chatTurn{question: msg.question, answer: msg.answer})
			if msg.answer.RelevantClauses > 0 {
				m.status = fmt.Sprintf("Answered from %d relevant clause(s).", msg.answer.RelevantClauses)
			} else {
				m.status = "No directly relevant clauses were found."
			}
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.thinking {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.thinking = true
			m.status = "Analyzing contracts..."
			return m, askCmd(m.asker, q, m.topK)
		case "up":
			m.viewport.LineUp(3)
			return m, nil
		case "down":
			m.viewport.LineDown(3)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("ContractIQ Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.turns) == 0 {
		var b strings.Builder
		b.WriteString("Ask anything about your uploaded contracts.\n\nSample questions:\n")
		for _, q := range sampleQuestions {
			b.WriteString("  - ")
			b.WriteString(q)
			b.WriteString("\n")
		}
		return b.String()
	}

	var b strings.Builder
	for i, turn := range m.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(questionStyle.Render("You: " + turn.question))
		b.WriteString("\n")
		b.WriteString(turn.answer.Response)
		b.WriteString("\n")
	}
	return b.String()
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
