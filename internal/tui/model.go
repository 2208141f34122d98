package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Assistant is the TUI-facing subset of the application core.
type Assistant interface {
	Ready() bool
	IndexOnDisk() bool
	Build(ctx context.Context, topic string) (status string, err error)
	Load(ctx context.Context) (status string, err error)
	Ask(ctx context.Context, question string) (answer string, err error)
}

const (
	buildTimeout = 10 * time.Minute
	askTimeout   = 3 * time.Minute
)

type buildDoneMsg struct {
	status string
	err    error
}

type loadDoneMsg struct {
	status string
	err    error
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	assistant  Assistant
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	busy       bool
	ready      bool
}

// New creates a new TUI model instance.
func New(assistant Assistant) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /build <topic>, /load, /help"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	status := "No knowledge base yet. Use /build <topic> to create one."
	if assistant.IndexOnDisk() {
		status = "Existing knowledge base found. Use /load to open it, or /build <topic> to rebuild."
	}
	return Model{assistant: assistant, input: ti, viewport: vp, status: status}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and input boxes
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.busy {
			return m.submit()
		}
		switch msg.String() {
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}

	case buildDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Build failed: " + msg.err.Error()
		} else {
			m.status = msg.status
			m.transcript = nil
			m.viewport.SetContent(m.renderTranscript())
		}
		return m, nil

	case loadDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Load failed: " + msg.err.Error()
		} else {
			m.status = msg.status
			m.transcript = nil
			m.viewport.SetContent(m.renderTranscript())
		}
		return m, nil

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
			m.transcript = append(m.transcript,
				userStyle.Render("You: ")+msg.question,
				assistantStyle.Render("Assistant: ")+msg.answer,
				"")
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.SetValue("")

	switch {
	case line == "/help":
		m.status = "/build <topic> fetches articles and rebuilds the knowledge base; /build alone indexes the files given on the command line; /load opens the saved knowledge base; anything else is a question."
		return m, nil

	case line == "/load":
		m.busy = true
		m.status = "Loading knowledge base..."
		a := m.assistant
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
			defer cancel()
			status, err := a.Load(ctx)
			return loadDoneMsg{status: status, err: err}
		}

	case line == "/build" || strings.HasPrefix(line, "/build "):
		topic := strings.TrimSpace(strings.TrimPrefix(line, "/build"))
		m.busy = true
		m.status = "Building knowledge base... (this may take a while)"
		a := m.assistant
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
			defer cancel()
			status, err := a.Build(ctx, topic)
			return buildDoneMsg{status: status, err: err}
		}

	default:
		if !m.assistant.Ready() {
			m.status = "Not ready: build or load a knowledge base first."
			return m, nil
		}
		m.busy = true
		m.status = "Thinking..."
		a := m.assistant
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
			defer cancel()
			answer, err := a.Ask(ctx, line)
			return answerMsg{question: line, answer: answer, err: err}
		}
	}
}

// View renders the TUI layout and current transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Bio-Medical Research Assistant")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No conversation yet. Ask a question about your documents."
	}
	return strings.Join(m.transcript, "\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
