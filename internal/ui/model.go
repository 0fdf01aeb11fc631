package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	clog "github.com/charmbracelet/log"

	"gitgrotto/internal/engine"
)

// Options configures the terminal front end.
type Options struct {
	Engine    *engine.Engine
	Intro     string
	ASCIIOnly bool
}

type dispatchMsg struct {
	result engine.Result
}

// Model is the single bubbletea model driving the session: a transcript
// viewport over a one-line prompt. All game logic lives in the engine;
// the model only renders results and relays input.
type Model struct {
	engine *engine.Engine
	theme  theme
	ascii  bool

	input      textinput.Model
	transcript viewport.Model
	lines      []string

	markdown *glamour.TermRenderer
	logger   *clog.Logger

	confirmingExit bool
	ready          bool
	width, height  int
}

func New(opts Options) *Model {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "gitgrotto-ui", Level: clog.WarnLevel})

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "error", err)
		renderer = nil
	}

	input := textinput.New()
	input.Placeholder = "git init"
	input.Prompt = ""
	input.Focus()

	m := &Model{
		engine:   opts.Engine,
		theme:    newTheme(opts.ASCIIOnly),
		ascii:    opts.ASCIIOnly,
		input:    input,
		markdown: renderer,
		logger:   logger,
	}
	m.appendBlock(m.renderMarkdown(opts.Intro))
	return m
}

// Run blocks until the player quits.
func (m *Model) Run() error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript = viewport.New(msg.Width, max(1, msg.Height-2))
		m.transcript.SetContent(strings.Join(m.lines, "\n"))
		m.transcript.GotoBottom()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.confirmingExit {
			return m.updateExitConfirm(msg)
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			m.appendLine(m.theme.echo.Render(m.theme.promptGlyph(m.ascii) + line))
			return m, m.dispatch(line)
		}

	case dispatchMsg:
		return m.handleResult(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.transcript, cmd = m.transcript.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) dispatch(line string) tea.Cmd {
	return func() tea.Msg {
		return dispatchMsg{result: m.engine.Dispatch(context.Background(), line)}
	}
}

func (m *Model) handleResult(msg dispatchMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	if res.Exit {
		m.confirmingExit = true
		m.appendLine(m.theme.confirm.Render("Save before you go? (y/n, esc to stay)"))
		return m, nil
	}

	style := m.theme.ok
	if !res.Success {
		style = m.theme.fail
	}
	rendered := m.renderMarkdown(res.Message)
	if !res.Success {
		rendered = style.Render(res.Message)
	}
	m.appendBlock(rendered)

	if g := m.engine.Game(); g != nil && !g.IsActive() {
		m.appendLine(m.theme.confirm.Render("Press enter to leave the grotto."))
		m.confirmingExit = true
	}
	return m, nil
}

func (m *Model) updateExitConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		res := m.engine.Dispatch(context.Background(), "save")
		if !res.Success {
			m.logger.Warn("save on exit failed", "message", res.Message)
		}
		return m, tea.Quit
	case "n", "enter":
		return m, tea.Quit
	case "esc":
		m.confirmingExit = false
		m.appendLine(m.theme.ok.Render("The grotto waits."))
		return m, nil
	}
	return m, nil
}

// renderMarkdown pretty-prints engine output, falling back to the raw
// text when glamour is unavailable.
func (m *Model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		m.logger.Warn("markdown render failed", "error", err)
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m *Model) appendBlock(block string) {
	for _, line := range strings.Split(block, "\n") {
		m.lines = append(m.lines, line)
	}
	m.lines = append(m.lines, "")
	m.syncTranscript()
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.syncTranscript()
}

func (m *Model) syncTranscript() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(strings.Join(m.lines, "\n"))
	m.transcript.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "entering the grotto..."
	}
	prompt := m.theme.prompt.Render(m.theme.promptGlyph(m.ascii)) + m.input.View()
	return fmt.Sprintf("%s\n%s", m.transcript.View(), prompt)
}
