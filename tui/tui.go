// Package tui provides a Bubble Tea terminal UI for the skirmish engine:
// a scrolling narrative of script output and world events, a tracker
// column, and queued moves animated on a fixed tick.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/engine"
)

// TickRate is how many animation ticks run per second.
const TickRate = 20

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool // true for echoed player input
}

// Model is the Bubble Tea model for the skirmish TUI.
type Model struct {
	session *cli.Session

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input string // echoed player input (empty for the banner)
	lines []cli.Line
}

// tickMsg drives queued interactions forward.
type tickMsg time.Time

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: &cli.Session{Engine: eng, SaveDir: cli.DefaultSaveDir()},
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	m := New(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial commands: the banner, the cursor blink and the
// first animation tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/TickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		e := m.session.Engine
		title := e.Game
		if title == "" {
			title = "skirmish"
		}
		return gameOutputMsg{lines: []cli.Line{
			{Text: fmt.Sprintf("%s: %dx%d, %d players", title, e.World.Width, e.World.Height, len(e.World.Players()))},
			{Text: "Type /help for commands.", Kind: cli.KindStatus},
		}}
	}
}

// Update handles messages (key presses, window resize, ticks, output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(m.narrativeWidth(), m.bodyHeight())
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.refreshViewport()

	case tickMsg:
		if lines := m.session.Tick(1.0 / TickRate); len(lines) > 0 {
			m = m.appendOutput(gameOutputMsg{lines: lines})
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []cli.Line{{Text: "Nothing to repeat.", Kind: cli.KindSystem}},
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		lines, quit := m.session.Meta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Script line. Queued moves play out on the following ticks.
	_, lines := m.session.Exec(input)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		if line.Text == "" {
			m.rawLines = append(m.rawLines, rawLine{})
			continue
		}
		m.rawLines = append(m.rawLines, rawLine{text: line.Text, kind: classifyLine(line)})
	}

	// Blank line separator after each command.
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{})
	}

	m.refreshViewport()

	return m
}

// narrativeWidth is the viewport width, leaving room for the tracker
// column when it is shown.
func (m Model) narrativeWidth() int {
	if m.showTrackers() {
		return m.width - trackerPanelWidth
	}
	return m.width
}

// bodyHeight is the terminal height minus the status bar and input line.
func (m Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	m.viewport.Width = m.narrativeWidth()
	m.viewport.Height = m.bodyHeight()

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		if rl.isInput {
			styled = append(styled, styledPlayerInput(wordWrap(rl.text, width-2)))
			continue
		}
		styled = append(styled, renderLineKind(wordWrap(rl.text, width), rl.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: narrative and trackers, status bar,
// input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.showTrackers() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderTrackers(m.bodyHeight()))
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
