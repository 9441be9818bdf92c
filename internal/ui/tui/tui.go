// Package tui renders an interactive ritual in the terminal: the pond's
// turns scroll in a viewport while the player types replies below.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/pond/internal/ritual"
)

// Conversation is the slice of the runtime the TUI drives.
type Conversation interface {
	Begin(ctx context.Context, title, offering string) (string, ritual.Turn, error)
	Advance(ctx context.Context, sessionID, reply string) (ritual.Turn, error)
}

// TUI adapts a running program to the ui.UI interface so the runtime
// can push progress into it.
type TUI struct {
	program *tea.Program
}

func NewTUI(p *tea.Program) *TUI {
	return &TUI{program: p}
}

func (t *TUI) UpdatePhase(phase string) {
	t.program.Send(PhaseMsg(phase))
}

func (t *TUI) UpdateLevel(level int, name string) {
	t.program.Send(LevelMsg{Level: level, Name: name})
}

func (t *TUI) Log(msg string) {
	t.program.Send(LogMsg(msg))
}

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#1E5F74")).
		Padding(0, 1)

	pondStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7FDBDA"))

	playerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Bold(true)

	hintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5555"))
)

type Model struct {
	conv      Conversation
	sessionID string
	title     string
	offering  string

	Turn     ritual.Turn
	Lines    []string
	Phase    string
	Level    string
	Err      error
	Waiting  bool
	Quitting bool
	Ready    bool

	Viewport viewport.Model
	Input    textinput.Model
}

type PhaseMsg string
type LogMsg string

type LevelMsg struct {
	Level int
	Name  string
}

type turnMsg ritual.Turn

type beginMsg struct {
	sessionID string
	turn      ritual.Turn
}

type errMsg struct{ err error }

func NewModel(conv Conversation, title, offering string) Model {
	in := textinput.New()
	in.Placeholder = "Speak to the pond..."
	in.Focus()
	in.CharLimit = 500

	return Model{
		conv:     conv,
		title:    title,
		offering: offering,
		Input:    in,
		Waiting:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.begin())
}

func (m Model) begin() tea.Cmd {
	return func() tea.Msg {
		sessionID, turn, err := m.conv.Begin(context.Background(), m.title, m.offering)
		if err != nil {
			return errMsg{err}
		}
		return beginMsg{sessionID: sessionID, turn: turn}
	}
}

func (m Model) advance(reply string) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		turn, err := m.conv.Advance(context.Background(), sessionID, reply)
		if err != nil {
			return errMsg{err}
		}
		return turnMsg(turn)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.Waiting || m.Quitting {
				break
			}
			reply := strings.TrimSpace(m.Input.Value())
			if reply == "" {
				break
			}
			if m.Turn.Finished {
				m.Quitting = true
				return m, tea.Quit
			}
			m.Lines = append(m.Lines, playerStyle.Render("you  ")+reply)
			m.Input.Reset()
			m.Waiting = true
			m.syncViewport()
			return m, m.advance(reply)
		}

	case tea.WindowSizeMsg:
		if !m.Ready {
			m.Viewport = viewport.New(msg.Width, msg.Height-6)
			m.Ready = true
			m.syncViewport()
		} else {
			m.Viewport.Width = msg.Width
			m.Viewport.Height = msg.Height - 6
		}

	case beginMsg:
		m.sessionID = msg.sessionID
		return m.acceptTurn(ritual.Turn(msg.turn)), nil

	case turnMsg:
		return m.acceptTurn(ritual.Turn(msg)), nil

	case errMsg:
		m.Err = msg.err
		m.Waiting = false

	case PhaseMsg:
		m.Phase = string(msg)

	case LevelMsg:
		m.Level = fmt.Sprintf("Level %d: %s", msg.Level+1, msg.Name)

	case LogMsg:
		m.Lines = append(m.Lines, hintStyle.Render(string(msg)))
		m.syncViewport()
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) acceptTurn(turn ritual.Turn) Model {
	m.Turn = turn
	m.Waiting = false
	m.Phase = string(turn.Phase)
	m.Level = fmt.Sprintf("Level %d: %s", turn.Level+1, turn.LevelName)

	header := fmt.Sprintf("%s %s · %s", turn.Icon, turn.LevelName, turn.Round)
	m.Lines = append(m.Lines, pondStyle.Render(header), turn.Body, "")
	if turn.Finished {
		m.Lines = append(m.Lines, hintStyle.Render("The ritual is complete. Press enter to leave the pond."))
	}
	m.syncViewport()
	return m
}

func (m *Model) syncViewport() {
	if !m.Ready {
		return
	}
	m.Viewport.SetContent(strings.Join(m.Lines, "\n"))
	m.Viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.Ready {
		return "\n  The pond is still..."
	}

	header := titleStyle.Render(" Memory Pond ") + " " + m.Level
	if m.Phase != "" {
		header += hintStyle.Render("  (" + m.Phase + ")")
	}

	status := ""
	if m.Waiting {
		status = hintStyle.Render("  the pond is thinking...")
	}
	if m.Err != nil {
		status = errorStyle.Render("  " + m.Err.Error())
	}

	view := fmt.Sprintf("%s\n\n%s\n\n%s%s",
		header,
		m.Viewport.View(),
		m.Input.View(),
		status)

	if m.Quitting {
		return view + "\n"
	}
	return view
}
