// Package ui provides the terminal task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo-app/app/models"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	checkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle      = mutedStyle.Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	editStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	defaultTimeout = 10 * time.Second
)

// Option configures the TUI.
type Option func(*Model)

// WithRequestTimeout bounds every refresh cycle.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// Model is the Bubble Tea model over a Board.
type Model struct {
	api     TaskAPI
	board   *Board
	timeout time.Duration
	loaded  bool
	busy    bool
}

type refreshedMsg struct {
	tasks []models.Task
	err   error
}

// NewModel creates the model. The first list fetch happens in Init.
func NewModel(api TaskAPI, opts ...Option) *Model {
	m := &Model{
		api:     api,
		board:   &Board{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Board exposes the current state.
func (m *Model) Board() *Board {
	return m.board
}

// Run starts the TUI on the terminal.
func Run(ctx context.Context, api TaskAPI, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(NewModel(api, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (m *Model) Init() tea.Cmd {
	return m.refresh(nil)
}

// refresh runs action and re-fetches the list off the update loop.
func (m *Model) refresh(action Action) tea.Cmd {
	m.busy = true
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tasks, err := Refresh(ctx, api, action)
		return refreshedMsg{tasks: tasks, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.busy = false
		m.loaded = m.loaded || msg.err == nil
		m.board.Apply(msg.tasks, msg.err)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "up":
		m.board.Move(-1)
		return nil
	case "down":
		m.board.Move(1)
		return nil
	case "esc":
		m.board.CancelEdit()
		return nil
	case "ctrl+e":
		m.board.Edit()
		return nil
	case "backspace":
		if r := []rune(m.board.Input); len(r) > 0 {
			m.board.Input = string(r[:len(r)-1])
		}
		return nil
	}

	// One request at a time.
	if m.busy {
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.board.Input += string(msg.Runes)
		}
		return nil
	}

	switch msg.String() {
	case "enter":
		return m.mutate(m.board.Submit())
	case "ctrl+t":
		return m.mutate(m.board.Toggle())
	case "ctrl+d":
		return m.mutate(m.board.Delete())
	case "ctrl+r":
		return m.refresh(nil)
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.board.Input += string(msg.Runes)
	}
	return nil
}

func (m *Model) mutate(action Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return m.refresh(action)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(checkStyle.Render("✔") + " " + titleStyle.Render("Todo List") + "\n")

	completed, total := m.board.Counts()
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d / %d tasks completed", completed, total)) + "\n\n")

	writeInput(&b, m.board)
	b.WriteString("\n")

	switch {
	case !m.loaded && m.busy:
		b.WriteString(mutedStyle.Render("Loading...") + "\n")
	case total == 0:
		b.WriteString(mutedStyle.Render("No tasks yet. Add one.") + "\n")
	default:
		writeTasks(&b, m.board)
	}

	if m.board.Err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.board.Err.Error()) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("enter add/update · ↑/↓ select · ctrl+t toggle · ctrl+e edit · ctrl+d delete · esc cancel · ctrl+r reload · ctrl+c quit"))
	return boxStyle.Render(b.String()) + "\n"
}

func writeInput(b *strings.Builder, board *Board) {
	label := "ADD"
	style := cursorStyle
	if board.EditingID != "" {
		label = "UPDATE"
		style = editStyle
	}

	input := board.Input
	if input == "" {
		input = mutedStyle.Render("Enter a task")
	}
	b.WriteString(style.Render("["+label+"]") + " > " + input + "\n")
}

func writeTasks(b *strings.Builder, board *Board) {
	for i, task := range board.Tasks {
		marker := "  "
		if i == board.Cursor {
			marker = cursorStyle.Render("> ")
		}

		box := "[ ]"
		text := task.Text
		if task.Completed {
			box = checkStyle.Render("[x]")
			text = doneStyle.Render(text)
		}
		if task.ID == board.EditingID {
			text += " " + editStyle.Render("(editing)")
		}
		b.WriteString(marker + box + " " + text + "\n")
	}
}
