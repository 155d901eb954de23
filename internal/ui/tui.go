// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

// AlertEmptyTask is shown when a blank task is submitted.
const AlertEmptyTask = "Please enter a valid task."

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

type mode int

const (
	modeInput mode = iota
	modeList
	modeEdit
	modeAlert
)

// Option configures the Model.
type Option func(*Model)

// WithLogger sets the UI logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSession shows the session id in the header.
func WithSession(id string) Option {
	return func(m *Model) { m.session = id }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// Run starts the TUI over ctrl and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, ctrl *todo.Controller, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	program := tea.NewProgram(New(ctrl, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctrl     *todo.Controller
	logger   *log.Logger
	keys     KeyMap
	help     help.Model
	input    textinput.Model
	editor   textinput.Model
	mode     mode
	prev     mode
	cursor   int
	alert    string
	err      error
	session  string
	showHelp bool
	width    int
}

// New returns a model over ctrl. The new-task input starts focused and
// holds the persisted draft, if any.
func New(ctrl *todo.Controller, opts ...Option) *Model {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.Prompt = "> "
	input.SetValue(ctrl.Input())
	input.Focus()

	editor := textinput.New()
	editor.Prompt = ""

	m := &Model{
		ctrl:   ctrl,
		logger: log.New(io.Discard),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  input,
		editor: editor,
		mode:   modeInput,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQ) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAlert:
			return m.updateAlert(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeList:
			return m.updateList(msg)
		default:
			return m.updateInput(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeInput:
		m.input, cmd = m.input.Update(msg)
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// updateAlert swallows every key except the dismiss keys.
func (m *Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Dismiss) {
		return m, nil
	}
	m.alert = ""
	m.setMode(m.prev)
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		err := m.ctrl.Submit()
		if errors.Is(err, todo.ErrEmptyTask) {
			m.raise(AlertEmptyTask)
			return m, nil
		}
		if m.fail("add task", err) {
			return m, nil
		}
		m.input.SetValue(m.ctrl.Input())
		m.cursor = m.ctrl.Len() - 1
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.setMode(modeList)
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Len() > 0 {
			m.setMode(modeList)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.ctrl.Input() {
		m.fail("save draft", m.ctrl.SetInput(m.input.Value()))
	}
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.setMode(modeInput)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.ctrl.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.ctrl.Len() > 0 {
			m.fail("toggle task", m.ctrl.Toggle(m.cursor))
		}
	case key.Matches(msg, m.keys.Delete):
		if m.ctrl.Len() > 0 && !m.fail("delete task", m.ctrl.Delete(m.cursor)) {
			m.clampCursor()
			if m.ctrl.Len() == 0 {
				m.setMode(modeInput)
			}
		}
	case key.Matches(msg, m.keys.Edit):
		if m.ctrl.Len() == 0 || m.fail("edit task", m.ctrl.BeginEdit(m.cursor)) {
			return m, nil
		}
		edit, _ := m.ctrl.Editing()
		m.editor.SetValue(edit.Buffer)
		m.editor.CursorEnd()
		m.setMode(modeEdit)
	}
	return m, nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if m.fail("save task", m.ctrl.SaveEdit()) {
			if _, ok := m.ctrl.Editing(); ok {
				return m, nil
			}
		}
		m.setMode(modeList)
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		m.setMode(modeList)
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.fail("edit task", m.ctrl.SetEditText(m.editor.Value()))
	return m, cmd
}

// raise shows a blocking alert.
func (m *Model) raise(text string) {
	m.logger.Debug("alert", "text", text)
	m.alert = text
	m.prev = m.mode
	m.setMode(modeAlert)
}

// fail records err for the status line and reports whether there was one.
// A successful action clears the previous error.
func (m *Model) fail(action string, err error) bool {
	if err == nil {
		m.err = nil
		return false
	}
	m.logger.Error(action+" failed", "err", err)
	m.err = fmt.Errorf("%s: %w", action, err)
	return true
}

func (m *Model) setMode(next mode) {
	m.mode = next
	m.input.Blur()
	m.editor.Blur()
	switch next {
	case modeInput:
		m.input.Focus()
	case modeEdit:
		m.editor.Focus()
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= m.ctrl.Len() {
		m.cursor = m.ctrl.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// IsTTY returns true if w is a terminal.
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
