package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/todo"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sessionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	buttonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.mode == modeAlert {
		b.WriteString(alertStyle.Render(m.alert + "\n\n" + sessionStyle.Render("press enter to dismiss")))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys.helpFor(m.mode)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	m.writeTasks(&b)
	m.writeStatus(&b)

	if m.showHelp || m.mode != modeList {
		b.WriteString(m.help.View(m.keys.helpFor(m.mode)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) writeTitle(b *strings.Builder) {
	title := "To-Do List"
	b.WriteString(titleStyle.Render(title))
	if m.session != "" {
		b.WriteString("  " + sessionStyle.Render("session "+m.session))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *Model) writeTasks(b *strings.Builder) {
	tasks := m.ctrl.Tasks()
	if len(tasks) == 0 {
		b.WriteString("  No tasks yet.\n\n")
		return
	}
	editing := m.ctrl.EditingIndex()
	for i, task := range tasks {
		b.WriteString(m.renderRow(i, task, i == editing))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// renderRow draws the checkbox, then either the edit input and [Save]
// or the text with [Edit] and [Delete].
func (m *Model) renderRow(i int, task todo.Task, editing bool) string {
	pointer := "  "
	if i == m.cursor && m.mode != modeInput {
		pointer = cursorStyle.Render("> ")
	}

	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	if editing {
		return fmt.Sprintf("%s%s %s %s", pointer, box, m.editor.View(), buttonStyle.Render("[Save]"))
	}

	text := task.Text
	if task.Completed {
		text = completedStyle.Render(text)
	} else if i == m.cursor && m.mode != modeInput {
		text = cursorStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s  %s %s", pointer, box, text,
		buttonStyle.Render("[Edit]"), buttonStyle.Render("[Delete]"))
}

func (m *Model) writeStatus(b *strings.Builder) {
	open, done := todo.Counts(m.ctrl.Tasks())
	b.WriteString(sessionStyle.Render(fmt.Sprintf("%d open, %d done", open, done)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
