package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEscape}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) (*Model, *todo.Controller, storage.Storage) {
	t.Helper()
	store := storage.NewMemory()
	ctrl, err := todo.NewController(
		todo.NewTaskState(store, todo.StateOptions{SeedDefaults: true}),
		todo.WithDraft(todo.NewDraftState(store, nil)),
	)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return New(ctrl, WithSession("test")), ctrl, store
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func texts(tasks []todo.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

// row returns the rendered line containing text.
func row(t *testing.T, view, text string) string {
	t.Helper()
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, text) {
			return line
		}
	}
	t.Fatalf("no row contains %q in view:\n%s", text, view)
	return ""
}

func TestTypeAndSubmitAddsTask(t *testing.T) {
	m, ctrl, _ := newModel(t)

	press(m, runes("Read a book"))
	if ctrl.Input() != "Read a book" {
		t.Fatalf("draft: got %q", ctrl.Input())
	}
	press(m, enter)

	if ctrl.Len() != 5 {
		t.Fatalf("Len: got %d, want 5", ctrl.Len())
	}
	if last := ctrl.Tasks()[4]; last.Text != "Read a book" || last.Completed {
		t.Errorf("last task: %+v", last)
	}
	if m.input.Value() != "" || ctrl.Input() != "" {
		t.Errorf("input not cleared: view=%q ctrl=%q", m.input.Value(), ctrl.Input())
	}
	if r := row(t, m.View(), "Read a book"); !strings.Contains(r, "[ ]") || !strings.Contains(r, "[Delete]") {
		t.Errorf("row rendered as %q", r)
	}
}

func TestBlankSubmitRaisesBlockingAlert(t *testing.T) {
	m, ctrl, store := newModel(t)
	press(m, runes("   "), enter)

	if m.mode != modeAlert {
		t.Fatalf("mode: got %v, want alert", m.mode)
	}
	if !strings.Contains(m.View(), AlertEmptyTask) {
		t.Errorf("view missing alert:\n%s", m.View())
	}
	if ctrl.Len() != 4 {
		t.Errorf("Len: got %d, want 4", ctrl.Len())
	}
	if _, ok, _ := store.Get(todo.TasksKey); ok {
		t.Error("blank submit wrote the task list")
	}

	// Keys other than dismiss are swallowed.
	press(m, runes("abc"), tab)
	if m.mode != modeAlert || m.input.Value() != "   " {
		t.Fatalf("alert did not block input: mode=%v value=%q", m.mode, m.input.Value())
	}

	press(m, enter)
	if m.mode != modeInput {
		t.Errorf("mode after dismiss: got %v, want input", m.mode)
	}
	if strings.Contains(m.View(), AlertEmptyTask) {
		t.Error("alert still rendered after dismiss")
	}
}

func TestListToggleAndDelete(t *testing.T) {
	m, ctrl, _ := newModel(t)

	press(m, tab, runes("j"), space)
	if !ctrl.Tasks()[1].Completed {
		t.Fatal("space did not toggle the cursor row")
	}
	if r := row(t, m.View(), "Go to Work"); !strings.Contains(r, "[x]") {
		t.Errorf("completed row rendered as %q", r)
	}

	press(m, space)
	if ctrl.Tasks()[1].Completed {
		t.Error("second toggle did not restore the row")
	}

	press(m, runes("d"))
	want := []string{"Eat Breakfast", "Go to the Gym", "Take a Shower"}
	if diff := cmp.Diff(want, texts(ctrl.Tasks())); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}

	press(m, runes("j"), runes("j"), runes("j"), runes("d"))
	if m.cursor != 1 {
		t.Errorf("cursor after deleting last row: got %d, want 1", m.cursor)
	}
}

func TestEditAndSave(t *testing.T) {
	m, ctrl, _ := newModel(t)
	_ = ctrl.Toggle(1)

	press(m, tab, runes("j"), runes("e"))
	if m.mode != modeEdit {
		t.Fatalf("mode: got %v, want edit", m.mode)
	}
	if r := row(t, m.View(), "[Save]"); !strings.Contains(r, "Go to Work") || strings.Contains(r, "[Delete]") {
		t.Errorf("editing row rendered as %q", r)
	}

	press(m, runes("!"), enter)
	if m.mode != modeList {
		t.Errorf("mode after save: got %v, want list", m.mode)
	}
	got := ctrl.Tasks()[1]
	if got.Text != "Go to Work!" || !got.Completed {
		t.Errorf("saved task: %+v", got)
	}
	if _, ok := ctrl.Editing(); ok {
		t.Error("editing slot not cleared")
	}
}

func TestEditCancel(t *testing.T) {
	m, ctrl, _ := newModel(t)

	press(m, tab, enter, runes(" later"), esc)
	if m.mode != modeList {
		t.Fatalf("mode: got %v, want list", m.mode)
	}
	if got := ctrl.Tasks()[0].Text; got != "Eat Breakfast" {
		t.Errorf("cancel changed text to %q", got)
	}
}

// flakyStore fails every write while fail is set.
type flakyStore struct {
	*storage.Memory
	fail bool
}

func (f *flakyStore) Set(key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func TestWriteErrorShownUntilNextSuccess(t *testing.T) {
	store := &flakyStore{Memory: storage.NewMemory()}
	ctrl, err := todo.NewController(todo.NewTaskState(store, todo.StateOptions{SeedDefaults: true}))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	m := New(ctrl)

	store.fail = true
	press(m, tab, space)
	if !strings.Contains(m.View(), "error: toggle task") {
		t.Fatalf("write error not shown:\n%s", m.View())
	}

	store.fail = false
	press(m, space)
	if strings.Contains(m.View(), "error:") {
		t.Errorf("error still shown after a successful toggle:\n%s", m.View())
	}
	if !ctrl.Tasks()[0].Completed {
		t.Error("toggle after recovery did not apply")
	}
}

func TestFailedSaveStaysInEdit(t *testing.T) {
	store := &flakyStore{Memory: storage.NewMemory()}
	ctrl, err := todo.NewController(todo.NewTaskState(store, todo.StateOptions{SeedDefaults: true}))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	m := New(ctrl)

	press(m, tab, runes("e"), runes("!"))
	store.fail = true
	press(m, enter)
	if m.mode != modeEdit {
		t.Fatalf("mode after failed save: got %v, want edit", m.mode)
	}
	if edit, ok := ctrl.Editing(); !ok || edit.Buffer != "Eat Breakfast!" {
		t.Fatalf("edit buffer lost: %+v, %v", edit, ok)
	}

	store.fail = false
	press(m, enter)
	if m.mode != modeList || ctrl.Tasks()[0].Text != "Eat Breakfast!" {
		t.Errorf("retry: mode=%v text=%q", m.mode, ctrl.Tasks()[0].Text)
	}
}

func TestDraftRestoredIntoInput(t *testing.T) {
	store := storage.NewMemory()
	draft := todo.NewDraftState(store, nil)
	if err := draft.Set("half typed"); err != nil {
		t.Fatal(err)
	}
	ctrl, err := todo.NewController(
		todo.NewTaskState(store, todo.StateOptions{}),
		todo.WithDraft(todo.NewDraftState(store, nil)),
	)
	if err != nil {
		t.Fatal(err)
	}

	m := New(ctrl)
	if m.input.Value() != "half typed" {
		t.Errorf("input: got %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "No tasks yet.") {
		t.Errorf("empty list not rendered:\n%s", m.View())
	}

	// Esc on an empty list keeps focus on the input.
	press(m, esc)
	if m.mode != modeInput {
		t.Errorf("mode: got %v, want input", m.mode)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t)

	press(m, runes("q"))
	if m.input.Value() != "q" {
		t.Errorf("q in the input: got value %q", m.input.Value())
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatal("ctrl+c returned no command")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
}
