package todo

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/persist"
	"github.com/nibzard/todo-go/internal/storage"
)

// StateOptions configures NewTaskState.
type StateOptions struct {
	// SeedDefaults uses DefaultTasks when nothing is stored.
	SeedDefaults bool
	// ResetOnCorrupt falls back to the initial list instead of failing.
	ResetOnCorrupt bool
	// OnChange is called with the new list after every successful write.
	OnChange func([]Task)
	Logger   *log.Logger
}

// NewTaskState binds the task list to TasksKey in store.
func NewTaskState(store storage.Storage, opts StateOptions) *persist.State[[]Task] {
	initial := []Task{}
	if opts.SeedDefaults {
		initial = DefaultTasks()
	}
	policy := persist.RecoverFail
	if opts.ResetOnCorrupt {
		policy = persist.RecoverReset
	}
	stateOpts := []persist.Option[[]Task]{
		persist.WithValidator[[]Task](ValidateStored),
		persist.WithHydrateHook(AssignIDs),
		persist.WithRecovery[[]Task](policy),
		persist.WithLogger[[]Task](opts.Logger),
	}
	if opts.OnChange != nil {
		stateOpts = append(stateOpts, persist.WithObserver(opts.OnChange))
	}
	return persist.New(store, TasksKey, initial, stateOpts...)
}

// NewDraftState binds the new-task input buffer to DraftKey in store.
// A draft that cannot be read is dropped.
func NewDraftState(store storage.Storage, logger *log.Logger) *persist.State[string] {
	return persist.New(store, DraftKey, "",
		persist.WithRecovery[string](persist.RecoverReset),
		persist.WithLogger[string](logger),
	)
}

// Edit is an in-progress edit of one task.
type Edit struct {
	ID     string
	Buffer string
}

// Option configures a Controller.
type Option func(*Controller)

// WithDraft persists the input buffer through d.
func WithDraft(d *persist.State[string]) Option {
	return func(c *Controller) { c.draft = d }
}

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller owns the task list, the editing slot and the input buffer.
// It is not safe for concurrent use.
type Controller struct {
	tasks  *persist.State[[]Task]
	draft  *persist.State[string]
	edit   *Edit
	input  string
	logger *log.Logger
}

// NewController hydrates tasks (and the draft, if any) and returns a
// controller over them. A corrupt stored list fails here unless the state
// was built to reset.
func NewController(tasks *persist.State[[]Task], opts ...Option) (*Controller, error) {
	c := &Controller{
		tasks:  tasks,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	list, err := tasks.Get()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if c.draft != nil {
		input, err := c.draft.Get()
		if err != nil {
			return nil, fmt.Errorf("load draft: %w", err)
		}
		c.input = input
	}
	c.logger.Debug("controller ready", "tasks", len(list))
	return c, nil
}

// list returns the current list. Hydration already succeeded in
// NewController, so Get cannot fail here.
func (c *Controller) list() []Task {
	list, _ := c.tasks.Get()
	return list
}

// Tasks returns the current list. Callers must not modify it.
func (c *Controller) Tasks() []Task {
	return c.list()
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	return len(c.list())
}

// Input returns the new-task input buffer.
func (c *Controller) Input() string {
	return c.input
}

// SetInput replaces the new-task input buffer.
func (c *Controller) SetInput(s string) error {
	if s == c.input {
		return nil
	}
	c.input = s
	if c.draft != nil {
		return c.draft.Set(s)
	}
	return nil
}

// Submit adds the input buffer as a new task and clears the buffer.
func (c *Controller) Submit() error {
	if err := c.Add(c.input); err != nil {
		return err
	}
	return c.SetInput("")
}

// Add appends an incomplete task with text. The input buffer is left
// alone. Blank text is rejected with ErrEmptyTask and nothing changes. text is
// stored as given, surrounding whitespace included.
func (c *Controller) Add(text string) error {
	if strings.TrimSpace(text) == "" {
		c.logger.Debug("rejected blank task")
		return ErrEmptyTask
	}
	t := NewTask(text)
	if err := c.tasks.Set(Append(c.list(), t)); err != nil {
		return err
	}
	c.logger.Info("task added", "id", t.ID, "text", t.Text)
	return nil
}

// Delete removes the task at index i.
func (c *Controller) Delete(i int) error {
	list := c.list()
	if err := checkIndex(list, i); err != nil {
		return err
	}
	return c.deleteAt(list, i)
}

// DeleteID removes the task with id.
func (c *Controller) DeleteID(id string) error {
	list := c.list()
	i := IndexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return c.deleteAt(list, i)
}

func (c *Controller) deleteAt(list []Task, i int) error {
	removed := list[i]
	if err := c.tasks.Set(Remove(list, i)); err != nil {
		return err
	}
	if c.edit != nil && c.edit.ID == removed.ID {
		c.edit = nil
	}
	c.logger.Info("task deleted", "id", removed.ID, "index", i)
	return nil
}

// BeginEdit starts editing the task at index i with its current text.
// Any other edit in progress is abandoned.
func (c *Controller) BeginEdit(i int) error {
	list := c.list()
	if err := checkIndex(list, i); err != nil {
		return err
	}
	c.beginEdit(list[i])
	return nil
}

// BeginEditID starts editing the task with id.
func (c *Controller) BeginEditID(id string) error {
	list := c.list()
	i := IndexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	c.beginEdit(list[i])
	return nil
}

func (c *Controller) beginEdit(t Task) {
	if c.edit != nil && c.edit.ID != t.ID {
		c.logger.Debug("abandoned edit", "id", c.edit.ID)
	}
	c.edit = &Edit{ID: t.ID, Buffer: t.Text}
}

// Editing returns the edit in progress.
func (c *Controller) Editing() (Edit, bool) {
	if c.edit == nil {
		return Edit{}, false
	}
	return *c.edit, true
}

// EditingIndex returns the index of the task being edited, or -1.
func (c *Controller) EditingIndex() int {
	if c.edit == nil {
		return -1
	}
	return IndexOf(c.list(), c.edit.ID)
}

// SetEditText replaces the edit buffer.
func (c *Controller) SetEditText(s string) error {
	if c.edit == nil {
		return ErrNotEditing
	}
	c.edit.Buffer = s
	return nil
}

// CancelEdit discards the edit in progress, if any.
func (c *Controller) CancelEdit() {
	c.edit = nil
}

// SaveEdit commits the edit buffer as the text of the task being edited,
// keeping its completion state, and clears the editing slot. If the write
// fails the edit stays in progress.
func (c *Controller) SaveEdit() error {
	if c.edit == nil {
		return ErrNotEditing
	}
	edit := *c.edit

	list := c.list()
	i := IndexOf(list, edit.ID)
	if i < 0 {
		c.edit = nil
		return fmt.Errorf("%w: %s", ErrTaskNotFound, edit.ID)
	}
	t := list[i]
	t.Text = edit.Buffer
	if err := c.tasks.Set(Replace(list, i, t)); err != nil {
		return err
	}
	c.edit = nil
	c.logger.Info("task edited", "id", t.ID, "text", t.Text)
	return nil
}

// SaveEditAt is SaveEdit for callers that address rows by index. The
// edit in progress must be for index i.
func (c *Controller) SaveEditAt(i int) error {
	if err := checkIndex(c.list(), i); err != nil {
		return err
	}
	if got := c.EditingIndex(); got != i {
		return fmt.Errorf("%w: at index %d", ErrNotEditing, i)
	}
	return c.SaveEdit()
}

// Toggle flips the completion state of the task at index i.
func (c *Controller) Toggle(i int) error {
	list := c.list()
	if err := checkIndex(list, i); err != nil {
		return err
	}
	return c.toggleAt(list, i)
}

// ToggleID flips the completion state of the task with id.
func (c *Controller) ToggleID(id string) error {
	list := c.list()
	i := IndexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return c.toggleAt(list, i)
}

func (c *Controller) toggleAt(list []Task, i int) error {
	t := list[i]
	t.Completed = !t.Completed
	if err := c.tasks.Set(Replace(list, i, t)); err != nil {
		return err
	}
	c.logger.Info("task toggled", "id", t.ID, "completed", t.Completed)
	return nil
}

// Reset drops the stored list and input buffer and returns to the
// initial list.
func (c *Controller) Reset() error {
	c.edit = nil
	if err := c.tasks.Reset(); err != nil {
		return err
	}
	c.input = ""
	if c.draft != nil {
		if err := c.draft.Reset(); err != nil {
			return err
		}
	}
	c.logger.Info("session list reset")
	return nil
}

func checkIndex(list []Task, i int) error {
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(list))
	}
	return nil
}
