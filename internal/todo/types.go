package todo

import (
	"errors"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// Storage keys.
const (
	TasksKey = "tasks"
	DraftKey = "draft"
)

var (
	// ErrEmptyTask is returned when new task text is blank.
	ErrEmptyTask = errors.New("task text is empty")
	// ErrIndexOutOfRange is returned for an index outside the list.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrTaskNotFound is returned for an unknown task ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotEditing is returned when no matching edit is in progress.
	ErrNotEditing = errors.New("no task is being edited")
)

// Task is a single to-do item.
type Task struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// NewTask returns an incomplete task with a fresh ID. text is kept verbatim.
func NewTask(text string) Task {
	return Task{ID: uuid.NewString(), Text: text}
}

// DefaultTasks returns the seed list used when a session has nothing stored.
// Seed IDs are derived from position and text, so they are the same on
// every run until the list is first written.
func DefaultTasks() []Task {
	texts := []string{"Eat Breakfast", "Go to Work", "Go to the Gym", "Take a Shower"}
	tasks := make([]Task, len(texts))
	for i, text := range texts {
		tasks[i] = Task{ID: derivedID(i, text), Text: text}
	}
	return tasks
}

// derivedID is the stable ID for a record at index i that has none of its own.
func derivedID(i int, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("todo:"+strconv.Itoa(i)+":"+text)).String()
}

// IndexOf returns the index of the task with id, or -1.
func IndexOf(tasks []Task, id string) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}

// Append returns a new list with t added at the end.
func Append(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}

// Remove returns a new list without index i. i must be in range.
func Remove(tasks []Task, i int) []Task {
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// Replace returns a new list with index i set to t. i must be in range.
func Replace(tasks []Task, i int, t Task) []Task {
	out := slices.Clone(tasks)
	out[i] = t
	return out
}

// AssignIDs returns tasks with a unique ID on every record. Records with no
// ID, or with an ID already used by an earlier record, get one derived from
// their index and text. The input is returned unchanged when every ID is
// present and unique.
func AssignIDs(tasks []Task) []Task {
	var out []Task
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if t.ID != "" && !seen[t.ID] {
			seen[t.ID] = true
			continue
		}
		if out == nil {
			out = slices.Clone(tasks)
		}
		id := derivedID(i, t.Text)
		if seen[id] {
			id = uuid.NewString()
		}
		out[i].ID = id
		seen[id] = true
	}
	if out == nil {
		return tasks
	}
	return out
}

// Counts returns the number of open and completed tasks.
func Counts(tasks []Task) (open, done int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
