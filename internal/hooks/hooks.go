// Package hooks invokes the external command configured to run after the
// task list changes.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/nibzard/todo-go/internal/todo"
)

// Options configures a hook invocation.
type Options struct {
	Command string
	Session string
	Tasks   []todo.Task
	WorkDir string
	// Stdout and Stderr default to discarding output; the TUI owns the
	// terminal while hooks run.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Open     int
	Done     int
}

// Invoke runs the hook as `<command> <session> <open> <done>` with the
// task list as JSON on stdin. An empty command does nothing.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}

	tasks := opts.Tasks
	if tasks == nil {
		tasks = []todo.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return Result{}, fmt.Errorf("encode hook payload: %w", err)
	}

	open, done := todo.Counts(tasks)
	args := []string{opts.Session, strconv.Itoa(open), strconv.Itoa(done)}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	cmd.Env = append(os.Environ(), "TODO_HOOK_SESSION="+opts.Session)

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		Open:     open,
		Done:     done,
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
