package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/todo"
)

// lsCommand prints the list with the index each row is addressed by.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo ls", flag.ContinueOnError)
	onlyOpen := fs.Bool("open", false, "Only incomplete tasks")
	onlyDone := fs.Bool("done", false, "Only completed tasks")
	showIDs := fs.Bool("ids", false, "Show task ids")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %v", fs.Args())
	}
	if *onlyOpen && *onlyDone {
		return usageErrorf("-open and -done are mutually exclusive")
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.ctrl.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for i, t := range tasks {
		if (*onlyOpen && t.Completed) || (*onlyDone && !t.Completed) {
			continue
		}
		printTask(i, t, *showIDs)
	}
	open, done := todo.Counts(tasks)
	fmt.Printf("\n%d open, %d done\n", open, done)
	return nil
}

// printTask prints a single task.
func printTask(i int, t todo.Task, showID bool) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	if showID {
		fmt.Printf("%3d %s %s  (%s)\n", i, box, t.Text, t.ID)
		return
	}
	fmt.Printf("%3d %s %s\n", i, box, t.Text)
}

// addCommand adds one task from the joined arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Add(text); err != nil {
		return err
	}
	tasks := a.ctrl.Tasks()
	printTask(len(tasks)-1, tasks[len(tasks)-1], false)
	return nil
}

// rmCommand deletes the task at an index.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return usageErrorf("usage: todo rm <index>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.ctrl.Tasks()
	if err := a.ctrl.Delete(i); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", tasks[i].Text)
	return nil
}

// editCommand replaces the text of the task at an index. It runs the same
// begin/save cycle as the interactive list, so completion is kept.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return usageErrorf("usage: todo edit <index> <text>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.BeginEdit(i); err != nil {
		return err
	}
	if err := a.ctrl.SetEditText(text); err != nil {
		return err
	}
	if err := a.ctrl.SaveEditAt(i); err != nil {
		return err
	}
	printTask(i, a.ctrl.Tasks()[i], false)
	return nil
}

// doneCommand toggles completion of the task at an index.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return usageErrorf("usage: todo done <index>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Toggle(i); err != nil {
		return err
	}
	printTask(i, a.ctrl.Tasks()[i], false)
	return nil
}

// exportCommand writes the list to stdout in a machine-readable format.
func exportCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo export", flag.ContinueOnError)
	format := fs.String("format", todo.FormatJSON, "Output format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := todo.Export(a.ctrl.Tasks(), *format)
	if err != nil {
		return usageErrorf("%v", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// resetCommand drops the stored list and draft for the session.
func resetCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	// Reset must work on a list that no longer decodes, so nothing is hydrated.
	a, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.taskState()
	if err := tasks.Reset(); err != nil {
		return err
	}
	if err := todo.NewDraftState(a.store, a.logger).Reset(); err != nil {
		return err
	}
	list, err := tasks.Get()
	if err != nil {
		return err
	}
	a.logger.Info("session list reset")
	fmt.Printf("Reset session %s (%d tasks)\n", a.sess.ID, len(list))
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageErrorf("invalid index %q", s)
	}
	return i, nil
}
