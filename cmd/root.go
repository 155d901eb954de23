// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/hooks"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/persist"
	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrUsage marks errors caused by bad command-line input.
var ErrUsage = errors.New("usage error")

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, todo.ErrEmptyTask),
		errors.Is(err, todo.ErrIndexOutOfRange),
		errors.Is(err, todo.ErrTaskNotFound),
		errors.Is(err, ErrUsage),
		errors.Is(err, flag.ErrHelp):
		return 2
	default:
		return 1
	}
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No subcommand, or only flags, opens the interactive list.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(ctx, cfg, remainingArgs)
	case "export":
		return exportCommand(ctx, cfg, remainingArgs)
	case "reset":
		return resetCommand(ctx, cfg, remainingArgs)
	case "session":
		return sessionCommand(cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "completion":
		return completionCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return usageErrorf("unknown command: %s", subcommand)
	}
}

// app is an opened session: its storage, logger and controller.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	sess   *session.Session
	store  storage.Storage
	runLog *logging.RunLogger
	logger *log.Logger
	ctrl   *todo.Controller
}

// openApp resolves the session, opens its storage and hydrates the list.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a, err := openSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.ctrl, err = todo.NewController(a.taskState(),
		todo.WithDraft(todo.NewDraftState(a.store, a.logger)),
		todo.WithLogger(a.logger),
	)
	if err != nil {
		a.logger.Error("loading tasks failed", "err", err)
		a.Close()
		return nil, err
	}
	return a, nil
}

// openSession resolves the session and opens its logger and storage
// without reading anything from it.
func openSession(ctx context.Context, cfg *config.Config) (*app, error) {
	sess, err := resolveSession(cfg)
	if err != nil {
		return nil, err
	}
	if err := sess.Ensure(); err != nil {
		return nil, err
	}

	a := &app{ctx: ctx, cfg: cfg, sess: sess}
	opts := logOptions(cfg)
	if cfg.LogStderr {
		a.logger = logging.New(os.Stderr, opts)
	} else {
		a.runLog, err = logging.NewRunLogger(sess.LogDir(), opts)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		a.logger = a.runLog.Logger
	}

	a.store, err = storage.Open(cfg.Storage, sess.Dir, session.DBFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	a.logger.Debug("session opened", "id", sess.ID, "dir", sess.Dir, "storage", cfg.Storage)
	return a, nil
}

func (a *app) taskState() *persist.State[[]todo.Task] {
	opts := todo.StateOptions{
		SeedDefaults:   a.cfg.SeedDefaults,
		ResetOnCorrupt: a.cfg.ResetOnCorrupt(),
		Logger:         a.logger,
	}
	if a.cfg.Hook != "" {
		opts.OnChange = a.runHook
	}
	return todo.NewTaskState(a.store, opts)
}

// runHook runs the change hook. Failures are logged, never returned: the
// list is already stored by the time the hook runs.
func (a *app) runHook(tasks []todo.Task) {
	result, err := hooks.Invoke(a.ctx, hooks.Options{
		Command: a.cfg.Hook,
		Session: a.sess.ID,
		Tasks:   tasks,
		WorkDir: a.cfg.ProjectRoot,
	})
	if err != nil {
		a.logger.Error("change hook failed", "command", a.cfg.Hook, "exit_code", result.ExitCode, "err", err)
		return
	}
	a.logger.Debug("change hook ran", "command", a.cfg.Hook, "open", result.Open, "done", result.Done)
}

// Close releases storage and the log file.
func (a *app) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.runLog.Close())
	return errors.Join(errs...)
}

func resolveSession(cfg *config.Config) (*session.Session, error) {
	sess, err := session.Resolve(cfg.SessionDir, cfg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	return sess, nil
}

func logOptions(cfg *config.Config) logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	opts.Timestamps = cfg.LogTimestamps
	opts.Caller = cfg.LogCaller
	return opts
}

// tuiCommand launches the interactive list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("%w; use 'todo ls' for non-interactive output", ui.ErrNotTTY)
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(ctx, a.ctrl, ui.WithLogger(a.logger), ui.WithSession(a.sess.ID))
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a to-do list scoped to your terminal session")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Interactive list (default command)")
	fmt.Fprintln(w, "  ls                  List tasks with their index")
	fmt.Fprintln(w, "  add <text>          Add a task")
	fmt.Fprintln(w, "  rm <index>          Delete a task")
	fmt.Fprintln(w, "  edit <index> <text> Replace a task's text")
	fmt.Fprintln(w, "  done <index>        Toggle a task's completion")
	fmt.Fprintln(w, "  export              Print the list as JSON or YAML")
	fmt.Fprintln(w, "  reset               Drop the stored list for this session")
	fmt.Fprintln(w, "  session [show|path|ls|clear]")
	fmt.Fprintln(w, "                      Inspect or clear session state")
	fmt.Fprintln(w, "  logs                Show the latest run log")
	fmt.Fprintln(w, "  config [show|example]")
	fmt.Fprintln(w, "                      Show effective configuration")
	fmt.Fprintln(w, "  completion <shell>  Print a shell completion script")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Hook:")
	fmt.Fprintln(w, "  With -hook set, every change runs <hook> <session> <open> <done>")
	fmt.Fprintln(w, "  with the task list as JSON on stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -open    Only incomplete tasks")
	fmt.Fprintln(w, "  -done    Only completed tasks")
	fmt.Fprintln(w, "  -ids     Show task ids")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml) (default \"json\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List run logs instead of printing one")
}
