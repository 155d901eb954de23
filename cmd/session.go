package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
)

// sessionCommand inspects or clears session state.
func sessionCommand(cfg *config.Config, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}

	switch action {
	case "show":
		return sessionShow(cfg)
	case "path":
		sess, err := resolveSession(cfg)
		if err != nil {
			return err
		}
		fmt.Println(sess.Dir)
		return nil
	case "ls", "list":
		return sessionList(cfg)
	case "clear":
		sess, err := resolveSession(cfg)
		if err != nil {
			return err
		}
		if err := sess.Clear(); err != nil {
			return err
		}
		fmt.Printf("Cleared session %s\n", sess.ID)
		return nil
	default:
		return usageErrorf("unknown session action: %s (want show, path, ls or clear)", action)
	}
}

func sessionShow(cfg *config.Config) error {
	sess, err := resolveSession(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Session: %s\n", sess.ID)
	fmt.Printf("Dir:     %s\n", sess.Dir)
	fmt.Printf("Storage: %s\n", cfg.Storage)

	if _, err := os.Stat(sess.Dir); err != nil {
		fmt.Println("State:   none")
		return nil
	}
	if cfg.Storage == config.StorageMemory {
		return nil
	}
	store, err := storage.Open(cfg.Storage, sess.Dir, session.DBFile)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	defer store.Close()
	keys, err := store.Keys()
	if err != nil {
		return err
	}
	fmt.Printf("Keys:    %v\n", keys)
	return nil
}

func sessionList(cfg *config.Config) error {
	infos, err := session.List(cfg.SessionDir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No sessions.")
		return nil
	}
	current, err := resolveSession(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tSESSION\tMODIFIED\tDIR")
	for _, info := range infos {
		mark := ""
		if info.Dir == current.Dir {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, info.ID, info.ModTime.Format(time.DateTime), info.Dir)
	}
	return w.Flush()
}

// logsCommand prints or follows the latest run log of the session.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo logs", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List run logs instead of printing one")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %v", fs.Args())
	}

	sess, err := resolveSession(cfg)
	if err != nil {
		return err
	}

	if *list {
		runs, err := logging.FindLogRuns(sess.LogDir())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No log files found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSIZE\tMODIFIED")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%d\t%s\n", run.RunID, run.Size, run.ModTime.Format(time.DateTime))
		}
		return w.Flush()
	}

	logPath, err := logging.FindLatestLog(sess.LogDir())
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	if *follow {
		fmt.Printf("Tailing: %s\n", logPath)
		fmt.Println("(Ctrl+C to stop)")
		fmt.Println()
	}
	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}
