// Package session resolves the terminal session a run belongs to and the
// state directory scoped to it.
//
// A session is identified by TODO_SESSION (via config) or, failing that, by
// the parent process, which is the shell or terminal tab that launched todo.
// Every session gets its own directory under the base dir:
//
//	<base>/<slug>-<hash>/
//	    session.id     original session identifier
//	    tasks.json     file storage entries, one per key
//	    session.db     sqlite storage
//	    logs/          per-run log files
//
// Removing the directory ends the session; nothing in it outlives that.
package session

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// IDFile records the original identifier inside a session directory.
	IDFile = "session.id"

	// DBFile is the sqlite database name inside a session directory.
	DBFile = "session.db"

	// LogDir is the log directory name inside a session directory.
	LogDir = "logs"
)

// ErrNoBaseDir is returned when no base directory is configured.
var ErrNoBaseDir = errors.New("session base dir is empty")

// Session is a resolved session identity and its state directory.
type Session struct {
	ID  string
	Dir string
}

// Info describes a session directory found on disk.
type Info struct {
	ID      string
	Dir     string
	ModTime time.Time
}

// Resolve returns the session for id under baseDir. An empty id falls back
// to the parent process id. Resolve does not touch the filesystem.
func Resolve(baseDir, id string) (*Session, error) {
	if baseDir == "" {
		return nil, ErrNoBaseDir
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultID()
	}
	return &Session{
		ID:  id,
		Dir: filepath.Join(baseDir, dirName(id)),
	}, nil
}

// DefaultID returns the identifier used when none is configured.
func DefaultID() string {
	return fmt.Sprintf("ppid-%d", os.Getppid())
}

// Ensure creates the session directory and records its identifier.
func (s *Session) Ensure() error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	idPath := s.Path(IDFile)
	if _, err := os.Stat(idPath); err == nil {
		return nil
	}
	if err := os.WriteFile(idPath, []byte(s.ID+"\n"), 0600); err != nil {
		return fmt.Errorf("write session id: %w", err)
	}
	return nil
}

// Path returns the path of name inside the session directory.
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// LogDir returns the session's log directory.
func (s *Session) LogDir() string {
	return s.Path(LogDir)
}

// Clear removes the session directory and everything stored in it.
func (s *Session) Clear() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	return nil
}

// List returns the sessions under baseDir, most recently modified first.
// A missing base dir yields no sessions.
func List(baseDir string) ([]Info, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session base dir: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		data, err := os.ReadFile(filepath.Join(dir, IDFile))
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:      strings.TrimSpace(string(data)),
			Dir:     dir,
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}

func dirName(id string) string {
	return fmt.Sprintf("%s-%s", slugify(id), hashID(id))
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "session"
	}
	if len(slug) > 32 {
		slug = slug[:32]
	}
	return slug
}

func hashID(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
