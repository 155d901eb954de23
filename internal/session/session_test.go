package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	base := t.TempDir()

	t.Run("explicit id", func(t *testing.T) {
		s, err := Resolve(base, "work tab")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if s.ID != "work tab" {
			t.Errorf("ID: got %q, want %q", s.ID, "work tab")
		}
		name := filepath.Base(s.Dir)
		if !strings.HasPrefix(name, "work_tab-") {
			t.Errorf("dir name %q does not start with slug", name)
		}
		if filepath.Dir(s.Dir) != base {
			t.Errorf("dir %q is not under base %q", s.Dir, base)
		}
	})

	t.Run("empty id falls back to parent process", func(t *testing.T) {
		s, err := Resolve(base, "  ")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if s.ID != DefaultID() {
			t.Errorf("ID: got %q, want %q", s.ID, DefaultID())
		}
	})

	t.Run("same id same dir", func(t *testing.T) {
		a, _ := Resolve(base, "x")
		b, _ := Resolve(base, "x")
		c, _ := Resolve(base, "y")
		if a.Dir != b.Dir {
			t.Errorf("same id resolved to %q and %q", a.Dir, b.Dir)
		}
		if a.Dir == c.Dir {
			t.Errorf("different ids share dir %q", a.Dir)
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		if _, err := Resolve("", "x"); !errors.Is(err, ErrNoBaseDir) {
			t.Errorf("got %v, want ErrNoBaseDir", err)
		}
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ppid-123", "ppid-123"},
		{"a/b c", "a_b_c"},
		{"///", "session"},
		{"..", "session"},
		{strings.Repeat("x", 40), strings.Repeat("x", 32)},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureListClear(t *testing.T) {
	base := t.TempDir()

	if infos, err := List(filepath.Join(base, "missing")); err != nil || len(infos) != 0 {
		t.Fatalf("List on missing dir: got %v, %v", infos, err)
	}

	s, err := Resolve(base, "tab-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	// Ensure is idempotent.
	if err := s.Ensure(); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}

	// Directories without an id file are not sessions.
	if err := os.Mkdir(filepath.Join(base, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	infos, err := List(base)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "tab-1" || infos[0].Dir != s.Dir {
		t.Fatalf("List: got %+v", infos)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.Dir); !os.IsNotExist(err) {
		t.Errorf("session dir still exists after Clear: %v", err)
	}
	if got := s.LogDir(); got != filepath.Join(s.Dir, LogDir) {
		t.Errorf("LogDir: got %q", got)
	}
}
