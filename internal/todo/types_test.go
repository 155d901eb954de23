package todo

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func texts(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestDefaultTasks(t *testing.T) {
	tasks := DefaultTasks()
	want := []string{"Eat Breakfast", "Go to Work", "Go to the Gym", "Take a Shower"}
	if diff := cmp.Diff(want, texts(tasks)); diff != "" {
		t.Errorf("default texts mismatch (-want +got):\n%s", diff)
	}
	seen := map[string]bool{}
	for _, task := range tasks {
		if task.Completed {
			t.Errorf("default task %q is completed", task.Text)
		}
		if task.ID == "" || seen[task.ID] {
			t.Errorf("default task %q has missing or duplicate id %q", task.Text, task.ID)
		}
		seen[task.ID] = true
	}
	if diff := cmp.Diff(tasks, DefaultTasks()); diff != "" {
		t.Errorf("seed ids differ between calls (-first +second):\n%s", diff)
	}
}

func TestListOpsDoNotAlias(t *testing.T) {
	orig := []Task{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}, {ID: "c", Text: "c"}}
	snapshot := append([]Task(nil), orig...)

	appended := Append(orig[:2], Task{ID: "x", Text: "x"})
	removed := Remove(orig, 1)
	replaced := Replace(orig, 0, Task{ID: "a", Text: "A", Completed: true})

	if diff := cmp.Diff(snapshot, orig); diff != "" {
		t.Fatalf("input list modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "x"}, texts(appended)); diff != "" {
		t.Errorf("Append mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, texts(removed)); diff != "" {
		t.Errorf("Remove mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "b", "c"}, texts(replaced)); diff != "" {
		t.Errorf("Replace mismatch (-want +got):\n%s", diff)
	}
	if IndexOf(orig, "c") != 2 || IndexOf(orig, "zz") != -1 {
		t.Error("IndexOf returned wrong index")
	}
}

func TestAssignIDs(t *testing.T) {
	complete := []Task{{ID: "a", Text: "a"}}
	if got := AssignIDs(complete); &got[0] != &complete[0] {
		t.Error("AssignIDs copied a list that needed no IDs")
	}

	partial := []Task{{ID: "a", Text: "a"}, {Text: "b", Completed: true}}
	got := AssignIDs(partial)
	if partial[1].ID != "" {
		t.Error("AssignIDs modified its input")
	}
	if got[0].ID != "a" {
		t.Errorf("existing id changed: %q", got[0].ID)
	}
	if got[1].ID == "" || got[1].Text != "b" || !got[1].Completed {
		t.Errorf("assigned record wrong: %+v", got[1])
	}
	if again := AssignIDs(partial); again[1].ID != got[1].ID {
		t.Errorf("assigned id not stable: %q then %q", got[1].ID, again[1].ID)
	}

	dup := []Task{{ID: "a", Text: "first"}, {ID: "a", Text: "second"}, {ID: "a", Text: "third"}}
	got = AssignIDs(dup)
	if got[0].ID != "a" {
		t.Errorf("first occurrence changed: %q", got[0].ID)
	}
	ids := map[string]bool{}
	for _, task := range got {
		if ids[task.ID] {
			t.Errorf("duplicate id %q after AssignIDs: %+v", task.ID, got)
		}
		ids[task.ID] = true
	}
	if dup[1].ID != "a" {
		t.Error("AssignIDs modified its input")
	}
}

func TestCounts(t *testing.T) {
	open, done := Counts([]Task{{Completed: true}, {}, {}})
	if open != 2 || done != 1 {
		t.Errorf("Counts: got open=%d done=%d", open, done)
	}
}

func TestValidateStored(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantErr  bool
		wantPath string
	}{
		{name: "records without ids", raw: `[{"text":"Eat Breakfast","completed":false}]`},
		{name: "with ids", raw: `[{"id":"x","text":"a","completed":true}]`},
		{name: "empty list", raw: `[]`},
		{name: "not json", raw: `nope`, wantErr: true},
		{name: "object instead of list", raw: `{"text":"a"}`, wantErr: true},
		{name: "missing completed", raw: `[{"text":"a"}]`, wantErr: true, wantPath: "[0]"},
		{name: "text not string", raw: `[{"text":"a","completed":false},{"text":3,"completed":false}]`, wantErr: true, wantPath: "[1].text"},
		{name: "unknown field", raw: `[{"text":"a","completed":false,"priority":1}]`, wantErr: true, wantPath: "[0]"},
		{name: "empty id", raw: `[{"id":"","text":"a","completed":false}]`, wantErr: true, wantPath: "[0].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStored([]byte(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if tt.wantPath != "" && !strings.Contains(err.Error(), tt.wantPath) {
				t.Errorf("error %q does not mention path %q", err, tt.wantPath)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"#":          "",
		"/0":         "[0]",
		"/1/text":    "[1].text",
		"#/2/id":     "[2].id",
		"/0/a~1b~0c": "[0].a/b~c",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestExport(t *testing.T) {
	tasks := []Task{{ID: "1", Text: "Eat Breakfast"}, {ID: "2", Text: "Go to Work", Completed: true}}

	t.Run("json", func(t *testing.T) {
		data, err := Export(tasks, FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		want := `[
  {
    "id": "1",
    "text": "Eat Breakfast",
    "completed": false
  },
  {
    "id": "2",
    "text": "Go to Work",
    "completed": true
  }
]
`
		if diff := cmp.Diff(want, string(data)); diff != "" {
			t.Errorf("json export mismatch (-want +got):\n%s", diff)
		}
		if err := ValidateStored(data); err != nil {
			t.Errorf("exported json does not validate: %v", err)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := Export(tasks, FormatYAML)
		if err != nil {
			t.Fatal(err)
		}
		var back []Task
		if err := yaml.Unmarshal(data, &back); err != nil {
			t.Fatalf("yaml does not parse: %v", err)
		}
		if diff := cmp.Diff(tasks, back); diff != "" {
			t.Errorf("yaml mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil list", func(t *testing.T) {
		data, err := Export(nil, FormatJSON)
		if err != nil || string(data) != "[]\n" {
			t.Errorf("got %q, %v", data, err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(tasks, "csv"); err == nil {
			t.Error("expected error for csv")
		}
	})
}
