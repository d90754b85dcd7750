package task

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"tableflip.dev/taskflow/pkg/tag"
)

func TestTaskJSONShape(t *testing.T) {
	work := tag.Tag{Name: "Work", Color: "tag-blue"}
	tk := Task{
		ID:       "1",
		Title:    "ship it",
		DueDate:  MustDate("2024-06-11"),
		Subtasks: []Subtask{{ID: "s1", Title: "tests"}},
		Tag:      &work,
	}
	b, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"1","title":"ship it","completed":false,"dueDate":"2024-06-11","subtasks":[{"id":"s1","title":"tests","completed":false}],"tag":{"name":"Work","color":"tag-blue"}}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}
}

func TestTaskJSONDefaults(t *testing.T) {
	var got []Task
	raw := `[{"id":"a","title":"no date","extra":"ignored"},{"id":"b","title":"empty date","dueDate":"","tag":null}]`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, tk := range got {
		if tk.HasDue() {
			t.Errorf("%s: expected no due date, got %s", tk.ID, tk.DueDate)
		}
		if tk.Subtasks == nil || len(tk.Subtasks) != 0 {
			t.Errorf("%s: expected an empty subtask list, got %#v", tk.ID, tk.Subtasks)
		}
		if tk.Tag != nil {
			t.Errorf("%s: expected no tag", tk.ID)
		}
	}
}

func TestTaskJSONRejectsBadDate(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(`{"id":"a","title":"x","dueDate":"June 1st"}`), &tk); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestTransformsDoNotAlias(t *testing.T) {
	orig := Task{ID: "t", Title: "t", Subtasks: []Subtask{{ID: "a", Title: "a"}, {ID: "b", Title: "b"}}}
	snapshot := Collection{orig}.Clone()[0]

	toggled, ok := orig.WithSubtaskCompleted("a", true)
	if !ok || !toggled.Subtasks[0].Completed {
		t.Fatal("expected subtask a completed")
	}
	removed, ok := orig.WithoutSubtask("a")
	if !ok || len(removed.Subtasks) != 1 || removed.Subtasks[0].ID != "b" {
		t.Fatalf("unexpected subtasks after remove: %+v", removed.Subtasks)
	}
	added := orig.WithSubtask(Subtask{ID: "c", Title: "c"})
	if len(added.Subtasks) != 3 {
		t.Fatalf("expected 3 subtasks, got %d", len(added.Subtasks))
	}
	tagged := orig.WithTag(tag.Default())
	if tagged.Tag == nil || orig.Tag != nil {
		t.Fatal("tagging leaked into the original")
	}

	if !reflect.DeepEqual(orig, snapshot) {
		t.Fatalf("original task changed: %+v", orig)
	}
	if _, ok := orig.WithoutSubtask("missing"); ok {
		t.Fatal("expected missing subtask to report false")
	}
}

func TestCollectionUpdateAndRemove(t *testing.T) {
	c := Collection{{ID: "a", Title: "a"}, {ID: "b", Title: "b"}}

	next, got, ok := c.Update("b", func(t Task) (Task, bool) { return t.WithCompleted(true), true })
	if !ok || !got.Completed {
		t.Fatal("expected b completed")
	}
	if c[1].Completed {
		t.Fatal("update modified the original collection")
	}
	if !next[1].Completed {
		t.Fatal("update missing from the new collection")
	}
	if _, _, ok := c.Update("zzz", func(t Task) (Task, bool) { return t, true }); ok {
		t.Fatal("expected unknown id to report false")
	}

	removed, ok := c.Remove("a")
	if !ok || len(removed) != 1 || removed[0].ID != "b" || len(c) != 2 {
		t.Fatalf("unexpected remove result: %v", removed.IDs())
	}
}

func TestReassignTag(t *testing.T) {
	errands := tag.Tag{Name: "Errands", Color: "tag-green"}
	home := tag.Tag{Name: "Home", Color: "tag-teal"}
	c := Collection{
		Task{ID: "a"}.WithTag(errands),
		Task{ID: "b"}.WithTag(tag.Tag{Name: "errands", Color: "tag-green"}),
		Task{ID: "c"}.WithTag(home),
		{ID: "d"},
	}
	next, n := c.ReassignTag("Errands", tag.Default())
	if n != 2 {
		t.Fatalf("expected 2 rewritten, got %d", n)
	}
	for _, id := range []string{"a", "b"} {
		tk, _ := next.Find(id)
		if *tk.Tag != tag.Default() {
			t.Fatalf("%s: expected Default tag, got %v", id, tk.Tag)
		}
	}
	if tk, _ := next.Find("c"); *tk.Tag != home {
		t.Fatal("unrelated tag changed")
	}
	if tk, _ := next.Find("d"); tk.Tag != nil {
		t.Fatal("untagged task gained a tag")
	}
	if *c[0].Tag != errands {
		t.Fatal("original collection changed")
	}
}

func TestDate(t *testing.T) {
	d := MustDate("2024-02-28")
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
	if !d.Before(d.AddDays(1)) || d.After(d) || d.Compare(d) != 0 {
		t.Fatal("comparison mismatch")
	}
	if NewDate(2024, 2, 30) != MustDate("2024-03-01") {
		t.Fatal("expected normalization")
	}
	if _, err := ParseDate("06/10/2024"); err == nil {
		t.Fatal("expected parse error")
	}
	var z Date
	if !z.IsZero() || z.String() != "" {
		t.Fatal("zero date should be empty")
	}
}

func TestTaskJSONWritesEmptySubtasks(t *testing.T) {
	var got []Task
	if err := json.Unmarshal([]byte(`[{"id":"1","title":"old"}]`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"id":"1","title":"old","completed":false,"subtasks":[]}]`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}

	b, err = json.Marshal(Task{ID: "2", Title: "fresh"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"subtasks":[]`) {
		t.Fatalf("expected empty subtasks in %s", b)
	}
}
