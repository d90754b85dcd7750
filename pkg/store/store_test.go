package store

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

func mustConfig(t *testing.T, path, backend string) Config {
	t.Helper()
	cfg, err := NewConfig(path, backend, "sunday")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func sampleTasks() task.Collection {
	errands := tag.Tag{Name: "Errands", Color: "tag-green"}
	return task.Collection{
		{ID: "1", Title: "pay rent", DueDate: task.MustDate("2024-06-10")},
		task.Task{ID: "2", Title: "groceries"}.
			WithTag(errands).
			WithSubtask(task.Subtask{ID: "2a", Title: "milk"}),
		{ID: "3", Title: "done already", Completed: true, Subtasks: []task.Subtask{}},
	}
}

func backends(t *testing.T) map[string]func() Backend {
	return map[string]func() Backend{
		"memory": func() Backend { return NewMemoryBackend() },
		"diskv": func() Backend {
			b, err := NewDiskvBackend(t.TempDir())
			if err != nil {
				t.Fatalf("diskv: %v", err)
			}
			return b
		},
		"sqlite": func() Backend {
			b, err := NewSQLiteBackend(t.TempDir())
			if err != nil {
				t.Fatalf("sqlite: %v", err)
			}
			return b
		},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g := New(mk(), WithLogger(DiscardLogger()))
			defer g.Close()

			if got := g.Load(ctx); got == nil || len(got) != 0 {
				t.Fatalf("expected empty collection before first save, got %#v", got)
			}
			if got := g.LoadTags(ctx); got == nil || len(got) != 0 {
				t.Fatalf("expected no custom tags before first save, got %#v", got)
			}

			want := sampleTasks()
			if err := g.Save(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got := g.Load(ctx)
			if len(got) != len(want) {
				t.Fatalf("expected %d tasks, got %d", len(want), len(got))
			}
			for i := range want {
				if got[i].ID != want[i].ID || got[i].Title != want[i].Title ||
					got[i].Completed != want[i].Completed || got[i].DueDate != want[i].DueDate ||
					got[i].TagName() != want[i].TagName() || len(got[i].Subtasks) != len(want[i].Subtasks) {
					t.Errorf("task %d: got %+v want %+v", i, got[i], want[i])
				}
			}

			tags := []tag.Tag{{Name: "Errands", Color: "tag-green"}, {Name: "Home", Color: "tag-blue"}}
			if err := g.SaveTags(ctx, tags); err != nil {
				t.Fatalf("save tags: %v", err)
			}
			gotTags := g.LoadTags(ctx)
			if len(gotTags) != 2 || gotTags[0] != tags[0] || gotTags[1] != tags[1] {
				t.Fatalf("tags round trip: got %+v", gotTags)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g := New(mk(), WithLogger(DiscardLogger()))
			defer g.Close()
			if err := g.Save(ctx, sampleTasks()); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := g.Save(ctx, task.Collection{}); err != nil {
				t.Fatalf("save empty: %v", err)
			}
			if got := g.Load(ctx); len(got) != 0 {
				t.Fatalf("expected empty after overwrite, got %d", len(got))
			}
		})
	}
}

func TestBuiltInTagsNeverStored(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	g := New(b, WithLogger(DiscardLogger()))

	in := append(tag.BuiltIns(), tag.Tag{Name: "Errands", Color: "tag-green"})
	if err := g.SaveTags(ctx, in); err != nil {
		t.Fatalf("save tags: %v", err)
	}
	raw, err := b.Read(TagsKey)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if strings.Contains(string(raw), "Personal") {
		t.Fatalf("built-in tag persisted: %s", raw)
	}

	// A hand-edited record that includes a built-in is filtered on load.
	if err := b.Write(TagsKey, []byte(`[{"name":"Work","color":"tag-blue"},{"name":"Errands","color":"tag-green"}]`)); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	got := g.LoadTags(ctx)
	if len(got) != 1 || got[0].Name != "Errands" {
		t.Fatalf("expected only Errands, got %+v", got)
	}
}

func TestCorruptRecordsLoadEmpty(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{name: "tasks not json", key: TasksKey, raw: "{not json"},
		{name: "tasks wrong shape", key: TasksKey, raw: `{"id":"1"}`},
		{name: "tasks bad date", key: TasksKey, raw: `[{"id":"1","title":"x","completed":false,"dueDate":"June 1st"}]`},
		{name: "tags not json", key: TagsKey, raw: "[[["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := NewMemoryBackend()
			if err := b.Write(tt.key, []byte(tt.raw)); err != nil {
				t.Fatalf("write raw: %v", err)
			}
			var buf bytes.Buffer
			g := New(b, WithLogger(log.New(&buf, "store: ", 0)))

			if tt.key == TasksKey {
				if got := g.Load(ctx); got == nil || len(got) != 0 {
					t.Fatalf("expected empty collection, got %#v", got)
				}
			} else {
				if got := g.LoadTags(ctx); got == nil || len(got) != 0 {
					t.Fatalf("expected no tags, got %#v", got)
				}
			}
			if !strings.Contains(buf.String(), "corrupt") {
				t.Fatalf("expected corrupt record to be logged, got %q", buf.String())
			}
		})
	}
}

func TestLegacyRecordDefaults(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	raw := `[{"id":"1","title":"old","completed":false,"extra":"ignored"},
	         {"id":"2","title":"dated","completed":true,"dueDate":"2024-06-11","subtasks":null}]`
	if err := b.Write(TasksKey, []byte(raw)); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	got := New(b, WithLogger(DiscardLogger())).Load(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].HasDue() || got[0].Tag != nil || len(got[0].Subtasks) != 0 {
		t.Errorf("unexpected defaults on legacy record: %+v", got[0])
	}
	if got[1].DueDate != task.MustDate("2024-06-11") || !got[1].Completed {
		t.Errorf("unexpected second record: %+v", got[1])
	}

	// Saving again normalizes the stored records.
	if err := New(b, WithLogger(DiscardLogger())).Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, err := b.Read(TasksKey)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if strings.Contains(string(stored), "null") || strings.Count(string(stored), `"subtasks":[]`) != 2 {
		t.Errorf("expected empty subtask lists, got %s", stored)
	}
}

func TestWriteFailureIsReturned(t *testing.T) {
	b := NewMemoryBackend()
	b.FailWrites = errors.New("disk full")
	g := New(b, WithLogger(DiscardLogger()))
	err := g.Save(context.Background(), sampleTasks())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped write failure, got %v", err)
	}
	if !errors.Is(err, b.FailWrites) {
		t.Fatalf("expected errors.Is to match the backend error")
	}
}

func TestLoadPicksBackend(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	g, err := Load(mustConfig(t, base, BackendSQLite), WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("load sqlite: %v", err)
	}
	if err := g.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	g.Close()
	if _, err := os.Stat(filepath.Join(base, sqliteFile)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}

	base = t.TempDir()
	g, err = Load(mustConfig(t, base, BackendDiskv), WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("load diskv: %v", err)
	}
	defer g.Close()
	if err := g.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, TasksKey)); err != nil {
		t.Fatalf("expected %s file: %v", TasksKey, err)
	}
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		backend string
		week    string
		wantErr bool
		wantBk  string
		wantWk  time.Weekday
	}{
		{name: "defaults", path: "/tmp/tf", wantBk: BackendDiskv, wantWk: time.Sunday},
		{name: "sqlite monday", path: "/tmp/tf", backend: "SQLite", week: "monday", wantBk: BackendSQLite, wantWk: time.Monday},
		{name: "unknown backend", path: "/tmp/tf", backend: "mongo", wantErr: true},
		{name: "bad week start", path: "/tmp/tf", week: "someday", wantErr: true},
		{name: "empty path", path: " ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.path, tt.backend, tt.week)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Backend() != tt.wantBk || cfg.WeekStart() != tt.wantWk || cfg.BasePath() != tt.path {
				t.Fatalf("got %s %s %s", cfg.BasePath(), cfg.Backend(), cfg.WeekStart())
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKFLOW_CONFIG_PATH", dir)
	t.Setenv("TASKFLOW_PATH", filepath.Join(dir, "data"))
	t.Setenv("TASKFLOW_BACKEND", "sqlite")
	t.Setenv("TASKFLOW_WEEK_START", "Monday")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "data") || cfg.Backend() != BackendSQLite || cfg.WeekStart() != time.Monday {
		t.Fatalf("env not applied: %s %s %s", cfg.BasePath(), cfg.Backend(), cfg.WeekStart())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKFLOW_CONFIG_PATH", dir)
	yaml := "path: " + filepath.Join(dir, "from-file") + "\nweek_start: saturday\n"
	if err := os.WriteFile(filepath.Join(dir, ".taskflow.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "from-file") || cfg.WeekStart() != time.Saturday {
		t.Fatalf("file not applied: %s %s", cfg.BasePath(), cfg.WeekStart())
	}
}
