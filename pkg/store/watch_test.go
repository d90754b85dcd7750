package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/task"
)

func TestGatewayWatchEmitsTaskChanges(t *testing.T) {
	base := t.TempDir()
	cfg, err := NewConfig(base, BackendDiskv, "sunday")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	g, err := Load(cfg, WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("load gateway: %v", err)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := g.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// A second gateway on the same directory stands in for another process.
	other, err := Load(cfg, WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("load second gateway: %v", err)
	}
	defer other.Close()
	if err := other.Save(ctx, task.Collection{{ID: "1", Title: "hello world"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if !evt.Tasks() {
				continue
			}
			got := g.Load(ctx)
			if len(got) != 1 || got[0].Title != "hello world" {
				t.Fatalf("expected the other writer's task, got %+v", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for task change event")
		}
	}
}

func TestGatewayWatchClosesOnCancel(t *testing.T) {
	g, err := Load(mustConfig(t, t.TempDir(), BackendDiskv), WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("load gateway: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := g.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestMemoryGatewayIsNotWatchable(t *testing.T) {
	g := New(NewMemoryBackend())
	if _, err := g.Watch(context.Background()); err != ErrNotWatchable {
		t.Fatalf("expected ErrNotWatchable, got %v", err)
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	var (
		mu  sync.Mutex
		got []Event
	)
	send := func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}
	for i := 0; i < 10; i++ {
		th.Enqueue(Event{Key: TasksKey}, send)
		th.Enqueue(Event{Key: TagsKey}, send)
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected 2 coalesced events, got %d: %+v", len(got), got)
	}
	if got[0].Key != TasksKey || got[1].Key != TagsKey {
		t.Fatalf("unexpected keys %+v", got)
	}
}

func TestEventThrottleFullReloadWins(t *testing.T) {
	th := newEventThrottle(10 * time.Millisecond)
	defer th.Stop()

	ch := make(chan Event, 4)
	send := func(ev Event) { ch <- ev }
	th.Enqueue(Event{Key: TasksKey}, send)
	th.Enqueue(Event{}, send)

	select {
	case ev := <-ch:
		if ev.Key != "" || !ev.Tasks() || !ev.Tags() {
			t.Fatalf("expected full reload, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event flushed")
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestKeyForPath(t *testing.T) {
	base := t.TempDir()
	b, err := NewDiskvBackend(base)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	w := b.(watchable)
	tests := []struct {
		path string
		key  string
		ok   bool
	}{
		{path: base + "/" + TasksKey, key: TasksKey, ok: true},
		{path: base + "/" + TagsKey, key: TagsKey, ok: true},
		{path: base + "/" + tempDirName + "/" + TasksKey, ok: false},
		{path: base + "/notes.txt", key: "notes.txt", ok: false},
		{path: base, ok: false},
	}
	for _, tt := range tests {
		key, ok := w.KeyForPath(tt.path)
		if ok != tt.ok || (ok && key != tt.key) {
			t.Errorf("KeyForPath(%q) = %q, %v; want %q, %v", tt.path, key, ok, tt.key, tt.ok)
		}
	}
}
