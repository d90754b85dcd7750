package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatchable is returned by Watch when the backend has nothing on disk
// to watch.
var ErrNotWatchable = errors.New("store: backend cannot be watched")

// Event is emitted by Gateway.Watch when another process changes a record.
// An empty Key means the change could not be attributed and callers should
// reload everything.
type Event struct {
	Key string
}

// Tasks reports whether the task collection may have changed.
func (e Event) Tasks() bool {
	return e.Key == "" || e.Key == TasksKey
}

// Tags reports whether the custom tags may have changed.
func (e Event) Tags() bool {
	return e.Key == "" || e.Key == TagsKey
}

const watchDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel. The channel is closed once ctx is done or the watcher
// fails.
func (g *gateway) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := g.b.(watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	dir := w.WatchDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				g.log.Printf("watcher close: %v", err)
			}
		})
	}
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		// The throttle flushes from its own goroutine; stop guards the send
		// against the channel being closed underneath it.
		var sendMu sync.Mutex
		stop := make(chan struct{})
		done := false
		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if done {
				return
			}
			select {
			case events <- ev:
			case <-stop:
			case <-ctx.Done():
			}
		}

		throttle := newEventThrottle(watchDelay)
		defer func() {
			throttle.Stop()
			close(stop)
			sendMu.Lock()
			done = true
			sendMu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				g.log.Printf("watch: %v", err)
				throttle.Enqueue(Event{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				key, ok := w.KeyForPath(evt.Name)
				if !ok {
					continue
				}
				throttle.Enqueue(Event{Key: key}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces a burst of filesystem notifications into one event
// per key.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	// A full reload covers every key.
	if _, all := pending[""]; all {
		send(Event{})
		return
	}
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		send(Event{Key: k})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
