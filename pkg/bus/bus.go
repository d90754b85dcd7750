// Package bus is the in-process channel that tells mounted views to
// re-derive their projections after a write.
//
// Delivery is synchronous: Publish calls every current subscriber, in the
// order they subscribed, before it returns. Nothing is buffered or coalesced,
// so N writes produce N events. Events do not survive a restart; a newly
// mounted view must read current state itself before subscribing.
package bus

import (
	"fmt"
	"sync"

	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

// Kind identifies what changed.
type Kind int

const (
	// TasksChanged follows a write of the task collection.
	TasksChanged Kind = iota
	// TagsChanged follows a write of the custom tag list.
	TagsChanged
	// External reports state reloaded after another process wrote storage.
	External
)

func (k Kind) String() string {
	switch k {
	case TasksChanged:
		return "tasks"
	case TagsChanged:
		return "tags"
	case External:
		return "external"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is delivered to subscribers. Tasks and Tags hold the full state after
// the change. Subscribers must treat both as read-only.
//
// Seq is stamped by the bus. Version is the publisher's state version and
// grows with every committed change, so a reader that already holds state at
// version v can skip events at or below v.
type Event struct {
	Seq       uint64
	Version   uint64
	Kind      Kind
	Tasks     task.Collection
	Tags      []tag.Tag
	Persisted bool
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id     uint64
	fn     Handler
	active bool
}

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.Mutex
	seq    uint64
	nextID uint64
	subs   []*subscription
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns the function that removes it. The
// returned function is idempotent and may be called from inside a handler;
// once it returns, h receives no further events.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	s := &subscription{id: b.nextID, fn: h, active: true}
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(s.id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			s.active = false
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish stamps ev with the next sequence number and delivers it to every
// subscriber before returning. The stamped event is returned.
func (b *Bus) Publish(ev Event) Event {
	b.mu.Lock()
	b.seq++
	ev.Seq = b.seq
	subs := make([]*subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if !b.isActive(s) {
			continue
		}
		s.fn(ev)
	}
	return ev
}

func (b *Bus) isActive(s *subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return s.active
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Seq returns the sequence number of the last published event.
func (b *Bus) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}
