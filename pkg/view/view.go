// Package view holds the mounted read models behind each screen. A view reads
// current state once when mounted, then re-derives its projection from every
// bus event until it is unmounted. Nothing polls.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

// ErrNotMounted is returned by actions on a view that is not mounted.
var ErrNotMounted = errors.New("view: not mounted")

// Service is the part of app.Service the views use.
type Service interface {
	State(ctx context.Context) (app.State, error)
	Subscribe(h bus.Handler) func()
	Now() time.Time
	WeekStart() time.Weekday
	AddTask(ctx context.Context, req app.AddRequest) (task.Task, error)
}

var _ Service = (*app.Service)(nil)

// mount is embedded by every view. derive is called with the mutex held.
//
// The mutex is never held while calling into the Service: a writer delivering
// an event to apply may itself be waiting for the Service.
type mount struct {
	mu          sync.Mutex
	svc         Service
	unsubscribe func()
	gen         uint64
	ready       bool
	version     uint64
	pending     *bus.Event
	refreshes   int
	derive      func(c task.Collection, tags []tag.Tag, now time.Time, weekStart time.Weekday)
}

// Mount reads current state and subscribes for changes. Mounting an already
// mounted view remounts it.
func (m *mount) Mount(ctx context.Context, svc Service) error {
	m.Unmount()

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	// Subscribe before reading so no change after the read is lost. Events
	// that arrive before the read is derived are held in pending.
	unsubscribe := svc.Subscribe(func(ev bus.Event) { m.apply(gen, ev) })
	st, err := svc.State(ctx)
	if err != nil {
		unsubscribe()
		return err
	}
	now, weekStart := svc.Now(), svc.WeekStart()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		unsubscribe()
		return ErrNotMounted
	}
	m.svc = svc
	m.unsubscribe = unsubscribe
	m.version = st.Version
	m.derive(st.Tasks, st.Tags, now, weekStart)
	if p := m.pending; p != nil && p.Version > m.version {
		m.version = p.Version
		m.refreshes++
		m.derive(p.Tasks, p.Tags, now, weekStart)
	}
	m.pending = nil
	m.ready = true
	return nil
}

// Unmount stops listening for changes. It is safe to call more than once.
func (m *mount) Unmount() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.gen++
	m.ready = false
	m.pending = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Mounted reports whether the view is listening for changes.
func (m *mount) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribe != nil
}

// Refreshes counts re-derivations caused by bus events.
func (m *mount) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

// apply re-derives from ev unless the view already holds that version.
func (m *mount) apply(gen uint64, ev bus.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	if !m.ready {
		if m.pending == nil || ev.Version > m.pending.Version {
			m.pending = &ev
		}
		return
	}
	if ev.Version <= m.version {
		return
	}
	m.version = ev.Version
	m.refreshes++
	m.derive(ev.Tasks, ev.Tags, m.svc.Now(), m.svc.WeekStart())
}

func (m *mount) service() (Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe == nil || m.svc == nil {
		return nil, ErrNotMounted
	}
	return m.svc, nil
}
