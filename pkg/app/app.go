package app

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/projection"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

var (
	ErrEmptyTitle      = errors.New("app: title cannot be empty")
	ErrDateRequired    = errors.New("app: a due date is required for This Week tasks")
	ErrUnknownTag      = errors.New("app: unknown tag")
	ErrTaskNotFound    = errors.New("app: task not found")
	ErrSubtaskNotFound = errors.New("app: subtask not found")
	ErrNoPersistence   = errors.New("app: no persistence configured")
)

// Service is the single owner of task and tag state for a process. Every
// mutation reads the whole collection, applies a pure transform, writes the
// result once and publishes one bus event.
//
// Bus handlers run synchronously after the write. They may read from the
// Service but must not mutate it.
type Service struct {
	mu    sync.Mutex
	pubMu sync.Mutex

	gw        store.Gateway
	bus       *bus.Bus
	tags      *tag.Registry
	tasks     task.Collection
	opened    bool
	version   uint64
	now       func() time.Time
	weekStart time.Weekday
	newID     func() string
	log       *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBus shares a bus with other components.
func WithBus(b *bus.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.bus = b
		}
	}
}

// WithWeekStart sets the first day of the week used by classification.
func WithWeekStart(d time.Weekday) Option {
	return func(s *Service) {
		s.weekStart = d
	}
}

// WithLogger sets where write failures are reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces the random task and subtask id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns a Service over gw. State is read on Open or on first use.
func New(gw store.Gateway, opts ...Option) *Service {
	s := &Service{
		gw:        gw,
		bus:       bus.New(),
		now:       time.Now,
		weekStart: task.DefaultWeekStart,
		newID:     uuid.NewString,
		log:       log.New(os.Stderr, "app: ", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reads the current tasks and tags from storage.
func (s *Service) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) ensureLocked(ctx context.Context) error {
	if s.opened {
		return nil
	}
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	if s.gw == nil {
		return ErrNoPersistence
	}
	s.tasks = s.gw.Load(ctx)
	if s.tags == nil {
		s.tags = tag.NewRegistry(ctx, s.gw, s.log)
	} else {
		s.tags.Reload(ctx)
	}
	s.opened = true
	return nil
}

// Close releases the underlying storage.
func (s *Service) Close() error {
	if s.gw == nil {
		return nil
	}
	return s.gw.Close()
}

// Bus returns the bus mutations are published on.
func (s *Service) Bus() *bus.Bus {
	return s.bus
}

// Subscribe registers h for every change.
func (s *Service) Subscribe(h bus.Handler) func() {
	return s.bus.Subscribe(h)
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Today returns the current calendar date.
func (s *Service) Today() task.Date {
	return task.DateOf(s.now())
}

// WeekStart returns the configured first day of the week.
func (s *Service) WeekStart() time.Weekday {
	return s.weekStart
}

// Tasks returns a copy of the current collection.
func (s *Service) Tasks(ctx context.Context) (task.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return s.tasks.Clone(), nil
}

// State is a consistent read of tasks and tags at one state version.
type State struct {
	Tasks   task.Collection
	Tags    []tag.Tag
	Version uint64
}

// State returns tasks, tags and the version of the last committed change.
// Events with a Version at or below it are already reflected.
func (s *Service) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return State{}, err
	}
	return State{Tasks: s.tasks.Clone(), Tags: s.tags.List(), Version: s.version}, nil
}

// Task returns one task by id.
func (s *Service) Task(ctx context.Context, id string) (task.Task, error) {
	c, err := s.Tasks(ctx)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := c.Find(id)
	if !ok {
		return task.Task{}, ErrTaskNotFound
	}
	return t, nil
}

// Snapshot derives every projection for the current time.
func (s *Service) Snapshot(ctx context.Context) (projection.Snapshot, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return projection.Snapshot{}, err
	}
	c := s.tasks.Clone()
	tags := s.tags.List()
	s.mu.Unlock()
	return projection.Build(c, tags, s.now(), s.weekStart), nil
}

// Reconcile reloads state after another process changed storage and
// publishes it as an External event.
func (s *Service) Reconcile(ctx context.Context, ev store.Event) error {
	s.mu.Lock()
	if s.gw == nil {
		s.mu.Unlock()
		return ErrNoPersistence
	}
	if !s.opened {
		if err := s.loadLocked(ctx); err != nil {
			s.mu.Unlock()
			return err
		}
	} else {
		if ev.Tasks() {
			s.tasks = s.gw.Load(ctx)
		}
		if ev.Tags() {
			s.tags.Reload(ctx)
		}
	}
	s.version++
	out := bus.Event{
		Version:   s.version,
		Kind:      bus.External,
		Tasks:     s.tasks.Clone(),
		Tags:      s.tags.List(),
		Persisted: true,
	}
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.bus.Publish(out)
	return nil
}

// Watch reports writes made by other processes.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.gw == nil {
		return nil, ErrNoPersistence
	}
	return s.gw.Watch(ctx)
}

// commitLocked writes next and makes it the in-memory state even when the
// write fails. The caller holds s.mu and must hand the event to publish.
func (s *Service) commitLocked(ctx context.Context, next task.Collection) bus.Event {
	err := s.gw.Save(ctx, next)
	if err != nil {
		s.log.Printf("save tasks: %v (change kept for this session only)", err)
	}
	s.tasks = next
	s.version++
	return bus.Event{
		Version:   s.version,
		Kind:      bus.TasksChanged,
		Tasks:     next.Clone(),
		Tags:      s.tags.List(),
		Persisted: err == nil,
	}
}

// publish releases s.mu and delivers events in commit order.
func (s *Service) publish(events ...bus.Event) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	for _, ev := range events {
		s.bus.Publish(ev)
	}
}
