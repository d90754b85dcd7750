package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

const (
	// TasksKey holds the whole task collection as one JSON array.
	TasksKey = "calendar_tasks"
	// TagsKey holds the custom tags as one JSON array.
	TagsKey = "taskflow_custom_tags"
)

func isKnownKey(key string) bool {
	return key == TasksKey || key == TagsKey
}

// Gateway loads and saves the task collection and the custom tags.
type Gateway interface {
	// Load returns the stored collection. A missing record is an empty
	// collection; so is a corrupt one, after logging it.
	Load(ctx context.Context) task.Collection
	Save(ctx context.Context, c task.Collection) error
	LoadTags(ctx context.Context) []tag.Tag
	SaveTags(ctx context.Context, tags []tag.Tag) error
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Option configures a Gateway.
type Option func(*gateway)

// WithLogger sets where load and watch problems are reported.
func WithLogger(l *log.Logger) Option {
	return func(g *gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// Load opens the backend named by cfg. A nil cfg is read with LoadConfig.
func Load(cfg Config, opts ...Option) (Gateway, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	var (
		b   Backend
		err error
	)
	switch cfg.Backend() {
	case BackendSQLite:
		b, err = NewSQLiteBackend(cfg.BasePath())
	default:
		b, err = NewDiskvBackend(cfg.BasePath())
	}
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// New wraps an already open backend.
func New(b Backend, opts ...Option) Gateway {
	g := &gateway{
		b:   b,
		log: log.New(os.Stderr, "store: ", 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DiscardLogger is a logger that drops everything.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type gateway struct {
	b   Backend
	log *log.Logger
}

func (g *gateway) read(key string, into interface{}) bool {
	val, err := g.b.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.log.Printf("read %s: %v", key, err)
		}
		return false
	}
	if len(val) == 0 {
		return false
	}
	if err := json.Unmarshal(val, into); err != nil {
		g.log.Printf("%s is corrupt, starting empty: %v", key, err)
		return false
	}
	return true
}

func (g *gateway) write(key string, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := g.b.Write(key, val); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (g *gateway) Load(_ context.Context) task.Collection {
	var c task.Collection
	if !g.read(TasksKey, &c) || c == nil {
		return task.Collection{}
	}
	return c
}

func (g *gateway) Save(_ context.Context, c task.Collection) error {
	if c == nil {
		c = task.Collection{}
	}
	return g.write(TasksKey, c)
}

func (g *gateway) LoadTags(_ context.Context) []tag.Tag {
	var stored []tag.Tag
	if !g.read(TagsKey, &stored) {
		return []tag.Tag{}
	}
	return customOnly(stored)
}

func (g *gateway) SaveTags(_ context.Context, tags []tag.Tag) error {
	return g.write(TagsKey, customOnly(tags))
}

func (g *gateway) Close() error {
	return g.b.Close()
}

func customOnly(tags []tag.Tag) []tag.Tag {
	out := make([]tag.Tag, 0, len(tags))
	for _, t := range tags {
		if t.Name == "" || tag.IsBuiltIn(t.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}
