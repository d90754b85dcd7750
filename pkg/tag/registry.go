package tag

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	// ErrEmptyName is returned when a tag name is blank.
	ErrEmptyName = errors.New("tag: name cannot be empty")
	// ErrDuplicateName is returned when a tag with the same name already exists.
	ErrDuplicateName = errors.New("tag: a tag with this name already exists")
	// ErrProtected is returned when deleting a built-in tag.
	ErrProtected = errors.New("tag: built-in tags cannot be deleted")
	// ErrNotFound is returned when deleting an unknown tag.
	ErrNotFound = errors.New("tag: not found")
)

// Store persists the custom tag list.
type Store interface {
	LoadTags(ctx context.Context) []Tag
	SaveTags(ctx context.Context, tags []Tag) error
}

// Registry owns the set of tags: the built-ins plus custom tags in creation
// order. Custom tags are cached in memory; a failed write is logged and the
// in-memory list keeps the attempted change for the rest of the session.
type Registry struct {
	mu     sync.RWMutex
	store  Store
	custom []Tag
	log    *log.Logger

	saveErr error
}

// NewRegistry loads custom tags from s.
func NewRegistry(ctx context.Context, s Store, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(os.Stderr, "tag: ", 0)
	}
	r := &Registry{store: s, log: logger}
	r.Reload(ctx)
	return r
}

// Reload replaces the cached custom tags with the persisted ones. Blank and
// built-in names are skipped, and of names equal ignoring case only the first
// is kept.
func (r *Registry) Reload(ctx context.Context) {
	var custom []Tag
	if r.store != nil {
		for _, t := range r.store.LoadTags(ctx) {
			if strings.TrimSpace(t.Name) == "" || IsBuiltIn(t.Name) {
				continue
			}
			if first, ok := Find(custom, t.Name); ok {
				r.log.Printf("dropping stored tag %q: duplicates %q", t.Name, first.Name)
				continue
			}
			custom = append(custom, t)
		}
	}
	r.mu.Lock()
	r.custom = custom
	r.mu.Unlock()
}

// List returns built-ins first (Personal, Work, Default), then custom tags.
func (r *Registry) List() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := BuiltIns()
	return append(out, r.custom...)
}

// Custom returns the user-defined tags only.
func (r *Registry) Custom() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tag, len(r.custom))
	copy(out, r.custom)
	return out
}

// Lookup finds a tag by name, ignoring case.
func (r *Registry) Lookup(name string) (Tag, bool) {
	return Find(r.List(), name)
}

// Default returns the current value of the Default tag.
func (r *Registry) Default() Tag {
	return Default()
}

// FromSlug resolves a URL slug to a tag name; unknown slugs pass through.
func (r *Registry) FromSlug(slug string) string {
	return FromSlug(r.List(), slug)
}

// Add appends a custom tag. Names are unique ignoring case across built-in
// and custom tags; a rejected add leaves the registry unchanged.
func (r *Registry) Add(ctx context.Context, name, color string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrEmptyName
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultColor
	}

	r.mu.Lock()
	if _, ok := Find(append(BuiltIns(), r.custom...), name); ok {
		r.mu.Unlock()
		return Tag{}, ErrDuplicateName
	}
	t := Tag{Name: name, Color: color}
	next := make([]Tag, 0, len(r.custom)+1)
	next = append(next, r.custom...)
	next = append(next, t)
	r.custom = next
	r.mu.Unlock()

	r.save(ctx, next)
	return t, nil
}

// Remove deletes a custom tag by name. Reassigning tasks that reference it is
// the caller's job.
func (r *Registry) Remove(ctx context.Context, name string) (Tag, error) {
	if IsBuiltIn(name) {
		return Tag{}, ErrProtected
	}

	r.mu.Lock()
	idx := -1
	for i, t := range r.custom {
		if t.Is(name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return Tag{}, ErrNotFound
	}
	removed := r.custom[idx]
	next := make([]Tag, 0, len(r.custom)-1)
	next = append(next, r.custom[:idx]...)
	next = append(next, r.custom[idx+1:]...)
	r.custom = next
	r.mu.Unlock()

	r.save(ctx, next)
	return removed, nil
}

func (r *Registry) save(ctx context.Context, custom []Tag) {
	if r.store == nil {
		return
	}
	err := r.store.SaveTags(ctx, custom)
	if err != nil {
		r.log.Printf("save custom tags: %v (change kept for this session only)", err)
	}
	r.mu.Lock()
	r.saveErr = err
	r.mu.Unlock()
}

// SaveErr returns the error from the most recent write, if it failed.
func (r *Registry) SaveErr() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saveErr
}
