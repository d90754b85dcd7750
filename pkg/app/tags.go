package app

import (
	"context"

	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/tag"
)

// Tags returns the built-in tags followed by custom tags in creation order.
func (s *Service) Tags(ctx context.Context) ([]tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return s.tags.List(), nil
}

// AddTag creates a custom tag. An empty color picks the default color.
func (s *Service) AddTag(ctx context.Context, name, color string) (tag.Tag, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return tag.Tag{}, err
	}
	t, err := s.tags.Add(ctx, name, color)
	if err != nil {
		s.mu.Unlock()
		return tag.Tag{}, err
	}
	s.publish(s.tagsEventLocked())
	return t, nil
}

// DeleteTag removes a custom tag and retags every task that carried it with
// the Default tag. The tag list and the task collection are each written
// once; a task event is only published when a task was retagged.
func (s *Service) DeleteTag(ctx context.Context, name string) (tag.Tag, int, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return tag.Tag{}, 0, err
	}
	removed, err := s.tags.Remove(ctx, name)
	if err != nil {
		s.mu.Unlock()
		return tag.Tag{}, 0, err
	}
	events := []bus.Event{s.tagsEventLocked()}

	next, n := s.tasks.ReassignTag(removed.Name, s.tags.Default())
	if n > 0 {
		events = append(events, s.commitLocked(ctx, next))
	}
	s.publish(events...)
	return removed, n, nil
}

// ResolveSlug maps a URL slug back to a tag name. Unknown slugs come back
// unchanged.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return "", err
	}
	return s.tags.FromSlug(slug), nil
}

// LookupTag finds a tag by name, ignoring case.
func (s *Service) LookupTag(ctx context.Context, name string) (tag.Tag, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return tag.Tag{}, false, err
	}
	t, ok := s.tags.Lookup(name)
	return t, ok, nil
}

func (s *Service) tagsEventLocked() bus.Event {
	s.version++
	return bus.Event{
		Version:   s.version,
		Kind:      bus.TagsChanged,
		Tasks:     s.tasks.Clone(),
		Tags:      s.tags.List(),
		Persisted: s.tags.SaveErr() == nil,
	}
}
