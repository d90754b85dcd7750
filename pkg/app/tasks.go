package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/task"
)

// AddRequest describes a new task.
type AddRequest struct {
	Title string
	// Bucket picks the default due date when Due is zero.
	Bucket task.Bucket
	Due    task.Date
	// Tag is a tag name; empty leaves the task untagged.
	Tag string
	// RequireDate rejects a request without an explicit Due. The This Week
	// form sets it.
	RequireDate bool
}

// AddTask validates req and appends a new task.
func (s *Service) AddTask(ctx context.Context, req AddRequest) (task.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return task.Task{}, ErrEmptyTitle
	}
	if req.RequireDate && req.Due.IsZero() {
		return task.Task{}, ErrDateRequired
	}

	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}

	t := task.Task{
		ID:       s.newID(),
		Title:    title,
		DueDate:  req.Due,
		Subtasks: []task.Subtask{},
	}
	if t.DueDate.IsZero() {
		t.DueDate = task.DefaultDue(req.Bucket, s.now())
	}
	if name := strings.TrimSpace(req.Tag); name != "" {
		tg, ok := s.tags.Lookup(name)
		if !ok {
			s.mu.Unlock()
			return task.Task{}, ErrUnknownTag
		}
		t = t.WithTag(tg)
	}

	ev := s.commitLocked(ctx, s.tasks.Append(t))
	s.publish(ev)
	return t, nil
}

// update applies fn to the task with id and commits the result. fn reports
// false when its own target (a subtask) is missing.
func (s *Service) update(ctx context.Context, id string, fn func(task.Task) (task.Task, bool)) (task.Task, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	if _, ok := s.tasks.Find(id); !ok {
		s.mu.Unlock()
		return task.Task{}, ErrTaskNotFound
	}
	next, updated, ok := s.tasks.Update(id, fn)
	if !ok {
		s.mu.Unlock()
		return task.Task{}, ErrSubtaskNotFound
	}
	ev := s.commitLocked(ctx, next)
	s.publish(ev)
	return updated, nil
}

// ToggleTask sets the completion flag of a task.
func (s *Service) ToggleTask(ctx context.Context, id string, completed bool) (task.Task, error) {
	return s.update(ctx, id, func(t task.Task) (task.Task, bool) {
		return t.WithCompleted(completed), true
	})
}

// DeleteTask removes a task and its subtasks.
func (s *Service) DeleteTask(ctx context.Context, id string) (task.Task, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	removed, ok := s.tasks.Find(id)
	if !ok {
		s.mu.Unlock()
		return task.Task{}, ErrTaskNotFound
	}
	next, _ := s.tasks.Remove(id)
	ev := s.commitLocked(ctx, next)
	s.publish(ev)
	return removed, nil
}

// AddSubtask appends a subtask to a task.
func (s *Service) AddSubtask(ctx context.Context, taskID, title string) (task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, ErrEmptyTitle
	}
	sub := task.Subtask{ID: s.newID(), Title: title}
	return s.update(ctx, taskID, func(t task.Task) (task.Task, bool) {
		return t.WithSubtask(sub), true
	})
}

// ToggleSubtask sets the completion flag of a subtask.
func (s *Service) ToggleSubtask(ctx context.Context, taskID, subID string, completed bool) (task.Task, error) {
	return s.update(ctx, taskID, func(t task.Task) (task.Task, bool) {
		return t.WithSubtaskCompleted(subID, completed)
	})
}

// DeleteSubtask removes a subtask.
func (s *Service) DeleteSubtask(ctx context.Context, taskID, subID string) (task.Task, error) {
	return s.update(ctx, taskID, func(t task.Task) (task.Task, bool) {
		return t.WithoutSubtask(subID)
	})
}

// SetTag assigns a snapshot of the named tag to a task.
func (s *Service) SetTag(ctx context.Context, id, tagName string) (task.Task, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	tg, ok := s.tags.Lookup(tagName)
	s.mu.Unlock()
	if !ok {
		return task.Task{}, ErrUnknownTag
	}
	return s.update(ctx, id, func(t task.Task) (task.Task, bool) {
		return t.WithTag(tg), true
	})
}

// SetDueDate moves a task to d; a nil d clears the date.
func (s *Service) SetDueDate(ctx context.Context, id string, d *task.Date) (task.Task, error) {
	due := task.Date{}
	if d != nil {
		due = *d
	}
	return s.update(ctx, id, func(t task.Task) (task.Task, bool) {
		return t.WithDue(due), true
	})
}

