package task

import (
	"tableflip.dev/taskflow/pkg/tag"
)

// Collection is the full ordered task list; it is the single source of truth
// every view derives from. Methods never modify the receiver.
type Collection []Task

// Clone returns a copy of c that shares no slices with it.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, t := range c {
		if t.Subtasks != nil {
			subs := make([]Subtask, len(t.Subtasks))
			copy(subs, t.Subtasks)
			t.Subtasks = subs
		}
		if t.Tag != nil {
			tg := *t.Tag
			t.Tag = &tg
		}
		out[i] = t
	}
	return out
}

// Find returns the task with id.
func (c Collection) Find(id string) (Task, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Append returns a new collection with t at the end.
func (c Collection) Append(t Task) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, c...)
	return append(out, t)
}

// Update returns a new collection where the task with id is replaced by
// fn(task). fn reports whether it changed anything; the boolean result is
// false when no task matched or fn declined.
func (c Collection) Update(id string, fn func(Task) (Task, bool)) (Collection, Task, bool) {
	for i, t := range c {
		if t.ID != id {
			continue
		}
		next, ok := fn(t)
		if !ok {
			return c, t, false
		}
		out := make(Collection, len(c))
		copy(out, c)
		out[i] = next
		return out, next, true
	}
	return c, Task{}, false
}

// Remove returns a new collection without the task with id.
func (c Collection) Remove(id string) (Collection, bool) {
	for i, t := range c {
		if t.ID != id {
			continue
		}
		out := make(Collection, 0, len(c)-1)
		out = append(out, c[:i]...)
		return append(out, c[i+1:]...), true
	}
	return c, false
}

// ReassignTag returns a new collection where every task tagged name (ignoring
// case) is tagged to instead, plus the number of tasks rewritten.
func (c Collection) ReassignTag(name string, to tag.Tag) (Collection, int) {
	out := make(Collection, len(c))
	n := 0
	for i, t := range c {
		if t.HasTag(name) {
			t = t.WithTag(to)
			n++
		}
		out[i] = t
	}
	return out, n
}

// Filter returns the tasks for which keep returns true, in order.
func (c Collection) Filter(keep func(Task) bool) Collection {
	out := make(Collection, 0)
	for _, t := range c {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// IDs returns the task ids in order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i, t := range c {
		ids[i] = t.ID
	}
	return ids
}
