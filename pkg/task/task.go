// Package task defines tasks and subtasks, the date bucket classifier, and
// the pure transforms every mutation is built from.
package task

import (
	"encoding/json"
	"strings"

	"tableflip.dev/taskflow/pkg/tag"
)

// Task is a to-do item. Values are treated as immutable: transforms return
// new Tasks and never write through a Task reachable from another caller.
type Task struct {
	ID        string
	Title     string
	Completed bool
	DueDate   Date
	Subtasks  []Subtask
	Tag       *tag.Tag
}

// Subtask is a checklist item owned by a Task.
type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// wireTask is the persisted JSON shape.
type wireTask struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Completed bool      `json:"completed" yaml:"completed"`
	DueDate   string    `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Subtasks  []Subtask `json:"subtasks" yaml:"subtasks"`
	Tag       *tag.Tag  `json:"tag,omitempty" yaml:"tag,omitempty"`
}

func (t Task) wire() wireTask {
	return wireTask{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		DueDate:   t.DueDate.String(),
		Subtasks:  subtasksOrEmpty(t.Subtasks),
		Tag:       t.Tag,
	}
}

// subtasksOrEmpty keeps stored records as "subtasks": [] rather than null.
func subtasksOrEmpty(s []Subtask) []Subtask {
	if s == nil {
		return []Subtask{}
	}
	return s
}

// MarshalJSON writes the task with its due date as yyyy-MM-dd.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// UnmarshalJSON reads a task. Missing fields take their zero value, except
// subtasks which default to an empty list; an empty or null due date means no
// date.
func (t *Task) UnmarshalJSON(b []byte) error {
	var w wireTask
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var due Date
	if err := due.UnmarshalText([]byte(w.DueDate)); err != nil {
		return err
	}
	*t = Task{
		ID:        w.ID,
		Title:     w.Title,
		Completed: w.Completed,
		DueDate:   due,
		Subtasks:  subtasksOrEmpty(w.Subtasks),
		Tag:       w.Tag,
	}
	return nil
}

// MarshalYAML renders the task in the same shape as its JSON form.
func (t Task) MarshalYAML() (interface{}, error) {
	return t.wire(), nil
}

// HasDue reports whether the task has a due date.
func (t Task) HasDue() bool {
	return !t.DueDate.IsZero()
}

// TagName returns the task's tag name, or "" when untagged.
func (t Task) TagName() string {
	if t.Tag == nil {
		return ""
	}
	return t.Tag.Name
}

// HasTag reports whether the task is tagged with name, ignoring case.
func (t Task) HasTag(name string) bool {
	return t.Tag != nil && strings.EqualFold(t.Tag.Name, strings.TrimSpace(name))
}

// SubtasksDone returns the number of completed subtasks.
func (t Task) SubtasksDone() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// WithCompleted returns a copy of t with the completion flag set.
func (t Task) WithCompleted(completed bool) Task {
	t.Completed = completed
	return t
}

// WithDue returns a copy of t due on d. The zero Date clears the due date.
func (t Task) WithDue(d Date) Task {
	t.DueDate = d
	return t
}

// WithTag returns a copy of t tagged with a snapshot of tg.
func (t Task) WithTag(tg tag.Tag) Task {
	t.Tag = &tg
	return t
}

// WithSubtask returns a copy of t with s appended.
func (t Task) WithSubtask(s Subtask) Task {
	subs := make([]Subtask, 0, len(t.Subtasks)+1)
	subs = append(subs, t.Subtasks...)
	t.Subtasks = append(subs, s)
	return t
}

// WithSubtaskCompleted returns a copy of t with subtask id's completion set.
func (t Task) WithSubtaskCompleted(id string, completed bool) (Task, bool) {
	idx := t.subtaskIndex(id)
	if idx < 0 {
		return t, false
	}
	subs := make([]Subtask, len(t.Subtasks))
	copy(subs, t.Subtasks)
	subs[idx].Completed = completed
	t.Subtasks = subs
	return t, true
}

// WithoutSubtask returns a copy of t with subtask id removed.
func (t Task) WithoutSubtask(id string) (Task, bool) {
	idx := t.subtaskIndex(id)
	if idx < 0 {
		return t, false
	}
	subs := make([]Subtask, 0, len(t.Subtasks)-1)
	subs = append(subs, t.Subtasks[:idx]...)
	t.Subtasks = append(subs, t.Subtasks[idx+1:]...)
	return t, true
}

func (t Task) subtaskIndex(id string) int {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}
