package app

import (
	"context"
	"sort"

	"tableflip.dev/taskflow/pkg/task"
)

// MigrationCandidate is a missed task offered for rescheduling.
type MigrationCandidate struct {
	Task task.Task `json:"task" yaml:"task"`
	// Overdue is the number of days since the task was due.
	Overdue int `json:"overdue" yaml:"overdue"`
}

// MigrationCandidates returns the missed tasks, most overdue first.
func (s *Service) MigrationCandidates(ctx context.Context) ([]MigrationCandidate, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	c, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := task.DateOf(now)

	results := make([]MigrationCandidate, 0)
	for _, t := range c {
		if !task.IsMissed(t, now) {
			continue
		}
		results = append(results, MigrationCandidate{
			Task:    t,
			Overdue: daysBetween(t.DueDate, today),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Overdue > results[j].Overdue
	})
	return results, nil
}

// Migrate moves the given missed tasks to the date to in a single write. An
// empty ids moves every missed task. Ids that are not missed tasks are
// ignored; the moved tasks are returned.
func (s *Service) Migrate(ctx context.Context, to task.Date, ids ...string) (task.Collection, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	now := s.now()
	next := make(task.Collection, len(s.tasks))
	moved := task.Collection{}
	for i, t := range s.tasks {
		if task.IsMissed(t, now) && (len(ids) == 0 || want[t.ID]) {
			t = t.WithDue(to)
			moved = append(moved, t)
		}
		next[i] = t
	}
	if len(moved) == 0 {
		s.mu.Unlock()
		return moved, nil
	}
	ev := s.commitLocked(ctx, next)
	s.publish(ev)
	return moved, nil
}

func daysBetween(from, to task.Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}
