// Package projection derives the read-only views of the task collection:
// the four date buckets, missed tasks, per-date, per-tag and calendar marks.
// Everything here is a pure function of the collection and the clock, so a
// view can throw its projection away and rebuild it after every change.
package projection

import (
	"sort"
	"time"

	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

// Buckets partitions a collection by task.Classify. Every task lands in
// exactly one bucket; order within a bucket follows the collection.
type Buckets struct {
	Today    task.Collection `json:"today" yaml:"today"`
	Tomorrow task.Collection `json:"tomorrow" yaml:"tomorrow"`
	Week     task.Collection `json:"week" yaml:"week"`
	Other    task.Collection `json:"other" yaml:"other"`
}

// Get returns the tasks in bucket b.
func (b Buckets) Get(bucket task.Bucket) task.Collection {
	switch bucket {
	case task.Today:
		return b.Today
	case task.Tomorrow:
		return b.Tomorrow
	case task.Week:
		return b.Week
	default:
		return b.Other
	}
}

// Len returns the total number of tasks across all buckets.
func (b Buckets) Len() int {
	return len(b.Today) + len(b.Tomorrow) + len(b.Week) + len(b.Other)
}

// Partition classifies every task in c as of now.
func Partition(c task.Collection, now time.Time, weekStart time.Weekday) Buckets {
	out := Buckets{
		Today:    task.Collection{},
		Tomorrow: task.Collection{},
		Week:     task.Collection{},
		Other:    task.Collection{},
	}
	for _, t := range c {
		switch task.Classify(t, now, weekStart) {
		case task.Today:
			out.Today = append(out.Today, t)
		case task.Tomorrow:
			out.Tomorrow = append(out.Tomorrow, t)
		case task.Week:
			out.Week = append(out.Week, t)
		default:
			out.Other = append(out.Other, t)
		}
	}
	return out
}

// InBucket returns the tasks of c classified into b.
func InBucket(c task.Collection, b task.Bucket, now time.Time, weekStart time.Weekday) task.Collection {
	return c.Filter(func(t task.Task) bool {
		return task.Classify(t, now, weekStart) == b
	})
}

// Missed returns open tasks due strictly before today. It is independent of
// the buckets: a missed task is also in Other or Week.
func Missed(c task.Collection, now time.Time) task.Collection {
	return c.Filter(func(t task.Task) bool {
		return task.IsMissed(t, now)
	})
}

// ForDate returns the tasks due exactly on d.
func ForDate(c task.Collection, d task.Date) task.Collection {
	return c.Filter(func(t task.Task) bool {
		return t.HasDue() && t.DueDate == d
	})
}

// ForTag returns the tasks tagged name, ignoring case.
func ForTag(c task.Collection, name string) task.Collection {
	return c.Filter(func(t task.Task) bool {
		return t.HasTag(name)
	})
}

// DatesWithTasks returns every distinct due date in c, ascending.
func DatesWithTasks(c task.Collection) []task.Date {
	seen := make(map[task.Date]struct{})
	out := make([]task.Date, 0)
	for _, t := range c {
		if !t.HasDue() {
			continue
		}
		if _, ok := seen[t.DueDate]; ok {
			continue
		}
		seen[t.DueDate] = struct{}{}
		out = append(out, t.DueDate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// TagCount is the number of tasks carrying a tag.
type TagCount struct {
	Tag   tag.Tag `json:"tag" yaml:"tag"`
	Count int     `json:"count" yaml:"count"`
}

// TagCounts returns the task count for each tag in tags, in the same order.
func TagCounts(c task.Collection, tags []tag.Tag) []TagCount {
	out := make([]TagCount, len(tags))
	for i, tg := range tags {
		out[i] = TagCount{Tag: tg, Count: len(ForTag(c, tg.Name))}
	}
	return out
}

// Snapshot bundles every projection for one instant.
type Snapshot struct {
	Now     task.Date       `json:"now" yaml:"now"`
	Total   int             `json:"total" yaml:"total"`
	Buckets Buckets         `json:"buckets" yaml:"buckets"`
	Missed  task.Collection `json:"missed" yaml:"missed"`
	Dates   []task.Date     `json:"dates" yaml:"dates"`
	Tags    []TagCount      `json:"tags" yaml:"tags"`
}

// Build derives a Snapshot from c.
func Build(c task.Collection, tags []tag.Tag, now time.Time, weekStart time.Weekday) Snapshot {
	return Snapshot{
		Now:     task.DateOf(now),
		Total:   len(c),
		Buckets: Partition(c, now, weekStart),
		Missed:  Missed(c, now),
		Dates:   DatesWithTasks(c),
		Tags:    TagCounts(c, tags),
	}
}
