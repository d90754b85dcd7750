package view

import (
	"context"
	"time"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/projection"
	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

// Upcoming shows every task split into Today, Tomorrow, This Week and Others.
type Upcoming struct {
	mount
	buckets projection.Buckets
}

// NewUpcoming returns an unmounted Upcoming view.
func NewUpcoming() *Upcoming {
	v := &Upcoming{}
	v.derive = func(c task.Collection, _ []tag.Tag, now time.Time, ws time.Weekday) {
		v.buckets = projection.Partition(c, now, ws)
	}
	return v
}

// Buckets returns the current partition.
func (v *Upcoming) Buckets() projection.Buckets {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buckets
}

// Add creates a task from the quick-add form of one bucket. The This Week
// form requires an explicit date; the others default it.
func (v *Upcoming) Add(ctx context.Context, b task.Bucket, title string, due task.Date, tagName string) (task.Task, error) {
	svc, err := v.service()
	if err != nil {
		return task.Task{}, err
	}
	return svc.AddTask(ctx, app.AddRequest{
		Title:       title,
		Bucket:      b,
		Due:         due,
		Tag:         tagName,
		RequireDate: b == task.Week,
	})
}

// Today shows the tasks classified as due today.
type Today struct {
	mount
	tasks task.Collection
	date  task.Date
}

// NewToday returns an unmounted Today view.
func NewToday() *Today {
	v := &Today{}
	v.derive = func(c task.Collection, _ []tag.Tag, now time.Time, ws time.Weekday) {
		v.tasks = projection.InBucket(c, task.Today, now, ws)
		v.date = task.DateOf(now)
	}
	return v
}

// Tasks returns today's tasks.
func (v *Today) Tasks() task.Collection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tasks
}

// Date returns the date the view was last derived for.
func (v *Today) Date() task.Date {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.date
}

// Add creates a task due today.
func (v *Today) Add(ctx context.Context, title, tagName string) (task.Task, error) {
	svc, err := v.service()
	if err != nil {
		return task.Task{}, err
	}
	return svc.AddTask(ctx, app.AddRequest{Title: title, Bucket: task.Today, Tag: tagName})
}

// Calendar marks the dates that have tasks and lists the tasks of the
// selected date. The selection starts on today.
type Calendar struct {
	mount
	all      task.Collection
	dates    []task.Date
	selected task.Date
	onDate   task.Collection
}

// NewCalendar returns an unmounted Calendar view.
func NewCalendar() *Calendar {
	v := &Calendar{}
	v.derive = func(c task.Collection, _ []tag.Tag, now time.Time, _ time.Weekday) {
		if v.selected.IsZero() {
			v.selected = task.DateOf(now)
		}
		v.all = c
		v.dates = projection.DatesWithTasks(c)
		v.onDate = projection.ForDate(c, v.selected)
	}
	return v
}

// Select changes the selected date.
func (v *Calendar) Select(d task.Date) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = d
	v.onDate = projection.ForDate(v.all, d)
}

// Selected returns the selected date and its tasks.
func (v *Calendar) Selected() (task.Date, task.Collection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, v.onDate
}

// Dates returns the distinct due dates, ascending.
func (v *Calendar) Dates() []task.Date {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dates
}

// HasTasks reports whether d is marked.
func (v *Calendar) HasTasks(d task.Date) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, x := range v.dates {
		if x == d {
			return true
		}
	}
	return false
}

// Add creates a task due on the selected date.
func (v *Calendar) Add(ctx context.Context, title, tagName string) (task.Task, error) {
	svc, err := v.service()
	if err != nil {
		return task.Task{}, err
	}
	d, _ := v.Selected()
	return svc.AddTask(ctx, app.AddRequest{Title: title, Due: d, Tag: tagName})
}

// Tag lists the tasks carrying one tag, addressed by its URL slug.
type Tag struct {
	mount
	slug  string
	tag   tag.Tag
	tasks task.Collection
}

// NewTag returns an unmounted view for slug.
func NewTag(slug string) *Tag {
	v := &Tag{slug: slug}
	v.derive = func(c task.Collection, tags []tag.Tag, _ time.Time, _ time.Weekday) {
		name := tag.FromSlug(tags, v.slug)
		if found, ok := tag.Find(tags, name); ok {
			v.tag = found
		} else {
			// Unknown or deleted tags still render, in the Default color.
			v.tag = tag.Tag{Name: name, Color: tag.Default().Color}
		}
		v.tasks = projection.ForTag(c, name)
	}
	return v
}

// Tag returns the resolved tag.
func (v *Tag) Tag() tag.Tag {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tag
}

// Tasks returns the tasks carrying the tag.
func (v *Tag) Tasks() task.Collection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tasks
}

// Add creates an undated task with this view's tag.
func (v *Tag) Add(ctx context.Context, title string) (task.Task, error) {
	svc, err := v.service()
	if err != nil {
		return task.Task{}, err
	}
	return svc.AddTask(ctx, app.AddRequest{Title: title, Tag: v.Tag().Name})
}

// Missed lists incomplete tasks due before today.
type Missed struct {
	mount
	tasks task.Collection
}

// NewMissed returns an unmounted Missed view.
func NewMissed() *Missed {
	v := &Missed{}
	v.derive = func(c task.Collection, _ []tag.Tag, now time.Time, _ time.Weekday) {
		v.tasks = projection.Missed(c, now)
	}
	return v
}

// Tasks returns the missed tasks.
func (v *Missed) Tasks() task.Collection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tasks
}

// Sidebar shows the tag list with per-tag task counts and the missed count.
type Sidebar struct {
	mount
	counts []projection.TagCount
	missed int
}

// NewSidebar returns an unmounted Sidebar.
func NewSidebar() *Sidebar {
	v := &Sidebar{}
	v.derive = func(c task.Collection, tags []tag.Tag, now time.Time, _ time.Weekday) {
		v.counts = projection.TagCounts(c, tags)
		v.missed = len(projection.Missed(c, now))
	}
	return v
}

// Counts returns the task count of every tag, in registry order.
func (v *Sidebar) Counts() []projection.TagCount {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counts
}

// MissedCount returns the number of missed tasks.
func (v *Sidebar) MissedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.missed
}
