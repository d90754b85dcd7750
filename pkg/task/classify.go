package task

import (
	"fmt"
	"strings"
	"time"
)

// Bucket is the date section a task is listed under.
type Bucket int

const (
	// Today holds tasks due today.
	Today Bucket = iota
	// Tomorrow holds tasks due tomorrow.
	Tomorrow
	// Week holds the rest of the current week.
	Week
	// Other holds undated tasks and everything outside the current week.
	Other
)

// DefaultWeekStart is the first day of the week when none is configured.
const DefaultWeekStart = time.Sunday

// AllBuckets returns the buckets in display order.
func AllBuckets() []Bucket {
	return []Bucket{Today, Tomorrow, Week, Other}
}

func (b Bucket) String() string {
	switch b {
	case Today:
		return "today"
	case Tomorrow:
		return "tomorrow"
	case Week:
		return "week"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// Title is the section heading for b.
func (b Bucket) Title() string {
	switch b {
	case Today:
		return "Today"
	case Tomorrow:
		return "Tomorrow"
	case Week:
		return "This Week"
	default:
		return "Others"
	}
}

// MarshalText renders the bucket name.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBucket parses a bucket name. "this week" and "others" are accepted.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today, nil
	case "tomorrow":
		return Tomorrow, nil
	case "week", "this week", "this-week":
		return Week, nil
	case "other", "others", "":
		return Other, nil
	}
	return Other, fmt.Errorf("task: unknown bucket %q", s)
}

// ParseWeekday parses a weekday name such as "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultWeekStart, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return DefaultWeekStart, fmt.Errorf("task: unknown weekday %q", s)
}

// Classify returns the bucket for t as of now. Only calendar dates are
// compared; the time of day of now is ignored. The week is the seven days
// starting on the most recent weekStart on or before today.
func Classify(t Task, now time.Time, weekStart time.Weekday) Bucket {
	if !t.HasDue() {
		return Other
	}
	today := DateOf(now)
	due := t.DueDate
	switch {
	case due == today:
		return Today
	case due == today.AddDays(1):
		return Tomorrow
	case InWeek(due, today, weekStart):
		return Week
	default:
		return Other
	}
}

// WeekOf returns the first and last day of the week containing d.
func WeekOf(d Date, weekStart time.Weekday) (Date, Date) {
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	start := d.AddDays(-offset)
	return start, start.AddDays(6)
}

// InWeek reports whether d falls in the week containing ref.
func InWeek(d, ref Date, weekStart time.Weekday) bool {
	start, end := WeekOf(ref, weekStart)
	return !d.Before(start) && !d.After(end)
}

// DefaultDue is the due date a task added under b gets when the caller gives
// none: today, tomorrow, three days out, or no date for Other.
func DefaultDue(b Bucket, now time.Time) Date {
	today := DateOf(now)
	switch b {
	case Today:
		return today
	case Tomorrow:
		return today.AddDays(1)
	case Week:
		return today.AddDays(3)
	default:
		return Date{}
	}
}

// IsMissed reports whether t is open and due strictly before today.
func IsMissed(t Task, now time.Time) bool {
	return !t.Completed && t.HasDue() && t.DueDate.Before(DateOf(now))
}
