package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/taskflow/pkg/task"
)

// ParseDate reads a due date typed on the command line, relative to today.
// Accepted forms: yyyy-MM-dd, M/D (this year), today, tomorrow, yesterday, a
// weekday name (the next one after today), and a forward window such as
// "+3d", "2w" or "1w2d".
func ParseDate(input string, today task.Date) (task.Date, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "":
		return task.Date{}, fmt.Errorf("empty date")
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	if d, err := task.ParseDate(s); err == nil {
		return d, nil
	}
	if d, ok := parseMonthDay(s, today.Year); ok {
		return d, nil
	}
	if wd, ok := parseWeekday(s); ok {
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDays(ahead), nil
	}
	if days, _, err := ParseWindow(strings.TrimPrefix(s, "+")); err == nil {
		return today.AddDays(days), nil
	}
	return task.Date{}, fmt.Errorf("unrecognized date %q (want yyyy-MM-dd, M/D, today, tomorrow, a weekday or +3d)", input)
}

// ParseOptionalDate is ParseDate that also accepts "none" or "-" to mean no
// date, reported as nil.
func ParseOptionalDate(input string, today task.Date) (*task.Date, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "none", "-", "clear":
		return nil, nil
	}
	d, err := ParseDate(input, today)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseMonthDay(s string, year int) (task.Date, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return task.Date{}, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return task.Date{}, false
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil || d < 1 || d > 31 {
		return task.Date{}, false
	}
	out := task.NewDate(year, time.Month(m), d)
	// Reject dates that roll over, such as 2/30.
	if out.Month != time.Month(m) || out.Day != d {
		return task.Date{}, false
	}
	return out, true
}

func parseWeekday(s string) (time.Weekday, bool) {
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), s) {
			return d, true
		}
	}
	return 0, false
}
