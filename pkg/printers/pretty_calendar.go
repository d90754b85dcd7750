package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/task"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a month grid for the month containing on. Days with tasks are
// bold, today is underlined and the selected day is reversed.
func (pp *PrettyPrint) Month(on, today task.Date, weekStart time.Weekday, dates []task.Date) {
	first := task.NewDate(on.Year, on.Month, 1)
	marked := make(map[int]bool)
	for _, d := range dates {
		if d.Year == on.Year && d.Month == on.Month {
			marked[d.Day] = true
		}
	}

	tf := color.New(color.FgWhite, color.Italic)
	m := fmt.Sprintf("%s %d", on.Month, on.Year)
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), m)

	hdr := color.New(color.Faint)
	for i := 0; i < 7; i++ {
		_, _ = hdr.Fprintf(pp.out(), "%2s ", time.Weekday((int(weekStart)+i)%7).String()[0:2])
	}
	_, _ = fmt.Fprintln(pp.out())

	// Pad out the start of the month.
	pad := (int(first.Weekday()) - int(weekStart) + 7) % 7
	_, _ = fmt.Fprint(pp.out(), strings.Repeat("   ", pad))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	col := pad
	for day := 1; day <= DaysIn(on); day++ {
		printer := l1
		if marked[day] {
			printer = l2
		}
		d := task.NewDate(on.Year, on.Month, day)
		attrs := []color.Attribute{}
		if d == today {
			attrs = append(attrs, color.Underline)
		}
		if d == on {
			attrs = append(attrs, color.ReverseVideo)
		}
		if len(attrs) > 0 {
			printer = color.New(append(attrs, color.Bold)...)
		}
		_, _ = printer.Fprintf(pp.out(), "%2d", day)
		_, _ = fmt.Fprint(pp.out(), " ")

		col++
		if col == 7 {
			col = 0
			_, _ = fmt.Fprintln(pp.out())
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}

// DaysIn returns the number of days in d's month.
func DaysIn(d task.Date) int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
