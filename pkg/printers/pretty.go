package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/projection"
	"tableflip.dev/taskflow/pkg/task"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

const maxTitleWidth = 60

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

// Tasks prints one row per task with its subtasks indented below it.
func (pp *PrettyPrint) Tasks(tasks task.Collection) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxTitleWidth
	for _, t := range tasks {
		row := make([]interface{}, 0, 6)
		if pp.ShowID {
			row = append(row, y.Sprint(t.ID))
		}
		title := t.Title
		if t.Completed {
			title = faint.Sprint(title)
		}
		row = append(row, checkbox(t.Completed), title, due(t), tagLabel(t), progress(t))
		tbl.AddRow(row...)

		for _, s := range t.Subtasks {
			sub := make([]interface{}, 0, 6)
			if pp.ShowID {
				sub = append(sub, y.Sprint("  "+s.ID))
			}
			sub = append(sub, "  "+checkbox(s.Completed), s.Title, "", "", "")
			tbl.AddRow(sub...)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

// Buckets prints the four Upcoming sections.
func (pp *PrettyPrint) Buckets(b projection.Buckets) {
	for _, bucket := range task.AllBuckets() {
		c := b.Get(bucket)
		pp.TitleWithCount(bucket.Title(), len(c))
		pp.Tasks(c)
	}
}

// Tags prints the tag list with task counts.
func (pp *PrettyPrint) Tags(counts []projection.TagCount, missed int) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Tag"), bold("Slug"), bold("Color"), bold("Tasks"))
	for _, c := range counts {
		tbl.AddRow(c.Tag.Colorize("● "+c.Tag.Name), c.Tag.Slug(), c.Tag.Color, c.Count)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	if missed > 0 {
		r := color.New(color.FgRed)
		_, _ = r.Fprintf(pp.out(), "\n%d missed\n", missed)
	}
}

// Report prints a progress report grouped by tag.
func (pp *PrettyPrint) Report(res app.ReportResult) {
	pp.Title(fmt.Sprintf("%s to %s", res.Since, res.Until))
	if res.Total == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " nothing due\n\n")
		return
	}
	for _, sec := range res.Sections {
		name := sec.Tag.Name
		if name == "" {
			name = "Untagged"
		} else {
			name = sec.Tag.Colorize(name)
		}
		_, _ = fmt.Fprintf(pp.out(), "%s %d/%d\n", name, sec.Done, len(sec.Tasks))
		pp.Tasks(sec.Tasks)
	}
	_, _ = fmt.Fprintf(pp.out(), "%d of %d done\n", res.Done, res.Total)
}

// Migration prints missed tasks with how late they are.
func (pp *PrettyPrint) Migration(cands []app.MigrationCandidate) {
	pp.TitleWithCount("Missed", len(cands))
	if len(cands) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	r := color.New(color.FgRed)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxTitleWidth
	for _, c := range cands {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, c.Task.ID)
		}
		row = append(row, c.Task.Title, c.Task.DueDate.String(), r.Sprintf("%dd late", c.Overdue))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Event prints one line describing a bus event.
func (pp *PrettyPrint) Event(ev bus.Event) {
	f := color.New(color.Faint)
	state := ""
	if !ev.Persisted {
		state = color.New(color.FgRed).Sprint(" (not saved)")
	}
	_, _ = fmt.Fprintf(pp.out(), "%s %-8s %d tasks, %d tags%s\n",
		f.Sprintf("#%d", ev.Seq), ev.Kind, len(ev.Tasks), len(ev.Tags), state)
}

func checkbox(done bool) string {
	if done {
		return color.New(color.FgGreen).Sprint("[x]")
	}
	return "[ ]"
}

func due(t task.Task) string {
	if !t.HasDue() {
		return ""
	}
	return t.DueDate.Format("Mon Jan 2")
}

func tagLabel(t task.Task) string {
	if t.Tag == nil {
		return ""
	}
	return t.Tag.Colorize("#" + t.Tag.Slug())
}

func progress(t task.Task) string {
	if len(t.Subtasks) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", t.SubtasksDone(), len(t.Subtasks))
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

