package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/view"
)

func addUpcoming(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "upcoming",
		Aliases: []string{"ls", "list"},
		Short:   "List tasks under Today, Tomorrow, This Week and Others",
		Example: `
taskflow upcoming
taskflow upcoming --show-id
taskflow upcoming -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				v := view.NewUpcoming()
				if err := v.Mount(ctx, svc); err != nil {
					return err
				}
				defer v.Unmount()

				b := v.Buckets()
				return emit(cmd, oo, io, b, func(pp *printers.PrettyPrint) {
					pp.Buckets(b)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

type dayListing struct {
	Date  task.Date       `json:"date" yaml:"date"`
	Tasks task.Collection `json:"tasks" yaml:"tasks"`
}

func addToday(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "today",
		Short: "List tasks due today",
		Example: `
taskflow today
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				v := view.NewToday()
				if err := v.Mount(ctx, svc); err != nil {
					return err
				}
				defer v.Unmount()

				out := dayListing{Date: v.Date(), Tasks: v.Tasks()}
				return emit(cmd, oo, io, out, func(pp *printers.PrettyPrint) {
					pp.TitleWithCount(out.Date.Format("Monday, January 2"), len(out.Tasks))
					pp.Tasks(out.Tasks)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func addMissed(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "missed",
		Aliases: []string{"overdue"},
		Short:   "List incomplete tasks whose due date has passed",
		Example: `
taskflow missed
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				cands, err := svc.MigrationCandidates(ctx)
				if err != nil {
					return err
				}
				return emit(cmd, oo, io, cands, func(pp *printers.PrettyPrint) {
					pp.Migration(cands)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

type calendarListing struct {
	Selected task.Date       `json:"selected" yaml:"selected"`
	Dates    []task.Date     `json:"dates" yaml:"dates"`
	Tasks    task.Collection `json:"tasks" yaml:"tasks"`
}

func addCalendar(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show the month with the days that have tasks, and the tasks on one day",
		Example: `
taskflow calendar
taskflow calendar --on 2024-07-04
taskflow calendar --on friday
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				date, err := on.GetOn(svc.Today())
				if err != nil {
					return err
				}
				v := view.NewCalendar()
				if err := v.Mount(ctx, svc); err != nil {
					return err
				}
				defer v.Unmount()
				if !date.IsZero() {
					v.Select(date)
				}

				selected, tasks := v.Selected()
				out := calendarListing{Selected: selected, Dates: v.Dates(), Tasks: tasks}
				return emit(cmd, oo, io, out, func(pp *printers.PrettyPrint) {
					pp.Month(selected, svc.Today(), svc.WeekStart(), out.Dates)
					pp.TitleWithCount(selected.Format("Monday, January 2"), len(tasks))
					pp.Tasks(tasks)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
