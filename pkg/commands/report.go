package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/timeutil"
)

func addReport(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize progress on tasks due in a recent window, grouped by tag",
		Long: `Report lists the tasks due within the window ending today, grouped by tag,
with how many of each are done.

Examples:
  taskflow report
  taskflow report --last 3d
  taskflow report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			days, label, err := timeutil.ParseWindow(last)
			if err != nil {
				return oo.HandleError(err)
			}
			err = withService(cmd, func(ctx context.Context, svc *app.Service) error {
				until := svc.Today()
				since := until.AddDays(-(days - 1))
				result, err := svc.Report(ctx, since, until)
				if err != nil {
					return err
				}
				return emit(cmd, oo, io, result, func(pp *printers.PrettyPrint) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report · last %s\n", label)
					pp.Report(result)
				})
			})
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
