package commands

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/store"
)

type infoResult struct {
	Path      string `json:"path" yaml:"path"`
	Backend   string `json:"backend" yaml:"backend"`
	WeekStart string `json:"weekStart" yaml:"weekStart"`
	Tasks     int    `json:"tasks" yaml:"tasks"`
	Tags      int    `json:"tags" yaml:"tags"`
	Missed    int    `json:"missed" yaml:"missed"`
}

func addInfo(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about where tasks are stored.",
		Example: `
taskflow info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return oo.HandleError(err)
			}
			err = withService(cmd, func(ctx context.Context, svc *app.Service) error {
				snap, err := svc.Snapshot(ctx)
				if err != nil {
					return err
				}
				res := infoResult{
					Path:      cfg.BasePath(),
					Backend:   cfg.Backend(),
					WeekStart: svc.WeekStart().String(),
					Tasks:     snap.Total,
					Tags:      len(snap.Tags),
					Missed:    len(snap.Missed),
				}
				return emit(cmd, oo, nil, res, func(pp *printers.PrettyPrint) {
					tbl := uitable.New()
					tbl.AddRow("path:", res.Path)
					tbl.AddRow("backend:", res.Backend)
					tbl.AddRow("week starts:", res.WeekStart)
					tbl.AddRow("tasks:", res.Tasks)
					tbl.AddRow("tags:", res.Tags)
					tbl.AddRow("missed:", res.Missed)
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
