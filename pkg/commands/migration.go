package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
)

func addMigration(topLevel *cobra.Command, oo *options.OutputOptions) {
	migrationCmd := &cobra.Command{
		Use:   "migration",
		Short: "Reschedule missed tasks",
	}

	addMigrationList(migrationCmd, oo)
	addMigrationMove(migrationCmd, oo)
	topLevel.AddCommand(migrationCmd)
}

func addMigrationList(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missed tasks, most overdue first",
		Args:  cobra.NoArgs,
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
	parent.AddCommand(cmd)
}

func addMigrationMove(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "move [task id...]",
		Short: "Move missed tasks to a new date, today by default",
		Example: `
taskflow migration move
taskflow migration move <task id> <task id> --on tomorrow
`,
		ValidArgsFunction: taskIDCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				to, err := on.GetOn(svc.Today())
				if err != nil {
					return err
				}
				if to.IsZero() {
					to = svc.Today()
				}
				moved, err := svc.Migrate(ctx, to, args...)
				if err != nil {
					return err
				}
				return emit(cmd, oo, io, moved, func(pp *printers.PrettyPrint) {
					pp.TitleWithCount(fmt.Sprintf("Moved to %s", to.Format("Mon Jan 2")), len(moved))
					pp.Tasks(moved)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	parent.AddCommand(cmd)
}
