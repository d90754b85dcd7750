package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/task"
)

func addDelete(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:     "delete <task id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its subtasks",
		Example: `
taskflow delete <task id>
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a task id")
			}
			return nil
		},
		ValidArgsFunction: taskIDCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.DeleteTask(ctx, args[0])
				if err != nil {
					return err
				}
				return emit(cmd, oo, nil, t, func(pp *printers.PrettyPrint) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", t.Title)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	addDeleteSubtask(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addDeleteSubtask(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "subtask <task id> <subtask id>",
		Short: "Delete a subtask",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a task id and a subtask id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.DeleteSubtask(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return emit(cmd, oo, io, t, func(pp *printers.PrettyPrint) {
					pp.Tasks(task.Collection{t})
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	parent.AddCommand(cmd)
}
