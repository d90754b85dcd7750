package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/task"
)

func addComplete(topLevel *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	undo := false

	cmd := &cobra.Command{
		Use:     "complete <task id>",
		Aliases: []string{"completed", "done"},
		Short:   "Mark a task complete",
		Example: `
taskflow complete <task id>
taskflow complete <task id> --undo
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
				t, err := svc.ToggleTask(ctx, args[0], !undo)
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

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task incomplete instead.")
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	addCompleteSubtask(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addCompleteSubtask(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	undo := false

	cmd := &cobra.Command{
		Use:   "subtask <task id> <subtask id>",
		Short: "Mark a subtask complete",
		Example: `
taskflow complete subtask <task id> <subtask id>
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a task id and a subtask id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.ToggleSubtask(ctx, args[0], args[1], !undo)
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

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the subtask incomplete instead.")
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	parent.AddCommand(cmd)
}
