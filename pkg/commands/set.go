package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
)

func addSet(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the due date or tag of a task",
	}

	addSetDate(cmd, oo)
	addSetTag(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addSetDate(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "date <task id> <date|none>",
		Short: "Set or clear the due date of a task",
		Example: `
taskflow set date <task id> tomorrow
taskflow set date <task id> 2024-07-04
taskflow set date <task id> none
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a task id and a date")
			}
			return nil
		},
		ValidArgsFunction: taskIDCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				due, err := timeutil.ParseOptionalDate(strings.Join(args[1:], " "), svc.Today())
				if err != nil {
					return err
				}
				t, err := svc.SetDueDate(ctx, args[0], due)
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

func addSetTag(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "tag <task id> <tag name>",
		Short: "Set the tag of a task",
		Example: `
taskflow set tag <task id> Work
taskflow set tag <task id> "Home Projects"
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a task id and a tag name")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return taskIDCompletions(cmd, args, toComplete)
			}
			return tagCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.SetTag(ctx, args[0], strings.Join(args[1:], " "))
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
