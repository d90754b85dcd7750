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
)

func addAdd(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task or subtask",
		Example: `
taskflow add task pay rent --bucket tomorrow
taskflow add subtask <task id> call the bank
`,
	}

	addAddTask(cmd, oo)
	addAddSubtask(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addAddTask(parent *cobra.Command, oo *options.OutputOptions) {
	ao := &options.AddOptions{}
	on := &options.OnOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "task <title>",
		Short: "Add a task",
		Long: `Add a task from one of the quick-add forms.

Without --on the due date follows the bucket: today, tomorrow, or none for
other. The week bucket has no default and needs --on.`,
		Example: `
taskflow add task do laundry
taskflow add task dentist --bucket week --on thursday --tag Personal
taskflow add task renew passport --bucket other
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			ao.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				bucket, err := ao.GetBucket()
				if err != nil {
					return err
				}
				due, err := on.GetOn(svc.Today())
				if err != nil {
					return err
				}
				t, err := svc.AddTask(ctx, app.AddRequest{
					Title:       ao.Title,
					Bucket:      bucket,
					Due:         due,
					Tag:         ao.Tag,
					RequireDate: bucket == task.Week,
				})
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

	options.AddTaskArgs(cmd, ao)
	options.AddOnArgs(cmd, on)
	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	_ = cmd.RegisterFlagCompletionFunc("tag", func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tagCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("bucket", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, 4)
		for _, b := range task.AllBuckets() {
			names = append(names, b.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	parent.AddCommand(cmd)
}

func addAddSubtask(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}
	var title string

	cmd := &cobra.Command{
		Use:   "subtask <task id> <title>",
		Short: "Add a subtask to a task",
		Example: `
taskflow add subtask 1f0c2a buy stamps
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a task id and a title")
			}
			title = strings.Join(args[1:], " ")
			return nil
		},
		ValidArgsFunction: taskIDCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.AddSubtask(ctx, args[0], title)
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
