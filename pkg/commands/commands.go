package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/taskflow/pkg/commands/options"
)

func New() *cobra.Command {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "taskflow",
		Short: base.Wrap80("Tasks sorted into today, tomorrow, this week and later, with tags and subtasks."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd, oo)
	return cmd
}

func AddCommands(topLevel *cobra.Command, oo *options.OutputOptions) {
	addUpcoming(topLevel, oo)
	addToday(topLevel, oo)
	addMissed(topLevel, oo)
	addCalendar(topLevel, oo)
	addAdd(topLevel, oo)
	addComplete(topLevel, oo)
	addDelete(topLevel, oo)
	addSet(topLevel, oo)
	addTags(topLevel, oo)
	addReport(topLevel, oo)
	addMigration(topLevel, oo)
	addWatch(topLevel, oo)
	addInfo(topLevel, oo)
	addUI(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
