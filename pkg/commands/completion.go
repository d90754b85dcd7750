package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(taskflow completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(taskflow completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func tagCompletions(cmd *cobra.Command, toComplete string) []string {
	var names []string
	_ = withService(cmd, func(ctx context.Context, svc *app.Service) error {
		tags, err := svc.Tags(ctx)
		if err != nil {
			return err
		}
		for _, t := range tags {
			if strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
				names = append(names, t.Name)
			}
		}
		return nil
	})
	return names
}

func taskIDCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 && cmd.Name() != "move" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	_ = withService(cmd, func(ctx context.Context, svc *app.Service) error {
		c, err := svc.Tasks(ctx)
		if err != nil {
			return err
		}
		for _, t := range c {
			if strings.HasPrefix(t.ID, toComplete) {
				ids = append(ids, t.ID+"\t"+t.Title)
			}
		}
		return nil
	})
	return ids, cobra.ShellCompDirectiveNoFileComp
}
