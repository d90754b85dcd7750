package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/projection"
	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/view"
)

func addTags(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and manage tags",
		Example: `
taskflow tags
taskflow tags add Errands --color tag-green
taskflow tags show errands
taskflow tags delete Errands
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTags(cmd, oo)
		},
	}
	options.AddOutputArgs(cmd, oo)

	addTagsList(cmd, oo)
	addTagsAdd(cmd, oo)
	addTagsDelete(cmd, oo)
	addTagsShow(cmd, oo)
	addTagsSlug(cmd)
	topLevel.AddCommand(cmd)
}

type tagListing struct {
	Tags   []projection.TagCount `json:"tags" yaml:"tags"`
	Missed int                   `json:"missed" yaml:"missed"`
}

func listTags(cmd *cobra.Command, oo *options.OutputOptions) error {
	cmd.SilenceUsage = true
	err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
		v := view.NewSidebar()
		if err := v.Mount(ctx, svc); err != nil {
			return err
		}
		defer v.Unmount()

		out := tagListing{Tags: v.Counts(), Missed: v.MissedCount()}
		return emit(cmd, oo, nil, out, func(pp *printers.PrettyPrint) {
			pp.Tags(out.Tags, out.Missed)
		})
	})
	return oo.HandleError(err)
}

func addTagsList(parent *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags with their task counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTags(cmd, oo)
		},
	}
	options.AddOutputArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func addTagsAdd(parent *cobra.Command, oo *options.OutputOptions) {
	var colorName string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a custom tag",
		Example: fmt.Sprintf(`
taskflow tags add Errands
taskflow tags add "Home Projects" --color tag-green

Colors: %s
`, strings.Join(tag.Palette(), ", ")),
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a tag name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				t, err := svc.AddTag(ctx, strings.Join(args, " "), colorName)
				if err != nil {
					return err
				}
				return emit(cmd, oo, nil, t, func(pp *printers.PrettyPrint) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (#%s)\n", t.Colorize(t.Name), t.Slug())
				})
			})
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&colorName, "color", "c", "", "Palette color for the tag. Defaults to tag-blue.")
	_ = cmd.RegisterFlagCompletionFunc("color", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return tag.Palette(), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArgs(cmd, oo)
	parent.AddCommand(cmd)
}

type tagDeletion struct {
	Tag      tag.Tag `json:"tag" yaml:"tag"`
	Retagged int     `json:"retagged" yaml:"retagged"`
}

func addTagsDelete(parent *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom tag; its tasks move to the default tag",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a tag name")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tagCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				removed, n, err := svc.DeleteTag(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				out := tagDeletion{Tag: removed, Retagged: n}
				return emit(cmd, oo, nil, out, func(pp *printers.PrettyPrint) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s", removed.Name)
					if n > 0 {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", %d moved to %s", n, tag.Default().Name)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	parent.AddCommand(cmd)
}

type tagPage struct {
	Tag   tag.Tag         `json:"tag" yaml:"tag"`
	Tasks task.Collection `json:"tasks" yaml:"tasks"`
}

func addTagsShow(parent *cobra.Command, oo *options.OutputOptions) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "List the tasks carrying a tag",
		Example: `
taskflow tags show work
taskflow tags show home-projects
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd, func(ctx context.Context, svc *app.Service) error {
				v := view.NewTag(args[0])
				if err := v.Mount(ctx, svc); err != nil {
					return err
				}
				defer v.Unmount()

				out := tagPage{Tag: v.Tag(), Tasks: v.Tasks()}
				return emit(cmd, oo, io, out, func(pp *printers.PrettyPrint) {
					pp.TitleWithCount(out.Tag.Colorize(out.Tag.Name), len(out.Tasks))
					pp.Tasks(out.Tasks)
				})
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	parent.AddCommand(cmd)
}

func addTagsSlug(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "slug <name|slug>",
		Short: "Convert between a tag name and its slug",
		Example: `
taskflow tags slug "Home Projects"   # home-projects
taskflow tags slug home-projects     # Home Projects
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			in := strings.Join(args, " ")
			return withService(cmd, func(ctx context.Context, svc *app.Service) error {
				if t, ok, err := svc.LookupTag(ctx, in); err != nil {
					return err
				} else if ok && t.Slug() != in {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), t.Slug())
					return nil
				}
				name, err := svc.ResolveSlug(ctx, in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}
