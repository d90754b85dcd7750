package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

type watchEvent struct {
	Seq       uint64          `json:"seq" yaml:"seq"`
	Kind      string          `json:"kind" yaml:"kind"`
	Persisted bool            `json:"persisted" yaml:"persisted"`
	Tasks     task.Collection `json:"tasks" yaml:"tasks"`
	Tags      []tag.Tag       `json:"tags" yaml:"tags"`
}

func addWatch(topLevel *cobra.Command, oo *options.OutputOptions) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line for every change made to the task list, by this or another process",
		Example: `
taskflow watch
taskflow watch --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Resolve()
			if err != nil {
				return err
			}
			err = withService(cmd, func(ctx context.Context, svc *app.Service) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return watch(ctx, cmd, svc, format)
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

// watch reconciles the service on every storage change and prints each bus
// event until ctx is done.
func watch(ctx context.Context, cmd *cobra.Command, svc *app.Service, format string) error {
	out := cmd.OutOrStdout()
	pp := &printers.PrettyPrint{Out: out}

	unsubscribe := svc.Subscribe(func(ev bus.Event) {
		if format == printers.FormatText {
			pp.Event(ev)
			return
		}
		we := watchEvent{Seq: ev.Seq, Kind: ev.Kind.String(), Persisted: ev.Persisted, Tasks: ev.Tasks, Tags: ev.Tags}
		if err := printers.Encode(out, format, we); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}
	})
	defer unsubscribe()

	events, err := svc.Watch(ctx)
	if errors.Is(err, store.ErrNotWatchable) {
		return fmt.Errorf("the configured storage cannot be watched: %w", err)
	}
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := svc.Reconcile(ctx, ev); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "watch: reload: %v\n", err)
			}
		}
	}
}
