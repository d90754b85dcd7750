package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/store"
)

// withService hands fn the Service carried by the command context, or opens
// one from the user's configuration for the length of the call.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if svc, ok := app.FromContext(ctx); ok {
		return fn(ctx, svc)
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	gw, err := store.Load(cfg)
	if err != nil {
		return err
	}
	svc := app.New(gw, app.WithWeekStart(cfg.WeekStart()))
	defer func() { _ = svc.Close() }()
	if err := svc.Open(ctx); err != nil {
		return err
	}
	return fn(app.WithService(ctx, svc), svc)
}

// emit encodes v for --json and --output yaml, and otherwise calls text.
func emit(cmd *cobra.Command, oo *options.OutputOptions, io *options.IDOptions, v interface{}, text func(pp *printers.PrettyPrint)) error {
	format, err := oo.Resolve()
	if err != nil {
		return err
	}
	if format != printers.FormatText {
		return printers.Encode(cmd.OutOrStdout(), format, v)
	}
	pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
	if io != nil {
		pp.ShowID = io.ShowID
	}
	text(pp)
	return nil
}
