package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/printers"
)

// OutputOptions selects how a command prints its result.
type OutputOptions struct {
	base.OutputOptions
	Format string
}

func AddOutputArgs(cmd *cobra.Command, o *OutputOptions) {
	base.AddOutputArg(cmd, &o.OutputOptions)
	cmd.Flags().StringVarP(&o.Format, "output", "o", printers.FormatText,
		"Output format. One of 'text', 'json' or 'yaml'.")
}

// Resolve returns the effective format. --json wins over --output.
func (o *OutputOptions) Resolve() (string, error) {
	if o.JSON {
		return printers.FormatJSON, nil
	}
	return printers.ParseFormat(o.Format)
}

// HandleError prints err as a JSON object when JSON output was requested.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if f, ferr := o.Resolve(); ferr != nil || f != printers.FormatJSON {
		return err
	}
	out := map[string]string{
		"error": err.Error(),
	}
	b, merr := json.Marshal(out)
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
