package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-02-28", --on="2/28", --on=friday or --on=+3d.`)
}

// GetOn parses --on relative to today. The zero Date means the flag was not
// set.
func (o *OnOptions) GetOn(today task.Date) (task.Date, error) {
	if o.OnString == "" {
		return task.Date{}, nil
	}
	return timeutil.ParseDate(o.OnString, today)
}
