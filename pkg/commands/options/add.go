package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/task"
)

// AddOptions
type AddOptions struct {
	Title  string
	Bucket string
	Tag    string
}

func AddTaskArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", task.Today.String(),
		"Quick-add bucket: today, tomorrow, week or other.")
	cmd.Flags().StringVarP(&o.Tag, "tag", "t", "",
		"Tag name for the task.")
}

func (o *AddOptions) GetBucket() (task.Bucket, error) {
	return task.ParseBucket(o.Bucket)
}
