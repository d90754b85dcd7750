package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/task"
)

const (
	// BackendDiskv stores each record as a file under the data directory.
	BackendDiskv = "diskv"
	// BackendSQLite stores records in a single sqlite database file.
	BackendSQLite = "sqlite"

	defaultPath = "~/.taskflow"
)

// Config locates and describes the local store.
type Config interface {
	BasePath() string
	Backend() string
	WeekStart() time.Weekday
}

// LoadConfig reads .taskflow.yaml from $TASKFLOW_CONFIG_PATH, the working
// directory or $HOME, overlaid with TASKFLOW_* environment variables. A
// missing config file is fine.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("week_start", strings.ToLower(task.DefaultWeekStart.String()))
	v.SetConfigName(".taskflow") // .yaml is implicit
	v.SetEnvPrefix("TASKFLOW")
	v.AutomaticEnv()

	if override := os.Getenv("TASKFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}
	return configFrom(v.GetString("path"), v.GetString("backend"), v.GetString("week_start"))
}

// NewConfig builds a Config without consulting viper; used by tests and
// callers that manage their own flags.
func NewConfig(path, backend, weekStart string) (Config, error) {
	return configFrom(path, backend, weekStart)
}

func configFrom(path, backend, weekStart string) (Config, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("store: expand path %q: %w", path, err)
	}
	if expanded == "" {
		return nil, fmt.Errorf("store: data path required")
	}
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendDiskv
	}
	if backend != BackendDiskv && backend != BackendSQLite {
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
	ws, err := task.ParseWeekday(weekStart)
	if err != nil {
		return nil, fmt.Errorf("store: week_start: %w", err)
	}
	return &fileConfig{Path: expanded, Kind: backend, Week: ws}, nil
}

type fileConfig struct {
	Path string       `json:"path"`
	Kind string       `json:"backend"`
	Week time.Weekday `json:"weekStart"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.Kind
}

func (f *fileConfig) WeekStart() time.Weekday {
	return f.Week
}
