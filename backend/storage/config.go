// Package storage loads the schtask configuration file.
//
// The file is YAML and is taken from the --config flag, else the
// SCHTASK_CONFIG environment variable, else config.yaml under the user
// config directory. A missing file means defaults. The tool keeps no
// state of its own: the file is read, never written.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config path.
const EnvConfig = "SCHTASK_CONFIG"

// BoundaryLayout is the timestamp layout of trigger boundaries.
const BoundaryLayout = "2006-01-02T15:04:05"

type Config struct {
	Discovery DiscoveryConfig `yaml:"discovery"`
	Task      TaskConfig      `yaml:"task"`
	Log       LogConfig       `yaml:"log"`
}

// DiscoveryConfig holds the descriptions searched for in the
// registration database.
type DiscoveryConfig struct {
	Class        string `yaml:"class"`
	Service      string `yaml:"service"`
	LogonTrigger string `yaml:"logon_trigger"`
	ExecAction   string `yaml:"exec_action"`
}

// TaskConfig is the fixed policy applied to every created task.
type TaskConfig struct {
	Folder        string `yaml:"folder"`
	Author        string `yaml:"author"`
	TriggerID     string `yaml:"trigger_id"`
	StartBoundary string `yaml:"start_boundary"`
	EndBoundary   string `yaml:"end_boundary"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives JSON log lines instead of stderr when set.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Discovery: DiscoveryConfig{
			Class:        "TaskScheduler",
			Service:      "ITaskService",
			LogonTrigger: "ILogonTrigger",
			ExecAction:   "IExecAction",
		},
		Task: TaskConfig{
			Folder:        `\`,
			Author:        "Author Name",
			TriggerID:     "Trigger1",
			StartBoundary: "2024-03-19T00:00:00",
			EndBoundary:   "2026-06-06T00:00:00",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	var errs []error
	required := []struct{ field, value string }{
		{"discovery.class", c.Discovery.Class},
		{"discovery.service", c.Discovery.Service},
		{"discovery.logon_trigger", c.Discovery.LogonTrigger},
		{"discovery.exec_action", c.Discovery.ExecAction},
		{"task.folder", c.Task.Folder},
		{"task.trigger_id", c.Task.TriggerID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.field))
		}
	}

	start, err := time.Parse(BoundaryLayout, c.Task.StartBoundary)
	if err != nil {
		errs = append(errs, fmt.Errorf("task.start_boundary: %w", err))
	}
	end, err := time.Parse(BoundaryLayout, c.Task.EndBoundary)
	if err != nil {
		errs = append(errs, fmt.Errorf("task.end_boundary: %w", err))
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		errs = append(errs, fmt.Errorf("task.end_boundary %s is not after start_boundary %s", c.Task.EndBoundary, c.Task.StartBoundary))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Store holds the loaded configuration.
type Store struct {
	mu       sync.Mutex
	filePath string
	explicit bool
	Data     Config
}

// NewStore resolves the config path. An explicit path (flag or
// environment) must exist when loaded; the default path may be absent.
func NewStore(path string) (*Store, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		explicit = false
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, "Schtask", "config.yaml")
	}
	return &Store{
		filePath: path,
		explicit: explicit,
		Data:     Default(),
	}, nil
}

// Path returns the resolved config file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the file over the defaults and validates the result.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) && !s.explicit {
		return s.Data.Validate()
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", s.filePath, err)
	}
	s.Data = cfg
	return nil
}
