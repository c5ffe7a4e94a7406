package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	cfg := Default()
	if cfg.Task.StartBoundary != "2024-03-19T00:00:00" || cfg.Task.EndBoundary != "2026-06-06T00:00:00" {
		t.Errorf("default boundaries = %q..%q", cfg.Task.StartBoundary, cfg.Task.EndBoundary)
	}
	if cfg.Discovery.Class != "TaskScheduler" || cfg.Discovery.Service != "ITaskService" {
		t.Errorf("default discovery = %+v", cfg.Discovery)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
task:
  author: Operations
  trigger_id: LogonTrigger
log:
  level: debug
`)
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Data.Task.Author != "Operations" || store.Data.Task.TriggerID != "LogonTrigger" {
		t.Errorf("task = %+v", store.Data.Task)
	}
	if store.Data.Task.StartBoundary != Default().Task.StartBoundary {
		t.Errorf("unset field lost its default: %q", store.Data.Task.StartBoundary)
	}
	if store.Data.Discovery != Default().Discovery {
		t.Errorf("discovery = %+v", store.Data.Discovery)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad boundary",
			content: "task:\n  start_boundary: yesterday\n",
			want:    "task.start_boundary",
		},
		{
			name:    "end before start",
			content: "task:\n  start_boundary: \"2026-01-01T00:00:00\"\n  end_boundary: \"2025-01-01T00:00:00\"\n",
			want:    "is not after start_boundary",
		},
		{
			name:    "empty description",
			content: "discovery:\n  class: \"\"\n",
			want:    "discovery.class is required",
		},
		{
			name:    "bad level",
			content: "log:\n  level: loud\n",
			want:    "log.level",
		},
		{
			name:    "not yaml",
			content: "task: [",
			want:    "parsing",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store, err := NewStore(writeConfig(t, test.content))
			if err != nil {
				t.Fatalf("NewStore: %v", err)
			}
			err = store.Load()
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestExplicitPathMustExist(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Load(); err == nil {
		t.Fatal("Load of a missing explicit config succeeded")
	}
}

func TestEnvironmentPath(t *testing.T) {
	path := writeConfig(t, "task:\n  author: FromEnv\n")
	t.Setenv(EnvConfig, path)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Path() != path {
		t.Errorf("Path() = %q, want %q", store.Path(), path)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Data.Task.Author != "FromEnv" {
		t.Errorf("author = %q", store.Data.Task.Author)
	}
}
