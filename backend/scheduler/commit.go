package scheduler

import (
	"io"
	"log/slog"

	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// Committer registers a built definition, replacing any task of the
// same name.
type Committer struct {
	Logger *slog.Logger
}

// Commit registers def under name using the interactive logon token of
// the current user. def is released on every path.
func (c *Committer) Commit(def *Definition, name string) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	defer func() {
		def.Folder.Release()
		def.Task.Release()
	}()

	registered, err := def.Folder.RegisterTaskDefinition(name, def.Task, CreateOrUpdate, LogonInteractiveToken)
	if err != nil {
		return taskerr.Native(taskerr.Commit, "register", "Error saving the Task", err)
	}
	if registered != nil {
		registered.Release()
	}
	logger.Info("task registered", "task", name)
	return nil
}
