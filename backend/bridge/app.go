// Package bridge exposes task creation to the command line.
package bridge

import (
	"io"
	"log/slog"
	"sync"

	"github.com/abubakar-alt/schtask/backend/comsession"
	"github.com/abubakar-alt/schtask/backend/discovery"
	"github.com/abubakar-alt/schtask/backend/scheduler"
	"github.com/abubakar-alt/schtask/backend/storage"
)

// App struct represents the main application. Calls are serialized:
// the COM runtime is process wide and must not be initialized twice
// at once.
type App struct {
	mu      sync.Mutex
	service *scheduler.Service
	logger  *slog.Logger
}

// NewApp wires the host runtime, registration database and Task
// Scheduler object model.
func NewApp(cfg storage.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	classes, interfaces, err := discovery.NewRegistryTables()
	if err != nil {
		// Lookup reports the missing tables when a task is requested.
		logger.Debug("registration database unavailable", "error", err)
	}
	return NewAppWithService(&scheduler.Service{
		Runtime:    comsession.NewRuntime(),
		Classes:    classes,
		Interfaces: interfaces,
		Model:      scheduler.NewObjectModel(),
		Config:     cfg,
		Logger:     logger,
	}, logger)
}

// NewAppWithService wraps an already wired service.
func NewAppWithService(service *scheduler.Service, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{service: service, logger: logger}
}

// CreateTask registers a task that runs exe with the optional args at
// logon of the current user and returns the result text.
func (a *App) CreateTask(name, exe string, args *string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.service.CreateTask(scheduler.TaskSpec{
		Name:           name,
		ExecutablePath: exe,
		Arguments:      args,
	})
	if err != nil {
		a.logger.Error("task creation failed", "task", name, "error", err)
	} else {
		a.logger.Info("task created", "task", name, "path", exe)
	}
	return scheduler.Result(err)
}
