// Package scheduler registers logon-triggered tasks with the Windows
// Task Scheduler through its automation object model.
//
// A task is created in four steps: a COM session is opened, the
// scheduler class and interfaces are looked up in the registration
// database, the definition is built stage by stage, and the result is
// registered with create-or-update semantics so an existing task of the
// same name is replaced.
package scheduler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abubakar-alt/schtask/backend/comsession"
	"github.com/abubakar-alt/schtask/backend/discovery"
	"github.com/abubakar-alt/schtask/backend/storage"
	"github.com/abubakar-alt/schtask/backend/sysinfo"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// SuccessMessage is the result text of a successful CreateTask.
const SuccessMessage = "Task successfully created"

// Service wires the host collaborators together. It is not safe for
// concurrent use: the COM runtime is process wide.
type Service struct {
	Runtime    comsession.Runtime
	Classes    discovery.Table
	Interfaces discovery.Table
	Model      ObjectModel
	Config     storage.Config
	// Lookup reads the ambient user identity; nil means os.LookupEnv.
	Lookup sysinfo.LookupFunc
	Logger *slog.Logger
}

// CreateTask registers spec as a logon-triggered task. Identifiers are
// resolved on every call.
func (s *Service) CreateTask(spec TaskSpec) (err error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("task", spec.Name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task creation panicked", "panic", r)
			err = &taskerr.Error{Kind: taskerr.Internal, Op: "create", Msg: fmt.Sprintf("panic: %v", r)}
		}
	}()

	return comsession.WithSession(s.Runtime, logger, func() error {
		resolver := &discovery.Resolver{
			Classes:    s.Classes,
			Interfaces: s.Interfaces,
			Logger:     logger,
		}
		d := s.Config.Discovery
		ids, err := resolver.ResolveService(d.Class, d.Service)
		if err != nil {
			return lookupFailed(err)
		}
		views, err := resolver.ResolveViews(d.LogonTrigger, d.ExecAction)
		if err != nil {
			return lookupFailed(err)
		}

		builder := &Builder{
			Model:  s.Model,
			Policy: s.policy(),
			Logger: logger,
		}
		def, err := builder.Build(ids, views, spec)
		if err != nil {
			return err
		}
		return (&Committer{Logger: logger}).Commit(def, spec.Name)
	})
}

func (s *Service) policy() Policy {
	t := s.Config.Task
	return Policy{
		Folder:        t.Folder,
		Author:        t.Author,
		TriggerID:     t.TriggerID,
		StartBoundary: t.StartBoundary,
		EndBoundary:   t.EndBoundary,
		UserID:        sysinfo.CurrentIdentity(s.Lookup).UserID(),
	}
}

func lookupFailed(err error) error {
	return &taskerr.Error{Kind: taskerr.Lookup, Op: "resolve", Msg: "Failed to find Task Scheduler GUIDs", Err: err}
}

// Result renders the outcome of CreateTask as text.
func Result(err error) string {
	if err == nil {
		return SuccessMessage
	}
	return err.Error()
}
