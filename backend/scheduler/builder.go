package scheduler

import (
	"io"
	"log/slog"

	"github.com/abubakar-alt/schtask/backend/discovery"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// Stage is one step of building a task definition.
type Stage int

const (
	StageInstantiate Stage = iota + 1
	StageConnect
	StageRootFolder
	StageDeleteExisting
	StageNewDefinition
	StageRegistrationInfo
	StageSettings
	StageTrigger
	StageLogonTriggerView
	StageLogonTriggerProperties
	StageAction
	StageExecActionView
	StageExecActionProperties
)

var stageNames = [...]string{
	StageInstantiate:            "instantiate",
	StageConnect:                "connect",
	StageRootFolder:             "root-folder",
	StageDeleteExisting:         "delete-existing",
	StageNewDefinition:          "new-definition",
	StageRegistrationInfo:       "registration-info",
	StageSettings:               "settings",
	StageTrigger:                "trigger",
	StageLogonTriggerView:       "logon-trigger-view",
	StageLogonTriggerProperties: "logon-trigger-properties",
	StageAction:                 "action",
	StageExecActionView:         "exec-action-view",
	StageExecActionProperties:   "exec-action-properties",
}

func (s Stage) String() string {
	if s > 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// TaskSpec describes the task to create.
type TaskSpec struct {
	Name           string
	ExecutablePath string
	// Arguments is optional; nil leaves the action without arguments.
	Arguments *string
}

// Policy holds the values every task is built with.
type Policy struct {
	Folder        string
	Author        string
	TriggerID     string
	StartBoundary string
	EndBoundary   string
	// UserID is the DOMAIN\user the logon trigger fires for.
	UserID string
}

// Definition is a fully configured, not yet registered task together
// with the folder it will be registered in. Both are owned by the
// holder and released by Commit.
type Definition struct {
	Folder TaskFolder
	Task   TaskDefinition
}

// Builder drives the object model from service instantiation to a
// complete task definition.
type Builder struct {
	Model  ObjectModel
	Policy Policy
	Logger *slog.Logger
}

// Build runs every stage in order. When a stage fails, everything
// acquired so far is released and the returned *taskerr.Error names the
// stage and the native status code.
func (b *Builder) Build(ids discovery.ServiceIdentifiers, views discovery.ViewIdentifiers, spec TaskSpec) (*Definition, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &chain{logger: logger}
	defer func() {
		if r := recover(); r != nil {
			c.unwind()
			panic(r)
		}
	}()
	fail := func(stage Stage, msg string, err error) (*Definition, error) {
		c.unwind()
		logger.Debug("stage failed", "stage", stage.String(), "error", err)
		return nil, taskerr.Native(taskerr.Stage, stage.String(), msg, err)
	}
	done := func(stage Stage) {
		logger.Debug("stage complete", "stage", stage.String())
	}

	service, err := b.Model.NewService(ids.Class, ids.Interface)
	if err != nil {
		return fail(StageInstantiate, "Failed to create an instance of ITaskService", err)
	}
	hService := c.hold(KindService, service)
	done(StageInstantiate)

	if err := service.Connect(); err != nil {
		return fail(StageConnect, "ITaskService::Connect failed", err)
	}
	done(StageConnect)

	folder, err := service.GetFolder(b.Policy.Folder)
	if err != nil {
		return fail(StageRootFolder, "Cannot get Root Folder pointer", err)
	}
	hFolder := c.hold(KindFolder, folder)
	done(StageRootFolder)

	if err := folder.DeleteTask(spec.Name); err != nil {
		logger.Debug("no existing task removed", "task", spec.Name, "error", err)
	} else {
		logger.Info("existing task removed", "task", spec.Name)
	}

	task, err := service.NewTask()
	c.release(hService)
	if err != nil {
		return fail(StageNewDefinition, "Failed to create a task definition", err)
	}
	hTask := c.hold(KindDefinition, task)
	done(StageNewDefinition)

	info, err := task.RegistrationInfo()
	if err != nil {
		return fail(StageRegistrationInfo, "Cannot get identification pointer", err)
	}
	hInfo := c.hold(KindRegistrationInfo, info)
	err = info.SetAuthor(b.Policy.Author)
	c.release(hInfo)
	if err != nil {
		return fail(StageRegistrationInfo, "Cannot put identification info", err)
	}
	done(StageRegistrationInfo)

	settings, err := task.Settings()
	if err != nil {
		return fail(StageSettings, "Cannot get settings pointer", err)
	}
	hSettings := c.hold(KindSettings, settings)
	err = settings.SetStartWhenAvailable(true)
	c.release(hSettings)
	if err != nil {
		return fail(StageSettings, "Cannot put setting info", err)
	}
	done(StageSettings)

	triggers, err := task.Triggers()
	if err != nil {
		return fail(StageTrigger, "Cannot get trigger collection", err)
	}
	hTriggers := c.hold(KindTriggerCollection, triggers)
	trigger, err := triggers.Create(TriggerLogon)
	c.release(hTriggers)
	if err != nil {
		return fail(StageTrigger, "Cannot create the trigger", err)
	}
	hTrigger := c.hold(KindTrigger, trigger)
	done(StageTrigger)

	logon, err := trigger.QueryLogonTrigger(views.LogonTrigger)
	c.release(hTrigger)
	if err != nil {
		return fail(StageLogonTriggerView, "QueryInterface call failed for ILogonTrigger", err)
	}
	hLogon := c.hold(KindLogonTrigger, logon)
	done(StageLogonTriggerView)

	for _, p := range []struct {
		set   func(string) error
		value string
		msg   string
	}{
		{logon.SetID, b.Policy.TriggerID, "Cannot put the trigger ID"},
		{logon.SetStartBoundary, b.Policy.StartBoundary, "Cannot put the start boundary"},
		{logon.SetEndBoundary, b.Policy.EndBoundary, "Cannot put the end boundary"},
		{logon.SetUserID, b.Policy.UserID, "Cannot add user ID to logon trigger"},
	} {
		if err := p.set(p.value); err != nil {
			return fail(StageLogonTriggerProperties, p.msg, err)
		}
	}
	c.release(hLogon)
	done(StageLogonTriggerProperties)

	actions, err := task.Actions()
	if err != nil {
		return fail(StageAction, "Cannot get Task collection pointer", err)
	}
	hActions := c.hold(KindActionCollection, actions)
	action, err := actions.Create(ActionExec)
	c.release(hActions)
	if err != nil {
		return fail(StageAction, "Cannot create the action", err)
	}
	hAction := c.hold(KindAction, action)
	done(StageAction)

	exec, err := action.QueryExecAction(views.ExecAction)
	c.release(hAction)
	if err != nil {
		return fail(StageExecActionView, "QueryInterface call failed for IExecAction", err)
	}
	hExec := c.hold(KindExecAction, exec)
	done(StageExecActionView)

	if err := exec.SetPath(spec.ExecutablePath); err != nil {
		return fail(StageExecActionProperties, "Cannot set path of executable", err)
	}
	if spec.Arguments != nil {
		if err := exec.SetArguments(*spec.Arguments); err != nil {
			return fail(StageExecActionProperties, "Cannot set arguments", err)
		}
	}
	c.release(hExec)
	done(StageExecActionProperties)

	c.disown(hFolder)
	c.disown(hTask)
	return &Definition{Folder: folder, Task: task}, nil
}
