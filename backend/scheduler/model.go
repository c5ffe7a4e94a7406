package scheduler

import "github.com/abubakar-alt/schtask/backend/guid"

// The Task Scheduler object model as the builder sees it. Every object
// handed out is owned by the caller until Release.

type Releaser interface {
	Release()
}

// TriggerType mirrors TASK_TRIGGER_TYPE2.
type TriggerType int32

const TriggerLogon TriggerType = 9

// ActionType mirrors TASK_ACTION_TYPE.
type ActionType int32

const ActionExec ActionType = 0

// CreationFlags mirrors TASK_CREATION.
type CreationFlags int32

const CreateOrUpdate CreationFlags = 6

// LogonType mirrors TASK_LOGON_TYPE.
type LogonType int32

const LogonInteractiveToken LogonType = 3

// ObjectModel instantiates the scheduling service.
type ObjectModel interface {
	NewService(class, iface guid.GUID) (TaskService, error)
}

type TaskService interface {
	Releaser
	// Connect uses the caller's security context.
	Connect() error
	GetFolder(path string) (TaskFolder, error)
	NewTask() (TaskDefinition, error)
}

type TaskFolder interface {
	Releaser
	DeleteTask(name string) error
	// RegisterTaskDefinition registers def under name without stored
	// credentials or SDDL. The returned task may be nil.
	RegisterTaskDefinition(name string, def TaskDefinition, flags CreationFlags, logon LogonType) (RegisteredTask, error)
}

type TaskDefinition interface {
	Releaser
	RegistrationInfo() (RegistrationInfo, error)
	Settings() (TaskSettings, error)
	Triggers() (TriggerCollection, error)
	Actions() (ActionCollection, error)
}

type RegistrationInfo interface {
	Releaser
	SetAuthor(author string) error
}

type TaskSettings interface {
	Releaser
	SetStartWhenAvailable(v bool) error
}

type TriggerCollection interface {
	Releaser
	Create(t TriggerType) (Trigger, error)
}

type Trigger interface {
	Releaser
	QueryLogonTrigger(iid guid.GUID) (LogonTrigger, error)
}

type LogonTrigger interface {
	Releaser
	SetID(id string) error
	SetStartBoundary(ts string) error
	SetEndBoundary(ts string) error
	SetUserID(user string) error
}

type ActionCollection interface {
	Releaser
	Create(t ActionType) (Action, error)
}

type Action interface {
	Releaser
	QueryExecAction(iid guid.GUID) (ExecAction, error)
}

type ExecAction interface {
	Releaser
	SetPath(path string) error
	SetArguments(args string) error
}

type RegisteredTask interface {
	Releaser
}
