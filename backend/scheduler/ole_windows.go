//go:build windows

package scheduler

import (
	"errors"
	"fmt"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/abubakar-alt/schtask/backend/guid"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

const ePointer taskerr.HRESULT = 0x80004003

// oleModel binds the object model to the Task Scheduler dual
// interfaces through IDispatch.
type oleModel struct{}

// NewObjectModel returns the host Task Scheduler object model.
func NewObjectModel() ObjectModel {
	return oleModel{}
}

func (oleModel) NewService(class, iface guid.GUID) (TaskService, error) {
	clsid := toOLE(class)
	iid := toOLE(iface)
	unknown, err := ole.CreateInstance(&clsid, &iid)
	if err != nil {
		return nil, status(err)
	}
	if unknown == nil {
		return nil, ePointer
	}
	// The requested interface is dual, so the returned pointer is
	// usable as IDispatch without another QueryInterface.
	return &taskService{dispatch{(*ole.IDispatch)(unsafe.Pointer(unknown))}}, nil
}

func toOLE(g guid.GUID) ole.GUID {
	return ole.GUID{Data1: g.Data1, Data2: g.Data2, Data3: g.Data3, Data4: g.Data4}
}

// status converts go-ole errors to taskerr.HRESULT so the native code
// survives to the error message.
func status(err error) error {
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		hr := invokeStatus(uint32(oleErr.Code()), oleErr.SubError())
		return fmt.Errorf("%s: %w", oleErr.String(), hr)
	}
	return err
}

type dispatch struct {
	disp *ole.IDispatch
}

func (d dispatch) Release() {
	d.disp.Release()
}

func (d dispatch) call(name string, params ...interface{}) error {
	v, err := oleutil.CallMethod(d.disp, name, params...)
	if err != nil {
		return status(err)
	}
	v.Clear()
	return nil
}

func (d dispatch) callObject(name string, params ...interface{}) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(d.disp, name, params...)
	if err != nil {
		return nil, status(err)
	}
	return object(v)
}

func (d dispatch) getObject(name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d.disp, name)
	if err != nil {
		return nil, status(err)
	}
	return object(v)
}

func (d dispatch) put(name string, value interface{}) error {
	v, err := oleutil.PutProperty(d.disp, name, value)
	if err != nil {
		return status(err)
	}
	v.Clear()
	return nil
}

func (d dispatch) query(iid guid.GUID) (*ole.IDispatch, error) {
	id := toOLE(iid)
	view, err := d.disp.QueryInterface(&id)
	if err != nil {
		return nil, status(err)
	}
	return view, nil
}

// object takes over the reference held by v.
func object(v *ole.VARIANT) (*ole.IDispatch, error) {
	obj := v.ToIDispatch()
	if obj == nil {
		v.Clear()
		return nil, ePointer
	}
	return obj, nil
}

type taskService struct{ dispatch }

func (s *taskService) Connect() error {
	return s.call("Connect")
}

func (s *taskService) GetFolder(path string) (TaskFolder, error) {
	obj, err := s.callObject("GetFolder", path)
	if err != nil {
		return nil, err
	}
	return &taskFolder{dispatch{obj}}, nil
}

func (s *taskService) NewTask() (TaskDefinition, error) {
	obj, err := s.callObject("NewTask", int32(0))
	if err != nil {
		return nil, err
	}
	return &taskDefinition{dispatch{obj}}, nil
}

type taskFolder struct{ dispatch }

func (f *taskFolder) DeleteTask(name string) error {
	return f.call("DeleteTask", name, int32(0))
}

func (f *taskFolder) RegisterTaskDefinition(name string, def TaskDefinition, flags CreationFlags, logon LogonType) (RegisteredTask, error) {
	d, ok := def.(*taskDefinition)
	if !ok {
		return nil, fmt.Errorf("definition %T not created by this object model", def)
	}
	v, err := oleutil.CallMethod(f.disp, "RegisterTaskDefinition", registerArgs(name, d.disp, flags, logon)...)
	if err != nil {
		return nil, status(err)
	}
	obj := v.ToIDispatch()
	if obj == nil {
		v.Clear()
		return nil, nil
	}
	return dispatch{obj}, nil
}

type taskDefinition struct{ dispatch }

func (t *taskDefinition) RegistrationInfo() (RegistrationInfo, error) {
	obj, err := t.getObject("RegistrationInfo")
	if err != nil {
		return nil, err
	}
	return &registrationInfo{dispatch{obj}}, nil
}

func (t *taskDefinition) Settings() (TaskSettings, error) {
	obj, err := t.getObject("Settings")
	if err != nil {
		return nil, err
	}
	return &taskSettings{dispatch{obj}}, nil
}

func (t *taskDefinition) Triggers() (TriggerCollection, error) {
	obj, err := t.getObject("Triggers")
	if err != nil {
		return nil, err
	}
	return &triggerCollection{dispatch{obj}}, nil
}

func (t *taskDefinition) Actions() (ActionCollection, error) {
	obj, err := t.getObject("Actions")
	if err != nil {
		return nil, err
	}
	return &actionCollection{dispatch{obj}}, nil
}

type registrationInfo struct{ dispatch }

func (r *registrationInfo) SetAuthor(author string) error {
	return r.put("Author", author)
}

type taskSettings struct{ dispatch }

func (s *taskSettings) SetStartWhenAvailable(v bool) error {
	return s.put("StartWhenAvailable", v)
}

type triggerCollection struct{ dispatch }

func (c *triggerCollection) Create(t TriggerType) (Trigger, error) {
	obj, err := c.callObject("Create", int32(t))
	if err != nil {
		return nil, err
	}
	return &oleTrigger{dispatch{obj}}, nil
}

type oleTrigger struct{ dispatch }

func (t *oleTrigger) QueryLogonTrigger(iid guid.GUID) (LogonTrigger, error) {
	view, err := t.query(iid)
	if err != nil {
		return nil, err
	}
	return &logonTrigger{dispatch{view}}, nil
}

type logonTrigger struct{ dispatch }

func (l *logonTrigger) SetID(id string) error            { return l.put("Id", id) }
func (l *logonTrigger) SetStartBoundary(ts string) error { return l.put("StartBoundary", ts) }
func (l *logonTrigger) SetEndBoundary(ts string) error   { return l.put("EndBoundary", ts) }
func (l *logonTrigger) SetUserID(user string) error      { return l.put("UserId", user) }

type actionCollection struct{ dispatch }

func (c *actionCollection) Create(t ActionType) (Action, error) {
	obj, err := c.callObject("Create", int32(t))
	if err != nil {
		return nil, err
	}
	return &oleAction{dispatch{obj}}, nil
}

type oleAction struct{ dispatch }

func (a *oleAction) QueryExecAction(iid guid.GUID) (ExecAction, error) {
	view, err := a.query(iid)
	if err != nil {
		return nil, err
	}
	return &execAction{dispatch{view}}, nil
}

type execAction struct{ dispatch }

func (e *execAction) SetPath(path string) error      { return e.put("Path", path) }
func (e *execAction) SetArguments(args string) error { return e.put("Arguments", args) }
