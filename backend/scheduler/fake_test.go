package scheduler

import (
	"fmt"

	"github.com/abubakar-alt/schtask/backend/guid"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

const errFileNotFound taskerr.HRESULT = 0x80070002

// fakeHost is an in-memory Task Scheduler. It counts acquisitions and
// releases per handle kind and fails the named native call on demand.
type fakeHost struct {
	failOp   string
	failCode taskerr.HRESULT
	panicOp  string

	acquired map[HandleKind]int
	released map[HandleKind]int
	problems []string
	calls    []string

	// tasks is the host task store, keyed by folder path and name.
	tasks   map[string]*taskRecord
	deleted []string

	gotClass, gotIface  guid.GUID
	gotLogonIID         guid.GUID
	gotExecIID          guid.GUID
	registerFlags       CreationFlags
	registerLogon       LogonType
	returnNilRegistered bool
}

type taskRecord struct {
	author             string
	startWhenAvailable bool
	triggers           []*triggerRecord
	actions            []*actionRecord
}

type triggerRecord struct {
	kind          TriggerType
	id            string
	startBoundary string
	endBoundary   string
	userID        string
}

type actionRecord struct {
	kind         ActionType
	path         string
	arguments    string
	hasArguments bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		acquired: make(map[HandleKind]int),
		released: make(map[HandleKind]int),
		tasks:    make(map[string]*taskRecord),
	}
}

func (h *fakeHost) failing(op string, code taskerr.HRESULT) *fakeHost {
	h.failOp = op
	h.failCode = code
	return h
}

func (h *fakeHost) native(op string) error {
	h.calls = append(h.calls, op)
	if op == h.panicOp {
		panic("native crash in " + op)
	}
	if op == h.failOp {
		return h.failCode
	}
	return nil
}

func (h *fakeHost) live() map[HandleKind]int {
	out := make(map[HandleKind]int)
	for kind, n := range h.acquired {
		if left := n - h.released[kind]; left != 0 {
			out[kind] = left
		}
	}
	return out
}

type fakeObject struct {
	host     *fakeHost
	kind     HandleKind
	released bool
}

func (h *fakeHost) acquire(kind HandleKind) *fakeObject {
	h.acquired[kind]++
	return &fakeObject{host: h, kind: kind}
}

func (o *fakeObject) Release() {
	if o.released {
		o.host.problems = append(o.host.problems, fmt.Sprintf("%s released twice", o.kind))
		return
	}
	o.released = true
	o.host.released[o.kind]++
}

func (o *fakeObject) use(op string) error {
	if o.released {
		o.host.problems = append(o.host.problems, fmt.Sprintf("%s used after release in %s", o.kind, op))
	}
	return o.host.native(op)
}

func (h *fakeHost) NewService(class, iface guid.GUID) (TaskService, error) {
	if err := h.native("NewService"); err != nil {
		return nil, err
	}
	h.gotClass, h.gotIface = class, iface
	return &fakeService{h.acquire(KindService)}, nil
}

type fakeService struct{ *fakeObject }

func (s *fakeService) Connect() error { return s.use("Connect") }

func (s *fakeService) GetFolder(path string) (TaskFolder, error) {
	if err := s.use("GetFolder"); err != nil {
		return nil, err
	}
	return &fakeFolder{fakeObject: s.host.acquire(KindFolder), path: path}, nil
}

func (s *fakeService) NewTask() (TaskDefinition, error) {
	if err := s.use("NewTask"); err != nil {
		return nil, err
	}
	return &fakeDefinition{fakeObject: s.host.acquire(KindDefinition), record: &taskRecord{}}, nil
}

type fakeFolder struct {
	*fakeObject
	path string
}

func (f *fakeFolder) DeleteTask(name string) error {
	if err := f.use("DeleteTask"); err != nil {
		return err
	}
	key := f.path + name
	if _, ok := f.host.tasks[key]; !ok {
		return errFileNotFound
	}
	delete(f.host.tasks, key)
	f.host.deleted = append(f.host.deleted, name)
	return nil
}

func (f *fakeFolder) RegisterTaskDefinition(name string, def TaskDefinition, flags CreationFlags, logon LogonType) (RegisteredTask, error) {
	if err := f.use("RegisterTaskDefinition"); err != nil {
		return nil, err
	}
	d := def.(*fakeDefinition)
	if d.released {
		f.host.problems = append(f.host.problems, "definition registered after release")
	}
	f.host.registerFlags, f.host.registerLogon = flags, logon
	f.host.tasks[f.path+name] = d.record
	if f.host.returnNilRegistered {
		return nil, nil
	}
	return f.host.acquire(KindRegisteredTask), nil
}

type fakeDefinition struct {
	*fakeObject
	record *taskRecord
}

func (d *fakeDefinition) RegistrationInfo() (RegistrationInfo, error) {
	if err := d.use("RegistrationInfo"); err != nil {
		return nil, err
	}
	return &fakeRegistrationInfo{d.host.acquire(KindRegistrationInfo), d.record}, nil
}

func (d *fakeDefinition) Settings() (TaskSettings, error) {
	if err := d.use("Settings"); err != nil {
		return nil, err
	}
	return &fakeSettings{d.host.acquire(KindSettings), d.record}, nil
}

func (d *fakeDefinition) Triggers() (TriggerCollection, error) {
	if err := d.use("Triggers"); err != nil {
		return nil, err
	}
	return &fakeTriggers{d.host.acquire(KindTriggerCollection), d.record}, nil
}

func (d *fakeDefinition) Actions() (ActionCollection, error) {
	if err := d.use("Actions"); err != nil {
		return nil, err
	}
	return &fakeActions{d.host.acquire(KindActionCollection), d.record}, nil
}

type fakeRegistrationInfo struct {
	*fakeObject
	record *taskRecord
}

func (r *fakeRegistrationInfo) SetAuthor(author string) error {
	if err := r.use("SetAuthor"); err != nil {
		return err
	}
	r.record.author = author
	return nil
}

type fakeSettings struct {
	*fakeObject
	record *taskRecord
}

func (s *fakeSettings) SetStartWhenAvailable(v bool) error {
	if err := s.use("SetStartWhenAvailable"); err != nil {
		return err
	}
	s.record.startWhenAvailable = v
	return nil
}

type fakeTriggers struct {
	*fakeObject
	record *taskRecord
}

func (c *fakeTriggers) Create(t TriggerType) (Trigger, error) {
	if err := c.use("CreateTrigger"); err != nil {
		return nil, err
	}
	tr := &triggerRecord{kind: t}
	c.record.triggers = append(c.record.triggers, tr)
	return &fakeTrigger{c.host.acquire(KindTrigger), tr}, nil
}

type fakeTrigger struct {
	*fakeObject
	record *triggerRecord
}

func (t *fakeTrigger) QueryLogonTrigger(iid guid.GUID) (LogonTrigger, error) {
	if err := t.use("QueryLogonTrigger"); err != nil {
		return nil, err
	}
	t.host.gotLogonIID = iid
	return &fakeLogonTrigger{t.host.acquire(KindLogonTrigger), t.record}, nil
}

type fakeLogonTrigger struct {
	*fakeObject
	record *triggerRecord
}

func (l *fakeLogonTrigger) SetID(id string) error {
	if err := l.use("SetID"); err != nil {
		return err
	}
	l.record.id = id
	return nil
}

func (l *fakeLogonTrigger) SetStartBoundary(ts string) error {
	if err := l.use("SetStartBoundary"); err != nil {
		return err
	}
	l.record.startBoundary = ts
	return nil
}

func (l *fakeLogonTrigger) SetEndBoundary(ts string) error {
	if err := l.use("SetEndBoundary"); err != nil {
		return err
	}
	l.record.endBoundary = ts
	return nil
}

func (l *fakeLogonTrigger) SetUserID(user string) error {
	if err := l.use("SetUserID"); err != nil {
		return err
	}
	l.record.userID = user
	return nil
}

type fakeActions struct {
	*fakeObject
	record *taskRecord
}

func (c *fakeActions) Create(t ActionType) (Action, error) {
	if err := c.use("CreateAction"); err != nil {
		return nil, err
	}
	a := &actionRecord{kind: t}
	c.record.actions = append(c.record.actions, a)
	return &fakeAction{c.host.acquire(KindAction), a}, nil
}

type fakeAction struct {
	*fakeObject
	record *actionRecord
}

func (a *fakeAction) QueryExecAction(iid guid.GUID) (ExecAction, error) {
	if err := a.use("QueryExecAction"); err != nil {
		return nil, err
	}
	a.host.gotExecIID = iid
	return &fakeExecAction{a.host.acquire(KindExecAction), a.record}, nil
}

type fakeExecAction struct {
	*fakeObject
	record *actionRecord
}

func (e *fakeExecAction) SetPath(path string) error {
	if err := e.use("SetPath"); err != nil {
		return err
	}
	e.record.path = path
	return nil
}

func (e *fakeExecAction) SetArguments(args string) error {
	if err := e.use("SetArguments"); err != nil {
		return err
	}
	e.record.arguments = args
	e.record.hasArguments = true
	return nil
}
