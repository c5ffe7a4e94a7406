package scheduler

import "log/slog"

// HandleKind tags a held object for logging and accounting.
type HandleKind int

const (
	KindService HandleKind = iota
	KindFolder
	KindDefinition
	KindRegistrationInfo
	KindSettings
	KindTriggerCollection
	KindTrigger
	KindLogonTrigger
	KindActionCollection
	KindAction
	KindExecAction
	KindRegisteredTask
)

var handleKindNames = [...]string{
	KindService:           "service",
	KindFolder:            "folder",
	KindDefinition:        "definition",
	KindRegistrationInfo:  "registration-info",
	KindSettings:          "settings",
	KindTriggerCollection: "trigger-collection",
	KindTrigger:           "trigger",
	KindLogonTrigger:      "logon-trigger",
	KindActionCollection:  "action-collection",
	KindAction:            "action",
	KindExecAction:        "exec-action",
	KindRegisteredTask:    "registered-task",
}

func (k HandleKind) String() string {
	if int(k) < len(handleKindNames) {
		return handleKindNames[k]
	}
	return "unknown"
}

// handle indexes a slot of a chain.
type handle int

type slot struct {
	kind HandleKind
	obj  Releaser
}

// chain owns the objects acquired while building a task. Slots are
// never reused, so a handle stays valid after release and releasing it
// again is a no-op. unwind releases whatever is still live, most
// recently acquired first.
type chain struct {
	slots  []slot
	logger *slog.Logger
}

func (c *chain) hold(kind HandleKind, obj Releaser) handle {
	c.slots = append(c.slots, slot{kind: kind, obj: obj})
	return handle(len(c.slots) - 1)
}

func (c *chain) release(h handle) {
	s := &c.slots[h]
	if s.obj == nil {
		return
	}
	s.obj.Release()
	s.obj = nil
	c.logger.Debug("released", "object", s.kind.String())
}

// disown forgets h without releasing it; ownership has moved elsewhere.
func (c *chain) disown(h handle) {
	c.slots[h].obj = nil
}

func (c *chain) unwind() {
	if n := c.live(); n > 0 {
		c.logger.Debug("unwinding", "live", n)
	}
	for i := len(c.slots) - 1; i >= 0; i-- {
		c.release(handle(i))
	}
}

func (c *chain) live() int {
	n := 0
	for _, s := range c.slots {
		if s.obj != nil {
			n++
		}
	}
	return n
}
