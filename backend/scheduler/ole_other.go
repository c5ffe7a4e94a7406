//go:build !windows

package scheduler

import (
	"github.com/abubakar-alt/schtask/backend/guid"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

type unsupportedModel struct{}

// NewObjectModel returns a model that cannot instantiate anything; the
// Task Scheduler object model only exists on Windows.
func NewObjectModel() ObjectModel {
	return unsupportedModel{}
}

func (unsupportedModel) NewService(class, iface guid.GUID) (TaskService, error) {
	return nil, taskerr.E_NOTIMPL
}
