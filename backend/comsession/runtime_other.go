//go:build !windows

package comsession

import "github.com/abubakar-alt/schtask/backend/taskerr"

type unsupportedRuntime struct{}

// NewRuntime returns a runtime whose initialization always fails with
// E_NOTIMPL; COM only exists on Windows.
func NewRuntime() Runtime {
	return unsupportedRuntime{}
}

func (unsupportedRuntime) Initialize() taskerr.HRESULT         { return taskerr.E_NOTIMPL }
func (unsupportedRuntime) InitializeSecurity() taskerr.HRESULT { return taskerr.E_NOTIMPL }
func (unsupportedRuntime) Uninitialize()                       {}
