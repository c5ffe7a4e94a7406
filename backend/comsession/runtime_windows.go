//go:build windows

package comsession

import (
	"errors"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/abubakar-alt/schtask/backend/taskerr"
)

var (
	modole32                 = windows.NewLazySystemDLL("ole32.dll")
	procCoInitializeSecurity = modole32.NewProc("CoInitializeSecurity")
)

// Arguments of CoInitializeSecurity.
const (
	rpcCAuthnLevelPktPrivacy = 6
	rpcCImpLevelImpersonate  = 3
	eoacNone                 = 0
)

// OLERuntime is the Windows COM runtime. The calling goroutine is pinned
// to its OS thread between Initialize and Uninitialize, since apartment
// membership belongs to the thread.
type OLERuntime struct{}

// NewRuntime returns the host COM runtime.
func NewRuntime() Runtime {
	return &OLERuntime{}
}

func (r *OLERuntime) Initialize() taskerr.HRESULT {
	runtime.LockOSThread()
	err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED)
	if err == nil {
		return taskerr.S_OK
	}
	hr := taskerr.E_FAIL
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		hr = taskerr.HRESULT(uint32(oleErr.Code()))
	}
	if hr != taskerr.S_FALSE {
		runtime.UnlockOSThread()
	}
	return hr
}

func (r *OLERuntime) InitializeSecurity() taskerr.HRESULT {
	r1, _, _ := procCoInitializeSecurity.Call(
		0,           // pSecDesc
		^uintptr(0), // cAuthSvc = -1, let COM choose
		0,           // asAuthSvc
		0,           // pReserved1
		rpcCAuthnLevelPktPrivacy,
		rpcCImpLevelImpersonate,
		0, // pAuthList
		eoacNone,
		0, // pReserved3
	)
	return taskerr.HRESULT(uint32(r1))
}

func (r *OLERuntime) Uninitialize() {
	ole.CoUninitialize()
	runtime.UnlockOSThread()
}
