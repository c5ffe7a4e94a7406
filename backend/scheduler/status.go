package scheduler

import (
	"errors"

	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// DISP_E_EXCEPTION: the invoked member failed and the exception info
// holds its status.
const dispException taskerr.HRESULT = 0x80020009

// exceptionInfo is satisfied by ole.EXCEPINFO.
type exceptionInfo interface {
	SCODE() uint32
}

// invokeStatus returns the status of a failed IDispatch call, taking
// the member's own code from the exception info when Invoke only
// reports DISP_E_EXCEPTION.
func invokeStatus(code uint32, sub error) taskerr.HRESULT {
	hr := taskerr.HRESULT(code)
	if hr != dispException || sub == nil {
		return hr
	}
	var info exceptionInfo
	if errors.As(sub, &info) && info.SCODE() != 0 {
		return taskerr.HRESULT(info.SCODE())
	}
	return hr
}
