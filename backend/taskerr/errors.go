// Package taskerr defines the error kinds produced while creating a
// scheduled task. Every failure is routed through *Error so callers can
// branch on Kind, while Error() keeps the plain text messages that the
// createTask boundary returns.
package taskerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the phase that produced it.
type Kind int

const (
	Unknown Kind = iota
	RuntimeInit
	SecurityInit
	Lookup
	Format
	Stage
	Commit
	Internal
)

func (k Kind) String() string {
	switch k {
	case RuntimeInit:
		return "runtime-init"
	case SecurityInit:
		return "security-init"
	case Lookup:
		return "lookup"
	case Format:
		return "format"
	case Stage:
		return "stage"
	case Commit:
		return "commit"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// HRESULT is a native status code returned by the automation runtime.
type HRESULT uint32

const (
	S_OK           HRESULT = 0x00000000
	S_FALSE        HRESULT = 0x00000001
	E_NOTIMPL      HRESULT = 0x80004001
	E_FAIL         HRESULT = 0x80004005
	RPC_E_TOO_LATE HRESULT = 0x80010119
)

func (h HRESULT) Error() string {
	return fmt.Sprintf("hresult 0x%08x", uint32(h))
}

// Failed reports whether h carries the severity bit.
func (h HRESULT) Failed() bool {
	return int32(h) < 0
}

// CodeOf returns the native status code carried by err, or E_FAIL when
// err does not carry one.
func CodeOf(err error) HRESULT {
	if err == nil {
		return S_OK
	}
	var h HRESULT
	if errors.As(err, &h) {
		return h
	}
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return E_FAIL
}

// Error is the single structured error type of the module.
//
// Op names the operation that failed (a construction stage, a table
// scan). Msg is the human readable description. When Code is set it is
// appended in hex, matching the format of the native status dumps.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Code HRESULT
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Msg == "" && e.Err != nil:
		return e.Err.Error()
	case e.Code != 0:
		return fmt.Sprintf("%s: %x", e.Msg, uint32(e.Code))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error without a status code.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Native wraps a failed native call. The status code is taken from err.
func Native(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Code: CodeOf(err), Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
