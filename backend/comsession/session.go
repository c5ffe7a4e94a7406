// Package comsession scopes the process-wide COM runtime to a single
// task creation.
//
// Initialization runs in the multithreaded apartment and configures
// process security. Both calls tolerate a runtime that someone else in
// the process has already set up. Teardown is guaranteed once
// initialization succeeded, including when the body fails or panics.
//
// Sessions must not overlap within a process: the runtime is a process
// resource and concurrent sessions would race on its teardown.
package comsession

import (
	"io"
	"log/slog"

	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// Runtime is the COM runtime surface a session drives. Status codes are
// returned untouched; the session decides which are benign.
type Runtime interface {
	// Initialize enters the multithreaded apartment.
	Initialize() taskerr.HRESULT
	// InitializeSecurity sets packet privacy authentication with
	// impersonation for the process.
	InitializeSecurity() taskerr.HRESULT
	// Uninitialize balances a successful Initialize.
	Uninitialize()
}

// WithSession initializes rt, runs body, and tears rt down.
func WithSession(rt Runtime, logger *slog.Logger, body func() error) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hr := rt.Initialize()
	if hr != taskerr.S_OK && hr != taskerr.S_FALSE {
		return &taskerr.Error{Kind: taskerr.RuntimeInit, Op: "initialize", Msg: "Failed to initialize COM", Code: hr}
	}
	defer func() {
		rt.Uninitialize()
		logger.Debug("com runtime released")
	}()
	if hr == taskerr.S_FALSE {
		logger.Debug("com runtime already initialized on this thread")
	}

	hr = rt.InitializeSecurity()
	if hr != taskerr.S_OK && hr != taskerr.RPC_E_TOO_LATE {
		return &taskerr.Error{Kind: taskerr.SecurityInit, Op: "security", Msg: "Failed to initialize COM security", Code: hr}
	}
	if hr == taskerr.RPC_E_TOO_LATE {
		logger.Debug("com security already configured for this process")
	}

	return body()
}
