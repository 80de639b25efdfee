// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Package enginetest provides a scriptable, in-process session engine for
// exercising code built on rdpbridge without a real protocol engine.
//
// The engine records everything the bridge hands it. Tests decide how each
// session ends by calling Session.Terminate or Session.Fail, or by setting
// ConnectErr to make negotiation fail.
package enginetest

import (
	"context"
	"sync"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Engine is a scriptable rdpbridge.Engine.
type Engine struct {
	// Configuration
	SetupErr         error
	ConnectErr       error
	ApplyErr         error
	DesktopSize      rdpbridge.DesktopSize
	UnicodeShortcuts bool

	// TerminateOnShutdown makes Session.Shutdown end the run-loop with
	// ShutdownReason, as a real engine does once it has unwound.
	TerminateOnShutdown bool
	ShutdownReason      string

	// ResizeNotifiesCanvas makes Session.Resize call the canvas-resized
	// callback before returning, as engines that resize synchronously do.
	ResizeNotifiesCanvas bool

	// ApplyHook, when set, runs inside Session.ApplyInputs after the
	// transaction is recorded.
	ApplyHook func(tx *rdpbridge.InputTransaction)

	mu           sync.Mutex
	setupCalls   int
	logLevel     string
	connectCalls int
	builders     int
	sessions     []*Session
	hold         chan struct{}
	sessionCh    chan *Session
}

// New creates an engine that terminates sessions on shutdown.
func New() *Engine {
	return &Engine{
		DesktopSize:         rdpbridge.DesktopSize{Width: 1280, Height: 720},
		TerminateOnShutdown: true,
		ShutdownReason:      "session shut down by client",
		sessionCh:           make(chan *Session, 16),
	}
}

// Setup records the call and returns SetupErr.
func (e *Engine) Setup(ctx context.Context, logLevel string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setupCalls++
	e.logLevel = logLevel
	return e.SetupErr
}

// NewSessionBuilder returns a builder that records its parameters.
func (e *Engine) NewSessionBuilder() rdpbridge.SessionBuilder {
	e.mu.Lock()
	e.builders++
	e.mu.Unlock()
	return &Builder{engine: e}
}

// SetupCalls returns how many times Setup ran.
func (e *Engine) SetupCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setupCalls
}

// LogLevel returns the verbosity passed to the last Setup.
func (e *Engine) LogLevel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logLevel
}

// BuilderCalls returns how many builders were created.
func (e *Engine) BuilderCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.builders
}

// ConnectCalls returns how many times a builder's Connect ran.
func (e *Engine) ConnectCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connectCalls
}

// Sessions returns every session the engine has created.
func (e *Engine) Sessions() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Session, len(e.sessions))
	copy(out, e.sessions)
	return out
}

// NextSession waits for the next session created by Connect.
func (e *Engine) NextSession(ctx context.Context) (*Session, error) {
	select {
	case s := <-e.sessionCh:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HoldConnect makes subsequent negotiations block until release is called,
// keeping the controller in its connecting state.
func (e *Engine) HoldConnect() (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	hold := make(chan struct{})
	e.hold = hold

	var once sync.Once
	return func() {
		once.Do(func() { close(hold) })
	}
}

func (e *Engine) connect(ctx context.Context, p Params) (*Session, error) {
	e.mu.Lock()
	e.connectCalls++
	hold := e.hold
	connectErr := e.ConnectErr
	notifyResize := e.ResizeNotifiesCanvas
	applyHook := e.ApplyHook
	e.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if connectErr != nil {
		return nil, connectErr
	}

	size := p.DesktopSize
	if size.Width == 0 || size.Height == 0 {
		size = e.DesktopSize
	}

	s := &Session{
		Params:           p,
		engine:           e,
		size:             size,
		unicodeShortcuts: e.UnicodeShortcuts,
		applyErr:         e.ApplyErr,
		notifyResize:     notifyResize,
		applyHook:        applyHook,
		end:              make(chan result, 1),
	}

	e.mu.Lock()
	e.sessions = append(e.sessions, s)
	e.mu.Unlock()

	select {
	case e.sessionCh <- s:
	default:
	}

	return s, nil
}
