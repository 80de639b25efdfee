// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateConnecting
	StateConnected
	StateDisconnected
	StateErrored
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Status is a session status reported to the host.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// DefaultEngineLogLevel is the verbosity passed to Engine.Setup.
const DefaultEngineLogLevel = "INFO"

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for the controller.
// Use NoOpLogger to disable logging or provide a custom implementation.
func WithLogger(logger Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector for session monitoring.
func WithMetrics(metrics MetricsCollector) Option {
	return func(c *Controller) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithEngineLogLevel sets the verbosity passed to the engine on Init.
func WithEngineLogLevel(level string) Option {
	return func(c *Controller) {
		c.engineLogLevel = level
	}
}

// WithAuthToken sets the auth token used for connections started from
// ConnectOptions.
func WithAuthToken(token string) Option {
	return func(c *Controller) {
		c.authToken = token
	}
}

// Controller owns the lifecycle of a single remote session: engine
// initialization, connection negotiation, input routing while connected and
// reporting of termination or failure to the host.
//
// At most one session is in progress per controller. Disconnected and Errored
// end a session; a later Connect starts a new one on the same engine.
type Controller struct {
	engine         Engine
	logger         Logger
	metrics        MetricsCollector
	engineLogLevel string
	authToken      string

	initMu sync.Mutex

	// submitMu orders transactions into the engine. It is held across
	// ApplyInputs and never taken by accessors or lifecycle operations.
	submitMu sync.Mutex

	// mu guards the fields below. Engine and surface calls are made
	// without holding it.
	mu          sync.Mutex
	state       State
	session     EngineSession
	surface     Surface
	active      bool
	desktopSize DesktopSize
	detach      func()
	generation  uint64
	sessionLog  Logger

	callbackMu  sync.Mutex
	onStatus    func(Status)
	onError     func(string)
	onTerminate func(TerminationInfo)
}

// NewController creates a controller driving engine.
func NewController(engine Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:         engine,
		logger:         &NoOpLogger{},
		metrics:        &NoOpMetrics{},
		engineLogLevel: DefaultEngineLogLevel,
		authToken:      DefaultAuthToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sessionLog = c.logger
	return c
}

// OnStatus registers the status callback, replacing any previous one.
func (c *Controller) OnStatus(fn func(Status)) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.onStatus = fn
}

// OnError registers the error callback, replacing any previous one. It
// receives a printable description of the failure.
func (c *Controller) OnError(fn func(string)) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.onError = fn
}

// OnTerminate registers the termination callback, replacing any previous one.
func (c *Controller) OnTerminate(fn func(TerminationInfo)) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.onTerminate = fn
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active reports whether a session is connected and accepting input.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.routableLocked()
}

// DesktopSize returns the desktop size of the current or last session.
func (c *Controller) DesktopSize() DesktopSize {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.desktopSize
}

// Init loads and starts the engine. It is idempotent: once the engine has
// started, later calls return nil without touching the engine. A failed
// start leaves the controller uninitialized so Init can be called again.
func (c *Controller) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	c.mu.Lock()
	initialized := c.state != StateUninitialized
	c.mu.Unlock()
	if initialized {
		return nil
	}

	if c.engine == nil {
		return validationError("Controller.Init", "engine is required", nil)
	}

	c.logger.Info("Initializing session engine", Field{Key: "log_level", Value: c.engineLogLevel})

	if err := c.engine.Setup(ctx, c.engineLogLevel); err != nil {
		c.logger.Error("Session engine setup failed", Field{Key: "error", Value: err})
		return err
	}

	c.mu.Lock()
	c.state = StateInitialized
	c.mu.Unlock()

	c.logger.Info("Session engine initialized")
	return nil
}

// Connect starts a session from opts and blocks until it ends. It is Start
// followed by Run.Wait: the call returns only when the session terminates,
// so hosts should call it from its own goroutine.
//
// ctx spans the whole session, not just negotiation: cancelling it ends the
// engine's run-loop. Use Shutdown for a graceful end.
//
// Errors:
//   - ErrNotInitialized when Init has not completed (no engine call is made)
//   - ErrValidation when a mandatory option is missing
//   - ErrState when a session is already connecting or connected
//   - the engine's *EngineError, unchanged, when negotiation or the run-loop fails
//
// Example usage:
//
//	ctrl := rdpbridge.NewController(engine)
//	ctrl.OnStatus(func(s rdpbridge.Status) { log.Printf("status: %s", s) })
//	if err := ctrl.Init(ctx); err != nil {
//		return err
//	}
//	go func() {
//		info, err := ctrl.Connect(ctx, rdpbridge.ConnectOptions{
//			Username:     "alice",
//			Password:     secret,
//			Destination:  "10.0.0.5:3389",
//			ProxyAddress: "wss://gateway.example.com/rdp-proxy",
//			Surface:      canvas,
//		})
//		...
//	}()
func (c *Controller) Connect(ctx context.Context, opts ConnectOptions) (TerminationInfo, error) {
	run, err := c.Start(ctx, opts)
	if err != nil {
		return TerminationInfo{}, err
	}
	return run.Wait()
}

// Start validates opts, reports StatusConnecting and negotiates the session
// in the background. The returned Run completes when the session ends.
//
// ctx is handed to both negotiation and the engine's run-loop, so cancelling
// it ends the session rather than only the handshake. Shutdown is the
// graceful way to end a session.
func (c *Controller) Start(ctx context.Context, opts ConnectOptions) (*Run, error) {
	if err := c.requireInitialized("Controller.Connect"); err != nil {
		return nil, err
	}

	req, err := FromOptions(opts).AuthToken(c.authToken).Build()
	if err != nil {
		c.logger.Error("Invalid connection options", Field{Key: "error", Value: err})
		return nil, err
	}

	return c.StartRequest(ctx, req)
}

// StartRequest is Start for a request assembled with RequestBuilder.
func (c *Controller) StartRequest(ctx context.Context, req *ConnectionRequest) (*Run, error) {
	const op = "Controller.Connect"

	if err := c.requireInitialized(op); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, validationError(op, "connection request is required", nil)
	}
	if err := req.validate(op); err != nil {
		return nil, err
	}

	c.mu.Lock()
	switch c.state {
	case StateConnecting, StateConnected:
		state := c.state
		c.mu.Unlock()
		return nil, stateError(op, "a session is already "+state.String())
	}

	c.generation++
	gen := c.generation
	c.state = StateConnecting
	c.surface = req.surface
	c.session = nil
	c.active = false
	c.desktopSize = req.desktopSize
	c.sessionLog = c.logger.With(Field{Key: "session_id", Value: uuid.NewString()})
	logger := c.sessionLog
	c.mu.Unlock()

	logger.Info("Connecting",
		Field{Key: "destination", Value: req.destination},
		Field{Key: "proxy", Value: req.proxyAddress},
		Field{Key: "width", Value: req.desktopSize.Width},
		Field{Key: "height", Value: req.desktopSize.Height})

	c.metrics.Counter(MetricSessionsStarted, 1)
	c.reportStatus(StatusConnecting)

	run := newRun()
	go c.runSession(ctx, req, gen, logger, run)
	return run, nil
}

func (c *Controller) requireInitialized(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateUninitialized {
		return notInitializedError(op, "engine not initialized, call Init first")
	}
	return nil
}

// runSession negotiates, installs input handlers and drives the run-loop.
func (c *Controller) runSession(ctx context.Context, req *ConnectionRequest, gen uint64, logger Logger, run *Run) {
	defer close(run.done)

	session, err := req.connect(ctx, c.engine)
	if err != nil {
		run.err = err
		c.fail(gen, logger, err)
		return
	}

	c.mu.Lock()
	surface := c.surface
	c.session = session
	c.active = true
	c.state = StateConnected
	c.mu.Unlock()

	c.installHandlers(gen, surface, logger)

	c.metrics.Gauge(MetricSessionActive, 1)
	logger.Info("Connected")
	c.reportStatus(StatusConnected)

	info, err := session.Run(ctx)
	if err != nil {
		run.err = err
		c.fail(gen, logger, err)
		return
	}

	run.info = info
	c.finish(gen, logger, info)
}

// fail records a negotiation or run-loop failure, then notifies the host.
func (c *Controller) fail(gen uint64, logger Logger, err error) {
	detach := c.endSession(gen, StateErrored)
	if detach != nil {
		detach()
	}

	logger.Error("Session failed",
		Field{Key: "code", Value: GetErrorCode(err)},
		Field{Key: "error", Value: err})
	c.metrics.Counter(MetricSessionsFailed, 1)
	c.metrics.Gauge(MetricSessionActive, 0)

	c.reportStatus(StatusError)

	c.callbackMu.Lock()
	onError := c.onError
	c.callbackMu.Unlock()
	if onError != nil {
		onError(newInputValidator().describeError(err))
	}
}

// finish records a clean termination, then notifies the host.
func (c *Controller) finish(gen uint64, logger Logger, info TerminationInfo) {
	detach := c.endSession(gen, StateDisconnected)
	if detach != nil {
		detach()
	}

	logger.Info("Session terminated", Field{Key: "reason", Value: info.Reason})
	c.metrics.Gauge(MetricSessionActive, 0)

	c.reportStatus(StatusDisconnected)

	c.callbackMu.Lock()
	onTerminate := c.onTerminate
	c.callbackMu.Unlock()
	if onTerminate != nil {
		onTerminate(info)
	}
}

// endSession moves the controller to a terminal state and hands back the
// input handler detach function for the caller to run.
func (c *Controller) endSession(gen uint64, state State) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return nil
	}

	c.state = state
	c.active = false
	c.session = nil
	detach := c.detach
	c.detach = nil
	return detach
}

func (c *Controller) reportStatus(status Status) {
	c.callbackMu.Lock()
	onStatus := c.onStatus
	c.callbackMu.Unlock()
	if onStatus != nil {
		onStatus(status)
	}
}

// Shutdown asks the engine to end the session and immediately stops routing
// input. It does not wait for the run-loop to unwind; the Run completes when
// the engine reports termination. Input handlers are detached on every call,
// whatever the state, so Shutdown is safe to call repeatedly or before any
// session exists.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	session := c.session
	wasActive := c.active
	if session != nil && wasActive {
		c.active = false
	}
	detach := c.detach
	c.detach = nil
	logger := c.sessionLog
	c.mu.Unlock()

	if detach != nil {
		defer detach()
	}

	if session == nil || !wasActive {
		return nil
	}

	logger.Info("Shutting down session")
	c.metrics.Gauge(MetricSessionActive, 0)

	if err := session.Shutdown(); err != nil {
		logger.Error("Engine shutdown failed", Field{Key: "error", Value: err})
		return err
	}
	return nil
}

// CtrlAltDel sends the secure attention sequence: Ctrl, Alt and Delete are
// pressed and then released in reverse order, in a single transaction. It is
// a no-op unless a session is connected.
func (c *Controller) CtrlAltDel() error {
	return c.Submit(
		KeyPressed{Scancode: ScancodeControlLeft},
		KeyPressed{Scancode: ScancodeAltLeft},
		KeyPressed{Scancode: ScancodeDelete},
		KeyReleased{Scancode: ScancodeDelete},
		KeyReleased{Scancode: ScancodeAltLeft},
		KeyReleased{Scancode: ScancodeControlLeft},
	)
}

// Submit delivers events to the engine as one transaction, in order. It is
// a no-op unless a session is connected. Empty submissions are ignored.
func (c *Controller) Submit(events ...DeviceEvent) error {
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		if ev == nil {
			return validationError("Controller.Submit", "event cannot be nil", nil)
		}
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	session, logger := c.connectedSession()
	if session == nil {
		c.metrics.Counter(MetricInputDropped, int64(len(events)))
		return nil
	}
	return c.apply(session, logger, newTransaction(events...))
}

// apply seals tx and hands it to the engine. c.submitMu must be held, which
// keeps transactions in submission order.
func (c *Controller) apply(session EngineSession, logger Logger, tx *InputTransaction) error {
	if err := tx.seal(); err != nil {
		return err
	}

	if err := session.ApplyInputs(tx); err != nil {
		logger.Error("Failed to apply inputs",
			Field{Key: "events", Value: tx.Len()},
			Field{Key: "error", Value: err})
		return err
	}

	c.metrics.Counter(MetricTransactionsSubmitted, 1)
	c.metrics.Counter(MetricEventsSubmitted, int64(tx.Len()))
	return nil
}

// routableLocked reports whether input may reach the engine.
func (c *Controller) routableLocked() bool {
	return c.state == StateConnected && c.active && c.session != nil && c.surface != nil
}

// connectedSession returns the live session, or nil when not connected.
func (c *Controller) connectedSession() (EngineSession, Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.routableLocked() {
		return nil, c.sessionLog
	}
	return c.session, c.sessionLog
}

// Resize asks the engine to change the desktop size. It is a no-op unless a
// session is connected and does not change the controller state.
func (c *Controller) Resize(width, height int, opts ...ResizeOption) error {
	if err := newInputValidator().ValidateDesktopSize(width, height); err != nil {
		return validationError("Controller.Resize", "invalid desktop size", err)
	}

	var ro ResizeOptions
	for _, opt := range opts {
		opt(&ro)
	}

	session, logger := c.connectedSession()
	if session == nil {
		return nil
	}

	logger.Debug("Resizing desktop",
		Field{Key: "width", Value: width},
		Field{Key: "height", Value: height})

	if err := session.Resize(width, height, ro); err != nil {
		logger.Error("Failed to resize desktop", Field{Key: "error", Value: err})
		return err
	}

	c.mu.Lock()
	if c.session == session {
		c.desktopSize = DesktopSize{Width: width, Height: height}
	}
	c.mu.Unlock()
	return nil
}

// SupportsUnicodeKeyboardShortcuts reports the engine's capability for the
// connected session, or false when not connected.
func (c *Controller) SupportsUnicodeKeyboardShortcuts() bool {
	session, _ := c.connectedSession()
	if session == nil {
		return false
	}
	return session.SupportsUnicodeKeyboardShortcuts()
}

// SynchronizeLockKeys sets the remote lock-key state. No-op unless connected.
func (c *Controller) SynchronizeLockKeys(scrollLock, numLock, capsLock, kanaLock bool) error {
	session, logger := c.connectedSession()
	if session == nil {
		return nil
	}
	logger.Debug("Synchronizing lock keys",
		Field{Key: "scroll_lock", Value: scrollLock},
		Field{Key: "num_lock", Value: numLock},
		Field{Key: "caps_lock", Value: capsLock},
		Field{Key: "kana_lock", Value: kanaLock})
	return session.SynchronizeLockKeys(scrollLock, numLock, capsLock, kanaLock)
}

// ReleaseAllInputs releases every key and button the engine considers held.
// No-op unless connected.
func (c *Controller) ReleaseAllInputs() error {
	session, _ := c.connectedSession()
	if session == nil {
		return nil
	}
	return session.ReleaseAllInputs()
}

// PasteClipboard offers local clipboard content to the remote session.
// No-op unless connected.
func (c *Controller) PasteClipboard(data ClipboardData) error {
	session, _ := c.connectedSession()
	if session == nil || data.IsEmpty() {
		return nil
	}
	return session.OnClipboardPaste(data)
}

// InvokeExtension calls an engine extension. It returns nil, nil unless
// connected.
func (c *Controller) InvokeExtension(ext Extension) (interface{}, error) {
	session, _ := c.connectedSession()
	if session == nil {
		return nil, nil
	}
	return session.InvokeExtension(ext)
}

// Run is the pending result of a session started with Start. It completes
// when the session terminates or fails.
type Run struct {
	done chan struct{}
	info TerminationInfo
	err  error
}

func newRun() *Run {
	return &Run{done: make(chan struct{})}
}

// Done is closed when the session has ended.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the session ends and returns how it ended.
func (r *Run) Wait() (TerminationInfo, error) {
	<-r.done
	return r.info, r.err
}

// WaitContext is Wait bounded by ctx. Giving up on the wait does not end the
// session; use Controller.Shutdown for that.
func (r *Run) WaitContext(ctx context.Context) (TerminationInfo, error) {
	select {
	case <-r.done:
		return r.info, r.err
	case <-ctx.Done():
		return TerminationInfo{}, ctx.Err()
	}
}
