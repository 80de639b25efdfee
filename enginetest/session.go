// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package enginetest

import (
	"context"
	"sync"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Resize is one recorded resize request.
type Resize struct {
	Width   int
	Height  int
	Options rdpbridge.ResizeOptions
}

// LockKeys is one recorded lock-key synchronization.
type LockKeys struct {
	ScrollLock bool
	NumLock    bool
	CapsLock   bool
	KanaLock   bool
}

type result struct {
	info rdpbridge.TerminationInfo
	err  error
}

// Session is the engine's rdpbridge.EngineSession. Run blocks until the
// test calls Terminate or Fail, or until Shutdown when the engine has
// TerminateOnShutdown set.
type Session struct {
	// Params are the builder parameters the session was negotiated with.
	Params Params

	// ExtensionResult is returned by InvokeExtension.
	ExtensionResult interface{}

	engine           *Engine
	size             rdpbridge.DesktopSize
	unicodeShortcuts bool
	applyErr         error
	notifyResize     bool
	applyHook        func(tx *rdpbridge.InputTransaction)

	mu           sync.Mutex
	transactions [][]rdpbridge.DeviceEvent
	resizes      []Resize
	lockKeys     []LockKeys
	pastes       []rdpbridge.ClipboardData
	extensions   []rdpbridge.Extension
	releases     int
	shutdowns    int

	endOnce sync.Once
	end     chan result
}

// ApplyInputs records the transaction's events, then runs the engine's
// ApplyHook.
func (s *Session) ApplyInputs(tx *rdpbridge.InputTransaction) error {
	s.mu.Lock()
	if s.applyErr != nil {
		s.mu.Unlock()
		return s.applyErr
	}
	s.transactions = append(s.transactions, tx.Events())
	s.mu.Unlock()

	if s.applyHook != nil {
		s.applyHook(tx)
	}
	return nil
}

// Resize records the request and adopts the new size. With
// ResizeNotifiesCanvas set it calls the canvas-resized callback inline.
func (s *Session) Resize(width, height int, opts rdpbridge.ResizeOptions) error {
	s.mu.Lock()
	s.resizes = append(s.resizes, Resize{Width: width, Height: height, Options: opts})
	s.size = rdpbridge.DesktopSize{Width: width, Height: height}
	s.mu.Unlock()

	if s.notifyResize && s.Params.CanvasResized != nil {
		s.Params.CanvasResized()
	}
	return nil
}

// Shutdown records the call and, when configured, ends the run-loop.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()

	s.engine.mu.Lock()
	terminate := s.engine.TerminateOnShutdown
	reason := s.engine.ShutdownReason
	s.engine.mu.Unlock()

	if terminate {
		s.Terminate(reason)
	}
	return nil
}

// Run blocks until the session is ended or ctx is done.
func (s *Session) Run(ctx context.Context) (rdpbridge.TerminationInfo, error) {
	select {
	case r := <-s.end:
		return r.info, r.err
	case <-ctx.Done():
		return rdpbridge.TerminationInfo{}, ctx.Err()
	}
}

// Terminate ends the run-loop normally with reason. Only the first call to
// Terminate or Fail has an effect.
func (s *Session) Terminate(reason string) {
	s.endOnce.Do(func() {
		s.end <- result{info: rdpbridge.TerminationInfo{Reason: reason}}
	})
}

// Fail ends the run-loop with err. Only the first call to Terminate or Fail
// has an effect.
func (s *Session) Fail(err error) {
	s.endOnce.Do(func() {
		s.end <- result{err: err}
	})
}

// DesktopSize returns the negotiated size, updated by Resize.
func (s *Session) DesktopSize() rdpbridge.DesktopSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// SupportsUnicodeKeyboardShortcuts returns the engine's UnicodeShortcuts setting.
func (s *Session) SupportsUnicodeKeyboardShortcuts() bool {
	return s.unicodeShortcuts
}

// SynchronizeLockKeys records the lock-key state.
func (s *Session) SynchronizeLockKeys(scrollLock, numLock, capsLock, kanaLock bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockKeys = append(s.lockKeys, LockKeys{
		ScrollLock: scrollLock,
		NumLock:    numLock,
		CapsLock:   capsLock,
		KanaLock:   kanaLock,
	})
	return nil
}

// ReleaseAllInputs counts the call.
func (s *Session) ReleaseAllInputs() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return nil
}

// OnClipboardPaste records the pasted data.
func (s *Session) OnClipboardPaste(data rdpbridge.ClipboardData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pastes = append(s.pastes, data)
	return nil
}

// InvokeExtension records the call and returns ExtensionResult.
func (s *Session) InvokeExtension(ext rdpbridge.Extension) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extensions = append(s.extensions, ext)
	return s.ExtensionResult, nil
}

// Transactions returns the recorded transactions in submission order.
func (s *Session) Transactions() [][]rdpbridge.DeviceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]rdpbridge.DeviceEvent, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Events returns every recorded event, flattened in submission order.
func (s *Session) Events() []rdpbridge.DeviceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []rdpbridge.DeviceEvent
	for _, tx := range s.transactions {
		out = append(out, tx...)
	}
	return out
}

// Resizes returns the recorded resize requests.
func (s *Session) Resizes() []Resize {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Resize, len(s.resizes))
	copy(out, s.resizes)
	return out
}

// LockKeyUpdates returns the recorded lock-key synchronizations.
func (s *Session) LockKeyUpdates() []LockKeys {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LockKeys, len(s.lockKeys))
	copy(out, s.lockKeys)
	return out
}

// Pastes returns the clipboard data offered to the session.
func (s *Session) Pastes() []rdpbridge.ClipboardData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rdpbridge.ClipboardData, len(s.pastes))
	copy(out, s.pastes)
	return out
}

// Extensions returns the recorded extension calls.
func (s *Session) Extensions() []rdpbridge.Extension {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rdpbridge.Extension, len(s.extensions))
	copy(out, s.extensions)
	return out
}

// Releases returns how many times ReleaseAllInputs ran.
func (s *Session) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

// ShutdownCalls returns how many times Shutdown ran.
func (s *Session) ShutdownCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}
