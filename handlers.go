// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "sync"

// sessionInput routes raw input from the bound surface to the controller.
// It holds the controller and its session generation, never the engine
// session itself, so a listener left behind by an earlier session cannot
// reach a later one.
type sessionInput struct {
	c   *Controller
	gen uint64
}

// installHandlers attaches input handling to surface and focuses it. It must
// be called without c.mu held. When the session has already been shut down
// or replaced by the time the listener is in place, it is detached again.
func (c *Controller) installHandlers(gen uint64, surface Surface, logger Logger) {
	detach := surface.Listen(&sessionInput{c: c, gen: gen})
	surface.Focus()

	var once sync.Once
	release := func() {
		once.Do(func() {
			if detach != nil {
				detach()
			}
		})
	}

	c.mu.Lock()
	current := gen == c.generation && c.active
	if current {
		c.detach = release
	}
	c.mu.Unlock()

	if !current {
		release()
		return
	}
	logger.Debug("Input handlers installed")
}

// HandleInput maps one native input to a transaction and submits it. Input
// arriving while no session is connected is dropped without side effects.
func (s *sessionInput) HandleInput(in RawInput) Disposition {
	// The context menu is suppressed for as long as the handlers are installed.
	if _, ok := in.(ContextMenuInput); ok {
		return PreventDefault
	}

	c := s.c
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	c.mu.Lock()
	current := s.gen == c.generation && c.routableLocked()
	session, surface, logger := c.session, c.surface, c.sessionLog
	c.mu.Unlock()

	if !current {
		c.metrics.Counter(MetricInputDropped, 1)
		return 0
	}

	var (
		events      []DeviceEvent
		disposition Disposition
	)

	switch ev := in.(type) {
	case KeyInput:
		disposition = PreventDefault | StopPropagation
		mapped, ok := MapKey(ev.Code, ev.Down)
		if !ok {
			logger.Debug("Dropping unmapped key", Field{Key: "code", Value: ev.Code})
			return disposition
		}
		events = append(events, mapped)

	case PointerMoveInput:
		width, height := surface.Resolution()
		events = append(events, MapPointerMove(ev.ClientX, ev.ClientY, surface.Bounds(), width, height))

	case PointerButtonInput:
		disposition = PreventDefault | StopPropagation
		events = append(events, MapMouseButton(ev.Button, ev.Down))

	case WheelInput:
		disposition = PreventDefault
		events = MapWheel(ev.DeltaX, ev.DeltaY)

	default:
		return 0
	}

	if len(events) == 0 {
		return disposition
	}

	if err := c.apply(session, logger, newTransaction(events...)); err != nil {
		logger.Warn("Input not delivered", Field{Key: "error", Value: err})
	}
	return disposition
}
