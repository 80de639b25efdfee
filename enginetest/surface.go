// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package enginetest

import (
	"sync"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Surface is an in-memory rdpbridge.Surface. Tests feed it input with
// Dispatch and inspect what the bridge did to it.
type Surface struct {
	mu           sync.Mutex
	bounds       rdpbridge.Rect
	width        int
	height       int
	cursorStyles []string
	focusCalls   int
	nextID       int
	listeners    map[int]rdpbridge.InputListener
	order        []int
}

// NewSurface creates a surface displayed at its native resolution at the
// origin.
func NewSurface(width, height int) *Surface {
	return &Surface{
		bounds:    rdpbridge.Rect{Width: float64(width), Height: float64(height)},
		width:     width,
		height:    height,
		listeners: make(map[int]rdpbridge.InputListener),
	}
}

// SetBounds changes the displayed placement of the surface.
func (s *Surface) SetBounds(r rdpbridge.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = r
}

// SetResolution changes the backing store size.
func (s *Surface) SetResolution(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

// Bounds returns the displayed placement set by NewSurface or SetBounds.
func (s *Surface) Bounds() rdpbridge.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// Resolution returns the backing store size.
func (s *Surface) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetCursorStyle records style.
func (s *Surface) SetCursorStyle(style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorStyles = append(s.cursorStyles, style)
}

// Focus counts the call.
func (s *Surface) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusCalls++
}

// Listen installs l. Listeners run in installation order.
func (s *Surface) Listen(l rdpbridge.InputListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch delivers in to every installed listener in installation order and
// returns the combined disposition. With no listener installed it returns 0.
func (s *Surface) Dispatch(in rdpbridge.RawInput) rdpbridge.Disposition {
	s.mu.Lock()
	var listeners []rdpbridge.InputListener
	for _, id := range s.order {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	var d rdpbridge.Disposition
	for _, l := range listeners {
		d |= l.HandleInput(in)
	}
	return d
}

// Listeners returns how many listeners are installed.
func (s *Surface) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// CursorStyles returns every cursor style applied, in order.
func (s *Surface) CursorStyles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.cursorStyles))
	copy(out, s.cursorStyles)
	return out
}

// FocusCalls returns how many times Focus ran.
func (s *Surface) FocusCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusCalls
}
