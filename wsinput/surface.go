// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Package wsinput implements an rdpbridge.Surface for a canvas in a remote
// browser. The browser streams its input as binary WebSocket frames (see
// Decode) and receives cursor and focus changes as JSON text frames.
//
// A Surface serves one browser at a time:
//
//	surface := wsinput.New(wsinput.WithLogger(logger))
//	http.Handle("/input", surface)
//	<-surface.Connected()
//	ctrl.Connect(ctx, rdpbridge.ConnectOptions{Surface: surface, ...})
package wsinput

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Message is a bridge to browser text frame.
type Message struct {
	Type  string `json:"type"`
	Style string `json:"style,omitempty"`
}

// Message types sent to the browser.
const (
	MessageCursor = "cursor"
	MessageFocus  = "focus"
)

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger for the surface.
func WithLogger(logger rdpbridge.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCheckOrigin sets the origin check used during the WebSocket upgrade.
// By default every origin is accepted.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Surface) {
		s.upgrader.CheckOrigin = fn
	}
}

// WithViewport sets the viewport assumed until the browser reports its own.
func WithViewport(v Viewport) Option {
	return func(s *Surface) {
		s.viewport = v
	}
}

type listenerEntry struct {
	id       int
	listener rdpbridge.InputListener
}

// Surface is a WebSocket-backed rdpbridge.Surface. It is also the
// http.Handler that accepts the browser's connection.
type Surface struct {
	logger   rdpbridge.Logger
	upgrader websocket.Upgrader

	mu        sync.Mutex
	viewport  Viewport
	cursor    string
	conn      *websocket.Conn
	nextID    int
	listeners []listenerEntry

	writeMu sync.Mutex

	connectedOnce sync.Once
	connected     chan struct{}
}

// New creates a surface with no browser attached. The default viewport is
// the default desktop size displayed at the origin.
func New(opts ...Option) *Surface {
	s := &Surface{
		logger: &rdpbridge.NoOpLogger{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		viewport: Viewport{
			Bounds: rdpbridge.Rect{
				Width:  rdpbridge.DefaultDesktopWidth,
				Height: rdpbridge.DefaultDesktopHeight,
			},
			Width:  rdpbridge.DefaultDesktopWidth,
			Height: rdpbridge.DefaultDesktopHeight,
		},
		cursor:    rdpbridge.DefaultCursorStyle,
		connected: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connected is closed once the first browser has attached.
func (s *Surface) Connected() <-chan struct{} {
	return s.connected
}

// ServeHTTP upgrades the request and reads input frames until the browser
// goes away. A second browser is refused while one is attached.
func (s *Surface) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	busy := s.conn != nil
	s.mu.Unlock()
	if busy {
		http.Error(w, "surface already has a client", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", rdpbridge.Field{Key: "error", Value: err})
		return
	}
	defer conn.Close()

	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		s.logger.Warn("Refusing second input client", rdpbridge.Field{Key: "remote", Value: r.RemoteAddr})
		return
	}
	s.conn = conn
	cursor := s.cursor
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
	}()

	s.logger.Info("Input client connected", rdpbridge.Field{Key: "remote", Value: r.RemoteAddr})
	s.send(Message{Type: MessageCursor, Style: cursor})
	s.connectedOnce.Do(func() { close(s.connected) })

	s.readLoop(conn)

	s.logger.Info("Input client disconnected", rdpbridge.Field{Key: "remote", Value: r.RemoteAddr})
}

func (s *Surface) readLoop(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("WebSocket read error", rdpbridge.Field{Key: "error", Value: err})
			}
			return
		}

		if messageType != websocket.BinaryMessage {
			s.logger.Warn("Ignoring non-binary WebSocket message")
			continue
		}

		frame, err := Decode(data)
		if err != nil {
			s.logger.Debug("Dropping input frame", rdpbridge.Field{Key: "error", Value: err})
			continue
		}

		if frame.Viewport != nil {
			s.mu.Lock()
			s.viewport = *frame.Viewport
			s.mu.Unlock()
			continue
		}

		s.dispatch(frame.Input)
	}
}

// dispatch hands in to every listener in installation order. The browser
// applies its own default-action policy, so dispositions are not sent back.
func (s *Surface) dispatch(in rdpbridge.RawInput) {
	s.mu.Lock()
	listeners := make([]rdpbridge.InputListener, 0, len(s.listeners))
	for _, e := range s.listeners {
		listeners = append(listeners, e.listener)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l.HandleInput(in)
	}
}

// send writes msg to the attached browser, if any.
func (s *Surface) send(msg Message) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("Failed to send message to input client",
			rdpbridge.Field{Key: "type", Value: msg.Type},
			rdpbridge.Field{Key: "error", Value: err})
	}
}

// Bounds returns the canvas placement last reported by the browser.
func (s *Surface) Bounds() rdpbridge.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport.Bounds
}

// Resolution returns the canvas backing store size last reported by the
// browser.
func (s *Surface) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport.Width, s.viewport.Height
}

// CursorStyle returns the cursor style last set.
func (s *Surface) CursorStyle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// SetCursorStyle records style and forwards it to the browser.
func (s *Surface) SetCursorStyle(style string) {
	s.mu.Lock()
	s.cursor = style
	s.mu.Unlock()

	s.send(Message{Type: MessageCursor, Style: style})
}

// Focus asks the browser to focus the canvas.
func (s *Surface) Focus() {
	s.send(Message{Type: MessageFocus})
}

// Listen installs l. Frames already read are never replayed to it.
func (s *Surface) Listen(l rdpbridge.InputListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, listener: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close disconnects the attached browser, if any.
func (s *Surface) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}

	s.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "surface closed"))
	s.writeMu.Unlock()

	return conn.Close()
}
