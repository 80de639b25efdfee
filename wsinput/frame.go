// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package wsinput

import (
	"encoding/binary"
	"math"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Binary input frame types sent by the browser.
const (
	MsgTypeKey         = 0x01
	MsgTypeMouseButton = 0x02
	MsgTypeMouseMove   = 0x03
	MsgTypeWheel       = 0x05
	MsgTypeViewport    = 0x07
	MsgTypeContextMenu = 0x08
)

// Viewport is the canvas placement and backing store size reported by the
// browser whenever the page layout changes.
type Viewport struct {
	Bounds rdpbridge.Rect
	Width  int
	Height int
}

// Frame is one decoded client frame. Exactly one of Input and Viewport is set.
type Frame struct {
	Input    rdpbridge.RawInput
	Viewport *Viewport
}

// Decode parses a binary client frame.
//
// Frame layout is [type:1][payload]:
//
//	0x01 key          [down:1][len:1][code:len]
//	0x02 mouse button [down:1][button:1]
//	0x03 mouse move   [x:f32 LE][y:f32 LE]
//	0x05 wheel        [deltaX:f32 LE][deltaY:f32 LE]
//	0x07 viewport     [left:f32 LE][top:f32 LE][width:f32 LE][height:f32 LE][resW:u16 BE][resH:u16 BE]
//	0x08 context menu (no payload)
func Decode(data []byte) (Frame, error) {
	const op = "wsinput.Decode"

	if len(data) < 1 {
		return Frame{}, rdpbridge.NewBridgeError(op, rdpbridge.ErrValidation, "empty frame", nil)
	}

	msgType := data[0]
	payload := data[1:]

	short := func() (Frame, error) {
		return Frame{}, rdpbridge.NewBridgeError(op, rdpbridge.ErrValidation, "short frame", nil)
	}

	switch msgType {
	case MsgTypeKey:
		if len(payload) < 2 {
			return short()
		}
		n := int(payload[1])
		if len(payload) < 2+n {
			return short()
		}
		return Frame{Input: rdpbridge.KeyInput{
			Code: string(payload[2 : 2+n]),
			Down: payload[0] != 0,
		}}, nil

	case MsgTypeMouseButton:
		if len(payload) < 2 {
			return short()
		}
		return Frame{Input: rdpbridge.PointerButtonInput{
			Button: int(payload[1]),
			Down:   payload[0] != 0,
		}}, nil

	case MsgTypeMouseMove:
		if len(payload) < 8 {
			return short()
		}
		return Frame{Input: rdpbridge.PointerMoveInput{
			ClientX: readFloat32(payload[0:4]),
			ClientY: readFloat32(payload[4:8]),
		}}, nil

	case MsgTypeWheel:
		if len(payload) < 8 {
			return short()
		}
		return Frame{Input: rdpbridge.WheelInput{
			DeltaX: readFloat32(payload[0:4]),
			DeltaY: readFloat32(payload[4:8]),
		}}, nil

	case MsgTypeViewport:
		if len(payload) < 20 {
			return short()
		}
		return Frame{Viewport: &Viewport{
			Bounds: rdpbridge.Rect{
				Left:   readFloat32(payload[0:4]),
				Top:    readFloat32(payload[4:8]),
				Width:  readFloat32(payload[8:12]),
				Height: readFloat32(payload[12:16]),
			},
			Width:  int(binary.BigEndian.Uint16(payload[16:18])),
			Height: int(binary.BigEndian.Uint16(payload[18:20])),
		}}, nil

	case MsgTypeContextMenu:
		return Frame{Input: rdpbridge.ContextMenuInput{}}, nil

	default:
		return Frame{}, rdpbridge.NewBridgeError(op, rdpbridge.ErrValidation, "unknown frame type", nil)
	}
}

func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// EncodeKey builds a key frame.
func EncodeKey(code string, down bool) []byte {
	if len(code) > math.MaxUint8 {
		code = code[:math.MaxUint8]
	}
	out := make([]byte, 0, 3+len(code))
	out = append(out, MsgTypeKey, boolByte(down), byte(len(code)))
	return append(out, code...)
}

// EncodeMouseButton builds a mouse button frame.
func EncodeMouseButton(button int, down bool) []byte {
	return []byte{MsgTypeMouseButton, boolByte(down), byte(button)}
}

// EncodeMouseMove builds a mouse move frame.
func EncodeMouseMove(x, y float64) []byte {
	out := []byte{MsgTypeMouseMove}
	out = appendFloat32(out, x)
	return appendFloat32(out, y)
}

// EncodeWheel builds a wheel frame.
func EncodeWheel(deltaX, deltaY float64) []byte {
	out := []byte{MsgTypeWheel}
	out = appendFloat32(out, deltaX)
	return appendFloat32(out, deltaY)
}

// EncodeViewport builds a viewport frame.
func EncodeViewport(v Viewport) []byte {
	out := []byte{MsgTypeViewport}
	out = appendFloat32(out, v.Bounds.Left)
	out = appendFloat32(out, v.Bounds.Top)
	out = appendFloat32(out, v.Bounds.Width)
	out = appendFloat32(out, v.Bounds.Height)
	out = binary.BigEndian.AppendUint16(out, uint16(v.Width))
	return binary.BigEndian.AppendUint16(out, uint16(v.Height))
}

// EncodeContextMenu builds a context menu frame.
func EncodeContextMenu() []byte {
	return []byte{MsgTypeContextMenu}
}

func appendFloat32(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v)))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
