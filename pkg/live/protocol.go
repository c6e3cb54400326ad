package live

import (
	"encoding/json"
	"fmt"
)

// FrameType identifies the purpose of a frame.
type FrameType string

const (
	// FrameSnapshot carries a full rendered value, server to client.
	FrameSnapshot FrameType = "snapshot"

	// FramePatch carries a client-submitted update to apply to the store.
	FramePatch FrameType = "patch"

	// FramePing and FramePong are application-level keepalives.
	FramePing FrameType = "ping"
	FramePong FrameType = "pong"

	// FrameError reports a coded error, server to client.
	FrameError FrameType = "error"
)

// Error codes carried by FrameError frames.
const (
	ErrInvalidFrame  = "invalid_frame"
	ErrInvalidPatch  = "invalid_patch"
	ErrFrameTooLarge = "frame_too_large"
)

// Frame is the single wire unit of the live protocol, encoded as JSON.
type Frame struct {
	Type FrameType `json:"type"`

	// Seq is a per-session sequence number on snapshot frames, so a
	// client can discard stale out-of-order renders after a reconnect.
	Seq uint64 `json:"seq,omitempty"`

	// Data is the rendered value (snapshot) or the update payload (patch).
	Data json.RawMessage `json:"data,omitempty"`

	// Code and Message are set on error frames.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// EncodeFrame serializes a frame.
func EncodeFrame(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFrame parses a frame and validates its type.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	switch f.Type {
	case FrameSnapshot, FramePatch, FramePing, FramePong, FrameError:
		return f, nil
	default:
		return Frame{}, fmt.Errorf("decode frame: unknown type %q", f.Type)
	}
}

// errorFrame builds a FrameError frame.
func errorFrame(code, message string) Frame {
	return Frame{Type: FrameError, Code: code, Message: message}
}
