// Package sse implements the text/event-stream wire format used by the
// streaming endpoints. Frames are encoded exactly as consumed by the demo
// clients: an optional "event:" line, a "data:" line and a blank terminator.
package sse

import "errors"

const (
	// ContentType is the MIME type for SSE responses.
	ContentType = "text/event-stream"

	// DefaultKind is the implied event kind when no "event:" line is sent.
	DefaultKind = "message"
)

// Field prefixes. The space after the colon is part of the wire contract.
const (
	FieldEvent = "event: "
	FieldData  = "data: "
)

var (
	// ErrInvalidKind indicates an event kind containing line breaks.
	ErrInvalidKind = errors.New("sse: invalid event kind")

	// ErrFlusherNotSupported indicates the response writer cannot stream.
	ErrFlusherNotSupported = errors.New("sse: response writer does not support flushing")
)

// Frame is one transmitted unit of the wire format.
type Frame struct {
	Kind string
	Data string
}
