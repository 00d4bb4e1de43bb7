package sse

import (
	"strings"
)

// Encoder formats frames into wire format.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Format encodes a frame. Frames with the default kind ("message" or empty)
// carry no "event:" line; every frame ends with a blank line terminator.
func (e *Encoder) Format(f Frame) (string, error) {
	if strings.ContainsAny(f.Kind, "\r\n") {
		return "", ErrInvalidKind
	}

	var sb strings.Builder

	if f.Kind != "" && f.Kind != DefaultKind {
		sb.WriteString(FieldEvent)
		sb.WriteString(f.Kind)
		sb.WriteByte('\n')
	}

	sb.WriteString(FieldData)
	sb.WriteString(f.Data)
	sb.WriteByte('\n')

	// Blank line dispatches the event on the client.
	sb.WriteByte('\n')

	return sb.String(), nil
}
