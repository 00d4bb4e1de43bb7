package sse

import (
	"net/http"
)

// Writer streams frames over an HTTP response. One Writer per connection;
// it is not safe for concurrent use.
type Writer struct {
	w   http.ResponseWriter
	fl  http.Flusher
	enc *Encoder
}

// NewWriter prepares the response for streaming and returns a frame writer.
// It sets the SSE headers and fails if the ResponseWriter cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	fl, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrFlusherNotSupported
	}
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &Writer{w: w, fl: fl, enc: NewEncoder()}, nil
}

// Send encodes one frame, writes it and flushes immediately.
func (sw *Writer) Send(f Frame) error {
	s, err := sw.enc.Format(f)
	if err != nil {
		return err
	}
	if _, err := sw.w.Write([]byte(s)); err != nil {
		return err
	}
	sw.fl.Flush()
	return nil
}
