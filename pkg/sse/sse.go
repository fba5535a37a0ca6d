// Package sse writes Server-Sent Events.
//
//	stream := sse.New(w, r)
//	if stream == nil {
//	    return
//	}
//	stream.Send("stock.changed", payload)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/giftwheels/pkg/event"
)

// Stream represents an active SSE connection to one client.
type Stream struct {
	w       http.ResponseWriter
	r       *http.Request
	flusher http.Flusher
	closed  bool
}

// New creates an SSE stream and sets the required headers.
// Returns nil if the ResponseWriter does not support flushing.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{w: w, r: r, flusher: flusher}
}

// Send writes a named SSE event with a JSON-encoded data payload.
func (s *Stream) Send(name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.SendRaw(name, payload)
}

// SendRaw writes a named event whose data is already JSON.
func (s *Stream) SendRaw(name string, payload []byte) error {
	if s.IsClosed() {
		return nil
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		s.closed = true
		return fmt.Errorf("sse: write: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Comment writes an SSE comment (useful as a keepalive heartbeat).
func (s *Stream) Comment(msg string) {
	if s.IsClosed() {
		return
	}
	fmt.Fprintf(s.w, ": %s\n\n", msg)
	s.flusher.Flush()
}

// IsClosed reports whether the client has disconnected.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.r.Context().Done():
		s.closed = true
	default:
	}
	return s.closed
}

// Pipe forwards events to the client until it disconnects or events is
// closed, writing a heartbeat comment every keepalive.
func (s *Stream) Pipe(events <-chan event.Event, keepalive time.Duration) {
	if s == nil {
		return
	}
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-s.r.Context().Done():
			s.closed = true
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := s.SendRaw(e.Name, e.Data); err != nil {
				return
			}
		case <-ticker.C:
			s.Comment("keepalive")
		}
	}
}
