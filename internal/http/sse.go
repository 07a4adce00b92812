package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// sseWriter emits server-sent events and flushes after each one so buffer
// snapshots reach the display as they are produced.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming unsupported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseWriter{w: w, flusher: flusher}, nil
}

func (s *sseWriter) event(name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	io.WriteString(s.w, "event: "+name+"\ndata: "+string(data)+"\n\n")
	s.flusher.Flush()
}
