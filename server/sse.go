package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/probelab/validationsim/core"
)

// setSSEHeaders prepares a response for server-sent events. X-Accel-Buffering
// keeps nginx-style proxies from buffering the stream.
func setSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// writeSSEEvent writes one event frame. Ids are per-connection sequence
// numbers so clients can spot gaps after a reconnect.
func writeSSEEvent(w http.ResponseWriter, id int, e core.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, e.Type, data)
	return err
}
