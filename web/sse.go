package web

import (
	"io"

	"github.com/gin-gonic/gin"
)

// Events streams engine state-change notifications as server-sent events.
// The consumer re-fetches whatever the event names; the events themselves
// carry only the kind of change.
func (h *Handler) Events(c *gin.Context) {
	events, cancel := h.engine.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	// Flush headers up front so the consumer sees the stream open before
	// the first state change happens.
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("change", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
