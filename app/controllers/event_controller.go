package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/sse"
)

const keepalive = 25 * time.Second

type EventController struct {
	bus *event.Bus
}

func NewEventController(bus *event.Bus) *EventController {
	return &EventController{bus: bus}
}

// Stream sends bus events to the client as Server-Sent Events until it
// disconnects.
func (c *EventController) Stream(w http.ResponseWriter, r *http.Request) {
	events, cancel := c.bus.Subscribe(32)
	defer cancel()

	stream := sse.New(w, r)
	if stream == nil {
		return
	}
	stream.Comment("connected")
	stream.Pipe(events, keepalive)
}
