// Package event provides an in-process publish/subscribe bus for store
// change notifications.
//
// Events are hints: a subscriber that sees "stock.changed" re-reads the
// product from the store instead of trusting the payload.
package event

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Wildcard listens to every event name.
const Wildcard = "*"

// Event is a named notification with a JSON payload. Origin identifies the
// process that produced it, so relays can drop their own echoes.
type Event struct {
	Name   string          `json:"name"`
	Origin string          `json:"origin,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// New builds an Event whose Data is v encoded as JSON.
func New(name string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("event: marshal %s: %w", name, err)
	}
	return Event{Name: name, Data: data}, nil
}

// Decode unmarshals the payload into dest.
func (e Event) Decode(dest any) error {
	return json.Unmarshal(e.Data, dest)
}

// Handler is a synchronous listener.
type Handler func(Event)

// Bus fans events out to listeners and channel subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	subs     map[int]chan Event
	nextID   int
}

func NewBus() *Bus {
	return &Bus{
		handlers: map[string][]Handler{},
		subs:     map[int]chan Event{},
	}
}

// Listen registers a handler for name, or for every event with Wildcard.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Subscribe returns a buffered channel receiving every published event and a
// cancel func that closes it. A subscriber that falls behind misses events
// rather than blocking publishers.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish calls the handlers registered for e.Name and Wildcard, then offers
// e to every subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[e.Name])+len(b.handlers[Wildcard]))
	hs = append(hs, b.handlers[e.Name]...)
	hs = append(hs, b.handlers[Wildcard]...)
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// Deliver is Publish without the Wildcard handlers. Relays use it for events
// that came from another process so they are not sent back out.
func (b *Bus) Deliver(e Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[e.Name]...)
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}
