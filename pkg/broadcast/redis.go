// Package broadcast relays bus events between processes that share one
// database, over a Redis pub/sub channel.
//
// Each process stamps what it sends with its own origin id and ignores its
// own echoes, so an event crosses the channel once:
//
//	relay := broadcast.New(client, bus, broadcast.DefaultChannel)
//	if err := relay.Start(ctx); err != nil { ... }
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// DefaultChannel carries stock notifications.
const DefaultChannel = "giftwheels:stock"

const (
	publishTimeout = 2 * time.Second
	outgoingBuffer = 64
)

// Connect creates a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("broadcast: redis ping: %w", err)
	}
	return client, nil
}

// Relay forwards local bus events to Redis and Redis messages to the bus.
type Relay struct {
	client  *redis.Client
	bus     *event.Bus
	channel string
	origin  string
	publish func(ctx context.Context, payload []byte) error
}

func New(client *redis.Client, bus *event.Bus, channel string) *Relay {
	r := &Relay{
		client:  client,
		bus:     bus,
		channel: channel,
		origin:  uuid.NewString(),
	}
	r.publish = func(ctx context.Context, payload []byte) error {
		return r.client.Publish(ctx, r.channel, payload).Err()
	}
	return r
}

// Origin identifies this process on the channel.
func (r *Relay) Origin() string { return r.origin }

// Start subscribes to the channel and begins relaying in both directions
// until ctx is done. Local events reach Redis through a buffered bus
// subscription, so publishers never wait on the network; when the buffer is
// full events are dropped.
func (r *Relay) Start(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("broadcast: subscribe %s: %w", r.channel, err)
	}

	events, unsubscribe := r.bus.Subscribe(outgoingBuffer)
	go r.forward(ctx, events, unsubscribe)
	go r.receive(ctx, sub)

	logger.Info("broadcast: relaying", "channel", r.channel, "origin", r.origin)
	return nil
}

// forward publishes local events until ctx is done, then leaves the bus.
func (r *Relay) forward(ctx context.Context, events <-chan event.Event, unsubscribe func()) {
	defer unsubscribe()
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			payload, ok := r.outgoing(e)
			if !ok {
				continue
			}
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			err := r.publish(pctx, payload)
			cancel()
			if err != nil {
				logger.Warn("broadcast: publish failed", "event", e.Name, "error", err)
			}
		}
	}
}

// receive hands messages from other processes to the local bus.
func (r *Relay) receive(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if e, ok := r.incoming([]byte(msg.Payload)); ok {
				r.bus.Deliver(e)
			}
		}
	}
}

// outgoing encodes a locally published event. Events that arrived from
// another process are not sent back.
func (r *Relay) outgoing(e event.Event) ([]byte, bool) {
	if e.Origin != "" && e.Origin != r.origin {
		return nil, false
	}
	e.Origin = r.origin
	payload, err := json.Marshal(e)
	if err != nil {
		logger.Warn("broadcast: encode failed", "event", e.Name, "error", err)
		return nil, false
	}
	return payload, true
}

// incoming decodes a channel message, dropping this process's own echoes.
func (r *Relay) incoming(payload []byte) (event.Event, bool) {
	var e event.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		logger.Warn("broadcast: dropped malformed message", "error", err)
		return event.Event{}, false
	}
	if e.Name == "" || e.Origin == "" || e.Origin == r.origin {
		return event.Event{}, false
	}
	return e, true
}
