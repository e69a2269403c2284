package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// ErrNoSubscribers is returned by Publish when no connection is joined to
// the channel. Callers that only need best-effort delivery may ignore it.
var ErrNoSubscribers = errors.New("no subscribers on channel")

// Publisher is the capability the notification dispatcher needs from the
// real-time layer. It is injected at construction so the dispatcher can be
// tested with a fake transport.
type Publisher interface {
	// Publish sends an event to every connection currently joined to the
	// channel. It is fire-and-forget: it never blocks on a slow consumer
	// and gives no delivery acknowledgement.
	Publish(channel, event string, payload any) error
}

// Message is one event as seen by a subscriber.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Subscriber is one live connection. Events arrive on C; a subscriber whose
// buffer is full at publish time misses that event.
type Subscriber struct {
	C chan Message
}

// NewSubscriber creates a subscriber with the given event buffer size.
func NewSubscriber(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 1
	}
	return &Subscriber{C: make(chan Message, buffer)}
}

// Hub is the subscription registry: it tracks which connections are joined
// to which channels and fans published events out to them.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscriber]struct{}
	logger   *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		channels: make(map[string]map[*Subscriber]struct{}),
		logger:   logger.With(slog.String("component", "realtime_hub")),
	}
}

// Join adds the subscriber to the channel. Joining twice is a no-op.
func (h *Hub) Join(sub *Subscriber, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.channels[channel] = subs
	}
	subs[sub] = struct{}{}

	h.logger.Debug("subscriber joined channel",
		slog.String("channel", channel),
		slog.Int("channel_size", len(subs)))
}

// Leave removes the subscriber from the channel. Leaving a channel the
// subscriber never joined is a no-op.
func (h *Hub) Leave(sub *Subscriber, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.channels, channel)
	}

	h.logger.Debug("subscriber left channel", slog.String("channel", channel))
}

// LeaveAll removes the subscriber from every channel it is joined to.
// Called when a connection closes.
func (h *Hub) LeaveAll(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, subs := range h.channels {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.channels, channel)
			}
		}
	}
}

// Publish implements Publisher. The payload is marshaled once and delivered
// to every joined subscriber whose buffer has room; full buffers drop the
// event rather than block.
func (h *Hub) Publish(channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := Message{Event: event, Payload: raw}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.channels[channel]))
	for sub := range h.channels[channel] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	if len(subs) == 0 {
		return ErrNoSubscribers
	}

	dropped := 0
	for _, sub := range subs {
		select {
		case sub.C <- msg:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		h.logger.Warn("dropped event for slow subscribers",
			slog.String("channel", channel),
			slog.String("event", event),
			slog.Int("dropped", dropped),
			slog.Int("subscribers", len(subs)))
	}

	return nil
}
