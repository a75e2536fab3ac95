package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope delivered to subscribers.
type Event struct {
	ID      string
	Type    Type
	At      time.Time
	Payload any
}

// Handler processes a delivered event. A returned error is logged, never
// propagated to the publisher.
type Handler func(Event) error

// Bus is a synchronous in-process publish/subscribe bus. Handlers run on
// the publishing goroutine in registration order; there is no delivery
// guarantee beyond same-session subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Type][]*Subscription
	nextID int
	log    *slog.Logger
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		subs: make(map[Type][]*Subscription),
		log:  log,
	}
}

// Subscribe registers a handler for the given type and returns a handle
// the caller closes to stop receiving events.
func (b *Bus) Subscribe(t Type, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, t: t, id: b.nextID, fn: h}
	b.subs[t] = append(b.subs[t], sub)
	return sub
}

// Publish delivers a payload to every subscriber of the type. Handler
// errors are logged and do not stop delivery to later subscribers.
func (b *Bus) Publish(t Type, payload any) {
	ev := Event{
		ID:      uuid.NewString(),
		Type:    t,
		At:      time.Now(),
		Payload: payload,
	}

	b.mu.RLock()
	handlers := make([]*Subscription, len(b.subs[t]))
	copy(handlers, b.subs[t])
	b.mu.RUnlock()

	for _, sub := range handlers {
		if err := sub.fn(ev); err != nil {
			b.log.Error("event handler failed", "event_type", t, "event_id", ev.ID, "error", err)
		}
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.t]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.t] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Subscription is a disposable registration handle.
type Subscription struct {
	bus  *Bus
	t    Type
	id   int
	fn   Handler
	once sync.Once
}

// Close removes the subscription. Closing twice is a no-op.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s)
	})
}
