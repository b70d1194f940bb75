// Package bus implements C8, the fan-out bus between the normalizer and
// every consumer of the event stream: the append-only sink storage (C9
// wires this) and any number of streaming subscribers such as a live TUI.
// The sink gets guaranteed, ordered delivery; streaming subscribers get
// best-effort delivery that drops the oldest buffered event rather than
// blocking the normalizer, per spec §5's bounded-buffer requirement.
//
// Grounded on the teacher's WSManager
// (internal/api/websocket.go): a single-goroutine register/unregister/
// broadcast loop with a per-client buffered channel that is dropped
// (closed and removed) when full. This bus keeps a slow subscriber
// instead of disconnecting it, trading the teacher's "drop the client"
// policy for "drop its oldest event", since a workflow replay tool
// cannot tolerate a silently vanished subscriber mid-recording.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/louis030195/bigbrother/internal/event"
)

// DefaultCapacity is the default per-subscriber channel depth.
const DefaultCapacity = 256

// Subscription is a live handle to a streaming subscriber.
type Subscription struct {
	id      uint64
	C       <-chan event.Event
	dropped *uint64
}

// Dropped returns the number of events this subscription has lost to
// overflow since it was created.
func (s *Subscription) Dropped() uint64 {
	return atomic.LoadUint64(s.dropped)
}

type subscriber struct {
	id      uint64
	ch      chan event.Event
	dropped uint64
}

// Bus fans a single Publish out to a guaranteed sink and any number of
// best-effort streaming subscribers.
type Bus struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]*subscriber
	closed  bool

	sink       chan event.Event
	sinkClosed chan struct{}
}

// New creates a Bus with a guaranteed-delivery sink channel of the given
// capacity. The sink channel must be drained continuously; Publish blocks
// until the sink accepts each event, so a stalled sink stalls recording.
func New(sinkCapacity int) *Bus {
	return &Bus{
		subs:       make(map[uint64]*subscriber),
		sink:       make(chan event.Event, sinkCapacity),
		sinkClosed: make(chan struct{}),
	}
}

// Sink returns the guaranteed-delivery channel. There is exactly one
// sink per bus, matching spec §4.8's single append-only log per session.
func (b *Bus) Sink() <-chan event.Event {
	return b.sink
}

// Subscribe registers a new best-effort streaming subscriber with the
// given buffer capacity.
func (b *Bus) Subscribe(capacity int) *Subscription {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{id: id, ch: make(chan event.Event, capacity)}
	b.subs[id] = sub

	return &Subscription{id: id, C: sub.ch, dropped: &sub.dropped}
}

// Unsubscribe removes a streaming subscriber and closes its channel.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[s.id]
	if !ok {
		return
	}
	delete(b.subs, s.id)
	close(sub.ch)
}

// Publish fans e out to every streaming subscriber (best-effort,
// drop-oldest-on-overflow) and to the sink (guaranteed, blocking). It
// must be called from a single producer goroutine — the normalizer — to
// preserve per-consumer ordering.
func (b *Bus) Publish(e event.Event) {
	b.mu.Lock()
	closed := b.closed
	subs := make([]*subscriber, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	if closed {
		return
	}

	for _, sub := range subs {
		select {
		case sub.ch <- e:
		default:
			// Drop the oldest buffered event to make room, rather than the
			// newest: a consumer catching up should see the freshest state.
			select {
			case <-sub.ch:
				atomic.AddUint64(&sub.dropped, 1)
			default:
			}
			select {
			case sub.ch <- e:
			default:
				atomic.AddUint64(&sub.dropped, 1)
			}
		}
	}

	select {
	case b.sink <- e:
	case <-b.sinkClosed:
	}
}

// Close stops accepting publishes and closes every subscriber channel and
// the sink channel. Publish becomes a no-op after Close.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*subscriber)
	b.mu.Unlock()

	close(b.sinkClosed)
	close(b.sink)
	for _, sub := range subs {
		close(sub.ch)
	}
}
