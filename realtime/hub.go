package realtime

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	// subscriberBuffer is the channel depth of a per-topic subscription.
	subscriberBuffer = 64
	// firehoseBuffer is the channel depth of a SubscribeAll subscription,
	// which sees the traffic of every topic at once.
	firehoseBuffer = 256
)

// Hub is an in-process publish/subscribe fan-out keyed by topic name.
// Publishing never blocks: a subscriber that cannot keep up has the
// event dropped and the drop counted.
type Hub struct {
	log *zap.Logger

	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	all    map[*Subscription]struct{}
	closed bool

	dropped atomic.Uint64
}

// Subscription is one receiver's handle on a topic. Events arrive on C
// until Close is called or the hub shuts down, after which C is closed.
type Subscription struct {
	// C delivers the topic's events in publish order.
	C <-chan Event

	hub      *Hub
	ch       chan Event
	topic    string
	firehose bool
	// closed is guarded by hub.mu
	closed bool
}

// NewHub creates an empty hub that logs dropped events to the given
// logger.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:  log,
		subs: map[string]map[*Subscription]struct{}{},
		all:  map[*Subscription]struct{}{},
	}
}

// Subscribe registers a new receiver for a single topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{
		C:     ch,
		hub:   h,
		ch:    ch,
		topic: topic,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.closed = true
		close(ch)
		return sub
	}
	set, ok := h.subs[topic]
	if !ok {
		set = map[*Subscription]struct{}{}
		h.subs[topic] = set
	}
	set[sub] = struct{}{}
	return sub
}

// SubscribeAll registers a receiver for every topic's events. The socket
// layer uses this to bridge the hub onto connected clients.
func (h *Hub) SubscribeAll() *Subscription {
	ch := make(chan Event, firehoseBuffer)
	sub := &Subscription{
		C:        ch,
		hub:      h,
		ch:       ch,
		firehose: true,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.closed = true
		close(ch)
		return sub
	}
	h.all[sub] = struct{}{}
	return sub
}

// Publish delivers the event to every subscriber of its topic and to
// every firehose subscriber. It never blocks and is safe to call from
// any goroutine.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for sub := range h.subs[evt.Topic] {
		h.offer(sub, evt)
	}
	for sub := range h.all {
		h.offer(sub, evt)
	}
}

// offer hands the event to one subscriber without blocking. The caller
// holds at least a read lock, which keeps the channel open for the
// duration of the send.
func (h *Hub) offer(sub *Subscription, evt Event) {
	select {
	case sub.ch <- evt:
	default:
		total := h.dropped.Add(1)
		h.log.Warn("realtime: dropping event for slow subscriber",
			zap.String("topic", evt.Topic),
			zap.String("table", evt.Table),
			zap.Uint64("dropped_total", total),
		)
	}
}

// Dropped reports how many events have been discarded because a
// subscriber's buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close shuts the hub down, closing every subscription channel. Further
// publishes and subscribes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for sub := range set {
			sub.closed = true
			close(sub.ch)
		}
	}
	for sub := range h.all {
		sub.closed = true
		close(sub.ch)
	}
	h.subs = map[string]map[*Subscription]struct{}{}
	h.all = map[*Subscription]struct{}{}
}

// Close releases the subscription. Its channel is closed and no further
// events are delivered. Closing twice is harmless.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.firehose {
		delete(h.all, s)
	} else if set, ok := h.subs[s.topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.topic)
		}
	}
	close(s.ch)
}
