// Package events fans out the ledger and mining event lines to live
// subscribers such as websocket clients.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// subscriberBuffer is the number of events a subscriber can fall behind
// before events are dropped for it.
const subscriberBuffer = 100

// Events maintains the set of subscribers keyed by a unique id, usually the
// trace id of the request that opened the stream.
type Events struct {
	mu      sync.RWMutex
	subs    map[string]chan string
	dropped atomic.Uint64
}

// New constructs an event feed with no subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Handler returns an event handler for the ledger packages. Every event is
// formatted once, passed to record and published to the subscribers.
func (evt *Events) Handler(record func(s string)) func(v string, args ...any) {
	return func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		if record != nil {
			record(s)
		}
		evt.Publish(s)
	}
}

// Subscribe registers the id and returns the channel its events arrive on.
// Subscribing an existing id returns the same channel.
func (evt *Events) Subscribe(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, subscriberBuffer)
	evt.subs[id] = ch

	return ch
}

// Unsubscribe closes and removes the channel of the id.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Shutdown closes every subscriber channel, which ends the streams reading
// from them.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber with a full buffer misses the event and it is counted as
// dropped.
func (evt *Events) Publish(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
			evt.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Dropped returns the number of events subscribers missed since startup.
func (evt *Events) Dropped() uint64 {
	return evt.dropped.Load()
}
