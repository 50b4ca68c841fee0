// Package events fans out Random notifications to subscribers.
package events

import (
	"sync"
	"sync/atomic"

	"PRNG/auditlog"
)

// Name is the event name carried by every notification.
const Name = "Random"

// DefaultBuffer is the per-subscriber queue depth used when Subscribe is
// given a non-positive size.
const DefaultBuffer = 64

// Feed delivers every appended record to all current subscribers. Publish
// never blocks: a subscriber whose queue is full misses that record.
type Feed struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]chan auditlog.Record
	dropped atomic.Uint64
	closed  bool
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan auditlog.Record)}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes its channel; it is safe to call more than once.
func (f *Feed) Subscribe(buffer int) (<-chan auditlog.Record, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan auditlog.Record, buffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
		})
	}
}

// Publish hands each subscriber its own copy of rec and returns how many
// received it.
func (f *Feed) Publish(rec auditlog.Record) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	delivered := 0
	for _, ch := range f.subs {
		select {
		case ch <- rec.Clone():
			delivered++
		default:
			f.dropped.Add(1)
		}
	}
	return delivered
}

// Dropped is the number of deliveries skipped because a queue was full.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

// Subscribers returns the number of active subscribers.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close ends every subscription. Later subscribers receive a closed channel.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
