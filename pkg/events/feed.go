package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Feed is an in-process subscription hub. Delivery never blocks: an event is
// dropped for a subscriber whose buffer is full.
type Feed struct {
	subs   map[int]chan Event
	nextID int
	sync.RWMutex
}

func NewFeed() *Feed {
	return &Feed{
		subs:   make(map[int]chan Event),
		nextID: 1,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	f.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan Event, buffer)
	f.subs[id] = ch
	f.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.Lock()
			delete(f.subs, id)
			f.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Len is the number of active subscribers.
func (f *Feed) Len() int {
	f.RLock()
	defer f.RUnlock()
	return len(f.subs)
}

func (f *Feed) Publish(e Event) {
	f.RLock()
	defer f.RUnlock()

	for id, ch := range f.subs {
		select {
		case ch <- e:
		default:
			log.WithFields(log.Fields{
				"subscriber": id,
				"type":       e.Type,
			}).Warn("feed dropped event for slow subscriber")
		}
	}
}
