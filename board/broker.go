package board

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"taskflow/domain"
)

// broker fans board events out to subscribers. It is safe for concurrent use
// so subscriptions can be cancelled from any goroutine.
type broker struct {
	log *log.Logger

	mu     sync.Mutex
	next   int
	subs   map[int]chan domain.BoardEvent
	closed bool
}

func newBroker(logger *log.Logger) *broker {
	return &broker{log: logger, subs: make(map[int]chan domain.BoardEvent)}
}

func (b *broker) subscribe(buffer int) (<-chan domain.BoardEvent, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan domain.BoardEvent, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// publish never blocks; a subscriber whose buffer is full misses the event.
func (b *broker) publish(ev domain.BoardEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.WithFields(log.Fields{
				"subscriber": id,
				"event":      ev.Type,
				"task":       ev.TaskID,
			}).Warn("board subscriber is full; event dropped")
		}
	}
}

func (b *broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
