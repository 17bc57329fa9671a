package events

import "sync"

// Bus fans out payload-free refresh signals. A subscriber that has not
// drained its previous signal is not sent another; pending signals coalesce.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan struct{}),
	}
}

// Subscribe registers a listener. The returned function unsubscribes and
// closes the channel; calling it more than once is safe.
func (b *Bus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish signals every subscriber without blocking. A nil Bus is a no-op.
func (b *Bus) Publish() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Already pending
		}
	}
}
