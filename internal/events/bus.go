package events

import (
	"sync"

	"github.com/PulseWire/pulsewire-demo/pkg/sdk"
)

// Bus is the in-process publish/subscribe hub. The broadcast endpoint and
// tool executions publish here; websocket clients subscribe. Slow
// subscribers drop events rather than block the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan sdk.Event]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[chan sdk.Event]struct{}),
	}
}

func (b *Bus) Subscribe() chan sdk.Event {
	ch := make(chan sdk.Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus) Unsubscribe(ch chan sdk.Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(ev sdk.Event) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	b.mu.RUnlock()
}
