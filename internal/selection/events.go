package selection

import (
	"fmt"
	"sync"
)

// Message is a typed reset notification consumed by the Synchronizer.
type Message interface {
	Name() string
}

// FiltersReset asks for every structural filter to return to its default.
type FiltersReset struct{}

// SearchCleared asks for the query and selection to be cleared.
type SearchCleared struct{}

// AllMarkersRequested asks for an unfiltered, unsearched view.
type AllMarkersRequested struct{}

func (FiltersReset) Name() string        { return "filters_reset" }
func (SearchCleared) Name() string       { return "search_cleared" }
func (AllMarkersRequested) Name() string { return "all_markers_requested" }

// ParseMessage maps a message name to its value.
func ParseMessage(name string) (Message, error) {
	switch name {
	case FiltersReset{}.Name():
		return FiltersReset{}, nil
	case SearchCleared{}.Name():
		return SearchCleared{}, nil
	case AllMarkersRequested{}.Name():
		return AllMarkersRequested{}, nil
	default:
		return nil, fmt.Errorf("selection: unknown message %q", name)
	}
}

// Bus delivers messages synchronously to its subscribers, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Message)
	order  []int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Message))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Message)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers msg. Subscribers run outside the bus lock.
func (b *Bus) Publish(msg Message) {
	b.mu.RLock()
	handlers := make([]func(Message), 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}
