package navigation

import (
	"sync"
)

// History is an in-memory Router and Navigator with a back stack.
// Subscribers are notified synchronously, outside the lock.
type History struct {
	mu      sync.Mutex
	entries []Location
	nextID  int
	subs    map[int]func(Location)
}

// NewHistory starts a history at the given path
func NewHistory(start string) *History {
	return &History{
		entries: []Location{ParseLocation(start)},
		subs:    make(map[int]func(Location)),
	}
}

// Location implements Router
func (h *History) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Subscribe implements Router
func (h *History) Subscribe(fn func(Location)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Navigate implements Navigator. Replace overwrites the current entry.
func (h *History) Navigate(r Request) {
	loc := ParseLocation(r.URL())

	h.mu.Lock()
	if r.Replace {
		h.entries[len(h.entries)-1] = loc
	} else {
		h.entries = append(h.entries, loc)
	}
	h.mu.Unlock()

	h.notify(loc)
}

// Back pops the current entry. It reports false when there is nothing to go back to.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.entries) < 2 {
		h.mu.Unlock()
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	loc := h.entries[len(h.entries)-1]
	h.mu.Unlock()

	h.notify(loc)
	return true
}

// Entries returns a copy of the back stack, oldest first
func (h *History) Entries() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Location, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) notify(loc Location) {
	h.mu.Lock()
	subs := make([]func(Location), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(loc)
	}
}
