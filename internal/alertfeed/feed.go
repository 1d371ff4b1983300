package alertfeed

import (
	"sync"

	"surveillance-dashboard/internal/model"
)

const DefaultCapacity = 50

type State int

const (
	Open State = iota
	Collapsed
)

func (s State) String() string {
	if s == Collapsed {
		return "collapsed"
	}
	return "open"
}

// Feed is the newest-first alert list of the sidebar. It holds at most
// capacity alerts, the oldest are evicted first.
type Feed struct {
	mu       sync.RWMutex
	items    []model.Event
	capacity int
	state    State
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, state: Open}
}

// Reset replaces the content with events, given newest first.
func (f *Feed) Reset(events []model.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(events) > f.capacity {
		events = events[:f.capacity]
	}
	f.items = append([]model.Event(nil), events...)
}

// Add puts events, given newest first, in front of the feed. Events already
// present by id are skipped. It returns how many were added.
func (f *Feed) Add(events ...model.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{}, len(f.items))
	for _, e := range f.items {
		seen[e.ID] = struct{}{}
	}

	fresh := make([]model.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0
	}

	f.items = append(fresh, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
	return len(fresh)
}

func (f *Feed) Items() []model.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]model.Event{}, f.items...)
}

func (f *Feed) Cap() int {
	return f.capacity
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Toggle switches between open and collapsed and returns the new state.
func (f *Feed) Toggle() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Open {
		f.state = Collapsed
	} else {
		f.state = Open
	}
	return f.state
}

func (f *Feed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}
