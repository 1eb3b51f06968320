package app

import "sync"

// PendingSet tracks issue ids with an in-flight remote mutation, so views can
// render those cards in a pending state. Safe for concurrent use.
type PendingSet struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

// NewPendingSet constructs a new value for this package.
func NewPendingSet() *PendingSet {
	return &PendingSet{ids: map[int]struct{}{}}
}

// Add marks an issue pending.
func (p *PendingSet) Add(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids[id] = struct{}{}
}

// Remove clears an issue's pending mark.
func (p *PendingSet) Remove(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ids, id)
}

// Contains reports whether an issue is pending.
func (p *PendingSet) Contains(id int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ids[id]
	return ok
}

// Len returns the pending count.
func (p *PendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}
