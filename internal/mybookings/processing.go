package mybookings

import (
	"sync"

	"golang.org/x/exp/maps"
)

// ProcessingMap records which booking ids have an action in flight. An id maps to true
// only between the start and the settlement of its action.
type ProcessingMap struct {
	mu    sync.Mutex
	items map[string]bool
}

func NewProcessingMap() *ProcessingMap {
	return &ProcessingMap{items: make(map[string]bool)}
}

// TryStart marks id as processing. It reports false, leaving the map unchanged, when id
// is already processing.
func (p *ProcessingMap) TryStart(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.items[id] {
		return false
	}
	p.items[id] = true
	return true
}

// Finish marks id as idle.
func (p *ProcessingMap) Finish(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[id] = false
}

func (p *ProcessingMap) Processing(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items[id]
}

// Snapshot returns a copy safe to read without the lock.
func (p *ProcessingMap) Snapshot() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.items)
}
