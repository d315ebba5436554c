package service

import "sync"

// inflightGuard enforces at most one in-flight mutation per payment id. It
// replaces UI-side debouncing with explicit request de-duplication.
type inflightGuard struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{ids: make(map[string]struct{})}
}

// acquire reserves id, returning false if a mutation for it is already
// running.
func (g *inflightGuard) acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.ids[id]; busy {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

func (g *inflightGuard) release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}
