// Package feed models the live payment change feed as a local projection
// that is provisional until confirmed by the authoritative store.
package feed

import (
	"sort"
	"sync"
	"time"
)

// PaymentEvent is one observed change to a payment record.
type PaymentEvent struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Projection is an id-keyed last-writer-wins view over a stream of payment
// events. Duplicate or out-of-order arrivals of the same record collapse:
// only an event with a strictly newer updated_at replaces the held state.
type Projection struct {
	mu     sync.Mutex
	latest map[string]PaymentEvent
}

func NewProjection() *Projection {
	return &Projection{latest: make(map[string]PaymentEvent)}
}

// Apply merges ev into the projection and reports whether it advanced the
// held state. Stale and duplicate events return false and change nothing.
func (p *Projection) Apply(ev PaymentEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	held, ok := p.latest[ev.ID]
	if ok && !ev.UpdatedAt.After(held.UpdatedAt) {
		return false
	}
	p.latest[ev.ID] = ev
	return true
}

// Snapshot returns the live (non-deleted) records, newest update first.
func (p *Projection) Snapshot() []PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PaymentEvent, 0, len(p.latest))
	for _, ev := range p.latest {
		if ev.Deleted {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Len reports how many record ids the projection has observed, deleted ones
// included.
func (p *Projection) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.latest)
}
