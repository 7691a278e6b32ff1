package inform

import (
	"sync"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
)

// Previews routes inform events to the reading previews bound to them
type Previews struct {
	mu       sync.RWMutex
	bindings []*attrsync.FieldBinding
}

// NewPreviews creates a router for the previews of bindings.
// Bindings without a preview are ignored.
func NewPreviews(bindings ...*attrsync.FieldBinding) *Previews {
	p := &Previews{}
	p.Add(bindings...)
	return p
}

// Add registers more bindings
func (p *Previews) Add(bindings ...*attrsync.FieldBinding) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bindings {
		if b != nil && b.Preview != nil {
			p.bindings = append(p.bindings, b)
		}
	}
}

// Apply updates every preview bound to ev.ID and returns the updated bindings.
// The battery threshold field follows its reading as it does after a commit.
func (p *Previews) Apply(ev Event) []*attrsync.FieldBinding {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var updated []*attrsync.FieldBinding
	for _, b := range p.bindings {
		if !b.Preview.Update(ev.ID, ev.Value) {
			continue
		}
		if b.Dependent != nil {
			b.Dependent.SetVisible(attrsync.ShowsBatteryThreshold(ev.Value))
		}
		updated = append(updated, b)
	}
	return updated
}

// Len returns the number of registered previews
func (p *Previews) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.bindings)
}
