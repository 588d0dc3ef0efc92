package modifier

import (
	"log"
	"sync"
)

// Registry owns every modifier, keyed by id and grouped by tier in creation order.
// Creation order is the deterministic scan order of the tiered passes.
type Registry struct {
	mu    sync.Mutex
	byID  map[string]*Modifier
	tiers map[Tier][]*Modifier
}

// NewRegistry creates an empty registry.
//
// Returns:
//   - *Registry: the registry
func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[string]*Modifier),
		tiers: make(map[Tier][]*Modifier),
	}
}

// GetOrCreate returns the modifier registered under id, creating it in tier when absent.
// Repeated calls with the same id return the same instance; a differing tier on a later
// call is ignored and logged.
//
// Parameters:
//   - id: the modifier identity
//   - tier: the tier used when the modifier is created
//
// Returns:
//   - *Modifier: the registered modifier
func (r *Registry) GetOrCreate(id string, tier Tier) *Modifier {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.byID[id]; ok {
		if m.tier != tier {
			log.Printf("[Compositor] modifier %q already registered as %s, ignoring %s", id, m.tier, tier)
		}
		return m
	}
	m := newModifier(id, tier)
	r.byID[id] = m
	r.tiers[tier] = append(r.tiers[tier], m)
	return m
}

// Get returns the modifier registered under id.
func (r *Registry) Get(id string) (*Modifier, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	return m, ok
}

// Remove unregisters id. Lists that still mention it are pruned by the compositor.
//
// Returns:
//   - bool: false if id was not registered
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	list := r.tiers[m.tier]
	for i, candidate := range list {
		if candidate == m {
			r.tiers[m.tier] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	return true
}

// Tier returns the modifiers of one tier in creation order.
func (r *Registry) Tier(t Tier) []*Modifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Modifier(nil), r.tiers[t]...)
}

// Len returns the number of registered modifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
