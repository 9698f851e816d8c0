package entity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live entity profiles by ID and by faction.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	profiles    map[string]*Profile
	factionSets map[string]map[string]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles:    make(map[string]*Profile),
		factionSets: make(map[string]map[string]bool),
	}
}

// Add registers p, assigning a random ID when p.ID is empty.
//
// Precondition: p must be non-nil.
// Postcondition: p.ID is non-empty and unique within the registry.
func (r *Registry) Add(p *Profile) (*Profile, error) {
	if p == nil {
		return nil, fmt.Errorf("entity.Registry.Add: profile must not be nil")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.ID]; exists {
		return nil, fmt.Errorf("entity %q already registered", p.ID)
	}
	r.profiles[p.ID] = p
	r.index(p)
	return p, nil
}

func (r *Registry) index(p *Profile) {
	if p.FactionID == "" {
		return
	}
	if r.factionSets[p.FactionID] == nil {
		r.factionSets[p.FactionID] = make(map[string]bool)
	}
	r.factionSets[p.FactionID][p.ID] = true
}

func (r *Registry) unindex(p *Profile) {
	if fs, ok := r.factionSets[p.FactionID]; ok {
		delete(fs, p.ID)
		if len(fs) == 0 {
			delete(r.factionSets, p.FactionID)
		}
	}
}

// Remove deletes the profile with the given ID.
//
// Postcondition: Returns an error if the profile is not found.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("entity %q not found", id)
	}
	r.unindex(p)
	delete(r.profiles, id)
	return nil
}

// Get returns the profile with the given ID.
//
// Postcondition: Returns (p, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok
}

// Transfer moves an entity into factionID with the given relation, as when
// a prisoner is recruited.
//
// Precondition: id must identify an existing profile.
func (r *Registry) Transfer(id, factionID string, rel Relation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("entity %q not found", id)
	}
	r.unindex(p)
	p.FactionID = factionID
	p.Relation = rel
	r.index(p)
	return nil
}

// InFaction returns a snapshot of the profiles in factionID sorted by ID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (r *Registry) InFaction(factionID string) []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Profile, 0, len(r.factionSets[factionID]))
	for id := range r.factionSets[factionID] {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	sortByID(out)
	return out
}

// WithRelation returns a snapshot of the profiles with relation rel sorted by ID.
func (r *Registry) WithRelation(rel Relation) []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Profile, 0)
	for _, p := range r.profiles {
		if p.Relation == rel {
			out = append(out, p)
		}
	}
	sortByID(out)
	return out
}

// All returns a snapshot of every profile sorted by ID.
func (r *Registry) All() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sortByID(out)
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func sortByID(ps []*Profile) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}
