// Package overlay holds user-editable coefficient overrides layered over the
// compiled stat-mapping defaults.
package overlay

import (
	"sort"
	"strings"
)

// AnimalPrefix marks keys that belong to the animal coefficient table.
const AnimalPrefix = "ANIMAL_"

// IsAnimalKey reports whether key addresses the animal table.
func IsAnimalKey(key string) bool {
	return strings.HasPrefix(key, AnimalPrefix)
}

// Overlay is the ConfigurationOverlay. The value map always holds every
// general default key and, while animal stats are enabled, every animal
// default key; Set may add further keys.
//
// Not safe for concurrent use.
type Overlay struct {
	general       map[string]float64
	animal        map[string]float64
	values        map[string]float64
	animalEnabled bool
}

// New creates an overlay seeded from the compiled defaults.
//
// Postcondition: Snapshot() equals general, plus animal when animalEnabled.
func New(general, animal map[string]float64, animalEnabled bool) *Overlay {
	o := &Overlay{
		general:       copyMap(general),
		animal:        copyMap(animal),
		animalEnabled: animalEnabled,
	}
	o.ResetAll()
	return o
}

// Get returns the value stored under key, or def when absent.
func (o *Overlay) Get(key string, def float64) float64 {
	if v, ok := o.values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key.
func (o *Overlay) Set(key string, value float64) {
	o.values[key] = value
}

// ResetAll discards every override and re-seeds from the compiled defaults.
func (o *Overlay) ResetAll() {
	o.values = copyMap(o.general)
	if o.animalEnabled {
		for k, v := range o.animal {
			o.values[k] = v
		}
	}
}

// AnimalEnabled reports whether animal keys are present.
func (o *Overlay) AnimalEnabled() bool { return o.animalEnabled }

// SetAnimalEnabled adds the animal default keys when enabled and strips every
// ANIMAL_ key when disabled. General keys are never touched.
func (o *Overlay) SetAnimalEnabled(enabled bool) {
	if enabled == o.animalEnabled {
		return
	}
	o.animalEnabled = enabled
	if enabled {
		for k, v := range o.animal {
			if _, ok := o.values[k]; !ok {
				o.values[k] = v
			}
		}
		return
	}
	for k := range o.values {
		if IsAnimalKey(k) {
			delete(o.values, k)
		}
	}
}

// Snapshot copies the full value map.
func (o *Overlay) Snapshot() map[string]float64 {
	return copyMap(o.values)
}

// Overrides returns only the entries that differ from their compiled default
// or have no default at all.
func (o *Overlay) Overrides() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range o.values {
		def, ok := o.general[k]
		if !ok {
			def, ok = o.animal[k]
		}
		if !ok || def != v {
			out[k] = v
		}
	}
	return out
}

// Load applies values over the current state. Animal keys are skipped while
// animal stats are disabled.
func (o *Overlay) Load(values map[string]float64) {
	for k, v := range values {
		if IsAnimalKey(k) && !o.animalEnabled {
			continue
		}
		o.values[k] = v
	}
}

// Keys returns the stored keys in sorted order.
func (o *Overlay) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
