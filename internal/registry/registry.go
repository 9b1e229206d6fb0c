// Package registry tracks the named hazard layers and their visibility
// toggle state across fetches.
package registry

import (
	"sync"

	"github.com/uavchum/uavchum/internal/hazard"
)

// Registry is a concurrency-safe store of hazard layers. Each feed
// owns exactly one named layer slot; replacement is atomic so partially
// received data is never partially applied.
type Registry struct {
	mu sync.RWMutex

	layers map[string]hazard.Layer
	// toggles holds explicit user overrides; layers without an entry
	// fall back to the default visibility rule.
	toggles map[string]bool
}

// New creates a Registry seeded with the always-offered layers, which
// are listed even while empty because their feeds populate
// asynchronously.
func New() *Registry {
	r := &Registry{
		layers:  make(map[string]hazard.Layer),
		toggles: make(map[string]bool),
	}
	for _, key := range hazard.AlwaysOfferedLayers {
		r.layers[key] = hazard.NewLayer(key)
	}
	return r
}

// Replace swaps the named layer's feature set atomically. The previous
// feature set is discarded in full; features are never merged.
func (r *Registry) Replace(layer hazard.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers[layer.Key] = layer
}

// ReplaceAll swaps every location-bound layer in one step: all known
// layers except the always-offered feeds are dropped and the given set
// installed. Used on location change so stale features from the prior
// location never leak into the new view. The radar layer is global and
// carries its current frames across; traffic and lightning are bound to
// the old center and re-seed empty.
func (r *Registry) ReplaceAll(layers map[string]hazard.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make(map[string]hazard.Layer, len(layers)+len(hazard.AlwaysOfferedLayers))
	for _, key := range hazard.AlwaysOfferedLayers {
		kept[key] = hazard.NewLayer(key)
	}
	if radar, ok := r.layers[hazard.LayerRadar]; ok {
		kept[hazard.LayerRadar] = radar
	}
	for key, l := range layers {
		kept[key] = l
	}
	r.layers = kept
}

// Layer returns the named layer. The second return value is false for
// unknown keys.
func (r *Registry) Layer(key string) (hazard.Layer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[key]
	return l, ok
}

// Layers returns a copy of the current layer set.
func (r *Registry) Layers() map[string]hazard.Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]hazard.Layer, len(r.layers))
	for k, l := range r.layers {
		out[k] = l
	}
	return out
}

// SetVisible records a user toggle for a layer.
func (r *Registry) SetVisible(key string, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles[key] = visible
}

// Visible reports whether a layer should currently render. Without an
// explicit toggle, a layer defaults to visible when it has at least one
// feature; always-offered layers are visible by default even while
// empty.
func (r *Registry) Visible(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visibleLocked(key)
}

func (r *Registry) visibleLocked(key string) bool {
	if v, ok := r.toggles[key]; ok {
		return v
	}
	l, ok := r.layers[key]
	if !ok {
		return false
	}
	if len(l.Features) > 0 {
		return true
	}
	for _, always := range hazard.AlwaysOfferedLayers {
		if key == always {
			return true
		}
	}
	return false
}

// ToggleState returns the visibility of every known layer.
func (r *Registry) ToggleState() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(r.layers))
	for key := range r.layers {
		out[key] = r.visibleLocked(key)
	}
	return out
}

// ResetToggles clears all user overrides, restoring default visibility.
func (r *Registry) ResetToggles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles = make(map[string]bool)
}
