package verify

import (
	"errors"
	"fmt"
	"sort"
)

// Engine is the contract an audio effect must satisfy to be verified.
// Implementations are assumed stateful and non-reentrant; the sweep never
// calls them concurrently.
type Engine interface {
	// Prepare announces sample rate and maximum block size before any
	// processing.
	Prepare(sampleRate float64, blockSize int)
	// Reset clears all internal state.
	Reset()
	// ParameterCount returns the number of automatable parameters.
	ParameterCount() int
	// ParameterName returns the display name of parameter i.
	ParameterName(i int) string
	// SetParameter sets parameter i to a normalized value in [0, 1].
	SetParameter(i int, value float64)
	// Process mutates the block in place, one slice per channel.
	Process(block [][]float64)
}

// Factory creates a fresh engine instance. Returning an error (or a nil
// engine) marks every run of that engine invalid without aborting a sweep.
type Factory func() (Engine, error)

type registryEntry struct {
	name    string
	factory Factory
}

// Registry maps engine ids to display names and factories. It is populated
// once at startup and read-only afterwards.
type Registry struct {
	entries map[string]registryEntry
}

var (
	errDuplicateEngine = errors.New("verify: duplicate engine id")
	errEmptyEngineID   = errors.New("verify: empty engine id")
	errNilFactory      = errors.New("verify: nil engine factory")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register adds an engine factory under the given id.
func (r *Registry) Register(id, name string, factory Factory) error {
	if id == "" {
		return errEmptyEngineID
	}

	if factory == nil {
		return errNilFactory
	}

	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEngine, id)
	}

	if name == "" {
		name = id
	}

	r.entries[id] = registryEntry{name: name, factory: factory}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id, name string, factory Factory) {
	err := r.Register(id, name, factory)
	if err != nil {
		panic("verify registry: " + err.Error())
	}
}

// Name returns the display name for id, or id itself when unknown.
func (r *Registry) Name(id string) string {
	if e, ok := r.entries[id]; ok {
		return e.name
	}
	return id
}

// Lookup returns the factory for id, or nil.
func (r *Registry) Lookup(id string) Factory {
	return r.entries[id].factory
}

// IDs returns all registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
