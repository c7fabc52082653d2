package schema

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry holds all block kinds known to a single engine instance.
type Registry struct {
	kinds map[string]*Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds a kind to the registry. Registering the same ID twice is a
// programmer error and panics, as is a kind without a processor.
func (r *Registry) Register(kind *Kind) {
	if kind.ID == "" {
		panic("block kind must have a non-empty ID")
	}
	if kind.Run == nil {
		panic(fmt.Sprintf("block kind '%s' has no processor", kind.ID))
	}
	if _, exists := r.kinds[kind.ID]; exists {
		panic(fmt.Sprintf("block kind '%s' already registered", kind.ID))
	}
	slog.Debug("Registering block kind.", "kind", kind.ID)
	r.kinds[kind.ID] = kind
}

// Get returns the kind with the given ID, or an *UnknownKindError.
func (r *Registry) Get(id string) (*Kind, error) {
	kind, ok := r.kinds[id]
	if !ok {
		return nil, &UnknownKindError{Kind: id}
	}
	return kind, nil
}

// List returns all registered kinds sorted by ID, letting a host render a
// block palette purely from schema.
func (r *Registry) List() []*Kind {
	out := make([]*Kind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
