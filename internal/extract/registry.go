package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// Registry holds the available extractors keyed by name.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
	}
}

// Register adds an extractor under its own name.
// Panics if the extractor is nil or the name is already taken, both are
// programming errors.
func (r *Registry) Register(e Extractor) {
	if e == nil {
		panic("extractor cannot be nil")
	}
	name := e.Name()
	if name == "" {
		panic("extractor name cannot be empty")
	}
	if _, exists := r.extractors[name]; exists {
		panic(fmt.Sprintf("extractor %q already registered", name))
	}
	r.extractors[name] = e
}

// Get returns the extractor registered under name.
func (r *Registry) Get(name string) (Extractor, error) {
	e, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			datalad.ErrUnknownExtractor, name, strings.Join(r.Names(), ", "))
	}
	return e, nil
}

// Names returns the registered extractor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
