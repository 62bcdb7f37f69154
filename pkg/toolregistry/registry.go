package toolregistry

import (
	"fmt"

	"github.com/harun/oakplugin/pkg/schema"
)

// Registry is the frozen set of tools. It has no mutating methods and is safe
// for concurrent reads without locking.
type Registry struct {
	entries []*entry
	index   map[string]*entry
}

// List returns the tool catalog in registration order
func (r *Registry) List() []Summary {
	// Summaries are rebuilt per call so callers never share a schema document
	out := make([]Summary, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.summary()
	}
	return out
}

// Get retrieves a tool by identifier
func (r *Registry) Get(identifier string) (Descriptor, error) {
	e, ok := r.index[identifier]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownTool, identifier)
	}

	d := e.descriptor
	d.Params = e.compiled.Fields()
	return d, nil
}

// Has reports whether identifier is registered
func (r *Registry) Has(identifier string) bool {
	_, ok := r.index[identifier]
	return ok
}

// Validator returns the compiled schema for a tool
func (r *Registry) Validator(identifier string) (*schema.Compiled, error) {
	e, ok := r.index[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, identifier)
	}
	return e.compiled, nil
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return len(r.entries)
}
