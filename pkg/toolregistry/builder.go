package toolregistry

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/harun/oakplugin/pkg/schema"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Builder collects descriptors before the registry is frozen.
// It is not safe for concurrent use; tools are registered once at startup.
type Builder struct {
	entries []*entry
	index   map[string]int
	errs    []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]int),
	}
}

// Register validates a descriptor and adds it. A rejected descriptor also makes Build fail.
func (b *Builder) Register(d Descriptor) error {
	if err := b.register(d); err != nil {
		b.errs = append(b.errs, err)
		return err
	}
	return nil
}

func (b *Builder) register(d Descriptor) error {
	if !identifierPattern.MatchString(d.Identifier) {
		return fmt.Errorf("%w: identifier %q must match %s", ErrInvalidDescriptor, d.Identifier, identifierPattern)
	}

	if d.Execute == nil {
		return fmt.Errorf("%w: tool %s has no handler", ErrInvalidDescriptor, d.Identifier)
	}

	if _, exists := b.index[d.Identifier]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, d.Identifier)
	}

	compiled, err := schema.Compile(d.Params)
	if err != nil {
		return fmt.Errorf("%w: tool %s: %v", ErrInvalidDescriptor, d.Identifier, err)
	}

	// Copy the params so later edits to the caller's slice cannot leak in
	d.Params = compiled.Fields()

	b.index[d.Identifier] = len(b.entries)
	b.entries = append(b.entries, &entry{descriptor: d, compiled: compiled})

	return nil
}

// Build freezes the registered tools. It fails if any registration was rejected.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("registry has %d rejected tool(s): %w", len(b.errs), errors.Join(b.errs...))
	}

	entries := make([]*entry, len(b.entries))
	copy(entries, b.entries)

	index := make(map[string]*entry, len(entries))
	for _, e := range entries {
		index[e.descriptor.Identifier] = e
	}

	return &Registry{
		entries: entries,
		index:   index,
	}, nil
}
