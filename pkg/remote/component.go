package remote

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harun/oakplugin/pkg/toolregistry"
)

// ErrComponentNotFound is returned when no export has the requested name
var ErrComponentNotFound = errors.New("remote component not found")

// Component locates one exposed UI fragment inside a federated bundle
type Component struct {
	Name   string `json:"name"`   // Export name, e.g. "./translatorTool"
	Module string `json:"module"` // Federation container, e.g. "remoteOAKPlugin"
	Chunk  string `json:"chunk"`  // Source or chunk the export maps to
	Entry  string `json:"entry,omitempty"`
}

// State is the render state derived from Props
type State string

const (
	StatePending State = "pending"
	StateSettled State = "settled"
)

// Props is what the host passes to a rendered component
type Props struct {
	Input  interface{} `json:"input"`
	Output interface{} `json:"output"`
}

// State is pending until the tool output is available
func (p Props) State() State {
	if p.Output == nil {
		return StatePending
	}
	return StateSettled
}

// Resolver maps export names to components
type Resolver interface {
	Resolve(name string) (Component, error)
}

// NormalizeName accepts "translatorTool" as well as "./translatorTool"
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "./") {
		return name
	}
	return "./" + strings.TrimPrefix(name, "/")
}

// StaticResolver resolves from a fixed set of components
type StaticResolver struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewStaticResolver creates a resolver over components
func NewStaticResolver(components ...Component) *StaticResolver {
	r := &StaticResolver{components: make(map[string]Component, len(components))}
	for _, c := range components {
		r.Add(c)
	}
	return r
}

// Add registers or replaces a component
func (r *StaticResolver) Add(c Component) {
	c.Name = NormalizeName(c.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[c.Name] = c
}

// Resolve looks a component up by export name
func (r *StaticResolver) Resolve(name string) (Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[NormalizeName(name)]
	if !ok {
		return Component{}, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return c, nil
}

// VerifyExports returns every UI component referenced by a tool that does not resolve
func VerifyExports(resolver Resolver, summaries []toolregistry.Summary) []string {
	var missing []string
	for _, s := range summaries {
		if s.UIComponent == "" {
			continue
		}
		if _, err := resolver.Resolve(s.UIComponent); err != nil {
			missing = append(missing, s.UIComponent)
		}
	}
	sort.Strings(missing)
	return missing
}
