package component

import (
	"sort"
	"strings"
	"sync"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/dom"
)

// Factory builds the Bindable for a node of a registered kind. reg is the
// registry the kind was resolved from, so factories can enable composition.
type Factory func(node *dom.Node, reg *Registry) Bindable

// Define returns a Factory that builds a Component with opts. The resulting
// components resolve nested kinds from the same registry.
func Define(opts ...Option) Factory {
	return func(node *dom.Node, reg *Registry) Bindable {
		all := make([]Option, 0, len(opts)+1)
		all = append(all, WithRegistry(reg))
		all = append(all, opts...)
		return New(node, all...)
	}
}

// Registry maps component kinds (tag names) to factories. It is owned by
// the application that creates it; there is no process-wide registry.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Factory)}
}

// Register adds a kind. Registering a kind twice is a config fault (B001).
func (r *Registry) Register(kind string, factory Factory) error {
	kind = normalizeKind(kind)
	if kind == "" || factory == nil {
		return binderrors.New("B001").
			WithDetail("kind name and factory are required").
			WithSuggestion("Register a non-empty tag name with a non-nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		return binderrors.New("B001").
			WithDetailf("kind %q", kind).
			WithSuggestion("Register each kind once, at startup")
	}
	r.kinds[kind] = factory
	return nil
}

// MustRegister is like Register but panics on error. Intended for startup.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory of kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.kinds[normalizeKind(kind)]
	return f, ok
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.Lookup(kind)
	return ok
}

// New builds a Bindable of kind around node.
func (r *Registry) New(kind string, node *dom.Node) (Bindable, error) {
	f, ok := r.Lookup(kind)
	if !ok {
		return nil, binderrors.New("B004").WithDetailf("kind %q", kind)
	}
	return f(node, r), nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
