package method

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages a named collection of betting methods that can be looked
// up at runtime. It is safe for concurrent use. The registry is explicitly
// constructed and passed in by the host application; the core holds no
// package-level singleton.
type Registry struct {
	methods map[string]Method
	mu      sync.RWMutex
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		methods: make(map[string]Method),
	}
}

// DefaultRegistry returns a registry with every built-in method registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewFibonacci())
	r.Register(NewFibonacciInverse())
	r.Register(NewFibonacciAdvanced())
	r.Register(NewMartingale())
	r.Register(NewParoli())
	r.Register(NewDAlembert())
	r.Register(NewLabouchere())
	r.Register(NewJamesBond())
	return r
}

// Register adds a method to the registry under its own name. If a method with
// the same name already exists it will be replaced.
func (r *Registry) Register(m Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Name()] = m
}

// Get retrieves a method by name. It returns an error when the name is not
// registered.
func (r *Registry) Get(name string) (Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("method %q: not registered", name)
	}
	return m, nil
}

// List returns the names of all registered methods in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.methods))
	for n := range r.methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
