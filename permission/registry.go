package permission

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrRegistryFrozen   = errors.New("registry frozen")
	ErrEmptyMethod      = errors.New("method name cannot be empty")
	ErrDuplicateMethod  = errors.New("method already registered")
	ErrMethodNotDefined = errors.New("method not registered")
)

// Registry maps method identifiers to their declared Permission.
// Methods are registered at startup, then the registry is frozen and only read.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]RoleSet
	frozen  bool
}

// NewRegistry creates an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]RoleSet)}
}

// Register declares the roles allowed to invoke method.
// Must be called before [Registry.Freeze].
func (r *Registry) Register(method string, roles ...string) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return Permission{}, ErrRegistryFrozen
	}
	if method == "" {
		return Permission{}, ErrEmptyMethod
	}
	if _, exists := r.methods[method]; exists {
		return Permission{}, ErrDuplicateMethod
	}

	rs := NewRoleSet(roles...)
	r.methods[method] = rs
	return Permission{Method: method, Roles: rs.Clone()}, nil
}

// MustRegister is Register for static declarations; it panics on error.
func (r *Registry) MustRegister(method string, roles ...string) Permission {
	p, err := r.Register(method, roles...)
	if err != nil {
		panic("permission: register " + method + ": " + err.Error())
	}
	return p
}

// Lookup returns a copy of the Permission declared for method.
func (r *Registry) Lookup(method string) (Permission, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.methods[method]
	if !ok {
		return Permission{}, false
	}
	return Permission{Method: method, Roles: rs.Clone()}, true
}

// Methods returns the registered method identifiers in sorted order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.methods))
	for m := range r.methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Count returns the number of registered methods.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}
