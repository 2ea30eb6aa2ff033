// Package registry maps module names to controller constructors.
//
// Registration happens once at startup; a module missing from the
// registry is a structural 404 at dispatch time. This replaces
// filesystem probing with an explicit table.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"weft/internal/controller"
)

var (
	ErrDuplicateModule = errors.New("registry: duplicate module")
	ErrInvalidModule   = errors.New("registry: invalid module")
)

// Module describes one named bundle of controller, views, and locale
// catalog sharing the same name.
type Module struct {
	Name string
	New  func(deps controller.Deps) controller.Controller
}

// Registry is the startup-built module table.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

func New() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module. Duplicates and incomplete descriptors fail
// loudly; this is a boot-time contract, not a recoverable condition.
func (r *Registry) Register(m Module) error {
	if m.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidModule)
	}
	if m.New == nil {
		return fmt.Errorf("%w: %s has no constructor", ErrInvalidModule, m.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[m.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name)
	}
	r.modules[m.Name] = m
	return nil
}

// Get looks up a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// All returns every registered module, sorted by name.
func (r *Registry) All() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
