// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Module is a named collaborator an [Env] can hold a reference to, e.g. a
// generated ASN.1 module's Descriptor table. It carries no behavior of its
// own beyond a stable name; callers type-assert the concrete value returned
// by [Env.FindModule].
type Module interface {
	Name() string
}

// ErrModuleNotFound is returned by [Env.FindModule] when no module with the
// requested name is registered.
var ErrModuleNotFound = errors.New("runtime: module not found")

// moduleRegistry is a name-keyed Module table. Registration and removal are
// serialized by mu; lookups are deduplicated through group so that
// concurrent FindModule calls for the same name never observe a
// half-registered module and never redo the same lookup work twice.
type moduleRegistry struct {
	mu      sync.RWMutex
	modules map[string]Module
	group   singleflight.Group
}

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{modules: make(map[string]Module)}
}

// RegisterModule adds m to the registry, replacing any existing module of
// the same name.
func (r *moduleRegistry) RegisterModule(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[m.Name()] = m
}

// UnregisterModule removes the module named name, if any.
func (r *moduleRegistry) UnregisterModule(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, name)
}

// FindModule looks up the module named name. Concurrent calls for the same
// name collapse onto a single map lookup via singleflight, so a lookup that
// races a concurrent RegisterModule for the same name always sees one
// consistent outcome rather than whichever of the two goroutines won a raw
// map read.
func (r *moduleRegistry) FindModule(name string) (Module, error) {
	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		m, ok := r.modules[name]
		if !ok {
			return nil, ErrModuleNotFound
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Module), nil
}
