/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"maps"
	"slices"
	"sync"

	"bennypowers.dev/cabinet/lookup"
)

// Registry maps file extensions, including the leading dot, to resolvers.
// Keys are case-sensitive and registering an extension again replaces the
// previous binding.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]lookup.Resolver
}

// Snapshot is a saved copy of a registry's bindings.
type Snapshot map[string]lookup.Resolver

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]lookup.Resolver)}
}

// Register binds ext to r. The resolver is not validated; a nil resolver
// fails with ErrNilResolver when a file with that extension is resolved.
func (reg *Registry) Register(ext string, r lookup.Resolver) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.resolvers[ext] = r
}

// Lookup returns the resolver bound to ext.
func (reg *Registry) Lookup(ext string) (lookup.Resolver, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.resolvers[ext]
	return r, ok
}

// Extensions returns the registered extensions in sorted order.
func (reg *Registry) Extensions() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Sorted(maps.Keys(reg.resolvers))
}

// Snapshot copies the current bindings.
func (reg *Registry) Snapshot() Snapshot {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return maps.Clone(reg.resolvers)
}

// Restore replaces every binding with those in s.
func (reg *Registry) Restore(s Snapshot) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.resolvers = maps.Clone(s)
	if reg.resolvers == nil {
		reg.resolvers = make(map[string]lookup.Resolver)
	}
}
