// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package registry stores named component definitions so that documents
// imported later in a session can reuse types declared by earlier ones.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MultiTechSystems/regmap-schema/rdl"
)

var (
	// ErrDuplicateType is returned when registering a name twice under the
	// Reject policy.
	ErrDuplicateType = errors.New("type already registered")
	// ErrEmptyName is returned when registering an anonymous definition.
	ErrEmptyName = errors.New("type name is empty")
)

// Policy controls what happens when a name is registered twice.
type Policy int

const (
	// Reject fails the second registration with ErrDuplicateType.
	Reject Policy = iota
	// Redefine replaces the earlier definition and bumps the version.
	Redefine
)

// Registry maps type names to sealed definitions. It is safe for concurrent
// use; callers that need lookup and register to be atomic as a group must
// serialize them themselves.
type Registry struct {
	mu       sync.RWMutex
	policy   Policy
	defs     map[string]rdl.Definition
	versions map[string]uint64
	names    []string
}

// New creates an empty registry.
func New(policy Policy) *Registry {
	return &Registry{
		policy:   policy,
		defs:     make(map[string]rdl.Definition),
		versions: make(map[string]uint64),
	}
}

// Register seals def and stores it under name. It returns the version of
// the entry, starting at 1.
func (r *Registry) Register(name string, def rdl.Definition) (uint64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[name]; ok {
		if r.policy != Redefine {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}
	} else {
		r.names = append(r.names, name)
	}
	def.Seal()
	r.defs[name] = def
	r.versions[name]++
	return r.versions[name], nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (rdl.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Version returns how many times name has been registered.
func (r *Registry) Version(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[name]
}

// Names returns the registered names in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
