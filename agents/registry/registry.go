/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
)

// Prefix marks a function as callable by the executor model.
const Prefix = "ai_"

// ErrInvalidTool is returned by Register for entries that cannot be exposed.
var ErrInvalidTool = errors.New("invalid tool")

// Registry maps function names to their handlers and descriptors.
// It is safe for concurrent use.
type Registry struct {
	catalog *Catalog

	mu    sync.RWMutex
	tools map[string]toolcall.Tool
}

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog sets the handlers that Load may enable.
func WithCatalog(c *Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{tools: make(map[string]toolcall.Tool)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces an entry. The last registration of a name wins.
func (r *Registry) Register(tool toolcall.Tool) error {
	if err := validate(tool); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Def.Name] = tool
	return nil
}

func validate(tool toolcall.Tool) error {
	if !strings.HasPrefix(tool.Def.Name, Prefix) {
		return fmt.Errorf("%w: %q lacks the %q prefix", ErrInvalidTool, tool.Def.Name, Prefix)
	}
	if tool.Handler == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidTool, tool.Def.Name)
	}
	for _, p := range tool.Def.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: %q declares an unnamed parameter", ErrInvalidTool, tool.Def.Name)
		}
		if !params.ValidType(p.Type) {
			return fmt.Errorf("%w: %q parameter %q has unknown type %q", ErrInvalidTool, tool.Def.Name, p.Name, p.Type)
		}
	}
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (toolcall.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Definitions returns every descriptor sorted by name.
func (r *Registry) Definitions() []toolcall.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]toolcall.Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	slices.SortFunc(defs, func(a, b toolcall.Definition) int {
		return strings.Compare(a.Name, b.Name)
	})
	return defs
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
