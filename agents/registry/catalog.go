/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"maps"
	"slices"

	"chainguard.dev/planexec/agents/toolcall"
)

// Catalog is the table of compiled handlers that manifests may enable.
// Nothing in a catalog is visible to the models until a manifest names it.
type Catalog struct {
	handlers map[string]toolcall.Func
}

// NewCatalog creates a catalog seeded with the handlers of each provider.
func NewCatalog(providers ...toolcall.Provider) *Catalog {
	c := &Catalog{handlers: make(map[string]toolcall.Func)}
	for _, p := range providers {
		c.AddProvider(p)
	}
	return c
}

// Add installs a handler under name, replacing any previous one.
func (c *Catalog) Add(name string, fn toolcall.Func) *Catalog {
	c.handlers[name] = fn
	return c
}

// AddProvider installs every handler the provider implements.
func (c *Catalog) AddProvider(p toolcall.Provider) *Catalog {
	maps.Copy(c.handlers, p.Handlers())
	return c
}

// Handler returns the handler registered under name.
func (c *Catalog) Handler(name string) (toolcall.Func, bool) {
	if c == nil {
		return nil, false
	}
	fn, ok := c.handlers[name]
	return fn, ok
}

// Names returns the handler names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.handlers))
}
