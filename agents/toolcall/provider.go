/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"slices"

	"chainguard.dev/planexec/agents/toolcall/params"
)

// Provider supplies compiled handlers keyed by function name.
// Utility packages implement it so a catalog can be assembled at startup;
// which handlers are exposed to the models is decided by manifests.
type Provider interface {
	// Handlers returns the handlers this provider implements.
	Handlers() map[string]Func
}

// ProviderFunc adapts a plain map constructor to Provider.
type ProviderFunc func() map[string]Func

// Handlers implements Provider.
func (f ProviderFunc) Handlers() map[string]Func { return f() }

func sortedKeys(args params.Args) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
