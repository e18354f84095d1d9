/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/planexec/agents/toolcall"
)

// FunctionInfo is the metadata record shown to the models for one function.
type FunctionInfo struct {
	Name       string               `json:"name"`
	Signature  string               `json:"signature"`
	Docstring  string               `json:"docstring"`
	Parameters []toolcall.Parameter `json:"parameters"`
}

// Info returns the metadata record for each registered function, sorted by name.
func (r *Registry) Info() []FunctionInfo {
	return InfoFor(r.Definitions())
}

// InfoFor builds metadata records for defs, preserving their order.
func InfoFor(defs []toolcall.Definition) []FunctionInfo {
	out := make([]FunctionInfo, 0, len(defs))
	for _, d := range defs {
		ps := d.Parameters
		if ps == nil {
			ps = []toolcall.Parameter{}
		}
		out = append(out, FunctionInfo{
			Name:       d.Name,
			Signature:  d.Signature(),
			Docstring:  d.Description,
			Parameters: ps,
		})
	}
	return out
}

// Describe renders the registry metadata as an indented JSON array.
func (r *Registry) Describe() (string, error) {
	data, err := json.MarshalIndent(r.Info(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling function metadata: %w", err)
	}
	return string(data), nil
}
