/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/planexec/agents/toolcall/params"
)

// Call is a function name plus the arguments parsed for it.
type Call struct {
	Name string      `json:"name"`
	Args params.Args `json:"args"`
}

// String renders the call back into expression form with arguments sorted by name.
func (c Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	for i, k := range sortedKeys(c.Args) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", k, c.Args[k])
	}
	sb.WriteByte(')')
	return sb.String()
}

// Definition describes a callable utility (name, parameters, documentation).
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"docstring"`
	Parameters  []Parameter `json:"parameters"`
}

// Parameter describes a single declared parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"` // "str", "int", "float", "bool", or "" for untyped
}

// Signature renders the parameter list, e.g. "(subject: str, body: str)".
func (d Definition) Signature() string {
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Type == "" {
			parts = append(parts, p.Name)
			continue
		}
		parts = append(parts, p.Name+": "+p.Type)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Param looks up a declared parameter by name.
func (d Definition) Param(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Func is the handler signature every registered utility implements.
// The dispatcher only passes declared parameters.
type Func func(ctx context.Context, args params.Args) (any, error)

// Tool pairs a definition with its handler.
type Tool struct {
	Def     Definition
	Handler Func
}

// Param extracts a required parameter from the call args.
func Param[T string | int | int64 | float64 | bool](call Call, name string) (T, error) {
	return params.Extract[T](call.Args, name)
}

// OptionalParam extracts an optional parameter from the call args.
func OptionalParam[T string | int | int64 | float64 | bool](call Call, name string, defaultValue T) (T, error) {
	return params.ExtractOptional(call.Args, name, defaultValue)
}
