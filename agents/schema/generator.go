/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"chainguard.dev/planexec/agents/toolcall"
	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with project defaults.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator wired with the defaults we need for
// result documents.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// Reflect derives the JSON schema for the provided value using a default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it to a schema.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}

var paramTypes = map[string]string{
	"str":   "string",
	"int":   "integer",
	"float": "number",
	"bool":  "boolean",
}

// ForDefinition describes the arguments of a registered function as a JSON
// object schema. Untyped parameters accept any value.
func ForDefinition(def toolcall.Definition) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, p := range def.Parameters {
		ps := &jsonschema.Schema{}
		if t, ok := paramTypes[p.Type]; ok {
			// null satisfies every declared type
			ps.AnyOf = []*jsonschema.Schema{{Type: t}, {Type: "null"}}
		}
		props.Set(p.Name, ps)
	}
	return &jsonschema.Schema{
		Title:                def.Name,
		Description:          def.Description,
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// ForDefinitions maps each function name to its argument schema.
func ForDefinitions(defs []toolcall.Definition) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(defs))
	for _, d := range defs {
		out[d.Name] = ForDefinition(d)
	}
	return out
}
