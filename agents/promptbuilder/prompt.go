/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
)

// stringLiteral only accepts untyped string constants, so runtime strings
// cannot be passed where a developer literal is expected.
type stringLiteral string

// Prompt is an immutable template with named {{placeholders}}.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template literal and records its placeholders.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	tmpl, err := walkTemplate(string(template), func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = &unboundBinding{name: name}
		}
		return "{{" + name + "}}", nil
	})
	if err != nil {
		return nil, err
	}
	return &Prompt{template: tmpl, bindings: bindings}, nil
}

// Bindings returns the placeholder names in sorted order.
func (p *Prompt) Bindings() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// Unbound returns the placeholder names that still need a value, sorted.
func (p *Prompt) Unbound() []string {
	var names []string
	for _, name := range p.Bindings() {
		if _, ok := p.bindings[name].(*unboundBinding); ok {
			names = append(names, name)
		}
	}
	return names
}

// with returns a copy of p with name bound to b.
func (p *Prompt) with(name string, b binding) (*Prompt, error) {
	if err := existsAndUnbound(p.bindings, name); err != nil {
		return nil, err
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// BindStringLiteral binds a developer-supplied literal.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.with(name, &literalBinding{val: string(value)})
}

// BindText binds runtime text (configuration values, file contents) verbatim.
// The text is never scanned for placeholders.
func (p *Prompt) BindText(name, text string) (*Prompt, error) {
	return p.with(name, &literalBinding{val: text})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.with(name, &jsonBinding{data: data})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.with(name, &yamlBinding{data: data})
}

// BindPrompt binds the built output of another prompt, which lets optional
// sections be assembled separately. A nil section renders as empty text.
func (p *Prompt) BindPrompt(name string, section *Prompt) (*Prompt, error) {
	return p.with(name, &promptBinding{prompt: section})
}

// Build renders the template. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		v, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return walkTemplate(p.template, func(name string) (string, error) {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("internal error: binding %q not found in values map", name)
		}
		return v, nil
	})
}
