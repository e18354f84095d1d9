/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type binding interface {
	value() (string, error)
}

type unboundBinding struct {
	name string
}

func (u *unboundBinding) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

type literalBinding struct {
	val string
}

func (l *literalBinding) value() (string, error) { return l.val, nil }

type jsonBinding struct {
	data any
}

func (j *jsonBinding) value() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(b), nil
}

type yamlBinding struct {
	data any
}

func (y *yamlBinding) value() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(b), nil
}

type promptBinding struct {
	prompt *Prompt
}

func (s *promptBinding) value() (string, error) {
	if s.prompt == nil {
		return "", nil
	}
	out, err := s.prompt.Build()
	if err != nil {
		return "", fmt.Errorf("building section: %w", err)
	}
	return out, nil
}

// existsAndUnbound rejects names missing from the template and names that
// were already bound.
func existsAndUnbound(bindings map[string]binding, name string) error {
	b, ok := bindings[name]
	if !ok {
		return fmt.Errorf("binding %q not found in template", name)
	}
	if _, unbound := b.(*unboundBinding); !unbound {
		return fmt.Errorf("binding %q already bound", name)
	}
	return nil
}
