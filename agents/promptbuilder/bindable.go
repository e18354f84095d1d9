/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by values that know how to fill part of a prompt,
// such as an optional task file section.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// Noop is a Bindable that leaves the prompt unchanged.
type Noop struct{}

// Bind implements Bindable.
func (Noop) Bind(prompt *Prompt) (*Prompt, error) {
	return prompt, nil
}

// BindAll applies each Bindable in order.
func BindAll(p *Prompt, bs ...Bindable) (*Prompt, error) {
	var err error
	for _, b := range bs {
		if p, err = b.Bind(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
