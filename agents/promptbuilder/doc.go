/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder assembles the planner and executor system prompts from
templates with {{name}} placeholders.

Templates must be string literals. Values are attached with one of the Bind
methods, each of which returns a new Prompt:

	p := promptbuilder.MustNewPrompt(`Functions:
	{{functions}}

	Timezone: {{timezone}}`)

	p, err := p.BindJSON("functions", defs)
	...
	p, err = p.BindText("timezone", cfg.Timezone)
	...
	out, err := p.Build()

Binding methods:

  - BindStringLiteral for developer literals
  - BindText for runtime text inserted verbatim
  - BindJSON and BindYAML for structured data
  - BindPrompt for a separately built section (nil renders empty)

Substitution is single-pass, so bound values are never scanned for
placeholders. Binding an unknown name, binding a name twice, and building with
an unbound name are all errors.

Placeholder names start with a letter and contain only letters, digits and
underscores.
*/
package promptbuilder
