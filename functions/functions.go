/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package functions assembles the built-in utility handlers and their
// manifests.
//
// A directory of manifests decides which of the handlers the models see.
// The manifests shipped next to each package are embedded in Manifests so a
// binary can run without the source tree.
package functions

import (
	"context"
	"embed"

	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/functions/email"
	"chainguard.dev/planexec/functions/fileops"
	"chainguard.dev/planexec/functions/imagecompress"
	"chainguard.dev/planexec/functions/textfile"
)

// Manifests holds the manifest of every built-in package.
//
//go:embed */*.yaml
var Manifests embed.FS

// Config configures the built-in handlers.
type Config struct {
	Email        email.Config
	ImageQuality int
}

// Catalog returns a catalog holding every built-in handler. Stateful
// handlers (the file organizer) get fresh state per call.
func Catalog(cfg Config) *registry.Catalog {
	return registry.NewCatalog(
		textfile.Provider(),
		fileops.NewOrganizer(),
		imagecompress.New(cfg.ImageQuality),
		email.New(cfg.Email),
	)
}

// Builtin returns a registry loaded from the embedded manifests.
func Builtin(ctx context.Context, cfg Config) (*registry.Registry, error) {
	reg := registry.New(registry.WithCatalog(Catalog(cfg)))
	if err := reg.LoadFS(ctx, Manifests, "."); err != nil {
		return nil, err
	}
	return reg, nil
}
