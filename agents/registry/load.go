/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"chainguard.dev/planexec/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// manifest is the on-disk description of one utility module.
type manifest struct {
	Module    string          `yaml:"module"`
	Functions []manifestEntry `yaml:"functions"`
}

type manifestEntry struct {
	Name   string          `yaml:"name"`
	Doc    string          `yaml:"doc"`
	Params []manifestParam `yaml:"params"`
}

type manifestParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load scans dir recursively for module manifests and registers every
// ai_-prefixed function whose handler is in the catalog.
//
// A manifest that cannot be parsed, or that enables a handler the catalog
// does not have, is skipped with a warning. A missing root is an error
// wrapping fs.ErrNotExist.
func (r *Registry) Load(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("loading functions from %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("loading functions from %s: not a directory: %w", dir, fs.ErrNotExist)
	}
	return r.LoadFS(ctx, os.DirFS(dir), ".")
}

// LoadFS is Load over an arbitrary file system.
func (r *Registry) LoadFS(ctx context.Context, fsys fs.FS, root string) error {
	log := clog.FromContext(ctx)

	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("walking %s: %w", root, err)
			}
			log.With("path", p).With("error", err).Warn("Skipping unreadable path")
			return nil
		}
		if d.IsDir() || !isManifest(p) {
			return nil
		}

		tools, err := r.readManifest(fsys, p)
		if err != nil {
			log.With("manifest", p).With("error", err).Warn("Skipping function manifest")
			return nil
		}
		for _, t := range tools {
			if err := r.Register(t); err != nil {
				log.With("manifest", p).With("error", err).Warn("Skipping function")
				continue
			}
			log.With("function", t.Def.Name).With("manifest", p).Debug("Registered function")
		}
		return nil
	})
}

func isManifest(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return !strings.HasPrefix(path.Base(p), "_")
	default:
		return false
	}
}

// readManifest decodes one manifest and resolves its handlers. Either every
// ai_ entry resolves or the manifest is rejected as a whole.
func (r *Registry) readManifest(fsys fs.FS, p string) ([]toolcall.Tool, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	tools := make([]toolcall.Tool, 0, len(m.Functions))
	for _, e := range m.Functions {
		if !strings.HasPrefix(e.Name, Prefix) {
			continue
		}
		fn, ok := r.catalog.Handler(e.Name)
		if !ok {
			return nil, fmt.Errorf("module %q: no handler for %q", m.Module, e.Name)
		}
		def := toolcall.Definition{
			Name:        e.Name,
			Description: strings.TrimSpace(e.Doc),
			Parameters:  make([]toolcall.Parameter, 0, len(e.Params)),
		}
		for _, mp := range e.Params {
			def.Parameters = append(def.Parameters, toolcall.Parameter{Name: mp.Name, Type: mp.Type})
		}
		tool := toolcall.Tool{Def: def, Handler: fn}
		if err := validate(tool); err != nil {
			return nil, fmt.Errorf("module %q: %w", m.Module, err)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}
