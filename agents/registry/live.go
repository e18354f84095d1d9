/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the bursts of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// Live keeps a registry in sync with a functions directory. Every reload
// builds a new Registry, so a run holding the previous one is unaffected.
type Live struct {
	dir     string
	catalog *Catalog

	current atomic.Pointer[Registry]
}

// NewLive loads dir and returns a Live registry. Call Watch to follow
// changes.
func NewLive(ctx context.Context, dir string, catalog *Catalog) (*Live, error) {
	l := &Live{dir: dir, catalog: catalog}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Registry returns the most recently loaded registry.
func (l *Live) Registry() *Registry { return l.current.Load() }

// Reload loads dir into a fresh registry and swaps it in. On error the
// previous registry stays current.
func (l *Live) Reload(ctx context.Context) error {
	next := New(WithCatalog(l.catalog))
	if err := next.Load(ctx, l.dir); err != nil {
		return err
	}
	prev := l.current.Swap(next)
	if prev != nil {
		clog.FromContext(ctx).With("dir", l.dir).Infof("Reloaded functions: %d -> %d", prev.Len(), next.Len())
	}
	return nil
}

// Watch reloads the registry whenever a manifest under dir changes. It
// blocks until ctx is done.
func (l *Live) Watch(ctx context.Context) error {
	log := clog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("watching %s: %w", l.dir, err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.Add(event.Name); err != nil {
						log.With("path", event.Name).With("error", err).Warn("Failed to watch new directory")
					}
				}
			}
			if isManifest(filepath.ToSlash(event.Name)) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}

		case <-timer.C:
			if err := l.Reload(ctx); err != nil {
				log.With("dir", l.dir).With("error", err).Warn("Keeping previous functions after failed reload")
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.With("error", err).Warn("Function watcher error")
		}
	}
}
