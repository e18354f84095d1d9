/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package imagecompress exposes ai_compress_images_in_folder.
package imagecompress

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultQuality is the JPEG quality used when none is configured.
	DefaultQuality = 80

	// Prefix is prepended to the base name of each compressed copy.
	Prefix = "compressed_"
)

// Extensions lists the image types that are compressed.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"}

// Compressor writes a compressed copy next to every image in a folder tree.
type Compressor struct {
	quality     int
	concurrency int
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithConcurrency bounds the number of images encoded at once.
func WithConcurrency(n int) Option {
	return func(c *Compressor) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New returns a Compressor encoding at quality (1-100). Out of range
// values fall back to DefaultQuality.
func New(quality int, opts ...Option) *Compressor {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	c := &Compressor{quality: quality, concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handlers implements toolcall.Provider.
func (c *Compressor) Handlers() map[string]toolcall.Func {
	return map[string]toolcall.Func{"ai_compress_images_in_folder": c.CompressFolder}
}

// CompressFolder compresses every image under folder_path. Images that fail
// to decode or encode are logged and skipped. It returns the sorted paths
// of the written copies.
func (c *Compressor) CompressFolder(ctx context.Context, args params.Args) (any, error) {
	folder, err := params.Extract[string](args, "folder_path")
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("folder not found: %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folder)
	}

	var images []string
	if err := filepath.WalkDir(folder, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImage(d.Name()) {
			images = append(images, p)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", folder, err)
	}

	log := clog.FromContext(ctx)
	var (
		mu  sync.Mutex
		out = []string{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, img := range images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dst, err := c.compress(img)
			if err != nil {
				log.With("path", img).With("error", err).Warn("Failed to compress image")
				return nil
			}
			log.Infof("Compressed %s -> %s", img, dst)
			mu.Lock()
			out = append(out, dst)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

func (c *Compressor) compress(src string) (string, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}
	dst := filepath.Join(filepath.Dir(src), Prefix+filepath.Base(src))
	if err := imaging.Save(img, dst, imaging.JPEGQuality(c.quality)); err != nil {
		return "", fmt.Errorf("encoding: %w", err)
	}
	return dst, nil
}

// isImage reports whether name has an image extension and is not itself a
// compressed copy.
func isImage(name string) bool {
	if strings.HasPrefix(name, Prefix) {
		return false
	}
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}
