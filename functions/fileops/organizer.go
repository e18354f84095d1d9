/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package fileops sorts the files of a folder into category folders.
//
// The four functions are meant to be called in order by consecutive
// subtasks: list the files, collect their types, create the folders those
// types need, then move the files. An Organizer carries the state between
// those calls.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// Category is a destination folder and the extensions it collects.
type Category struct {
	Folder     string
	Extensions []string
}

// Categories lists destination folders in match order.
var Categories = []Category{
	{Folder: "images", Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "ico"}},
	{Folder: "documents", Extensions: []string{"txt", "doc", "docx", "pdf", "ppt", "pptx", "xls", "xlsx", "csv"}},
	{Folder: "codes", Extensions: []string{"py", "ipynb"}},
}

// CategoryFor returns the folder for extension ext (without the dot).
func CategoryFor(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	for _, c := range Categories {
		if slices.Contains(c.Extensions, ext) {
			return c.Folder, true
		}
	}
	return "", false
}

// extension returns the lowercase extension of name without the dot, or ""
// when name has none.
func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Organizer holds the listing, discovered types and created folders.
// It is safe for concurrent use.
type Organizer struct {
	mu      sync.Mutex
	files   []string
	types   map[string]struct{}
	folders map[string]string
}

// NewOrganizer returns an Organizer with empty state.
func NewOrganizer() *Organizer {
	return &Organizer{
		types:   make(map[string]struct{}),
		folders: make(map[string]string),
	}
}

// Handlers implements toolcall.Provider.
func (o *Organizer) Handlers() map[string]toolcall.Func {
	return map[string]toolcall.Func{
		"ai_get_file_list":         o.GetFileList,
		"ai_get_unique_file_types": o.GetUniqueFileTypes,
		"ai_create_folders":        o.CreateFolders,
		"ai_move_files_to_folder":  o.MoveFilesToFolder,
	}
}

// GetFileList lists every file under path recursively and remembers the
// listing. It returns the absolute paths.
func (o *Organizer) GetFileList(ctx context.Context, args params.Args) (any, error) {
	path, err := params.Extract[string](args, "path")
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("directory not found: %s: %w", abs, err)
	}

	var files []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}

	o.mu.Lock()
	o.files = files
	o.mu.Unlock()

	clog.FromContext(ctx).Infof("Found %d files in %s", len(files), abs)
	return files, nil
}

// GetUniqueFileTypes collects the lowercase extensions of the last listing.
func (o *Organizer) GetUniqueFileTypes(ctx context.Context, _ params.Args) (any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, f := range o.files {
		if ext := extension(f); ext != "" {
			o.types[ext] = struct{}{}
		}
	}
	types := make([]string, 0, len(o.types))
	for t := range o.types {
		types = append(types, t)
	}
	slices.Sort(types)

	clog.FromContext(ctx).With("types", types).Infof("Found %d unique file types", len(types))
	return types, nil
}

// CreateFolders creates under base_path (default ".") one folder per
// category that any discovered type belongs to. It returns the created
// folders by category.
func (o *Organizer) CreateFolders(ctx context.Context, args params.Args) (any, error) {
	base, err := params.ExtractOptional(args, "base_path", ".")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", base, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	created := make(map[string]string)
	for _, c := range Categories {
		if !slices.ContainsFunc(c.Extensions, func(ext string) bool {
			_, ok := o.types[ext]
			return ok
		}) {
			continue
		}
		dir := filepath.Join(base, c.Folder)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
		o.folders[c.Folder] = dir
		created[c.Folder] = dir
		clog.FromContext(ctx).Infof("Created folder: %s", dir)
	}
	return created, nil
}

// ErrNoFolders is returned by MoveFilesToFolder before CreateFolders ran.
var ErrNoFolders = errors.New("no category folders have been created")

// MoveFilesToFolder moves the top-level files of source_folder into the
// created category folders. Files with no extension or no category stay
// put. It returns the destination paths.
func (o *Organizer) MoveFilesToFolder(ctx context.Context, args params.Args) (any, error) {
	source, err := params.Extract[string](args, "source_folder")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("source folder not found: %s: %w", source, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.folders) == 0 {
		return nil, ErrNoFolders
	}

	log := clog.FromContext(ctx)
	moved := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		cat, ok := CategoryFor(extension(e.Name()))
		if !ok {
			continue
		}
		dest, ok := o.folders[cat]
		if !ok {
			continue
		}
		to := filepath.Join(dest, e.Name())
		if err := os.Rename(filepath.Join(source, e.Name()), to); err != nil {
			return moved, fmt.Errorf("moving %s: %w", e.Name(), err)
		}
		log.Infof("Moved %s to %s", e.Name(), dest)
		moved = append(moved, to)
	}
	return moved, nil
}
