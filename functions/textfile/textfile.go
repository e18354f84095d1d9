/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package textfile exposes ai_read_file.
package textfile

import (
	"context"
	"fmt"
	"os"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// Read returns the contents of the file named by the filepath argument.
func Read(ctx context.Context, args params.Args) (any, error) {
	path, err := params.Extract[string](args, "filepath")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	clog.FromContext(ctx).With("path", path).With("bytes", len(data)).Info("Read file")
	return string(data), nil
}

// Provider returns the package's handlers.
func Provider() toolcall.Provider {
	return toolcall.ProviderFunc(func() map[string]toolcall.Func {
		return map[string]toolcall.Func{"ai_read_file": Read}
	})
}
