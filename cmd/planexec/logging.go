/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
)

type logOptions struct {
	level  string
	format string
	file   string
}

// setupLogging installs a logger into ctx. The returned func closes the log
// file, if any.
func setupLogging(ctx context.Context, opts logOptions) (context.Context, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.level)); err != nil {
		return ctx, nil, fmt.Errorf("invalid log level %q: %w", opts.level, err)
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	if opts.file != "" {
		f, err := os.OpenFile(opts.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return ctx, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = func() { _ = f.Close() }
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch opts.format {
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	case "text", "":
		h = slog.NewTextHandler(out, hopts)
	default:
		closer()
		return ctx, nil, fmt.Errorf("invalid log format %q", opts.format)
	}
	return clog.WithLogger(ctx, clog.New(h)), closer, nil
}
