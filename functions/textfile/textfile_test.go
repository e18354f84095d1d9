/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package textfile_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/planexec/agents/toolcall/params"
	"chainguard.dev/planexec/functions/textfile"
)

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perform_tasks.txt")
	if err := os.WriteFile(path, []byte("1. Send a reminder\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := textfile.Read(context.Background(), params.Args{"filepath": params.String(path)})
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if got != "1. Send a reminder\n" {
		t.Errorf("Read() = %q", got)
	}

	_, err = textfile.Read(context.Background(), params.Args{"filepath": params.String(path + ".missing")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read(missing) error = %v, want fs.ErrNotExist", err)
	}

	if _, err := textfile.Read(context.Background(), params.Args{}); err == nil {
		t.Error("Read() without filepath succeeded")
	}
}

func TestProvider(t *testing.T) {
	if _, ok := textfile.Provider().Handlers()["ai_read_file"]; !ok {
		t.Error("provider does not supply ai_read_file")
	}
}
