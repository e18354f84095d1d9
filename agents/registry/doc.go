/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package registry holds the functions the executor model is allowed to call.
//
// Handlers are compiled into the binary and collected in a Catalog. Which of
// them are exposed is decided by YAML manifests found under a functions
// directory:
//
//	module: file_ops
//	functions:
//	  - name: ai_get_file_list
//	    doc: Returns the files under a directory tree.
//	    params:
//	      - name: path
//	        type: str
//
// Only names carrying the ai_ prefix are registered. Manifests that fail to
// parse or reference a handler missing from the catalog are skipped with a
// warning, so one broken module never hides the others.
//
//	reg := registry.New(registry.WithCatalog(functions.Catalog(cfg)))
//	if err := reg.Load(ctx, "functions"); err != nil {
//		return err
//	}
//	metadata, err := reg.Describe()
package registry
