/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params holds the tagged scalar values produced by the call parser
// and the typed extraction helpers utility handlers use to read them.
//
// A Value is one of string, int, float, bool or null:
//
//	args := params.Args{
//		"path":    params.String("un_organized"),
//		"quality": params.Int(80),
//	}
//
//	path, err := params.Extract[string](args, "path")
//	quality, err := params.ExtractOptional[int](args, "quality", 80)
//
// Extract treats null as missing. Ints widen to float64 but floats never
// narrow to ints.
package params
