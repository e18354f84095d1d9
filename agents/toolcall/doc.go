/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the provider-independent types shared by the
// registry, the call parser and the dispatcher.
//
// This package contains pure type definitions with no heavy dependencies, so
// utility packages can implement handlers without importing the pipeline.
//
// # Definitions
//
// A Definition describes a utility the executor model may call:
//
//	def := toolcall.Definition{
//		Name:        "ai_send_email",
//		Description: "Sends an email with the given subject and body.",
//		Parameters: []toolcall.Parameter{
//			{Name: "subject", Type: "str"},
//			{Name: "body", Type: "str"},
//		},
//	}
//
// # Handlers
//
// Every utility implements Func and reads its arguments through the params
// helpers:
//
//	func send(ctx context.Context, args params.Args) (any, error) {
//		subject, err := params.Extract[string](args, "subject")
//		...
//	}
//
// Packages expose their handlers through Provider so a registry catalog can be
// assembled at startup.
package toolcall
