/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"chainguard.dev/planexec/agents/model"
	"chainguard.dev/planexec/agents/orchestrator"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/functions"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// server runs one task at a time against the current registry.
type server struct {
	mu       sync.Mutex
	planner  model.Completer
	executor model.Completer
	opts     []orchestrator.Option
	registry func() *registry.Registry
}

type runRequest struct {
	Task string `json:"task"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/runs", s.handleRun)
	mux.HandleFunc("GET /v1/functions", s.handleFunctions)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req runRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	req.Task = strings.TrimSpace(req.Task)
	if req.Task == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "task is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orch, err := orchestrator.New(s.planner, s.executor, append(slices.Clone(s.opts), orchestrator.WithRegistry(s.registry()))...)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	res, err := orch.Run(ctx, req.Task, "")
	if res == nil {
		clog.FromContext(ctx).With("error", err).Error("Run failed to start")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleFunctions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry().Info())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServeCmd() *cobra.Command {
	var (
		o    runOptions
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve runs over HTTP",
		Long: `Serve exposes the pipeline over HTTP:

  POST /v1/runs       {"task": "..."} runs a task and returns its result
  GET  /v1/functions  lists the registered functions
  GET  /metrics       Prometheus metrics

Runs are serialized. Manifest changes in the functions directory are picked
up without a restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			o.applyConfig(cfg)
			if !cmd.Flags().Changed("port") {
				port = cfg.Port
			}

			planner, executor, err := newModels(ctx, cfg, o)
			if err != nil {
				return err
			}
			srv := &server{planner: planner, executor: executor, opts: orchestratorOptions(cfg, o)}

			g, ctx := errgroup.WithContext(ctx)
			if _, err := os.Stat(o.functionsDir); err == nil {
				live, err := registry.NewLive(ctx, o.functionsDir, functions.Catalog(cfg.functions()))
				if err != nil {
					return err
				}
				srv.registry = live.Registry
				g.Go(func() error { return live.Watch(ctx) })
			} else {
				if cmd.Flags().Changed("functions-dir") {
					return fmt.Errorf("functions directory %s: %w", o.functionsDir, err)
				}
				reg, err := functions.Builtin(ctx, cfg.functions())
				if err != nil {
					return err
				}
				srv.registry = func() *registry.Registry { return reg }
			}

			hs := &http.Server{
				Addr:              net.JoinHostPort("", strconv.Itoa(port)),
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			g.Go(func() error {
				clog.InfoContextf(ctx, "Listening on %s", hs.Addr)
				if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
				defer cancel()
				return hs.Shutdown(shutdown)
			})
			return g.Wait()
		},
	}
	addModelFlags(cmd, &o)
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default $PORT)")
	return cmd
}
