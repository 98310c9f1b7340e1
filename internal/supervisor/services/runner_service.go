// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package services

import (
	"context"
	"fmt"
)

// Runner is any component with a blocking Run loop, such as
// websocket.EventBridge.
type Runner interface {
	Run(ctx context.Context) error
}

// RunFunc adapts a function to Runner.
type RunFunc func(ctx context.Context) error

// Run calls f.
func (f RunFunc) Run(ctx context.Context) error { return f(ctx) }

// ContextHub is implemented by websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService supervises a Runner. A Run that returns nil before the
// context is done is reported as an error so suture restarts it.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps runner under name.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// NewWebSocketHubService supervises the dashboard hub loop as "websocket-hub".
func NewWebSocketHubService(hub ContextHub) *RunnerService {
	return NewRunnerService("websocket-hub", RunFunc(hub.RunWithContext))
}

// Serve implements suture.Service.
func (r *RunnerService) Serve(ctx context.Context) error {
	err := r.runner.Run(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil:
		return fmt.Errorf("%s exited unexpectedly", r.name)
	default:
		return fmt.Errorf("%s: %w", r.name, err)
	}
}

func (r *RunnerService) String() string { return r.name }
