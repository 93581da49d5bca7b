package graph

import (
	"context"
	"fmt"

	"github.com/smallnest/graphflow/log"
)

// FlowRunner wraps the common load → execute one step → save cycle.
//
// Use it in interactive hosts (one step per request, reply, persist for the
// next roundtrip). For batch loops that want to save once at the end, or
// for custom persistence logic, call Graph.ExecuteStep directly and save
// the session yourself.
//
// The runner takes no locks: concurrent Run calls for the same session id
// race last-writer-wins on the stored session.
type FlowRunner struct {
	graph   *Graph
	storage SessionStorage
}

// NewFlowRunner creates a runner for the given graph and session storage.
func NewFlowRunner(g *Graph, storage SessionStorage) *FlowRunner {
	return &FlowRunner{graph: g, storage: storage}
}

// Run loads the session, executes exactly one step, persists the updated
// session, and returns the step's result. A missing session id yields an
// error wrapping ErrSessionNotFound.
func (r *FlowRunner) Run(ctx context.Context, sessionID string) (*ExecutionResult, error) {
	session, err := r.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	result, err := r.graph.ExecuteStep(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := r.storage.Save(ctx, session); err != nil {
		return nil, err
	}

	log.Debug("session %s advanced to task %s (%s)", session.ID, session.CurrentTaskID, result.Status)
	return result, nil
}
