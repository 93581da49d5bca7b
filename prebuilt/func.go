package prebuilt

import (
	"context"

	"github.com/smallnest/graphflow/graph"
)

// TaskFunc adapts a plain function into a graph.Task, for workflows whose
// steps do not warrant a dedicated type.
type TaskFunc struct {
	id  string
	run func(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error)
}

// NewTask wraps fn as a task with the given id.
func NewTask(id string, fn func(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error)) *TaskFunc {
	return &TaskFunc{id: id, run: fn}
}

// ID returns the task identifier.
func (t *TaskFunc) ID() string { return t.id }

// Run executes the wrapped function.
func (t *TaskFunc) Run(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error) {
	return t.run(ctx, tc)
}
