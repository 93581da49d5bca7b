package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound is returned when a task id cannot be resolved in the
	// graph, including GoTo targets.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSessionNotFound is returned when a session id cannot be loaded.
	ErrSessionNotFound = errors.New("session not found")
)

// ContextError reports that a task expected a context key that was absent
// or of the wrong shape. It is propagated to the caller verbatim.
type ContextError struct {
	Key     string
	Message string
}

func (e *ContextError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("context error for key %q: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("context error: %s", e.Message)
}

// TaskExecutionError wraps a failure inside a task body. The engine never
// retries; the session keeps its pre-step current task id so the caller can
// persist it and retry later.
type TaskExecutionError struct {
	TaskID string
	Err    error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
}

func (e *TaskExecutionError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure in a storage backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
