package graph

import (
	"context"
	"fmt"
	"strings"
)

// Task is the unit of work in a graph. Implementations must be safe for
// concurrent Run invocations: a task value may be shared across sessions
// and owns no per-session state. Tasks read their inputs from the Context
// and publish outputs by writing to it and by returning a TaskResult.
type Task interface {
	// ID returns a stable identifier, unique within a graph.
	ID() string

	// Run executes the task against the session context.
	Run(ctx context.Context, tc *Context) (*TaskResult, error)
}

// ActionType discriminates the NextAction variants.
type ActionType string

const (
	// ActionContinue advances to the next task resolved from the edges but
	// returns control to the caller without executing it.
	ActionContinue ActionType = "continue"
	// ActionContinueAndExecute advances and executes the next task
	// immediately, against the same Context instance.
	ActionContinueAndExecute ActionType = "continue_and_execute"
	// ActionGoTo jumps to an explicitly named task, bypassing the edges.
	ActionGoTo ActionType = "go_to"
	// ActionGoBack is reserved; it currently behaves like ActionWaitForInput.
	ActionGoBack ActionType = "go_back"
	// ActionEnd completes the workflow.
	ActionEnd ActionType = "end"
	// ActionWaitForInput stays at the current task until new input arrives.
	ActionWaitForInput ActionType = "wait_for_input"
)

// NextAction is a task's instruction to the engine on how to transition.
type NextAction struct {
	Type   ActionType `json:"type"`
	Target string     `json:"target,omitempty"`
}

// Continue advances to the next task without executing it.
func Continue() NextAction { return NextAction{Type: ActionContinue} }

// ContinueAndExecute advances and runs the next task in the same step.
func ContinueAndExecute() NextAction { return NextAction{Type: ActionContinueAndExecute} }

// GoTo jumps to the task named target.
func GoTo(target string) NextAction {
	return NextAction{Type: ActionGoTo, Target: target}
}

// GoBack is reserved for back navigation; it behaves like WaitForInput.
func GoBack() NextAction { return NextAction{Type: ActionGoBack} }

// End completes the workflow.
func End() NextAction { return NextAction{Type: ActionEnd} }

// WaitForInput keeps the session at the current task.
func WaitForInput() NextAction { return NextAction{Type: ActionWaitForInput} }

// TaskResult is what a task returns to the engine.
type TaskResult struct {
	// Response is surfaced to the caller; empty means no response.
	Response string `json:"response,omitempty"`

	// NextAction tells the engine how to transition.
	NextAction NextAction `json:"next_action"`

	// TaskID identifies the task that produced this result. It is stamped
	// by the engine, tasks leave it empty.
	TaskID string `json:"task_id"`

	// StatusMessage is an optional human-readable progress string copied
	// onto the session.
	StatusMessage string `json:"status_message,omitempty"`
}

// NewTaskResult creates a result with a response and a next action.
func NewTaskResult(response string, action NextAction) *TaskResult {
	return &TaskResult{Response: response, NextAction: action}
}

// NewTaskResultWithStatus creates a result carrying a status message.
func NewTaskResultWithStatus(response string, action NextAction, status string) *TaskResult {
	return &TaskResult{Response: response, NextAction: action, StatusMessage: status}
}

// MoveToNext returns a silent result that advances to the next task and
// waits for input there.
func MoveToNext() *TaskResult {
	return &TaskResult{NextAction: Continue()}
}

// MoveToNextDirect returns a silent result that advances to the next task
// and executes it in the same step.
func MoveToNextDirect() *TaskResult {
	return &TaskResult{NextAction: ContinueAndExecute()}
}

// TypeTaskID derives a task id from a value's concrete type name, e.g.
// *tasks.ClassifyClaim becomes "ClassifyClaim". Useful as a default when a
// task does not carry an explicit id.
func TypeTaskID(v any) string {
	name := fmt.Sprintf("%T", v)
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
