package graph

import (
	"context"
	"fmt"

	"github.com/smallnest/graphflow/log"
)

// EdgeCondition is a predicate evaluated against the session context to
// decide whether an edge fires. Predicates must be deterministic over the
// context snapshot visible at call time and must not block on I/O.
type EdgeCondition func(tc *Context) bool

// Edge is a directed connector between two tasks. A nil Condition makes it
// an unconditional ("default") edge.
type Edge struct {
	From      string
	To        string
	Condition EdgeCondition
}

// Graph is an immutable registry of tasks and edges with an entry point.
// It is safe for unrestricted sharing once built.
type Graph struct {
	id          string
	tasks       map[string]Task
	edges       []Edge
	startTaskID string
}

// ID returns the graph identifier.
func (g *Graph) ID() string {
	return g.id
}

// StartTaskID returns the configured entry point, or "" when the graph has
// no tasks.
func (g *Graph) StartTaskID() string {
	return g.startTaskID
}

// GetTask returns the task registered under id.
func (g *Graph) GetTask(id string) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskIDs returns the ids of all registered tasks in unspecified order.
func (g *Graph) TaskIDs() []string {
	ids := make([]string, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	return ids
}

// FindNextTask resolves the next task for currentTaskID by walking the
// edges in insertion order. The first edge whose From matches and whose
// condition (if any) holds wins; an unconditional edge always matches, so
// conditional edges should normally be declared first. It reports false
// when no edge matches.
func (g *Graph) FindNextTask(currentTaskID string, tc *Context) (string, bool) {
	for _, edge := range g.edges {
		if edge.From != currentTaskID {
			continue
		}
		if edge.Condition == nil || edge.Condition(tc) {
			return edge.To, true
		}
	}
	return "", false
}

// ExecutionStatus is the outcome of one engine step.
type ExecutionStatus string

const (
	// StatusWaitingForInput means the workflow expects external input
	// before the next step.
	StatusWaitingForInput ExecutionStatus = "waiting_for_input"
	// StatusCompleted means the workflow reached End.
	StatusCompleted ExecutionStatus = "completed"
	// StatusError means the engine or storage failed without raising.
	StatusError ExecutionStatus = "error"
)

// ExecutionResult is the engine's reply from a step. It is not persisted.
type ExecutionResult struct {
	Response string          `json:"response,omitempty"`
	Status   ExecutionStatus `json:"status"`
	// Err carries the message when Status is StatusError.
	Err string `json:"error,omitempty"`
}

// ExecuteStep runs exactly one task of the session's graph, interprets its
// NextAction, updates the session's current task and status message, and
// returns the result.
//
// ContinueAndExecute chains run inside this call as an iterative loop: the
// follow-up tasks execute sequentially against the same Context instance,
// so writes made by one task are visible to the next, and the returned
// response is that of the last executed task.
//
// On a task failure the session keeps its pre-step current task id, so the
// caller may persist it and retry later. The engine never retries.
func (g *Graph) ExecuteStep(ctx context.Context, session *Session) (*ExecutionResult, error) {
	for {
		task, ok := g.tasks[session.CurrentTaskID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, session.CurrentTaskID)
		}

		log.Debug("executing task %s (session %s)", task.ID(), session.ID)
		result, err := task.Run(ctx, session.Context)
		if err != nil {
			return nil, &TaskExecutionError{TaskID: task.ID(), Err: err}
		}
		result.TaskID = task.ID()
		session.StatusMessage = result.StatusMessage

		switch result.NextAction.Type {
		case ActionEnd:
			session.CurrentTaskID = result.TaskID
			return &ExecutionResult{Response: result.Response, Status: StatusCompleted}, nil

		case ActionWaitForInput, ActionGoBack:
			// GoBack is reserved; it stays at the current task for now.
			session.CurrentTaskID = result.TaskID
			return &ExecutionResult{Response: result.Response, Status: StatusWaitingForInput}, nil

		case ActionContinue:
			if next, found := g.FindNextTask(result.TaskID, session.Context); found {
				session.CurrentTaskID = next
			} else {
				session.CurrentTaskID = result.TaskID
			}
			return &ExecutionResult{Response: result.Response, Status: StatusWaitingForInput}, nil

		case ActionContinueAndExecute:
			next, found := g.FindNextTask(result.TaskID, session.Context)
			if !found {
				session.CurrentTaskID = result.TaskID
				return &ExecutionResult{Response: result.Response, Status: StatusWaitingForInput}, nil
			}
			// Same Context instance carries over to the next iteration.
			session.CurrentTaskID = next

		case ActionGoTo:
			target := result.NextAction.Target
			if _, exists := g.tasks[target]; !exists {
				return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, target)
			}
			session.CurrentTaskID = target
			return &ExecutionResult{Response: result.Response, Status: StatusWaitingForInput}, nil

		default:
			return nil, fmt.Errorf("unknown next action %q from task %s", result.NextAction.Type, result.TaskID)
		}
	}
}

// GraphBuilder assembles a Graph. The builder is not safe for concurrent
// use; the built Graph is.
type GraphBuilder struct {
	graph *Graph
}

// NewGraphBuilder creates a builder for a graph with the given id.
func NewGraphBuilder(id string) *GraphBuilder {
	return &GraphBuilder{
		graph: &Graph{
			id:    id,
			tasks: make(map[string]Task),
		},
	}
}

// AddTask registers a task. The first task added becomes the start task
// unless SetStartTask overrides it.
func (b *GraphBuilder) AddTask(task Task) *GraphBuilder {
	if len(b.graph.tasks) == 0 {
		b.graph.startTaskID = task.ID()
	}
	b.graph.tasks[task.ID()] = task
	return b
}

// AddEdge adds an unconditional edge from one task to another.
func (b *GraphBuilder) AddEdge(from, to string) *GraphBuilder {
	b.graph.edges = append(b.graph.edges, Edge{From: from, To: to})
	return b
}

// AddConditionalEdge adds an edge that fires only when condition holds.
// Edge declaration order is the evaluation order, so declare conditional
// edges before the unconditional fallback for the same source.
func (b *GraphBuilder) AddConditionalEdge(from, to string, condition EdgeCondition) *GraphBuilder {
	b.graph.edges = append(b.graph.edges, Edge{From: from, To: to, Condition: condition})
	return b
}

// SetStartTask overrides the entry point. The task must already be added.
func (b *GraphBuilder) SetStartTask(id string) *GraphBuilder {
	if _, ok := b.graph.tasks[id]; ok {
		b.graph.startTaskID = id
	}
	return b
}

// Build finalizes the graph. The builder must not be reused afterwards.
func (b *GraphBuilder) Build() *Graph {
	return b.graph
}
