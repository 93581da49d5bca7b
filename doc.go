// GraphFlow - Stateful, Resumable Workflow Graphs in Go
//
// GraphFlow is a framework for building multi-step, conversational workflows
// as graphs of tasks. Execution is step-wise: each step runs one task (or a
// chain of tasks that opted into immediate continuation), persists the
// session, and returns control to the caller. Because every step boundary is
// a save point, a workflow can pause for user input, survive a process
// restart, and resume exactly where it left off.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/graphflow
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/graphflow/graph"
//		"github.com/smallnest/graphflow/prebuilt"
//	)
//
//	func main() {
//		greet := prebuilt.NewTask("greet", func(_ context.Context, tc *graph.Context) (*graph.TaskResult, error) {
//			name, err := graph.Require[string](tc, "name")
//			if err != nil {
//				return nil, err
//			}
//			return graph.NewTaskResult("Hello, "+name+"!", graph.End()), nil
//		})
//
//		g := graph.NewGraphBuilder("hello").
//			AddTask(greet).
//			Build()
//
//		storage := graph.NewInMemorySessionStorage()
//		runner := graph.NewFlowRunner(g, storage)
//
//		ctx := context.Background()
//		session := graph.NewSession(g.ID(), g.StartTaskID())
//		_ = session.Context.Set("name", "Alice")
//		_ = storage.Save(ctx, session)
//
//		result, _ := runner.Run(ctx, session.ID)
//		fmt.Println(result.Response) // Hello, Alice!
//	}
//
// # Key Features
//
//   - Step-wise execution: one task per step, with explicit transition
//     control via NextAction (continue, continue-and-execute, go-to, end,
//     wait-for-input)
//   - Conditional routing: edges carry predicates over the session context
//   - Shared context: a thread-safe, JSON-serializable key/value store plus
//     a bounded chat history, persisted with the session
//   - Pluggable persistence: in-memory, PostgreSQL, SQLite, and Redis
//     session storage backends
//   - LLM tasks: prebuilt conversational and single-prompt tasks for
//     OpenAI-compatible APIs and langchaingo models
//
// # Packages
//
//   - graph: the core engine (tasks, edges, context, sessions, runner)
//   - store: storage backend selection plus postgres, sqlite, and redis
//     implementations
//   - prebuilt: ready-made tasks (function adapter, chat, single prompt)
//   - log: pluggable logging used across the framework
//
// See the examples directory for a complete interactive CLI workflow and an
// HTTP service host.
package graphflow
