// Package graph provides the core model and execution engine for graphflow:
// stateful, resumable workflows built from tasks connected by edges.
//
// # Core Concepts
//
// ## Task
// A Task is a unit of work with a stable ID and a Run method. Tasks read
// their inputs from the shared Context and publish outputs by writing back
// to it and by returning a TaskResult with a NextAction.
//
// ## Graph
// A Graph is an immutable registry of tasks and edges with an entry point,
// assembled with GraphBuilder. Edges may carry a condition predicate; the
// first matching edge in declaration order wins.
//
// ## Session and Context
// A Session is the persistent execution state: id, current task, status
// message, and a Context. The Context is a thread-safe typed key/value
// store plus a bounded chat history, serializable as a whole so a session
// can resume in a different process.
//
// ## Single-step execution
// Graph.ExecuteStep runs exactly one task, interprets its NextAction, and
// returns control to the host. ContinueAndExecute chains several tasks
// inside one step, sharing the same Context instance. FlowRunner wraps the
// load → step → save cycle for interactive hosts.
//
// # Example Usage
//
//	builder := graph.NewGraphBuilder("greeting")
//	builder.AddTask(askName).AddTask(greet)
//	builder.AddEdge(askName.ID(), greet.ID())
//	g := builder.Build()
//
//	storage := graph.NewInMemorySessionStorage()
//	session := graph.NewSession(g.ID(), g.StartTaskID())
//	session.Context.Set("user_input", "hello")
//	_ = storage.Save(ctx, session)
//
//	runner := graph.NewFlowRunner(g, storage)
//	result, err := runner.Run(ctx, session.ID)
//	if err != nil {
//		// handle
//	}
//	fmt.Println(result.Response, result.Status)
//
// Durable session storage backends live under store/ (postgres, sqlite,
// redis); ready-made tasks live under prebuilt/.
package graph
