// Package postgres provides PostgreSQL-backed session storage for graphflow.
//
// Sessions are persisted in a single table with the context serialized to a
// jsonb column, so workflows can resume across process restarts. Saves are
// UPSERTs by session id.
//
// # Schema
//
//	sessions(
//		id TEXT PRIMARY KEY,
//		graph_id TEXT NOT NULL,
//		current_task_id TEXT NOT NULL,
//		status_message TEXT,
//		context JSONB NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL
//	)
//
// The context column is self-contained (no foreign keys): a session can be
// loaded knowing nothing but its id.
//
// # Basic Usage
//
//	storage, err := postgres.Connect(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//		return err
//	}
//	defer storage.Close()
//
//	runner := graph.NewFlowRunner(g, storage)
//	result, err := runner.Run(ctx, sessionID)
//
// For custom table names or an externally managed pool, use
// NewPostgresSessionStorage / NewPostgresSessionStorageWithPool and call
// InitSchema yourself. The DBPool interface makes the storage testable with
// pgxmock.
package postgres
