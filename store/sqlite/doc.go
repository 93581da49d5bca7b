// Package sqlite provides SQLite-backed session storage for graphflow.
//
// It persists sessions in a single table mirroring the postgres backend,
// with the context serialized as JSON text. Intended for CLI tools, demos,
// and single-node deployments that want durability without a server.
//
// # Basic Usage
//
//	storage, err := sqlite.NewSqliteSessionStorage(sqlite.SqliteOptions{
//		Path: "sessions.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer storage.Close()
//
//	runner := graph.NewFlowRunner(g, storage)
//	result, err := runner.Run(ctx, sessionID)
//
// The schema is created automatically on open. Use TableName to keep
// several applications in one database file.
package sqlite
