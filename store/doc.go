// Package store selects a session storage backend for graphflow hosts.
//
// Concrete backends live in the subpackages:
//
//   - store/postgres — durable storage on PostgreSQL (jsonb, UPSERT)
//   - store/sqlite — single-file durable storage on SQLite
//   - store/redis — JSON blobs in Redis with optional TTL
//
// The in-memory storage lives in the graph package itself. FromEnv picks
// postgres when DATABASE_URL is set and falls back to in-memory, which is
// the conventional wiring for HTTP hosts:
//
//	storage := store.FromEnv(ctx)
//	runner := graph.NewFlowRunner(g, storage)
package store
