package store

import (
	"context"
	"os"

	"github.com/smallnest/graphflow/graph"
	"github.com/smallnest/graphflow/log"
	"github.com/smallnest/graphflow/store/postgres"
)

// DatabaseURLEnv is the environment variable that selects the durable
// postgres backend.
const DatabaseURLEnv = "DATABASE_URL"

// FromEnv returns the session storage selected by the environment: a
// postgres-backed storage when DATABASE_URL is set, the in-memory storage
// otherwise. A failed postgres connection falls back to in-memory so hosts
// keep working in degraded mode.
func FromEnv(ctx context.Context) graph.SessionStorage {
	connString := os.Getenv(DatabaseURLEnv)
	if connString == "" {
		log.Info("using in-memory session storage (set %s to use PostgreSQL)", DatabaseURLEnv)
		return graph.NewInMemorySessionStorage()
	}

	storage, err := postgres.Connect(ctx, connString)
	if err != nil {
		log.Error("failed to connect to PostgreSQL: %v, falling back to in-memory storage", err)
		return graph.NewInMemorySessionStorage()
	}

	log.Info("using PostgreSQL session storage")
	return storage
}
