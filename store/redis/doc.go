// Package redis provides Redis-backed session storage for graphflow.
//
// Sessions are stored as JSON blobs under "<prefix>session:<id>". An
// optional TTL lets abandoned conversations expire without cleanup jobs,
// which suits chat-style workflows with bounded lifetimes.
//
// # Basic Usage
//
//	storage := redis.NewRedisSessionStorage(redis.RedisOptions{
//		Addr: "localhost:6379",
//		TTL:  24 * time.Hour,
//	})
//	defer storage.Close()
//
//	runner := graph.NewFlowRunner(g, storage)
//	result, err := runner.Run(ctx, sessionID)
//
// Redis offers no relational queries over sessions; pick the postgres
// backend when you need to inspect or report on persisted state.
package redis
