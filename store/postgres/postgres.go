package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/graphflow/graph"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresSessionStorage implements graph.SessionStorage using PostgreSQL.
// The context is stored as a self-contained jsonb column, so a session can
// be loaded without any other state.
type PostgresSessionStorage struct {
	pool      DBPool
	tableName string
}

var _ graph.SessionStorage = (*PostgresSessionStorage)(nil)

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "sessions"
}

// NewPostgresSessionStorage creates a new Postgres session storage
func NewPostgresSessionStorage(ctx context.Context, opts PostgresOptions) (*PostgresSessionStorage, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "sessions"
	}

	return &PostgresSessionStorage{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// Connect creates a storage with the default table name and initializes the
// schema. This is the one-call constructor hosts typically use.
func Connect(ctx context.Context, connString string) (*PostgresSessionStorage, error) {
	s, err := NewPostgresSessionStorage(ctx, PostgresOptions{ConnString: connString})
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresSessionStorageWithPool creates a session storage with an
// existing pool. Useful for testing with mocks.
func NewPostgresSessionStorageWithPool(pool DBPool, tableName string) *PostgresSessionStorage {
	if tableName == "" {
		tableName = "sessions"
	}
	return &PostgresSessionStorage{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the sessions table if it doesn't exist
func (s *PostgresSessionStorage) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			graph_id TEXT NOT NULL,
			current_task_id TEXT NOT NULL,
			status_message TEXT,
			context JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresSessionStorage) Close() {
	s.pool.Close()
}

// Save upserts the session by id
func (s *PostgresSessionStorage) Save(ctx context.Context, session *graph.Session) error {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, graph_id, current_task_id, status_message, context, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			graph_id = EXCLUDED.graph_id,
			current_task_id = EXCLUDED.current_task_id,
			status_message = EXCLUDED.status_message,
			context = EXCLUDED.context,
			updated_at = EXCLUDED.updated_at
	`, s.tableName)

	statusMessage := nullableString(session.StatusMessage)

	_, err = s.pool.Exec(ctx, query,
		session.ID,
		session.GraphID,
		session.CurrentTaskID,
		statusMessage,
		contextJSON,
		time.Now().UTC(),
	)

	if err != nil {
		return &graph.StorageError{Op: "save session", Err: err}
	}

	return nil
}

// Get loads a session by id, deserializing the context from jsonb.
// A missing id returns (nil, nil).
func (s *PostgresSessionStorage) Get(ctx context.Context, id string) (*graph.Session, error) {
	query := fmt.Sprintf(`
		SELECT id, graph_id, current_task_id, status_message, context
		FROM %s
		WHERE id = $1
	`, s.tableName)

	var session graph.Session
	var statusMessage *string
	var contextJSON []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.GraphID,
		&session.CurrentTaskID,
		&statusMessage,
		&contextJSON,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &graph.StorageError{Op: "get session", Err: err}
	}

	if statusMessage != nil {
		session.StatusMessage = *statusMessage
	}

	session.Context = graph.NewContext()
	if err := json.Unmarshal(contextJSON, session.Context); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}

	return &session, nil
}

// Delete removes a session by id
func (s *PostgresSessionStorage) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return &graph.StorageError{Op: "delete session", Err: err}
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
