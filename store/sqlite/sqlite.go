package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/graphflow/graph"
)

// SqliteSessionStorage implements graph.SessionStorage using SQLite. It is
// the single-file alternative to the postgres backend for CLI tools and
// small deployments.
type SqliteSessionStorage struct {
	db        *sql.DB
	tableName string
}

var _ graph.SessionStorage = (*SqliteSessionStorage)(nil)

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "sessions"
}

// NewSqliteSessionStorage creates a new SQLite session storage and
// initializes the schema.
func NewSqliteSessionStorage(opts SqliteOptions) (*SqliteSessionStorage, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "sessions"
	}

	storage := &SqliteSessionStorage{
		db:        db,
		tableName: tableName,
	}

	if err := storage.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// InitSchema creates the sessions table if it doesn't exist
func (s *SqliteSessionStorage) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			graph_id TEXT NOT NULL,
			current_task_id TEXT NOT NULL,
			status_message TEXT,
			context TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SqliteSessionStorage) Close() error {
	return s.db.Close()
}

// Save upserts the session by id
func (s *SqliteSessionStorage) Save(ctx context.Context, session *graph.Session) error {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, graph_id, current_task_id, status_message, context, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			graph_id = excluded.graph_id,
			current_task_id = excluded.current_task_id,
			status_message = excluded.status_message,
			context = excluded.context,
			updated_at = excluded.updated_at
	`, s.tableName)

	var statusMessage sql.NullString
	if session.StatusMessage != "" {
		statusMessage = sql.NullString{String: session.StatusMessage, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.GraphID,
		session.CurrentTaskID,
		statusMessage,
		string(contextJSON),
		time.Now().UTC(),
	)

	if err != nil {
		return &graph.StorageError{Op: "save session", Err: err}
	}

	return nil
}

// Get loads a session by id. A missing id returns (nil, nil).
func (s *SqliteSessionStorage) Get(ctx context.Context, id string) (*graph.Session, error) {
	query := fmt.Sprintf(`
		SELECT id, graph_id, current_task_id, status_message, context
		FROM %s
		WHERE id = ?
	`, s.tableName)

	var session graph.Session
	var statusMessage sql.NullString
	var contextJSON string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.GraphID,
		&session.CurrentTaskID,
		&statusMessage,
		&contextJSON,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &graph.StorageError{Op: "get session", Err: err}
	}

	if statusMessage.Valid {
		session.StatusMessage = statusMessage.String
	}

	session.Context = graph.NewContext()
	if err := json.Unmarshal([]byte(contextJSON), session.Context); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}

	return &session, nil
}

// Delete removes a session by id
func (s *SqliteSessionStorage) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return &graph.StorageError{Op: "delete session", Err: err}
	}
	return nil
}
