package graph

import (
	"github.com/google/uuid"
)

// DefaultGraphID is the graph id used by NewSessionFromTask.
const DefaultGraphID = "default"

// Session is the persistent execution state of one workflow run: identity,
// the next task to execute, the shared context, and the last status
// message. A session is bound to one graph by GraphID.
//
// There is no terminal flag: after a step returns Completed, a further
// ExecuteStep re-runs the terminal task.
type Session struct {
	ID            string   `json:"id"`
	GraphID       string   `json:"graph_id"`
	CurrentTaskID string   `json:"current_task_id"`
	StatusMessage string   `json:"status_message,omitempty"`
	Context       *Context `json:"context"`
}

// NewSession creates a session with a fresh UUID, bound to graphID and
// positioned at startTaskID.
func NewSession(graphID, startTaskID string) *Session {
	return &Session{
		ID:            uuid.New().String(),
		GraphID:       graphID,
		CurrentTaskID: startTaskID,
		Context:       NewContext(),
	}
}

// NewSessionFromTask creates a session with the given id, positioned at
// taskID and bound to the default graph.
func NewSessionFromTask(id, taskID string) *Session {
	return &Session{
		ID:            id,
		GraphID:       DefaultGraphID,
		CurrentTaskID: taskID,
		Context:       NewContext(),
	}
}

// Clone returns a deep copy of the session, including its context.
func (s *Session) Clone() *Session {
	clone := *s
	if s.Context != nil {
		clone.Context = s.Context.Clone()
	}
	return &clone
}
