package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	session := NewSession("claims", "classify")

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "claims", session.GraphID)
	assert.Equal(t, "classify", session.CurrentTaskID)
	assert.NotNil(t, session.Context)

	// Each session gets its own id.
	other := NewSession("claims", "classify")
	assert.NotEqual(t, session.ID, other.ID)
}

func TestNewSessionFromTask(t *testing.T) {
	session := NewSessionFromTask("sess-1", "classify")

	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, DefaultGraphID, session.GraphID)
	assert.Equal(t, "classify", session.CurrentTaskID)
	assert.NotNil(t, session.Context)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	session := NewSessionFromTask("sess-1", "classify")
	session.StatusMessage = "waiting for claim details"
	require.NoError(t, session.Context.Set("claim_kind", "car"))
	session.Context.AddUserMessage("my car was hit")

	data, err := json.Marshal(session)
	require.NoError(t, err)

	restored := &Session{Context: NewContext()}
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, "sess-1", restored.ID)
	assert.Equal(t, DefaultGraphID, restored.GraphID)
	assert.Equal(t, "classify", restored.CurrentTaskID)
	assert.Equal(t, "waiting for claim details", restored.StatusMessage)

	kind, ok := Get[string](restored.Context, "claim_kind")
	assert.True(t, ok)
	assert.Equal(t, "car", kind)
	assert.Equal(t, 1, restored.Context.ChatHistoryLen())
}

func TestSession_Clone(t *testing.T) {
	session := NewSessionFromTask("sess-1", "classify")
	require.NoError(t, session.Context.Set("k", "original"))

	clone := session.Clone()
	clone.CurrentTaskID = "summary"
	require.NoError(t, clone.Context.Set("k", "changed"))

	assert.Equal(t, "classify", session.CurrentTaskID)
	v, ok := Get[string](session.Context, "k")
	assert.True(t, ok)
	assert.Equal(t, "original", v)
}
