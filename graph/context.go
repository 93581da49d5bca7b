package graph

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultMaxChatMessages bounds the chat history unless overridden.
const DefaultMaxChatMessages = 1000

// MessageRole identifies who produced a chat message.
type MessageRole string

const (
	// RoleUser marks a message from the end user.
	RoleUser MessageRole = "user"
	// RoleAssistant marks a message produced by the assistant.
	RoleAssistant MessageRole = "assistant"
	// RoleSystem marks an instruction-style message.
	RoleSystem MessageRole = "system"
)

// Message is a single chat history entry.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(role MessageRole, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ChatHistory holds an ordered, bounded list of messages. It is not safe
// for concurrent use on its own; Context guards it with a lock.
type ChatHistory struct {
	Messages    []Message `json:"messages"`
	MaxMessages int       `json:"max_messages"`
}

// NewChatHistory creates an empty history with the default bound.
func NewChatHistory() *ChatHistory {
	return &ChatHistory{MaxMessages: DefaultMaxChatMessages}
}

// NewChatHistoryWithMax creates an empty history bounded to max messages.
func NewChatHistoryWithMax(max int) *ChatHistory {
	return &ChatHistory{MaxMessages: max}
}

// Add appends a message, evicting the oldest entries beyond the bound.
func (h *ChatHistory) Add(msg Message) {
	h.Messages = append(h.Messages, msg)
	if h.MaxMessages > 0 && len(h.Messages) > h.MaxMessages {
		h.Messages = h.Messages[len(h.Messages)-h.MaxMessages:]
	}
}

// Last returns the last n messages (all of them when n exceeds the length).
func (h *ChatHistory) Last(n int) []Message {
	if n >= len(h.Messages) {
		n = len(h.Messages)
	}
	return h.Messages[len(h.Messages)-n:]
}

// Len returns the number of stored messages.
func (h *ChatHistory) Len() int {
	return len(h.Messages)
}

// Context is the shared per-session state passed to every task. It combines
// a typed key/value store with a bounded chat history. All methods are safe
// for concurrent use; Set is atomic per key. There is no transactional
// get-then-set, callers needing that must serialize inside a single task.
type Context struct {
	mu      sync.RWMutex
	data    map[string]json.RawMessage
	histMu  sync.RWMutex
	history *ChatHistory
}

// contextData is the serialized form of Context.
type contextData struct {
	Data        map[string]json.RawMessage `json:"data"`
	ChatHistory *ChatHistory               `json:"chat_history"`
}

// NewContext creates an empty context with the default chat history bound.
func NewContext() *Context {
	return &Context{
		data:    make(map[string]json.RawMessage),
		history: NewChatHistory(),
	}
}

// NewContextWithMaxChatMessages creates an empty context whose chat history
// keeps at most max messages.
func NewContextWithMaxChatMessages(max int) *Context {
	return &Context{
		data:    make(map[string]json.RawMessage),
		history: NewChatHistoryWithMax(max),
	}
}

// Set stores a value under key, overwriting any previous value. The value
// must be JSON-serializable; it is encoded once at this boundary so later
// readers see an immutable snapshot.
func (c *Context) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &ContextError{Key: key, Message: "value is not serializable: " + err.Error()}
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

// GetRaw returns the stored JSON value for key.
func (c *Context) GetRaw(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	raw, ok := c.data[key]
	c.mu.RUnlock()
	return raw, ok
}

// GetInto decodes the value stored under key into out. It reports false
// when the key is absent or the value does not decode into out's type.
func (c *Context) GetInto(key string, out any) bool {
	raw, ok := c.GetRaw(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// GetString is a convenience typed read for string values.
func (c *Context) GetString(key string) (string, bool) {
	return Get[string](c, key)
}

// Remove deletes the value stored under key.
func (c *Context) Remove(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Clear removes all key/value data. Chat history is not affected.
func (c *Context) Clear() {
	c.mu.Lock()
	c.data = make(map[string]json.RawMessage)
	c.mu.Unlock()
}

// Keys returns the currently stored keys in unspecified order.
func (c *Context) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	return keys
}

// Get decodes the value stored under key into T. A missing key or a value
// of the wrong shape both report absent, mirroring the typed-read contract.
// Edge conditions use this same read path.
func Get[T any](c *Context, key string) (T, bool) {
	var v T
	raw, ok := c.GetRaw(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Require decodes the value stored under key into T and returns a
// ContextError when it is absent or mis-shaped. Tasks use it for inputs
// they cannot proceed without.
func Require[T any](c *Context, key string) (T, error) {
	v, ok := Get[T](c, key)
	if !ok {
		return v, &ContextError{Key: key, Message: "required key missing or of wrong shape"}
	}
	return v, nil
}

// AddUserMessage appends a user message to the chat history.
func (c *Context) AddUserMessage(content string) {
	c.addMessage(NewMessage(RoleUser, content))
}

// AddAssistantMessage appends an assistant message to the chat history.
func (c *Context) AddAssistantMessage(content string) {
	c.addMessage(NewMessage(RoleAssistant, content))
}

// AddSystemMessage appends a system message to the chat history.
func (c *Context) AddSystemMessage(content string) {
	c.addMessage(NewMessage(RoleSystem, content))
}

func (c *Context) addMessage(msg Message) {
	c.histMu.Lock()
	c.history.Add(msg)
	c.histMu.Unlock()
}

// LastMessages returns a copy of the last n chat messages.
func (c *Context) LastMessages(n int) []Message {
	c.histMu.RLock()
	defer c.histMu.RUnlock()
	last := c.history.Last(n)
	out := make([]Message, len(last))
	copy(out, last)
	return out
}

// Messages returns a copy of all chat messages in insertion order.
func (c *Context) Messages() []Message {
	c.histMu.RLock()
	defer c.histMu.RUnlock()
	out := make([]Message, len(c.history.Messages))
	copy(out, c.history.Messages)
	return out
}

// ChatHistoryLen returns the number of chat messages.
func (c *Context) ChatHistoryLen() int {
	c.histMu.RLock()
	defer c.histMu.RUnlock()
	return c.history.Len()
}

// ClearChatHistory removes all chat messages, keeping the bound.
func (c *Context) ClearChatHistory() {
	c.histMu.Lock()
	c.history.Messages = nil
	c.histMu.Unlock()
}

// Clone returns a deep copy of the context. Storage implementations use it
// so a loaded session never aliases live state.
func (c *Context) Clone() *Context {
	c.mu.RLock()
	data := make(map[string]json.RawMessage, len(c.data))
	for k, v := range c.data {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		data[k] = raw
	}
	c.mu.RUnlock()

	c.histMu.RLock()
	history := &ChatHistory{
		Messages:    make([]Message, len(c.history.Messages)),
		MaxMessages: c.history.MaxMessages,
	}
	copy(history.Messages, c.history.Messages)
	c.histMu.RUnlock()

	return &Context{data: data, history: history}
}

// MarshalJSON serializes both the data map and the chat history.
func (c *Context) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	data := make(map[string]json.RawMessage, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}
	c.mu.RUnlock()

	c.histMu.RLock()
	history := &ChatHistory{
		Messages:    append([]Message(nil), c.history.Messages...),
		MaxMessages: c.history.MaxMessages,
	}
	c.histMu.RUnlock()

	return json.Marshal(contextData{Data: data, ChatHistory: history})
}

// UnmarshalJSON restores a context serialized with MarshalJSON.
func (c *Context) UnmarshalJSON(b []byte) error {
	var cd contextData
	if err := json.Unmarshal(b, &cd); err != nil {
		return err
	}
	if cd.Data == nil {
		cd.Data = make(map[string]json.RawMessage)
	}
	if cd.ChatHistory == nil {
		cd.ChatHistory = NewChatHistory()
	}
	c.mu.Lock()
	c.data = cd.Data
	c.mu.Unlock()
	c.histMu.Lock()
	c.history = cd.ChatHistory
	c.histMu.Unlock()
	return nil
}
