package prebuilt

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/graphflow/graph"
)

// UserInputKey is the context key conversational tasks read their input from.
const UserInputKey = "user_input"

// DefaultHistoryWindow is how many chat messages a conversational task
// forwards to the model unless configured otherwise.
const DefaultHistoryWindow = 20

// ChatTaskOptions configures a ChatTask.
type ChatTaskOptions struct {
	// APIKey authenticates against the OpenAI-compatible endpoint.
	APIKey string
	// BaseURL overrides the endpoint, e.g. an OpenRouter or local vLLM URL.
	// Empty means the OpenAI default.
	BaseURL string
	// Model is the model name, e.g. openai.GPT4oMini.
	Model string
	// SystemPrompt is prepended to every request when non-empty.
	SystemPrompt string
	// HistoryWindow caps how many chat messages are sent to the model.
	// Zero means DefaultHistoryWindow.
	HistoryWindow int
	// Next is the action returned after a successful completion. The zero
	// value means wait for the next user input.
	Next graph.NextAction
}

// ChatTask is a conversational task backed by an OpenAI-compatible chat
// completion API. On each run it reads the user's input from the context,
// sends the recent chat history to the model, records both sides of the
// exchange in the history, and returns the model's reply as the response.
type ChatTask struct {
	id     string
	client *openai.Client
	opts   ChatTaskOptions
}

// NewChatTask creates a chat task with the given id.
func NewChatTask(id string, opts ChatTaskOptions) *ChatTask {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.Next.Type == "" {
		opts.Next = graph.WaitForInput()
	}
	return &ChatTask{
		id:     id,
		client: openai.NewClientWithConfig(config),
		opts:   opts,
	}
}

// NewChatTaskWithClient creates a chat task using a caller-provided client.
func NewChatTaskWithClient(id string, client *openai.Client, opts ChatTaskOptions) *ChatTask {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.Next.Type == "" {
		opts.Next = graph.WaitForInput()
	}
	return &ChatTask{id: id, client: client, opts: opts}
}

// ID returns the task identifier.
func (t *ChatTask) ID() string { return t.id }

// Run reads user_input from the context, runs a chat completion over the
// recent history, and appends both messages to the history.
func (t *ChatTask) Run(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error) {
	input, err := graph.Require[string](tc, UserInputKey)
	if err != nil {
		return nil, err
	}
	tc.AddUserMessage(input)

	messages := make([]openai.ChatCompletionMessage, 0, t.opts.HistoryWindow+1)
	if t.opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: t.opts.SystemPrompt,
		})
	}
	for _, msg := range tc.LastMessages(t.opts.HistoryWindow) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    t.opts.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	tc.AddAssistantMessage(reply)
	// Consume the input so a re-run waits for fresh input.
	tc.Remove(UserInputKey)

	return graph.NewTaskResult(reply, t.opts.Next), nil
}

func chatRole(role graph.MessageRole) string {
	switch role {
	case graph.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case graph.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
