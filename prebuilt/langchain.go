package prebuilt

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/graphflow/graph"
)

// LLMTaskOptions configures an LLMTask.
type LLMTaskOptions struct {
	// Prompt is the instruction sent to the model. Context values referenced
	// by PromptKeys are appended to it as "key: value" lines.
	Prompt string
	// PromptKeys names context keys whose string values are appended to the
	// prompt, in the order given. Missing keys fail the task.
	PromptKeys []string
	// OutputKey receives the model's reply in the context. Empty means the
	// reply is only returned as the response.
	OutputKey string
	// Next is the action returned after a successful generation. The zero
	// value means advance and execute the next task.
	Next graph.NextAction
}

// LLMTask runs a single prompt through a langchaingo model and stores the
// reply. Unlike ChatTask it is a pipeline step, not a conversation: it does
// not touch the chat history and defaults to continuing the workflow.
type LLMTask struct {
	id    string
	model llms.Model
	opts  LLMTaskOptions
}

// NewLLMTask creates an LLM task with the given id.
func NewLLMTask(id string, model llms.Model, opts LLMTaskOptions) *LLMTask {
	if opts.Next.Type == "" {
		opts.Next = graph.ContinueAndExecute()
	}
	return &LLMTask{id: id, model: model, opts: opts}
}

// ID returns the task identifier.
func (t *LLMTask) ID() string { return t.id }

// Run builds the prompt from the configured context keys, generates a
// completion, and publishes the reply.
func (t *LLMTask) Run(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error) {
	prompt := t.opts.Prompt
	for _, key := range t.opts.PromptKeys {
		value, err := graph.Require[string](tc, key)
		if err != nil {
			return nil, err
		}
		prompt += fmt.Sprintf("\n%s: %s", key, value)
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, t.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generation failed: %w", err)
	}

	if t.opts.OutputKey != "" {
		if err := tc.Set(t.opts.OutputKey, reply); err != nil {
			return nil, err
		}
	}
	return graph.NewTaskResult(reply, t.opts.Next), nil
}
