// Package prebuilt provides ready-made task implementations for common
// workflow steps.
//
// # Available Tasks
//
// TaskFunc adapts a plain function into a task:
//
//	classify := prebuilt.NewTask("classify", func(ctx context.Context, tc *graph.Context) (*graph.TaskResult, error) {
//		input, err := graph.Require[string](tc, prebuilt.UserInputKey)
//		if err != nil {
//			return nil, err
//		}
//		// ...
//		return graph.NewTaskResult("classified", graph.ContinueAndExecute()), nil
//	})
//
// ChatTask is a conversational step backed by any OpenAI-compatible chat
// completion endpoint (OpenAI, OpenRouter, local vLLM). It reads user_input
// from the context, forwards the recent chat history, and records both
// sides of the exchange:
//
//	chat := prebuilt.NewChatTask("assistant", prebuilt.ChatTaskOptions{
//		APIKey:       os.Getenv("OPENAI_API_KEY"),
//		Model:        openai.GPT4oMini,
//		SystemPrompt: "You are an insurance claims assistant.",
//	})
//
// LLMTask is a non-conversational pipeline step on a langchaingo model: one
// prompt in, one reply out, published under an output key:
//
//	summarize := prebuilt.NewLLMTask("summarize", model, prebuilt.LLMTaskOptions{
//		Prompt:     "Summarize the claim below in two sentences.",
//		PromptKeys: []string{"claim_details"},
//		OutputKey:  "summary",
//	})
package prebuilt
