package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTask runs an arbitrary function; the test workhorse.
type stubTask struct {
	id  string
	run func(ctx context.Context, tc *Context) (*TaskResult, error)
}

func (t *stubTask) ID() string { return t.id }

func (t *stubTask) Run(ctx context.Context, tc *Context) (*TaskResult, error) {
	return t.run(ctx, tc)
}

func newStubTask(id string, run func(ctx context.Context, tc *Context) (*TaskResult, error)) *stubTask {
	return &stubTask{id: id, run: run}
}

// respondTask always returns the same response and action.
func respondTask(id, response string, action NextAction) *stubTask {
	return newStubTask(id, func(_ context.Context, _ *Context) (*TaskResult, error) {
		return NewTaskResult(response, action), nil
	})
}

func TestGraphBuilder(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", Continue())).
		AddTask(respondTask("b", "", End())).
		AddEdge("a", "b").
		Build()

	assert.Equal(t, "wf", g.ID())
	assert.Equal(t, "a", g.StartTaskID())
	assert.ElementsMatch(t, []string{"a", "b"}, g.TaskIDs())

	task, ok := g.GetTask("b")
	assert.True(t, ok)
	assert.Equal(t, "b", task.ID())

	_, ok = g.GetTask("missing")
	assert.False(t, ok)
}

func TestGraphBuilder_SetStartTask(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", End())).
		AddTask(respondTask("b", "", End())).
		SetStartTask("b").
		Build()

	assert.Equal(t, "b", g.StartTaskID())

	// Unknown ids leave the start task unchanged.
	g = NewGraphBuilder("wf").
		AddTask(respondTask("a", "", End())).
		SetStartTask("nope").
		Build()
	assert.Equal(t, "a", g.StartTaskID())
}

func TestFindNextTask(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("classify", "", Continue())).
		AddTask(respondTask("car", "", End())).
		AddTask(respondTask("apartment", "", End())).
		AddConditionalEdge("classify", "car", func(tc *Context) bool {
			kind, _ := Get[string](tc, "kind")
			return kind == "car"
		}).
		AddConditionalEdge("classify", "apartment", func(tc *Context) bool {
			kind, _ := Get[string](tc, "kind")
			return kind == "apartment"
		}).
		Build()

	tc := NewContext()
	require.NoError(t, tc.Set("kind", "apartment"))

	next, ok := g.FindNextTask("classify", tc)
	assert.True(t, ok)
	assert.Equal(t, "apartment", next)

	require.NoError(t, tc.Set("kind", "boat"))
	_, ok = g.FindNextTask("classify", tc)
	assert.False(t, ok)
}

func TestFindNextTask_OrderDeterminism(t *testing.T) {
	// Two edges from the same source both match; the first declared wins.
	always := func(*Context) bool { return true }
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", Continue())).
		AddTask(respondTask("b", "", End())).
		AddTask(respondTask("c", "", End())).
		AddConditionalEdge("a", "b", always).
		AddConditionalEdge("a", "c", always).
		Build()

	for i := 0; i < 10; i++ {
		next, ok := g.FindNextTask("a", NewContext())
		require.True(t, ok)
		assert.Equal(t, "b", next)
	}
}

func TestFindNextTask_UnconditionalSwallowsLaterEdges(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", Continue())).
		AddTask(respondTask("b", "", End())).
		AddTask(respondTask("c", "", End())).
		AddEdge("a", "b").
		AddConditionalEdge("a", "c", func(*Context) bool { return true }).
		Build()

	next, ok := g.FindNextTask("a", NewContext())
	require.True(t, ok)
	assert.Equal(t, "b", next)
}

func TestExecuteStep_LinearContinue(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("first", "step one done", Continue())).
		AddTask(respondTask("second", "all done", End())).
		AddEdge("first", "second").
		Build()

	session := NewSession("wf", g.StartTaskID())
	ctx := context.Background()

	// Step 1: first runs, session advances to second, second has NOT run.
	result, err := g.ExecuteStep(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "step one done", result.Response)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "second", session.CurrentTaskID)

	// Step 2: second runs and completes the workflow.
	result, err = g.ExecuteStep(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "all done", result.Response)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "second", session.CurrentTaskID)
}

func TestExecuteStep_ContinueWithoutEdgeStays(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("only", "hi", Continue())).
		Build()

	session := NewSession("wf", "only")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "only", session.CurrentTaskID)
}

func TestExecuteStep_ContinueAndExecuteChain(t *testing.T) {
	var order []string
	record := func(id string, action NextAction) *stubTask {
		return newStubTask(id, func(_ context.Context, tc *Context) (*TaskResult, error) {
			order = append(order, id)
			require.NoError(t, tc.Set("last", id))
			return NewTaskResult("ran "+id, action), nil
		})
	}

	g := NewGraphBuilder("wf").
		AddTask(record("a", ContinueAndExecute())).
		AddTask(record("b", ContinueAndExecute())).
		AddTask(newStubTask("c", func(_ context.Context, tc *Context) (*TaskResult, error) {
			order = append(order, "c")
			// Writes from earlier tasks in the chain are visible here.
			last, ok := Get[string](tc, "last")
			require.True(t, ok)
			require.Equal(t, "b", last)
			return NewTaskResult("ran c", End()), nil
		})).
		AddEdge("a", "b").
		AddEdge("b", "c").
		Build()

	session := NewSession("wf", "a")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)

	// All three ran in one step; the response is the last task's.
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, "ran c", result.Response)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "c", session.CurrentTaskID)
}

func TestExecuteStep_ContinueAndExecuteWithoutEdge(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "done a", ContinueAndExecute())).
		Build()

	session := NewSession("wf", "a")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "done a", result.Response)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "a", session.CurrentTaskID)
}

func TestExecuteStep_ConditionalRouting(t *testing.T) {
	classify := newStubTask("classify", func(_ context.Context, tc *Context) (*TaskResult, error) {
		input, _ := Get[string](tc, "user_input")
		kind := "apartment"
		if input == "my car was hit" {
			kind = "car"
		}
		if err := tc.Set("claim_kind", kind); err != nil {
			return nil, err
		}
		return NewTaskResult("classified as "+kind, ContinueAndExecute()), nil
	})

	g := NewGraphBuilder("claims").
		AddTask(classify).
		AddTask(respondTask("car", "handling car claim", End())).
		AddTask(respondTask("apartment", "handling apartment claim", End())).
		AddConditionalEdge("classify", "car", func(tc *Context) bool {
			kind, _ := Get[string](tc, "claim_kind")
			return kind == "car"
		}).
		AddConditionalEdge("classify", "apartment", func(tc *Context) bool {
			kind, _ := Get[string](tc, "claim_kind")
			return kind == "apartment"
		}).
		Build()

	ctx := context.Background()

	t.Run("car branch", func(t *testing.T) {
		session := NewSession("claims", "classify")
		require.NoError(t, session.Context.Set("user_input", "my car was hit"))

		result, err := g.ExecuteStep(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "handling car claim", result.Response)
		assert.Equal(t, StatusCompleted, result.Status)
		assert.Equal(t, "car", session.CurrentTaskID)
	})

	t.Run("apartment branch", func(t *testing.T) {
		session := NewSession("claims", "classify")
		require.NoError(t, session.Context.Set("user_input", "my kitchen flooded"))

		result, err := g.ExecuteStep(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "handling apartment claim", result.Response)
		assert.Equal(t, "apartment", session.CurrentTaskID)
	})
}

func TestExecuteStep_ConditionalWithUnconditionalFallback(t *testing.T) {
	classify := newStubTask("classify", func(_ context.Context, tc *Context) (*TaskResult, error) {
		if err := tc.Set("kind", "car"); err != nil {
			return nil, err
		}
		return NewTaskResult("", ContinueAndExecute()), nil
	})

	// Conditional edge declared first, unconditional fallback second.
	g := NewGraphBuilder("claims").
		AddTask(classify).
		AddTask(respondTask("car", "car claim", End())).
		AddTask(respondTask("apartment", "apartment claim", End())).
		AddConditionalEdge("classify", "car", func(tc *Context) bool {
			kind, _ := Get[string](tc, "kind")
			return kind == "car"
		}).
		AddEdge("classify", "apartment").
		Build()

	session := NewSession("claims", "classify")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "car claim", result.Response)
	assert.Equal(t, "car", session.CurrentTaskID)
}

func TestExecuteStep_WaitForInputResume(t *testing.T) {
	ask := newStubTask("ask", func(_ context.Context, tc *Context) (*TaskResult, error) {
		if _, ok := Get[string](tc, "answer"); !ok {
			return NewTaskResult("what is your claim number?", WaitForInput()), nil
		}
		return NewTaskResult("", ContinueAndExecute()), nil
	})

	g := NewGraphBuilder("wf").
		AddTask(ask).
		AddTask(respondTask("done", "thanks", End())).
		AddEdge("ask", "done").
		Build()

	session := NewSession("wf", "ask")
	ctx := context.Background()

	// First step pauses at the same task.
	result, err := g.ExecuteStep(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "what is your claim number?", result.Response)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "ask", session.CurrentTaskID)

	// Input arrives; the next step re-runs ask and flows through to done.
	require.NoError(t, session.Context.Set("answer", "CLM-100"))
	result, err = g.ExecuteStep(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "thanks", result.Response)
	assert.Equal(t, StatusCompleted, result.Status)
}

func TestExecuteStep_GoBackWaits(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "going back", GoBack())).
		Build()

	session := NewSession("wf", "a")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "a", session.CurrentTaskID)
}

func TestExecuteStep_GoTo(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "jumping", GoTo("c"))).
		AddTask(respondTask("b", "", End())).
		AddTask(respondTask("c", "landed", End())).
		AddEdge("a", "b").
		Build()

	session := NewSession("wf", "a")
	result, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	// GoTo bypasses the edges and does not execute the target.
	assert.Equal(t, "jumping", result.Response)
	assert.Equal(t, StatusWaitingForInput, result.Status)
	assert.Equal(t, "c", session.CurrentTaskID)
}

func TestExecuteStep_GoToUnknownTarget(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", GoTo("nowhere"))).
		Build()

	session := NewSession("wf", "a")
	_, err := g.ExecuteStep(context.Background(), session)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestExecuteStep_UnknownCurrentTask(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(respondTask("a", "", End())).
		Build()

	session := NewSession("wf", "ghost")
	_, err := g.ExecuteStep(context.Background(), session)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestExecuteStep_TaskFailureKeepsPosition(t *testing.T) {
	boom := errors.New("upstream unavailable")
	g := NewGraphBuilder("wf").
		AddTask(newStubTask("flaky", func(_ context.Context, _ *Context) (*TaskResult, error) {
			return nil, boom
		})).
		Build()

	session := NewSession("wf", "flaky")
	_, err := g.ExecuteStep(context.Background(), session)
	require.Error(t, err)

	var taskErr *TaskExecutionError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "flaky", taskErr.TaskID)
	assert.ErrorIs(t, err, boom)

	// The session can be persisted as-is and retried from the same task.
	assert.Equal(t, "flaky", session.CurrentTaskID)
}

func TestExecuteStep_EndIsRepeatable(t *testing.T) {
	runs := 0
	g := NewGraphBuilder("wf").
		AddTask(newStubTask("final", func(_ context.Context, _ *Context) (*TaskResult, error) {
			runs++
			return NewTaskResult("bye", End()), nil
		})).
		Build()

	session := NewSession("wf", "final")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := g.ExecuteStep(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, result.Status)
	}
	// No terminal flag: stepping a completed session re-runs the final task.
	assert.Equal(t, 2, runs)
}

func TestExecuteStep_StatusMessage(t *testing.T) {
	g := NewGraphBuilder("wf").
		AddTask(newStubTask("a", func(_ context.Context, _ *Context) (*TaskResult, error) {
			return NewTaskResultWithStatus("ok", WaitForInput(), "collecting details"), nil
		})).
		Build()

	session := NewSession("wf", "a")
	_, err := g.ExecuteStep(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "collecting details", session.StatusMessage)
}
