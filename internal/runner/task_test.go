package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstain/internal/agent"
	"abstain/internal/eval"
	"abstain/internal/prompt"
	"abstain/internal/question"
)

type scriptedCaller struct {
	mu       sync.Mutex
	requests []agent.Request
	answer   func(agent.Request) (string, error)
	judge    func(agent.Request) (string, error)
}

func (c *scriptedCaller) Call(_ context.Context, req agent.Request) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if req.Role == agent.RoleJudge {
		return c.judge(req)
	}
	return c.answer(req)
}

func reply(text string) func(agent.Request) (string, error) {
	return func(agent.Request) (string, error) { return text, nil }
}

func taskCombination() Combination {
	return Combination{
		Question: question.Question{Text: "What is the capital of France", Answer: "Paris"},
		Variant:  prompt.Variant{Name: "suggest_empty", System: "You may leave it empty.", SuggestEmpty: true},
		Model:    "m1",
	}
}

func newTask(caller agent.Caller) Task {
	return Task{
		Caller:            caller,
		JudgeModel:        "judge-model",
		JudgeSystem:       "Classify the answer.",
		JudgeMaxTokens:    2048,
		AnswerTemperature: agent.Float(0.01),
	}
}

func TestTaskRecordsCorrectVerdict(t *testing.T) {
	caller := &scriptedCaller{
		answer: reply("Thinking...\nAnswer: {Paris}"),
		judge:  reply("It matches.\nCategory: CORRECT."),
	}

	outcome := newTask(caller).Run(context.Background(), taskCombination())

	require.Equal(t, OutcomeRecorded, outcome.Status)
	assert.Equal(t, eval.Correct, outcome.Record.Evaluation)
	assert.Equal(t, "What is the capital of France", outcome.Record.Question)
	assert.Equal(t, "Paris", outcome.Record.ExpectedAnswer)
	assert.Equal(t, "Paris", outcome.Record.ReceivedAnswer)
	assert.Equal(t, "Thinking...\nAnswer: {Paris}", outcome.Record.Response)
	assert.True(t, outcome.Record.SuggestEmpty)

	require.Len(t, caller.requests, 2)
	answerReq, judgeReq := caller.requests[0], caller.requests[1]
	assert.Equal(t, "m1", answerReq.Model)
	assert.Equal(t, "Question: What is the capital of France?", answerReq.Prompt)
	assert.Equal(t, "You may leave it empty.", answerReq.System)
	require.NotNil(t, answerReq.Temperature)
	assert.InDelta(t, 0.01, *answerReq.Temperature, 1e-9)

	assert.Equal(t, "judge-model", judgeReq.Model)
	assert.Equal(t, "Classify the answer.", judgeReq.System)
	assert.Nil(t, judgeReq.Temperature)
	assert.Equal(t, 2048, judgeReq.MaxTokens)
	assert.Equal(t, eval.JudgePrompt("What is the capital of France", "Paris", "Paris"), judgeReq.Prompt)
}

func TestTaskJudgedErrorIsNotRecorded(t *testing.T) {
	caller := &scriptedCaller{answer: reply("Answer: {}"), judge: reply("Category: ERROR")}

	outcome := newTask(caller).Run(context.Background(), taskCombination())

	assert.Equal(t, OutcomeJudgedError, outcome.Status)
	assert.Equal(t, eval.Error, outcome.Category)
	assert.Empty(t, outcome.Record.Question)
}

func TestTaskUnknownCategoryFails(t *testing.T) {
	caller := &scriptedCaller{answer: reply("Answer: {Paris}"), judge: reply("category: {maybe}")}

	outcome := newTask(caller).Run(context.Background(), taskCombination())

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, eval.ErrUnknownCategory)
}

func TestTaskAnswerFailureSkipsJudge(t *testing.T) {
	boom := errors.New("connection reset")
	caller := &scriptedCaller{
		answer: func(agent.Request) (string, error) { return "", boom },
		judge:  reply("Category: CORRECT"),
	}

	outcome := newTask(caller).Run(context.Background(), taskCombination())

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, boom)
	assert.Len(t, caller.requests, 1)
}

func TestTaskUnstructuredAnswerFallsBackToRaw(t *testing.T) {
	caller := &scriptedCaller{answer: reply("Probably Paris."), judge: reply("Category: DOUBT")}

	outcome := newTask(caller).Run(context.Background(), taskCombination())

	require.Equal(t, OutcomeRecorded, outcome.Status)
	assert.Equal(t, "Probably Paris.", outcome.Record.ReceivedAnswer)
	assert.Equal(t, eval.Doubt, outcome.Record.Evaluation)
}
