package runner

import (
	"context"
	"fmt"
	"time"

	"abstain/internal/agent"
	"abstain/internal/eval"
	"abstain/internal/ledger"
	"abstain/internal/question"
)

// OutcomeStatus classifies a finished unit.
type OutcomeStatus string

const (
	// OutcomeRecorded marks a CORRECT, INCORRECT, or DOUBT verdict with a record.
	OutcomeRecorded OutcomeStatus = "recorded"
	// OutcomeJudgedError marks an ERROR verdict; nothing is persisted.
	OutcomeJudgedError OutcomeStatus = "judged_error"
	// OutcomeFailed marks a call or parse failure; nothing is persisted.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the result of running one combination.
type Outcome struct {
	Combination Combination
	Status      OutcomeStatus
	// Record is set when Status is OutcomeRecorded.
	Record   ledger.Record
	Response string
	Received string
	// Category is set unless Status is OutcomeFailed.
	Category eval.Category
	Err      error
	Duration time.Duration
}

// Unit runs a single combination to an outcome.
type Unit interface {
	Run(ctx context.Context, combination Combination) Outcome
}

// Task asks the target model, extracts the answer, then asks the judge.
type Task struct {
	Caller            agent.Caller
	JudgeModel        string
	JudgeSystem       string
	JudgeMaxTokens    int
	AnswerTemperature *float64
	AnswerMaxTokens   int
}

// Run never returns an error; failures surface as OutcomeFailed.
func (t Task) Run(ctx context.Context, combination Combination) Outcome {
	start := time.Now()
	outcome := t.run(ctx, combination)
	outcome.Duration = time.Since(start)
	return outcome
}

func (t Task) run(ctx context.Context, combination Combination) Outcome {
	outcome := Outcome{Combination: combination}
	response, err := t.Caller.Call(ctx, agent.Request{
		Role:        agent.RoleAnswer,
		Model:       combination.Model,
		Prompt:      combination.Question.Prompt(),
		System:      combination.Variant.System,
		Temperature: t.AnswerTemperature,
		MaxTokens:   t.AnswerMaxTokens,
	})
	if err != nil {
		return failed(outcome, fmt.Errorf("answer call: %w", err))
	}
	outcome.Response = response
	outcome.Received = question.ExtractAnswer(response)

	verdict, err := t.Caller.Call(ctx, agent.Request{
		Role:      agent.RoleJudge,
		Model:     t.JudgeModel,
		Prompt:    eval.JudgePrompt(combination.Question.Text, outcome.Received, combination.Question.Answer),
		System:    t.JudgeSystem,
		MaxTokens: t.JudgeMaxTokens,
	})
	if err != nil {
		return failed(outcome, fmt.Errorf("judge call: %w", err))
	}
	category, err := eval.ExtractCategory(verdict)
	if err != nil {
		return failed(outcome, fmt.Errorf("classify verdict: %w", err))
	}
	outcome.Category = category
	if !category.Persisted() {
		outcome.Status = OutcomeJudgedError
		return outcome
	}
	outcome.Status = OutcomeRecorded
	outcome.Record = ledger.Record{
		Question:       combination.Question.Text,
		ExpectedAnswer: combination.Question.Answer,
		Model:          combination.Model,
		SuggestEmpty:   combination.Variant.SuggestEmpty,
		Response:       response,
		ReceivedAnswer: outcome.Received,
		Evaluation:     category,
	}
	return outcome
}

func failed(outcome Outcome, err error) Outcome {
	outcome.Status = OutcomeFailed
	outcome.Err = err
	return outcome
}
