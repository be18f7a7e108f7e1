package runner

import (
	"abstain/internal/prompt"
	"abstain/internal/question"
	"abstain/internal/spec"
)

// Inputs holds everything read once at startup.
type Inputs struct {
	Questions   []question.Question
	Models      []string
	Variants    []prompt.Variant
	JudgeSystem string
}

// LoadInputs reads the question store, model roster, and prompt files named
// by cfg. A positive limit keeps only the first questions.
func LoadInputs(cfg spec.Config, limit int) (Inputs, error) {
	questions, err := question.LoadQuestions(cfg.QuestionsFile)
	if err != nil {
		return Inputs{}, err
	}
	models, err := question.LoadModels(cfg.ModelsFile)
	if err != nil {
		return Inputs{}, err
	}
	variants, err := prompt.LoadVariants(cfg.Variants)
	if err != nil {
		return Inputs{}, err
	}
	judgeSystem, err := prompt.LoadEvaluation(cfg.EvaluateFile)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		Questions:   question.Limit(questions, limit),
		Models:      question.ModelNames(models),
		Variants:    variants,
		JudgeSystem: judgeSystem,
	}, nil
}

// Combinations expands the inputs into every unit of work.
func (in Inputs) Combinations() []Combination {
	return Expand(in.Questions, in.Variants, in.Models)
}
