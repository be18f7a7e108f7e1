package runner

import (
	"abstain/internal/ledger"
	"abstain/internal/prompt"
	"abstain/internal/question"
)

// labelLimit bounds the per-unit report heading, in runes.
const labelLimit = 140

// Combination is one (question, variant, model) unit of work.
type Combination struct {
	Question question.Question
	Variant  prompt.Variant
	Model    string
}

// Key returns the ledger key for the combination.
func (c Combination) Key() ledger.Key {
	return ledger.Key{
		Question:     c.Question.Text,
		Model:        c.Model,
		SuggestEmpty: c.Variant.SuggestEmpty,
	}
}

// Label renders "<variant> - <model> - <question>?" truncated for reports.
func (c Combination) Label() string {
	label := c.Variant.Name + " - " + c.Model + " - " + c.Question.Title()
	runes := []rune(label)
	if len(runes) > labelLimit {
		return string(runes[:labelLimit])
	}
	return label
}

// Expand returns the full cross product, questions outermost.
func Expand(questions []question.Question, variants []prompt.Variant, models []string) []Combination {
	combinations := make([]Combination, 0, len(questions)*len(variants)*len(models))
	for _, q := range questions {
		for _, variant := range variants {
			for _, model := range models {
				combinations = append(combinations, Combination{Question: q, Variant: variant, Model: model})
			}
		}
	}
	return combinations
}

// Pending drops combinations whose key is already completed, keeping only the
// first combination for any repeated key.
func Pending(all []Combination, completed ledger.KeySet) []Combination {
	seen := make(ledger.KeySet, len(all))
	pending := make([]Combination, 0, len(all))
	for _, combination := range all {
		key := combination.Key()
		if completed.Has(key) || seen.Has(key) {
			continue
		}
		seen.Add(key)
		pending = append(pending, combination)
	}
	return pending
}
