package question

import "strings"

// Question is one entry of the question store. Text identifies the question
// within a run.
type Question struct {
	Text   string `json:"question"`
	Answer string `json:"answer"`
}

// Model names a remote model endpoint in the roster.
type Model struct {
	Name string `json:"name"`
}

// Prompt renders the user prompt sent to the answering model.
func (q Question) Prompt() string {
	return "Question: " + q.Title()
}

// Title returns the question text with exactly one trailing question mark.
func (q Question) Title() string {
	return strings.TrimRight(strings.TrimSpace(q.Text), "?") + "?"
}

// Limit returns the first n questions, or all of them when n <= 0.
func Limit(questions []Question, n int) []Question {
	if n <= 0 || n >= len(questions) {
		return questions
	}
	return questions[:n]
}

// ModelNames returns the roster names in file order.
func ModelNames(models []Model) []string {
	names := make([]string, 0, len(models))
	for _, model := range models {
		names = append(names, model.Name)
	}
	return names
}
