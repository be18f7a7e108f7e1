package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"abstain/internal/agent"
	"abstain/internal/spec"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeWorkspace lays out a config with two questions, two models, and the
// default prompt variants. It returns the config path.
func writeWorkspace(t *testing.T, configBody string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "input", "wikipedia_questions.jsonl"),
		`{"question":"Capital of France","answer":"Paris"}`+"\n"+
			`{"question":"Largest ocean","answer":"Pacific"}`+"\n")
	writeFile(t, filepath.Join(root, "input", "models.jsonl"), `{"name":"m1"}`+"\n"+`{"name":"m2"}`+"\n")
	writeFile(t, filepath.Join(root, "system", "base", "base.txt"), "Answer the question.")
	writeFile(t, filepath.Join(root, "system", "base", "empty.txt"), "Answer, or leave it empty.")
	writeFile(t, filepath.Join(root, "system", "evaluate.txt"), "Classify the answer.")
	configPath := filepath.Join(root, "abstain.yml")
	writeFile(t, configPath, configBody)
	return configPath
}

// fakeModels answers every question correctly, except models listed in
// broken, whose answer calls fail.
type fakeModels struct {
	calls  atomic.Int32
	broken map[string]bool
}

func (f *fakeModels) factory(spec.ProviderConfig) (agent.Caller, error) {
	return agent.CallerFunc(func(_ context.Context, req agent.Request) (string, error) {
		f.calls.Add(1)
		if req.Role == agent.RoleJudge {
			return "Reasoning first.\nCategory: CORRECT", nil
		}
		if f.broken[req.Model] {
			return "", agent.ErrEmptyResponse
		}
		if strings.Contains(req.Prompt, "France") {
			return "Answer: {Paris}", nil
		}
		return "Answer: {Pacific}", nil
	}), nil
}

// useCaller swaps the caller factory for the duration of a test.
func useCaller(t *testing.T, factory func(spec.ProviderConfig) (agent.Caller, error)) {
	t.Helper()
	original := newCaller
	newCaller = factory
	t.Cleanup(func() { newCaller = original })
}
