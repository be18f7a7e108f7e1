package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"abstain/internal/spec"
)

func TestLoadVariants(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.txt"), []byte("Answer the question.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("Answer, or reply with an empty answer.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadVariants([]spec.VariantConfig{
		{Name: "base", SystemFile: filepath.Join(dir, "base.txt")},
		{Name: SuggestEmptyName, SystemFile: filepath.Join(dir, "empty.txt")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []Variant{
		{Name: "base", System: "Answer the question."},
		{Name: "suggest_empty", System: "Answer, or reply with an empty answer.", SuggestEmpty: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEvaluationRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluate.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadEvaluation(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty prompt error, got %v", err)
	}
}
