package prompt

import (
	"fmt"
	"os"
	"strings"

	"abstain/internal/spec"
)

// SuggestEmptyName is the variant whose system prompt invites an empty answer.
const SuggestEmptyName = "suggest_empty"

// Variant is a named system prompt used for the answering call.
type Variant struct {
	Name         string
	System       string
	SuggestEmpty bool
}

// IsSuggestEmpty reports the ledger flag derived from a variant name.
func IsSuggestEmpty(name string) bool {
	return name == SuggestEmptyName
}

// LoadVariants reads each configured system prompt file.
func LoadVariants(configs []spec.VariantConfig) ([]Variant, error) {
	variants := make([]Variant, 0, len(configs))
	for _, cfg := range configs {
		text, err := readPrompt(cfg.SystemFile)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", cfg.Name, err)
		}
		variants = append(variants, Variant{
			Name:         cfg.Name,
			System:       text,
			SuggestEmpty: IsSuggestEmpty(cfg.Name),
		})
	}
	return variants, nil
}

// LoadEvaluation reads the judge's system instructions.
func LoadEvaluation(path string) (string, error) {
	text, err := readPrompt(path)
	if err != nil {
		return "", fmt.Errorf("evaluation prompt: %w", err)
	}
	return text, nil
}

// Names returns variant names in configured order.
func Names(variants []Variant) []string {
	names := make([]string, 0, len(variants))
	for _, variant := range variants {
		names = append(names, variant.Name)
	}
	return names
}

func readPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	return text, nil
}
