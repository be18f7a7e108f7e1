package config

import (
	"fmt"
	"os"
	"strings"

	"abstain/internal/prompt"
	"abstain/internal/spec"
)

// Validate checks a normalized, path-resolved config and its referenced files.
func Validate(cfg *spec.Config) error {
	collector := &issueCollector{}
	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if cfg.Experiment == "" {
		collector.add("experiment", "is required")
	} else if strings.ContainsAny(cfg.Experiment, `/\`) {
		collector.add("experiment", "must not contain path separators")
	}

	validateFile(collector, "questions_file", cfg.QuestionsFile)
	validateFile(collector, "models_file", cfg.ModelsFile)
	validateFile(collector, "evaluate_file", cfg.EvaluateFile)
	validateVariants(collector, cfg.Variants)
	validateJudge(collector, cfg)
	validateProvider(collector, cfg.Provider)
	validateRun(collector, cfg.Run)
	validateLedger(collector, cfg.Ledger)
	validateLog(collector, cfg.Log)
	return collector.result()
}

func validateFile(collector *issueCollector, field, path string) {
	if strings.TrimSpace(path) == "" {
		collector.add(field, "is required")
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			collector.add(field, fmt.Sprintf("file not found: %s", path))
			return
		}
		collector.add(field, fmt.Sprintf("stat %s: %v", path, err))
		return
	}
	if info.IsDir() {
		collector.add(field, fmt.Sprintf("%s is a directory", path))
	}
}

func validateVariants(collector *issueCollector, variants []spec.VariantConfig) {
	if len(variants) < 2 {
		collector.add("variants", "at least two variants are required")
	}
	names := map[string]struct{}{}
	flags := map[bool]string{}
	for i, variant := range variants {
		prefix := fmt.Sprintf("variants[%d]", i)
		if variant.Name == "" {
			collector.add(prefix+".name", "is required")
			continue
		}
		if _, exists := names[variant.Name]; exists {
			collector.add(prefix+".name", fmt.Sprintf("duplicate name %q", variant.Name))
		}
		names[variant.Name] = struct{}{}
		flag := prompt.IsSuggestEmpty(variant.Name)
		if other, exists := flags[flag]; exists {
			collector.add(prefix+".name", fmt.Sprintf("variant %q maps to the same ledger key as %q", variant.Name, other))
		} else {
			flags[flag] = variant.Name
		}
		validateFile(collector, prefix+".system_file", variant.SystemFile)
	}
	if len(variants) > 0 {
		if _, ok := flags[true]; !ok {
			collector.add("variants", fmt.Sprintf("a %q variant is required", prompt.SuggestEmptyName))
		}
	}
}

func validateJudge(collector *issueCollector, cfg *spec.Config) {
	if cfg.Judge.Model == "" {
		collector.add("judge.model", "is required")
	}
	if cfg.Judge.MaxTokens < 0 {
		collector.add("judge.max_tokens", "must be >= 0")
	}
	if cfg.Answer.MaxTokens < 0 {
		collector.add("answer.max_tokens", "must be >= 0")
	}
	if cfg.Answer.Temperature != nil && (*cfg.Answer.Temperature < 0 || *cfg.Answer.Temperature > 2) {
		collector.add("answer.temperature", "must be between 0 and 2")
	}
}

func validateProvider(collector *issueCollector, provider spec.ProviderConfig) {
	switch provider.Type {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		collector.add("provider.type", fmt.Sprintf("unsupported provider %q (expected %s|%s)", provider.Type, ProviderOpenAI, ProviderAnthropic))
	}
	if provider.APIKeyEnv == "" {
		collector.add("provider.api_key_env", "is required")
	}
	if provider.TimeoutSeconds < 0 {
		collector.add("provider.timeout_seconds", "must be >= 0")
	}
	if provider.RequestsPerSecond < 0 {
		collector.add("provider.requests_per_second", "must be >= 0")
	}
	if provider.Burst < 0 {
		collector.add("provider.burst", "must be >= 0")
	}
}

func validateRun(collector *issueCollector, run spec.RunConfig) {
	if run.Concurrency <= 0 {
		collector.add("run.concurrency", "must be > 0")
	}
	if run.BatchSize <= 0 {
		collector.add("run.batch_size", "must be > 0")
	}
	if run.Limit < 0 {
		collector.add("run.limit", "must be >= 0")
	}
}

func validateLedger(collector *issueCollector, ledgerCfg spec.LedgerConfig) {
	switch ledgerCfg.Backend {
	case LedgerJSONL, LedgerDuckDB:
	default:
		collector.add("ledger.backend", fmt.Sprintf("unsupported backend %q (expected %s|%s)", ledgerCfg.Backend, LedgerJSONL, LedgerDuckDB))
	}
	if strings.TrimSpace(ledgerCfg.Path) == "" {
		collector.add("ledger.path", "is required")
		return
	}
	if info, err := os.Stat(ledgerCfg.Path); err == nil && info.IsDir() {
		collector.add("ledger.path", fmt.Sprintf("%s is a directory", ledgerCfg.Path))
	}
}

func validateLog(collector *issueCollector, logCfg spec.LogConfig) {
	switch logCfg.Level {
	case "debug", "info", "warn", "error":
	default:
		collector.add("log.level", fmt.Sprintf("unsupported level %q", logCfg.Level))
	}
	switch logCfg.Format {
	case LogFormatText, LogFormatJSON:
	default:
		collector.add("log.format", fmt.Sprintf("unsupported format %q (expected text|json)", logCfg.Format))
	}
}
