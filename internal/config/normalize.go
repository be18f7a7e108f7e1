package config

import (
	"path/filepath"
	"strings"

	"abstain/internal/spec"
)

// Defaults applied by Normalize.
const (
	DefaultExperiment        = "base"
	DefaultJudgeModel        = "openai/gpt-oss-120b"
	DefaultJudgeMaxTokens    = 2048
	DefaultAnswerTemperature = 0.01
	DefaultProviderType      = ProviderOpenAI
	DefaultOpenAIBaseURL     = "https://api.together.xyz/v1"
	DefaultTimeoutSeconds    = 120
	DefaultConcurrency       = 8
	DefaultBatchSize         = 50
	DefaultLedgerBackend     = LedgerJSONL
	DefaultLogLevel          = "info"
	DefaultLogFormat         = LogFormatText
)

// Provider and ledger identifiers accepted in the config.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	LedgerJSONL       = "jsonl"
	LedgerDuckDB      = "duckdb"
	LogFormatText     = "text"
	LogFormatJSON     = "json"
)

// Normalize trims string fields and fills in defaults.
func Normalize(cfg *spec.Config) {
	cfg.Experiment = strings.TrimSpace(cfg.Experiment)
	if cfg.Experiment == "" {
		cfg.Experiment = DefaultExperiment
	}
	if strings.TrimSpace(cfg.QuestionsFile) == "" {
		cfg.QuestionsFile = filepath.Join("input", "wikipedia_questions.jsonl")
	}
	if strings.TrimSpace(cfg.ModelsFile) == "" {
		cfg.ModelsFile = filepath.Join("input", "models.jsonl")
	}
	if strings.TrimSpace(cfg.SystemDir) == "" {
		cfg.SystemDir = filepath.Join("system", cfg.Experiment)
	}
	if strings.TrimSpace(cfg.EvaluateFile) == "" {
		cfg.EvaluateFile = filepath.Join("system", "evaluate.txt")
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = []spec.VariantConfig{
			{Name: "base", SystemFile: "base.txt"},
			{Name: "suggest_empty", SystemFile: "empty.txt"},
		}
	}
	for i := range cfg.Variants {
		cfg.Variants[i].Name = strings.TrimSpace(cfg.Variants[i].Name)
		cfg.Variants[i].SystemFile = strings.TrimSpace(cfg.Variants[i].SystemFile)
		if cfg.Variants[i].SystemFile == "" && cfg.Variants[i].Name != "" {
			cfg.Variants[i].SystemFile = cfg.Variants[i].Name + ".txt"
		}
	}

	cfg.Judge.Model = strings.TrimSpace(cfg.Judge.Model)
	if cfg.Judge.Model == "" {
		cfg.Judge.Model = DefaultJudgeModel
	}
	if cfg.Judge.MaxTokens == 0 {
		cfg.Judge.MaxTokens = DefaultJudgeMaxTokens
	}
	if cfg.Answer.Temperature == nil {
		temperature := DefaultAnswerTemperature
		cfg.Answer.Temperature = &temperature
	}

	normalizeProvider(&cfg.Provider)

	if cfg.Run.Concurrency == 0 {
		cfg.Run.Concurrency = DefaultConcurrency
	}
	if cfg.Run.BatchSize == 0 {
		cfg.Run.BatchSize = DefaultBatchSize
	}

	cfg.Ledger.Backend = strings.ToLower(strings.TrimSpace(cfg.Ledger.Backend))
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if strings.TrimSpace(cfg.Ledger.Path) == "" {
		ext := ".jsonl"
		if cfg.Ledger.Backend == LedgerDuckDB {
			ext = ".duckdb"
		}
		cfg.Ledger.Path = filepath.Join("output", cfg.Experiment+ext)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

func normalizeProvider(provider *spec.ProviderConfig) {
	provider.Type = strings.ToLower(strings.TrimSpace(provider.Type))
	if provider.Type == "" {
		provider.Type = DefaultProviderType
	}
	provider.BaseURL = strings.TrimSpace(provider.BaseURL)
	if provider.BaseURL == "" && provider.Type == ProviderOpenAI {
		provider.BaseURL = DefaultOpenAIBaseURL
	}
	provider.APIKeyEnv = strings.TrimSpace(provider.APIKeyEnv)
	if provider.APIKeyEnv == "" {
		switch provider.Type {
		case ProviderAnthropic:
			provider.APIKeyEnv = "ANTHROPIC_API_KEY"
		default:
			provider.APIKeyEnv = "TOGETHER_API_KEY"
		}
	}
	if provider.TimeoutSeconds == 0 {
		provider.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
