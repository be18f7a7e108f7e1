package spec

// Config is the on-disk experiment configuration.
type Config struct {
	Version       int             `yaml:"version"`
	Experiment    string          `yaml:"experiment"`
	QuestionsFile string          `yaml:"questions_file"`
	ModelsFile    string          `yaml:"models_file"`
	SystemDir     string          `yaml:"system_dir"`
	EvaluateFile  string          `yaml:"evaluate_file"`
	Variants      []VariantConfig `yaml:"variants"`
	Judge         JudgeConfig     `yaml:"judge"`
	Answer        AnswerConfig    `yaml:"answer"`
	Provider      ProviderConfig  `yaml:"provider"`
	Run           RunConfig       `yaml:"run"`
	Ledger        LedgerConfig    `yaml:"ledger"`
	Log           LogConfig       `yaml:"log"`
}

// VariantConfig names a system prompt file relative to the system directory.
type VariantConfig struct {
	Name       string `yaml:"name"`
	SystemFile string `yaml:"system_file"`
}

type JudgeConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type AnswerConfig struct {
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

type ProviderConfig struct {
	Type              string  `yaml:"type"`
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type RunConfig struct {
	Concurrency int `yaml:"concurrency"`
	BatchSize   int `yaml:"batch_size"`
	Limit       int `yaml:"limit"`
}

type LedgerConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
