package config

import (
	"path/filepath"
	"strings"

	"abstain/internal/spec"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "abstain.yml"

// BaseDir returns the directory relative paths in a config resolve against.
func BaseDir(configPath string) string {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return filepath.Dir(configPath)
	}
	return filepath.Dir(abs)
}

// ResolvePath joins a relative path onto baseDir, leaving absolute paths alone.
func ResolvePath(baseDir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || strings.TrimSpace(baseDir) == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResolvePaths rewrites every file reference in cfg against baseDir. Variant
// system files resolve against the (already resolved) system directory.
func ResolvePaths(cfg *spec.Config, baseDir string) {
	cfg.QuestionsFile = ResolvePath(baseDir, cfg.QuestionsFile)
	cfg.ModelsFile = ResolvePath(baseDir, cfg.ModelsFile)
	cfg.SystemDir = ResolvePath(baseDir, cfg.SystemDir)
	cfg.EvaluateFile = ResolvePath(baseDir, cfg.EvaluateFile)
	for i := range cfg.Variants {
		cfg.Variants[i].SystemFile = ResolvePath(cfg.SystemDir, cfg.Variants[i].SystemFile)
	}
	cfg.Ledger.Path = ResolvePath(baseDir, cfg.Ledger.Path)
}
