package cli

import (
	"fmt"
	"io"
	"os"

	"abstain/internal/config"
	"abstain/internal/logging"
	"abstain/internal/spec"
)

// setupLogging configures the default logger from the config and flag
// overrides. The live UI owns the terminal, so its logs are discarded unless a
// log file is given.
func setupLogging(cfg spec.LogConfig, opts runOptions, stderr io.Writer, liveUI bool) (func(), error) {
	levelName := cfg.Level
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, usageError{err: err}
	}
	format := cfg.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	if format != config.LogFormatText && format != config.LogFormatJSON {
		return nil, usageError{err: fmt.Errorf("unknown log format %q (expected text|json)", format)}
	}

	var w io.Writer = stderr
	closeFn := func() {}
	switch {
	case opts.logPath != "":
		file, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = file
		closeFn = func() { _ = file.Close() }
	case liveUI:
		w = io.Discard
	}
	logging.Init(level, format, w)
	return closeFn, nil
}
