package logging

import (
	"io"
	"os"
	"strings"
)

// Config describes how the service logger behaves. It is normally
// populated from the LOG_* environment variables via internal/config.
type Config struct {
	// Level is the minimum level to emit (DEBUG, INFO, WARN, ERROR, FATAL)
	Level string `yaml:"level"`
	// Format selects the entry encoding (json, text)
	Format string `yaml:"format"`
	// Output names the destination (stdout, stderr, or a file path)
	Output string `yaml:"output"`
}

// DefaultConfig returns the settings the server falls back to when no
// logging configuration is supplied: info-level JSON on stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

// NewLogger builds a Logger from the given configuration; a nil config
// gets the defaults.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)

	output, err := getOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	return New(level, output), nil
}

// parseLevel maps a level name to a LogLevel, defaulting to info for
// anything unrecognised.
func parseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// getOutput resolves the destination name to a writer. Anything that is
// not a well-known stream is opened as an append-only file.
func getOutput(output string) (io.Writer, error) {
	switch output {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		return file, nil
	}
}
