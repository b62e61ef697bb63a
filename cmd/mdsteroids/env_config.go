package main

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdsteroids/internal/config"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "MDSTEROIDS_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDSTEROIDS_CONFIG: config file name or path
	InputDir   string        // MDSTEROIDS_INPUT_DIR: default input directory
	OutputDir  string        // MDSTEROIDS_OUTPUT_DIR: default output directory
	Workers    int           // MDSTEROIDS_WORKERS: parallel workers
	Timeout    time.Duration // MDSTEROIDS_TIMEOUT: per-file timeout
	Extensions []string      // MDSTEROIDS_EXTENSIONS: comma-separated names
}

// knownEnvVars lists valid MDSTEROIDS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSTEROIDS_CONFIG":     true,
	"MDSTEROIDS_INPUT_DIR":  true,
	"MDSTEROIDS_OUTPUT_DIR": true,
	"MDSTEROIDS_WORKERS":    true,
	"MDSTEROIDS_TIMEOUT":    true,
	"MDSTEROIDS_EXTENSIONS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are logged and ignored.
func loadEnvConfig(getenv func(string) string, logger *slog.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDSTEROIDS_CONFIG"),
		InputDir:   getenv("MDSTEROIDS_INPUT_DIR"),
		OutputDir:  getenv("MDSTEROIDS_OUTPUT_DIR"),
		Extensions: splitList(getenv("MDSTEROIDS_EXTENSIONS")),
	}

	if timeout := getenv("MDSTEROIDS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			logger.Warn("ignoring invalid environment variable", "name", "MDSTEROIDS_TIMEOUT", "value", timeout)
		}
	}

	if workers := getenv("MDSTEROIDS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			logger.Warn("ignoring invalid environment variable", "name", "MDSTEROIDS_WORKERS", "value", workers)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDSTEROIDS_* variables.
// Helps catch typos like MDSTEROIDS_WORKER instead of MDSTEROIDS_WORKERS.
func warnUnknownEnvVars(environ []string, logger *slog.Logger) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Environment values override the config file; CLI flags are applied
// later via mergeFlags, so: CLI flags > env vars > config file > defaults.
// Extensions named in the environment are appended when not configured.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	addExtensions(cfg, env.Extensions)
}

// addExtensions appends names not already present in cfg.
func addExtensions(cfg *config.Config, names []string) {
	for _, name := range names {
		if !hasExtension(cfg, name) {
			cfg.Extensions = append(cfg.Extensions, config.ExtensionConfig{Name: name})
		}
	}
}

func hasExtension(cfg *config.Config, name string) bool {
	for _, ext := range cfg.Extensions {
		if ext.Name == name {
			return true
		}
	}
	return false
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
