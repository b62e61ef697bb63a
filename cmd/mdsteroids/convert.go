package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	mdsteroids "github.com/alnah/go-mdsteroids"
	"github.com/alnah/go-mdsteroids/internal/config"
)

// Sentinel errors for the convert command.
var ErrInvalidTimeout = errors.New("invalid timeout")

// defaultTimeout applies when neither the flag nor the environment sets one.
const defaultTimeout = 30 * time.Second

// runConvert loads configuration, discovers files and converts them.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment, logger *slog.Logger) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Environ(), logger)
	envCfg := loadEnvConfig(env.Getenv, logger)

	// Load configuration
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		var err error
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}
	workers := resolveWorkers(flags.workers, envCfg.Workers)

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	conv, err := buildConverter(cfg, timeout, logger)
	if err != nil {
		return err
	}

	logger.Debug("starting conversion",
		"files", len(files),
		"workers", workers,
		"extensions", cfg.ExtensionNames())

	results := convertBatch(ctx, conv, files, workers, batchOptions{standalone: cfg.HTML.Standalone})

	if failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, joinErrors(results))
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.html.standalone {
		cfg.HTML.Standalone = true
	}
	if flags.html.hardWraps {
		cfg.HTML.HardWraps = true
	}
	if flags.html.highlightStyle != "" {
		cfg.HTML.HighlightStyle = flags.html.highlightStyle
	}
	if flags.html.noHighlight {
		cfg.HTML.NoHighlight = true
	}
	addExtensions(cfg, flags.extensions)
}

// buildConverter creates the converter and the configured extensions in
// order.
func buildConverter(cfg *config.Config, timeout time.Duration, logger *slog.Logger) (*mdsteroids.Converter, error) {
	opts := []mdsteroids.Option{
		mdsteroids.WithTimeout(timeout),
		mdsteroids.WithLogger(logger),
	}
	if cfg.HTML.HardWraps {
		opts = append(opts, mdsteroids.WithHardWraps())
	}
	if cfg.HTML.NoHighlight {
		opts = append(opts, mdsteroids.WithoutHighlighting())
	} else {
		opts = append(opts, mdsteroids.WithHighlighting(cfg.HTML.HighlightStyle))
	}

	for _, ext := range cfg.Extensions {
		e, err := mdsteroids.NewExtension(ext.Name, ext.Config, mdsteroids.WithExtensionLogger(logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, mdsteroids.WithExtensions(e))
	}

	return mdsteroids.NewConverter(opts...)
}

// resolveTimeout returns the flag timeout, else the environment one, else
// the default.
func resolveTimeout(flagTimeout string, envTimeout time.Duration) (time.Duration, error) {
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagTimeout)
		}
		return d, nil
	}
	if envTimeout > 0 {
		return envTimeout, nil
	}
	return defaultTimeout, nil
}

// resolveWorkers determines the batch concurrency.
// Priority: explicit flag > environment > GOMAXPROCS (adjusted by
// automaxprocs for containers).
func resolveWorkers(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return min(envWorkers, MaxWorkers)
	}
	return min(max(runtime.GOMAXPROCS(0), 1), MaxWorkers)
}

// resolveInputPath returns the positional argument or the configured
// default input directory.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the flag output, else the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
