package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	mdsteroids "github.com/alnah/go-mdsteroids"
	"github.com/alnah/go-mdsteroids/extension/metayaml"
	"github.com/alnah/go-mdsteroids/internal/config"
	"github.com/alnah/go-mdsteroids/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command in args[1] and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return runConvertCommand(rest, env)
	case "extensions":
		for _, name := range mdsteroids.ExtensionNames() {
			fmt.Fprintln(env.Stdout, name)
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdsteroids %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

func runConvertCommand(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintln(env.Stderr, err.Error()+hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns the hints matching the causes wrapped in err.
// Joined batch errors can match several hints.
func hintFor(err error) string {
	var found []string
	if errors.Is(err, config.ErrConfigNotFound) {
		found = append(found, hints.ForConfigNotFound(config.UserConfigDir()))
	}
	if errors.Is(err, mdsteroids.ErrUnknownExtension) {
		found = append(found, hints.ForUnknownExtension(mdsteroids.ExtensionNames()))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		found = append(found, hints.ForTimeout())
	}
	if errors.Is(err, metayaml.ErrFrontMatter) {
		found = append(found, hints.ForFrontMatter())
	}
	if errors.Is(err, ErrWriteHTML) {
		found = append(found, hints.ForOutputDirectory())
	}
	return hints.Join(found...)
}

// newLogger returns a text logger on w. quiet wins over verbose.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
