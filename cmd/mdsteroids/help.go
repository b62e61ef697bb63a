package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsteroids <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert      Convert markdown files to HTML")
	fmt.Fprintln(w, "  extensions   List available extensions")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdsteroids help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsteroids convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>           Per-file timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extensions:")
	fmt.Fprintln(w, "  -e, --extension <name>      Enable an extension (repeatable)")
	fmt.Fprintln(w, "                              See 'mdsteroids extensions' for names")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	fmt.Fprintln(w, "      --standalone            Write complete HTML5 documents")
	fmt.Fprintln(w, "      --hard-wraps            Render newlines as <br>")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style for code blocks (default: github)")
	fmt.Fprintln(w, "      --no-highlight          Disable syntax highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDSTEROIDS_CONFIG, MDSTEROIDS_INPUT_DIR, MDSTEROIDS_OUTPUT_DIR,")
	fmt.Fprintln(w, "  MDSTEROIDS_WORKERS, MDSTEROIDS_TIMEOUT, MDSTEROIDS_EXTENSIONS")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "extensions":
		fmt.Fprintln(env.Stdout, "Usage: mdsteroids extensions")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the extension names accepted by --extension and config files.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdsteroids version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdsteroids help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
