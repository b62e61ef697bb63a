package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// htmlFlags holds rendering flags.
type htmlFlags struct {
	standalone     bool
	hardWraps      bool
	highlightStyle string
	noHighlight    bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	extensions []string
	html       htmlFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addHTMLFlags adds rendering flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "write complete HTML5 documents")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render newlines as <br>")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 30s, 2m)")
	fs.StringArrayVarP(&f.extensions, "extension", "e", nil, "enable an extension by name (repeatable)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addHTMLFlags(fs, &f.html)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
