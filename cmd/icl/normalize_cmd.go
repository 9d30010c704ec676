package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icl-run/icl-core/pkg/icl"
)

// runNormalizeCmd implements `icl normalize`: print a contract's canonical
// text rendering to stdout without modifying the source file.
func runNormalizeCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("normalize", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var file string
	cmd.StringVar(&file, "file", "", "Path to an .icl contract file (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}

	src, err := os.ReadFile(file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", file, err)
		return 2
	}

	out, err := icl.Normalize(string(src))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, out)
	return 0
}

// runFmtCmd implements `icl fmt`: rewrite a contract file in place with its
// canonical rendering, the same way `gofmt -w` rewrites a source file.
func runFmtCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("fmt", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var file string
	cmd.StringVar(&file, "file", "", "Path to an .icl contract file (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}

	src, err := os.ReadFile(file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", file, err)
		return 2
	}

	out, err := icl.Normalize(string(src))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := os.WriteFile(file, []byte(out+"\n"), 0644); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot write %s: %v\n", file, err)
		return 2
	}
	_, _ = fmt.Fprintf(stdout, "formatted %s\n", file)
	return 0
}
