package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icl-run/icl-core/pkg/icl"
)

// runDiffCmd implements `icl diff`: show field-level differences between
// two contracts after normalization.
func runDiffCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("diff", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		fileA, fileB string
		jsonOutput   bool
	)
	cmd.StringVar(&fileA, "a", "", "Path to the first .icl contract file (REQUIRED)")
	cmd.StringVar(&fileB, "b", "", "Path to the second .icl contract file (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output diffs as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if fileA == "" || fileB == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --a and --b are required")
		return 2
	}

	srcA, err := os.ReadFile(fileA)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", fileA, err)
		return 2
	}
	srcB, err := os.ReadFile(fileB)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", fileB, err)
		return 2
	}

	diffs, err := icl.Diff(string(srcA), string(srcB))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if jsonOutput {
		data, err := json.MarshalIndent(diffs, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, string(data))
	} else if len(diffs) == 0 {
		_, _ = fmt.Fprintln(stdout, "no differences")
	} else {
		for _, d := range diffs {
			_, _ = fmt.Fprintf(stdout, "%s: %q -> %q\n", d.Path, d.A, d.B)
		}
	}
	return 0
}
