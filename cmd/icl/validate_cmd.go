package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icl-run/icl-core/pkg/icl"
)

// runValidateCmd implements `icl validate`: parse + verify a contract file,
// reporting every parse or verification error.
//
// Exit codes:
//
//	0 = parses and verifies clean
//	1 = parse or verification errors
//	2 = usage / runtime error
func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		file       string
		jsonOutput bool
	)
	cmd.StringVar(&file, "file", "", "Path to an .icl contract file (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output result as JSON")

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

	report, err := icl.Verify(string(src))
	if err != nil {
		if pe, ok := err.(*icl.ParseError); ok {
			return emitValidateParseFailure(stdout, stderr, jsonOutput, pe)
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		out, marshalErr := icl.MarshalReport(report)
		if marshalErr != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", marshalErr)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, out)
	} else if report.Valid {
		_, _ = fmt.Fprintf(stdout, "%s✓ valid%s (%d warnings)\n", ColorGreen, ColorReset, len(report.Warnings))
	} else {
		_, _ = fmt.Fprintf(stdout, "%s✗ invalid%s\n", ColorRed, ColorReset)
		for _, d := range report.Errors {
			_, _ = fmt.Fprintf(stdout, "  [%s] %s: %s\n", d.Phase, d.Code, d.Message)
		}
	}

	if !report.Valid {
		return 1
	}
	return 0
}

func emitValidateParseFailure(stdout, stderr io.Writer, jsonOutput bool, pe *icl.ParseError) int {
	if jsonOutput {
		out := map[string]any{"valid": false, "errors": pe.Diagnostics, "warnings": []any{}}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, string(data))
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "%s✗ parse error%s\n", ColorRed, ColorReset)
	for _, d := range pe.Diagnostics {
		_, _ = fmt.Fprintf(stdout, "  [%s] %s: %s\n", d.Phase, d.Code, d.Message)
	}
	return 1
}
