package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icl-run/icl-core/pkg/icl"
)

// runExecuteCmd implements `icl execute`: run a request sequence against a
// contract file and print the JSON execution result. The result document
// itself carries success/failure; a non-zero CLI exit is never a failed
// request: 2 means a usage or I/O error, and 1 means Execute refused to run
// at all (§6.4: exit 1 is reserved for validation failure).
func runExecuteCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("execute", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		file        string
		requests    string
		requestFile string
	)
	cmd.StringVar(&file, "file", "", "Path to an .icl contract file (REQUIRED)")
	cmd.StringVar(&requests, "requests", "", "Inline JSON request or array of requests")
	cmd.StringVar(&requestFile, "requests-file", "", "Path to a JSON file containing the request(s)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}
	if requests == "" && requestFile == "" {
		_, _ = fmt.Fprintln(stderr, "Error: one of --requests or --requests-file is required")
		return 2
	}

	src, err := os.ReadFile(file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", file, err)
		return 2
	}

	reqJSON := requests
	if requestFile != "" {
		raw, err := os.ReadFile(requestFile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", requestFile, err)
			return 2
		}
		reqJSON = string(raw)
	}

	out, err := icl.Execute(string(src), reqJSON)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, out)
	return 0
}
