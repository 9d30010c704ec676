package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icl-run/icl-core/pkg/icl"
)

// runInitCmd implements `icl init`: write the hello-world template contract
// to a new file, refusing to overwrite an existing one.
func runInitCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("init", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var out string
	cmd.StringVar(&out, "out", "contract.icl", "Path to write the new contract file")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if _, err := os.Stat(out); err == nil {
		_, _ = fmt.Fprintf(stderr, "Error: %s already exists\n", out)
		return 2
	}

	if err := os.WriteFile(out, []byte(icl.HelloWorldTemplate()), 0644); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot write %s: %v\n", out, err)
		return 2
	}

	_, _ = fmt.Fprintf(stdout, "wrote %s\n", out)
	return 0
}
