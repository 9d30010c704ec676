package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/icl-run/icl-core/pkg/config"
	"github.com/icl-run/icl-core/pkg/icl"
	"github.com/icl-run/icl-core/pkg/predicate"
	"github.com/icl-run/icl-core/pkg/store"
	"github.com/icl-run/icl-core/pkg/verifier"
)

// runVerifyCmd implements `icl verify`: run the static verifier alone and
// print its full report, including warnings.
//
// Exit codes:
//
//	0 = no errors (warnings allowed)
//	1 = one or more verification errors
//	2 = usage / runtime error
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		file       string
		jsonOutput bool
		redisAddr  string
	)
	cmd.StringVar(&file, "file", "", "Path to an .icl contract file (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output the full report as JSON")
	cmd.StringVar(&redisAddr, "redis", "", "Redis address for cached symbol checking (default: config REDIS_URL)")

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

	report, err := verifyWithOptionalCache(string(src), redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		out, err := icl.MarshalReport(report)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, out)
	} else {
		if report.Valid {
			_, _ = fmt.Fprintf(stdout, "%s✓ verified%s\n", ColorGreen, ColorReset)
		} else {
			_, _ = fmt.Fprintf(stdout, "%s✗ verification failed%s\n", ColorRed, ColorReset)
		}
		for _, d := range report.Errors {
			_, _ = fmt.Fprintf(stdout, "  error   [%s] %s: %s\n", d.Phase, d.Code, d.Message)
		}
		for _, d := range report.Warnings {
			_, _ = fmt.Fprintf(stdout, "  %swarning%s [%s] %s: %s\n", ColorYellow, ColorReset, d.Phase, d.Code, d.Message)
		}
	}

	if !report.Valid {
		return 1
	}
	return 0
}

// verifyWithOptionalCache verifies text directly through pkg/icl when no
// Redis address is configured (the common case), or through a
// store.CachedVerifier backed by a predicate.RedisProgramCache when one is
// — sharing Phase 1 symbol-check results across `verify` invocations
// instead of recompiling the same predicate strings on every call.
func verifyWithOptionalCache(text, redisAddr string) (*verifier.Report, error) {
	if redisAddr == "" {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		redisAddr = cfg.RedisURL
	}
	if redisAddr == "" {
		return icl.Verify(text)
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() { _ = client.Close() }()

	cv := store.NewCachedVerifier(predicate.NewRedisProgramCache(client, 10*time.Minute))
	return cv.Verify(context.Background(), text)
}
