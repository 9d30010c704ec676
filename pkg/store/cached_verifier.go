package store

import (
	"context"
	"fmt"

	"github.com/icl-run/icl-core/pkg/parser"
	"github.com/icl-run/icl-core/pkg/predicate"
	"github.com/icl-run/icl-core/pkg/verifier"
)

// CachedVerifier runs the static verifier against a predicate.StaticChecker
// backed by a distributed cache, for hosts that verify the same contract
// repeatedly (a long-lived server re-verifying on every request, a batch
// job re-checking a large contract set) and want to skip repeat CEL
// compilation of unchanged predicate strings.
type CachedVerifier struct {
	checker predicate.StaticChecker
}

// NewCachedVerifier wraps checker, typically a *predicate.RedisProgramCache.
func NewCachedVerifier(checker predicate.StaticChecker) *CachedVerifier {
	return &CachedVerifier{checker: checker}
}

// Verify parses contractText and runs the four verification phases against
// it, resolving Phase 1 symbol checks through the wrapped StaticChecker.
func (v *CachedVerifier) Verify(ctx context.Context, contractText string) (*verifier.Report, error) {
	c, errs := parser.Parse(contractText)
	if len(errs) > 0 {
		return nil, fmt.Errorf("store: parse contract: %s", errs[0].Message)
	}
	return verifier.VerifyWithChecker(ctx, c, v.checker), nil
}
