package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/icl-run/icl-core/pkg/icl"
)

// AuditedExecutor wraps pkg/icl.Execute, persisting each run to a
// ProvenanceStore only after the pure call returns — never before, and
// never influencing what Execute computes. This mirrors the way the
// teacher's SafeExecutor persists a Receipt only once the underlying pure
// computation has already succeeded or failed.
type AuditedExecutor struct {
	store ProvenanceStore
}

// NewAuditedExecutor wraps store.
func NewAuditedExecutor(store ProvenanceStore) *AuditedExecutor {
	return &AuditedExecutor{store: store}
}

// Execute runs contractText/requestsJSON through pkg/icl.Execute exactly as
// a direct caller would, then persists a Run capturing the outcome under
// stableID before returning the same (result, error) pair to the caller.
func (a *AuditedExecutor) Execute(ctx context.Context, stableID, contractText, requestsJSON string) (string, error) {
	result, err := icl.Execute(contractText, requestsJSON)

	run := &Run{
		ID:          uuid.New().String(),
		StableID:    stableID,
		RequestJSON: requestsJSON,
		ResultJSON:  result,
		Success:     err == nil,
	}
	run.RecordedAt = time.Now()
	if saveErr := a.store.Save(ctx, run); saveErr != nil {
		return result, fmt.Errorf("store: persist run after execute: %w", saveErr)
	}
	return result, err
}
