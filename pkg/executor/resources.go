package executor

import (
	"encoding/json"

	"github.com/icl-run/icl-core/pkg/ast"
)

// defaultStepBudget bounds evaluator steps when a contract declares no
// computation_timeout_ms; chosen generously since the predicate language has
// no loop construct and expressions are shallow.
const defaultStepBudget = 100000

// stepBudgetFor maps ExecutionConstraints.resource_limits.computation_timeout_ms
// onto an evaluator step budget: one step per declared millisecond. The
// evaluator has no clock, so this is the deterministic stand-in for wall
// time described in §4.5 step 7.
func stepBudgetFor(c *ast.Contract) int {
	if c.ExecutionConstraints == nil || c.ExecutionConstraints.ResourceLimits == nil {
		return defaultStepBudget
	}
	ms := c.ExecutionConstraints.ResourceLimits.ComputationTimeoutMs
	if ms <= 0 {
		return defaultStepBudget
	}
	return int(ms)
}

// checkResourceLimits estimates peak memory as the serialized byte length
// of state and compares it against the declared max_memory_bytes and
// max_state_size_bytes (§4.5 step 7).
func checkResourceLimits(c *ast.Contract, state State) error {
	if c.ExecutionConstraints == nil || c.ExecutionConstraints.ResourceLimits == nil {
		return nil
	}
	limits := c.ExecutionConstraints.ResourceLimits
	raw, err := json.Marshal(stateToJSON(state))
	if err != nil {
		return newError(ErrTypeMismatch, "state not serializable: "+err.Error())
	}
	size := int64(len(raw))
	if limits.MaxMemoryBytes > 0 && size > limits.MaxMemoryBytes {
		return newError(ErrResourceExceeded, "state size exceeds max_memory_bytes")
	}
	if limits.MaxStateSizeBytes > 0 && size > limits.MaxStateSizeBytes {
		return newError(ErrResourceExceeded, "state size exceeds max_state_size_bytes")
	}
	return nil
}
