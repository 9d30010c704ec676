package executor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/predicate"
	"github.com/icl-run/icl-core/pkg/schema"
)

// Execute runs one or more requests against contract c, threading state
// across them within this single call (§4.5). requestsJSON is either a
// single `{"operation":...,"inputs":{...}}` object or a JSON array of such
// objects. The returned JSON always has the Result shape, even on failure;
// Execute itself only returns a Go error for malformed request JSON.
func Execute(c *ast.Contract, requestsJSON string) (string, error) {
	reqs, err := decodeRequests(requestsJSON)
	if err != nil {
		return "", fmt.Errorf("executor: malformed request: %w", err)
	}

	state := InitialState(c.DataSemantics)
	var provenance []Entry
	overallSuccess := true
	var overallOutputs map[string]any
	var overallErr *string

	for _, req := range reqs {
		before := state.Clone()
		newState, outputs, entries, execErr := executeOne(c, req, state)
		provenance = append(provenance, entries...)
		if execErr != nil {
			state = before
			overallSuccess = false
			msg := execErr.Error()
			overallErr = &msg
			break
		}
		state = newState
		overallOutputs = outputs
	}

	result := Result{
		Success:    overallSuccess,
		Outputs:    overallOutputs,
		FinalState: stateToJSON(state),
		Provenance: provenance,
		Error:      overallErr,
	}
	if result.Outputs == nil {
		result.Outputs = map[string]any{}
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("executor: marshal result: %w", err)
	}
	return string(out), nil
}

func decodeRequests(requestsJSON string) ([]Request, error) {
	trimmed := strings.TrimSpace(requestsJSON)
	if strings.HasPrefix(trimmed, "[") {
		var reqs []Request
		if err := json.Unmarshal([]byte(trimmed), &reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}
	var req Request
	if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
		return nil, err
	}
	return []Request{req}, nil
}

// executeOne runs the seven-step execution of a single request against
// state, returning the new state, the identity-changed output fields, the
// provenance entries appended, or a structured *Error on failure (in which
// case the caller reverts to the pre-request snapshot).
func executeOne(c *ast.Contract, req Request, state State) (State, map[string]any, []Entry, error) {
	var provenance []Entry
	stateBefore := state.Clone()
	inputsHash, _ := canonicalJSONHash(req.Inputs)

	op := findOperation(c, req.Operation)
	if op == nil {
		return nil, nil, provenance, newError(ErrUnknownOperation, "unknown operation "+req.Operation)
	}

	if err := bindParameters(op, req.Inputs); err != nil {
		return nil, nil, provenance, err
	}

	budget := predicate.NewStepBudget(stepBudgetFor(c))
	env := buildEnv(state, req.Inputs)

	preResult, preErr := evalPredicate(op.Precondition, env, budget)
	provenance = append(provenance, mkEntry(op.Name, "precondition", inputsHash, stateBefore, state, preResult))
	if preErr != nil {
		return nil, nil, provenance, mapPredicateError(preErr)
	}
	if !preResult.Value.Truthy() {
		return nil, nil, provenance, newError(ErrPreconditionFailed, "precondition false for operation "+op.Name)
	}

	newState := state.Clone()
	var externalities []string
	for _, se := range op.SideEffects {
		if field, expr, ok := parseSetEffect(se); ok {
			effEnv := buildEnv(newState, req.Inputs)
			res, err := evalPredicate(expr, effEnv, budget)
			if err != nil {
				return nil, nil, provenance, mapPredicateError(err)
			}
			newState[field] = res.Value
		} else {
			externalities = append(externalities, "declared_externality:"+se)
		}
	}
	effectEntry := mkEntry(op.Name, "effect", inputsHash, stateBefore, newState, predicate.Result{})
	effectEntry.Diagnostics = append(effectEntry.Diagnostics, externalities...)
	provenance = append(provenance, effectEntry)

	postEnv := buildEnv(newState, req.Inputs)
	postResult, postErr := evalPredicate(op.Postcondition, postEnv, budget)
	provenance = append(provenance, mkEntry(op.Name, "postcondition", inputsHash, stateBefore, newState, postResult))
	if postErr != nil {
		return nil, nil, provenance, mapPredicateError(postErr)
	}
	if !postResult.Value.Truthy() {
		return nil, nil, provenance, newError(ErrPostconditionFailed, "postcondition false for operation "+op.Name)
	}

	invEnv := buildEnv(newState, nil)
	for _, inv := range c.DataSemantics.Invariants {
		invResult, invErr := evalPredicate(inv, invEnv, budget)
		provenance = append(provenance, mkEntry(op.Name, "invariant", inputsHash, stateBefore, newState, invResult))
		if invErr != nil {
			return nil, nil, provenance, mapPredicateError(invErr)
		}
		if !invResult.Value.Truthy() {
			return nil, nil, provenance, newError(ErrInvariantViolation, "invariant violated: "+inv)
		}
	}

	if err := checkResourceLimits(c, newState); err != nil {
		return nil, nil, provenance, err
	}

	return newState, changedFields(stateBefore, newState), provenance, nil
}

func findOperation(c *ast.Contract, name string) *ast.Operation {
	if c.BehavioralSemantics == nil {
		return nil
	}
	for _, op := range c.BehavioralSemantics.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

func bindParameters(op *ast.Operation, inputs map[string]any) error {
	if len(op.Parameters) == 0 {
		if len(inputs) > 0 {
			return newError(ErrPreconditionFailed, "operation "+op.Name+" takes no parameters")
		}
		return nil
	}
	types := make(map[string]*ast.TypeExpression, len(op.Parameters))
	for name, p := range op.Parameters {
		types[name] = p.Type
	}
	validator, err := schema.CompileObjectSchema(types, op.ParamOrder)
	if err != nil {
		return newError(ErrTypeMismatch, "internal schema error: "+err.Error())
	}
	if err := validator.Validate(inputs); err != nil {
		return newError(ErrPreconditionFailed, "parameter binding failed for "+op.Name+": "+err.Error())
	}
	return nil
}

func buildEnv(state State, inputs map[string]any) predicate.Env {
	env := predicate.MapEnv{}
	for k, v := range state {
		env[k] = v
	}
	for k, v := range inputs {
		env[k] = jsonToValue(v)
	}
	return env
}

func evalPredicate(expr string, env predicate.Env, budget *predicate.StepBudget) (predicate.Result, error) {
	if expr == "" {
		return predicate.Result{Value: predicate.BoolValue(true)}, nil
	}
	parsed, err := predicate.Parse(expr)
	if err != nil {
		return predicate.Result{}, newError(ErrTypeMismatch, "malformed predicate: "+err.Error())
	}
	return predicate.Eval(parsed, env, budget)
}

func mapPredicateError(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	if _, ok := err.(*predicate.ArithmeticError); ok {
		return newError(ErrArithmeticError, err.Error())
	}
	if err == predicate.ErrBudgetExceeded {
		return newError(ErrResourceExceeded, err.Error())
	}
	return newError(ErrTypeMismatch, err.Error())
}

// parseSetEffect recognizes the structured `"set:<field>=<expr>"` form;
// every other side_effects string is a logged externality (§9).
func parseSetEffect(se string) (field, expr string, ok bool) {
	rest, ok := strings.CutPrefix(se, "set:")
	if !ok {
		return "", "", false
	}
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", "", false
	}
	return rest[:eq], rest[eq+1:], true
}

func changedFields(before, after State) map[string]any {
	out := map[string]any{}
	for k, v := range after {
		if bv, ok := before[k]; !ok || bv != v {
			out[k] = valueToJSON(v)
		}
	}
	return out
}

func mkEntry(op, phase, inputsHash string, before, after State, result predicate.Result) Entry {
	beforeHash, _ := canonicalJSONHash(stateToJSON(before))
	afterHash, _ := canonicalJSONHash(stateToJSON(after))
	return Entry{
		Op:              op,
		Phase:           phase,
		InputsHash:      inputsHash,
		StateBeforeHash: beforeHash,
		StateAfterHash:  afterHash,
		Diagnostics:     result.Notes,
	}
}
