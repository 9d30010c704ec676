package executor

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/icl-run/icl-core/pkg/canonicalize"
	"github.com/icl-run/icl-core/pkg/predicate"
)

// valueToJSON converts a runtime predicate.Value to a plain Go value ready
// for json.Marshal.
func valueToJSON(v predicate.Value) any {
	switch v.Kind {
	case predicate.KindNull:
		return nil
	case predicate.KindBool:
		return v.B
	case predicate.KindInt:
		return v.I
	case predicate.KindFloat:
		return v.F
	case predicate.KindString:
		return v.S
	default:
		return nil
	}
}

// jsonToValue converts a value produced by encoding/json.Unmarshal (nil,
// bool, float64, string; json.Number when a decoder uses UseNumber) into a
// predicate.Value.
func jsonToValue(v any) predicate.Value {
	switch x := v.(type) {
	case nil:
		return predicate.NullValue()
	case bool:
		return predicate.BoolValue(x)
	case string:
		return predicate.StringValue(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return predicate.IntValue(i)
		}
		f, _ := x.Float64()
		return predicate.FloatValue(f)
	case float64:
		if x == float64(int64(x)) {
			return predicate.IntValue(int64(x))
		}
		return predicate.FloatValue(x)
	default:
		return predicate.NullValue()
	}
}

func stateToJSON(s State) map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = valueToJSON(v)
	}
	return out
}

// canonicalJSONHash renders v as canonical JSON (RFC 8785, via
// gowebpki/jcs) and returns its SHA-256 hex digest, the shared hashing
// shape used for every provenance state/input fingerprint (§4.5).
func canonicalJSONHash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("executor: marshal for canonical hash: %w", err)
	}
	transformed, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("executor: jcs transform: %w", err)
	}
	return canonicalize.HashBytes(transformed), nil
}
