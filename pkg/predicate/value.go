package predicate

// ValueKind tags the runtime type of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Value is the tagged runtime value produced by evaluating an Expr.
type Value struct {
	Kind ValueKind
	B    bool
	I    int64
	F    float64
	S    string
}

func NullValue() Value            { return Value{Kind: KindNull} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, B: b} }
func IntValue(i int64) Value      { return Value{Kind: KindInt, I: i} }
func FloatValue(f float64) Value  { return Value{Kind: KindFloat, F: f} }
func StringValue(s string) Value  { return Value{Kind: KindString, S: s} }

// Truthy converts a Value to a boolean per predicate-context semantics:
// bool as itself, null as false, numbers non-zero, non-empty strings true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindNull:
		return false
	case KindInt:
		return v.I != 0
	case KindFloat:
		return v.F != 0
	case KindString:
		return v.S != ""
	default:
		return false
	}
}

func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	default:
		return 0, false
	}
}
