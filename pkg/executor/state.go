package executor

import (
	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/predicate"
	"github.com/icl-run/icl-core/pkg/token"
)

// State is the executor's in-memory representation of DataSemantics.state:
// field name to runtime Value. It is threaded across sequential requests
// within one Execute call and never persisted between calls (§4.5).
type State map[string]predicate.Value

// Clone returns a shallow copy sufficient for snapshot/revert semantics,
// since predicate.Value is an immutable value type.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// InitialState builds a State from DataSemantics.state defaults; a field
// with no declared default is null.
func InitialState(ds *ast.DataSemantics) State {
	st := State{}
	if ds == nil {
		return st
	}
	for name, f := range ds.State {
		st[name] = defaultValue(f.Type)
	}
	return st
}

func defaultValue(t *ast.TypeExpression) predicate.Value {
	if t == nil || t.Default == nil {
		return predicate.NullValue()
	}
	return literalToValue(t.Default)
}

func literalToValue(l *ast.Literal) predicate.Value {
	switch l.Kind {
	case token.IntLit:
		return predicate.IntValue(l.Int)
	case token.FloatLit:
		return predicate.FloatValue(l.Float)
	case token.BoolLit:
		return predicate.BoolValue(l.Bool)
	case token.StringLit, token.TimestampLit, token.UuidLit, token.Identifier:
		return predicate.StringValue(l.Text)
	default:
		return predicate.NullValue()
	}
}
