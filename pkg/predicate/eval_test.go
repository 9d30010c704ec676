package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func evalString(t *testing.T, src string, env Env) Value {
	t.Helper()
	expr, err := Parse(src)
	require.NoError(t, err)
	res, err := Eval(expr, env, NewStepBudget(1000))
	require.NoError(t, err)
	return res.Value
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	env := MapEnv{"x": IntValue(3), "y": IntValue(4)}
	require.True(t, evalString(t, "x + y == 7", env).Truthy())
	require.True(t, evalString(t, "x < y && y >= 4", env).Truthy())
	require.False(t, evalString(t, "x > y", env).Truthy())
}

func TestEvalUnresolvedSymbolIsFalseOrNull(t *testing.T) {
	expr, err := Parse("missing == 1")
	require.NoError(t, err)
	res, err := Eval(expr, MapEnv{}, NewStepBudget(100))
	require.NoError(t, err)
	require.False(t, res.Value.Truthy())
	require.Contains(t, res.Notes, "unresolved_symbol:missing")
}

func TestEvalDivisionByZero(t *testing.T) {
	expr, err := Parse("1 / 0")
	require.NoError(t, err)
	_, err = Eval(expr, MapEnv{}, NewStepBudget(100))
	require.Error(t, err)
	var arithErr *ArithmeticError
	require.ErrorAs(t, err, &arithErr)
}

func TestEvalStepBudgetExceeded(t *testing.T) {
	expr, err := Parse("1 + 1 + 1 + 1")
	require.NoError(t, err)
	_, err = Eval(expr, MapEnv{}, NewStepBudget(1))
	require.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestEvalShortCircuit(t *testing.T) {
	env := MapEnv{"a": BoolValue(false)}
	require.False(t, evalString(t, "a && missing", env).Truthy())
}

func TestStaticCheckFindsUndefinedSymbol(t *testing.T) {
	undefined, err := StaticCheck("balance >= threshold", []string{"balance"})
	require.NoError(t, err)
	require.Equal(t, []string{"threshold"}, undefined)
}

func TestStaticCheckAllDeclared(t *testing.T) {
	undefined, err := StaticCheck("balance >= threshold", []string{"balance", "threshold"})
	require.NoError(t, err)
	require.Empty(t, undefined)
}
