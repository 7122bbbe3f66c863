package validator

import (
	"fmt"
	"math/big"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// Expression builds a validator from a CEL expression over the variable value. The
// expression must evaluate to a bool; true means valid.
//
//	validator.Expression[string](`value.startsWith("EMP-")`)
//	validator.Expression[int64](`value % 2 == 0`, validator.WithMessage("Value must be even"))
//
// Evaluation errors, such as a missing map key, count as violations. Expression panics
// when the expression does not compile.
func Expression[T any](expr string, opts ...Option) Validator[T] {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		panic(fmt.Sprintf("validator: cel environment: %v", err))
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		panic(fmt.Sprintf("validator: invalid expression %q: %v", expr, iss.Err()))
	}
	prg, err := env.Program(ast)
	if err != nil {
		panic(fmt.Sprintf("validator: invalid expression %q: %v", expr, err))
	}
	return newRule[T]("expression", newSettings(MessageExpression, opts), nil,
		func(v any) (bool, []any, error) {
			out, _, err := prg.Eval(map[string]any{"value": celValue(v)})
			if err != nil {
				return false, nil, nil
			}
			ok, isBool := out.Value().(bool)
			return isBool && ok, nil, nil
		})
}

// celValue maps arbitrary precision numbers onto types CEL understands.
func celValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *big.Float:
		f, _ := x.Float64()
		return f
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	}
	return v
}
