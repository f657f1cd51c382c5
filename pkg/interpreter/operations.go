package interpreter

import (
	"math"

	"fortio.org/log"

	"lumen/interpreter-go/pkg/runtime"
)

// applyBinaryOperator implements float64 arithmetic. Division and modulo by
// zero follow IEEE 754 (Inf or NaN). Non-number operands produce null unless
// strict operands are enabled.
func (i *Interpreter) applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		if i.strictOperands {
			return nil, runtime.NewError(runtime.InvalidOperandType, "",
				"Operator '%s' expects numbers, got %s and %s", op, left.Kind(), right.Kind())
		}
		log.LogVf("operator %s on %s and %s yields null", op, left.Kind(), right.Kind())
		return runtime.Null, nil
	}
	switch op {
	case "+":
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	case "-":
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case "*":
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case "/":
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case "%":
		return runtime.NumberValue{Val: math.Mod(l.Val, r.Val)}, nil
	default:
		return nil, runtime.NewError(runtime.InvalidOperandType, "", "Unsupported binary operator '%s'", op)
	}
}
