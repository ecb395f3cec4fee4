package state

import (
	"math"

	"github.com/kolibrilang/kolibri/api"
)

type operator struct {
	metamethod  string
	integerFunc func(int64, int64) int64
	floatFunc   func(float64, float64) float64
}

var operators = [...]operator{
	api.OpAdd:  {"__add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }},
	api.OpSub:  {"__sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }},
	api.OpMul:  {"__mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }},
	api.OpMod:  {"__mod", iMod, fMod},
	api.OpPow:  {"__pow", nil, math.Pow},
	api.OpDiv:  {"__div", nil, func(a, b float64) float64 { return a / b }},
	api.OpIDiv: {"__idiv", iFloorDiv, fFloorDiv},
	api.OpBAnd: {"__band", func(a, b int64) int64 { return a & b }, nil},
	api.OpBOr:  {"__bor", func(a, b int64) int64 { return a | b }, nil},
	api.OpBXor: {"__bxor", func(a, b int64) int64 { return a ^ b }, nil},
	api.OpShl:  {"__shl", shiftLeft, nil},
	api.OpShr:  {"__shr", shiftRight, nil},
	api.OpUnm:  {"__unm", func(a, _ int64) int64 { return -a }, func(a, _ float64) float64 { return -a }},
	api.OpBNot: {"__bnot", func(a, _ int64) int64 { return ^a }, nil},
}

// Arith pops the operands (one for the unary ops) and pushes the
// result: the integer fast path when both operands are already
// integers (or, for bitwise ops, integer-convertible), falling back to
// float arithmetic, then to the operation's metamethod.
func (ls *luaState) Arith(op api.ArithOp) {
	var a, b any
	b = ls.stack.pop()
	if op != api.OpUnm && op != api.OpBNot {
		a = ls.stack.pop()
	} else {
		a = b
	}

	opInfo := operators[op]
	if result, ok := rawArith(a, b, opInfo); ok {
		ls.stack.push(result)
		return
	}

	if result, ok := ls.callMetamethod(a, b, opInfo.metamethod); ok {
		ls.stack.push(result)
		return
	}

	panic("arithmetic error")
}

func rawArith(a, b any, op operator) (any, bool) {
	if op.floatFunc == nil { // bitwise: both operands must be integer-representable
		if x, ok := convertToInteger(a); ok {
			if y, ok := convertToInteger(b); ok {
				return op.integerFunc(x, y), true
			}
		}
		return nil, false
	}

	if op.integerFunc != nil {
		if x, ok := a.(int64); ok {
			if y, ok := b.(int64); ok {
				return op.integerFunc(x, y), true
			}
		}
	}
	if x, ok := convertToFloat(a); ok {
		if y, ok := convertToFloat(b); ok {
			return op.floatFunc(x, y), true
		}
	}
	return nil, false
}

