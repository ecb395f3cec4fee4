package parser

import (
	"math"

	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

// optimizeLogicalOr folds `true or x` to `true` and `false or x` to
// `x`, mirroring the short-circuit semantics codegen would otherwise
// spend a TESTSET+JMP pair on.
func optimizeLogicalOr(exp *BinopExp) Exp {
	if isTrue(exp.Left) {
		return exp.Left
	}
	if isFalse(exp.Left) && !isVarargOrFuncCall(exp.Right) {
		return exp.Right
	}
	return exp
}

func optimizeLogicalAnd(exp *BinopExp) Exp {
	if isFalse(exp.Left) {
		return exp.Left
	}
	if isTrue(exp.Left) && !isVarargOrFuncCall(exp.Right) {
		return exp.Right
	}
	return exp
}

func optimizeBitwiseBinaryOp(exp *BinopExp) Exp {
	if i, ok := castToInt(exp.Left); ok {
		if j, ok := castToInt(exp.Right); ok {
			switch Kind(exp.Op) {
			case TokenOpBAnd:
				return &IntegerExp{exp.Line, i & j}
			case TokenOpBOr:
				return &IntegerExp{exp.Line, i | j}
			case TokenOpBXor:
				return &IntegerExp{exp.Line, i ^ j}
			case TokenOpShl:
				return &IntegerExp{exp.Line, shiftLeft(i, j)}
			case TokenOpShr:
				return &IntegerExp{exp.Line, shiftLeft(i, -j)}
			}
		}
	}
	return exp
}

func optimizeArithBinaryOp(exp *BinopExp) Exp {
	if x, ok := exp.Left.(*IntegerExp); ok {
		if y, ok := exp.Right.(*IntegerExp); ok {
			switch Kind(exp.Op) {
			case TokenOpAdd:
				return &IntegerExp{exp.Line, x.Int + y.Int}
			case TokenOpMinus:
				return &IntegerExp{exp.Line, x.Int - y.Int}
			case TokenOpMul:
				return &IntegerExp{exp.Line, x.Int * y.Int}
			case TokenOpIDiv:
				if y.Int != 0 {
					return &IntegerExp{exp.Line, iFloorDiv(x.Int, y.Int)}
				}
			case TokenOpMod:
				if y.Int != 0 {
					return &IntegerExp{exp.Line, iMod(x.Int, y.Int)}
				}
			}
		}
	}
	if f, ok := castToFloat(exp.Left); ok {
		if g, ok := castToFloat(exp.Right); ok {
			switch Kind(exp.Op) {
			case TokenOpAdd:
				return &FloatExp{exp.Line, f + g}
			case TokenOpMinus:
				return &FloatExp{exp.Line, f - g}
			case TokenOpMul:
				return &FloatExp{exp.Line, f * g}
			case TokenOpDiv:
				if g != 0 {
					return &FloatExp{exp.Line, f / g}
				}
			case TokenOpIDiv:
				if g != 0 {
					return &FloatExp{exp.Line, math.Floor(f / g)}
				}
			case TokenOpMod:
				if g != 0 {
					return &FloatExp{exp.Line, fMod(f, g)}
				}
			case TokenOpPow:
				return &FloatExp{exp.Line, math.Pow(f, g)}
			}
		}
	}
	return exp
}

func optimizeUnaryOp(exp *UnopExp) Exp {
	switch Kind(exp.Op) {
	case TokenOpMinus:
		return optimizeUnm(exp)
	case TokenOpNot:
		return optimizeNot(exp)
	case TokenOpWave:
		return optimizeBnot(exp)
	default:
		return exp
	}
}

func optimizeUnm(exp *UnopExp) Exp {
	switch x := exp.Exp.(type) {
	case *IntegerExp:
		x.Int = -x.Int
		return x
	case *FloatExp:
		if x.Float != 0 {
			x.Float = -x.Float
			return x
		}
	}
	return exp
}

func optimizeNot(exp *UnopExp) Exp {
	switch exp.Exp.(type) {
	case *NilExp, *FalseExp:
		return &TrueExp{exp.Line}
	case *TrueExp, *IntegerExp, *FloatExp, *StringExp:
		return &FalseExp{exp.Line}
	default:
		return exp
	}
}

func optimizeBnot(exp *UnopExp) Exp {
	switch x := exp.Exp.(type) {
	case *IntegerExp:
		x.Int = ^x.Int
		return x
	case *FloatExp:
		if i, ok := floatToInteger(x.Float); ok {
			return &IntegerExp{x.Line, ^i}
		}
	}
	return exp
}

func isFalse(exp Exp) bool {
	switch exp.(type) {
	case *FalseExp, *NilExp:
		return true
	default:
		return false
	}
}

func isTrue(exp Exp) bool {
	switch exp.(type) {
	case *TrueExp, *IntegerExp, *FloatExp, *StringExp:
		return true
	default:
		return false
	}
}

func castToInt(exp Exp) (int64, bool) {
	switch x := exp.(type) {
	case *IntegerExp:
		return x.Int, true
	case *FloatExp:
		return floatToInteger(x.Float)
	default:
		return 0, false
	}
}

func castToFloat(exp Exp) (float64, bool) {
	switch x := exp.(type) {
	case *IntegerExp:
		return float64(x.Int), true
	case *FloatExp:
		return x.Float, true
	default:
		return 0, false
	}
}
