package codegen

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

const LFieldsPerFlush = 50

// cgExp compiles node so its value(s) land at register a. n is the
// number of results the caller wants: 1 for the common single-value
// case, -1 to mean "every result, however many there are" (used for
// the last item of an explist/call-args list when node is itself a
// vararg or multi-return call).
func cgExp(fi *funcInfo, node Exp, a, n int) {
	switch x := node.(type) {
	case *NilExp:
		fi.emitLoadNil(x.Line, a, 1)
	case *FalseExp:
		fi.emitLoadBool(x.Line, a, 0, 0)
	case *TrueExp:
		fi.emitLoadBool(x.Line, a, 1, 0)
	case *IntegerExp:
		fi.emitLoadK(x.Line, a, x.Int)
	case *FloatExp:
		fi.emitLoadK(x.Line, a, x.Float)
	case *StringExp:
		fi.emitLoadK(x.Line, a, x.Str)
	case *ParensExp:
		cgExp(fi, x.Exp, a, 1)
	case *VarargExp:
		cgVarargExp(fi, x, a, n)
	case *FuncDefExp:
		cgFuncDefExp(fi, x, a)
	case *TableConstructorExp:
		cgTableConstructorExp(fi, x, a)
	case *UnopExp:
		cgUnopExp(fi, x, a)
	case *BinopExp:
		cgBinopExp(fi, x, a)
	case *ConcatExp:
		cgConcatExp(fi, x, a)
	case *NameExp:
		cgNameExp(fi, x, a)
	case *TableAccessExp:
		cgTableAccessExp(fi, x, a)
	case *FuncCallExp:
		cgFuncCallExp(fi, x, a, n)
	default:
		panic("kolibri: unknown expression node")
	}
}

func isVarargOrFuncCall(exp Exp) bool {
	switch exp.(type) {
	case *VarargExp, *FuncCallExp:
		return true
	}
	return false
}

func lastLineOf(exp Exp) int {
	switch x := exp.(type) {
	case *NilExp:
		return x.Line
	case *TrueExp:
		return x.Line
	case *FalseExp:
		return x.Line
	case *VarargExp:
		return x.Line
	case *IntegerExp:
		return x.Line
	case *FloatExp:
		return x.Line
	case *StringExp:
		return x.Line
	case *NameExp:
		return x.Line
	case *UnopExp:
		return lastLineOf(x.Exp)
	case *BinopExp:
		return lastLineOf(x.Right)
	case *ConcatExp:
		return lastLineOf(x.Exps[len(x.Exps)-1])
	case *FuncDefExp:
		return x.LastLine
	case *TableConstructorExp:
		return x.LastLine
	case *ParensExp:
		return lastLineOf(x.Exp)
	case *TableAccessExp:
		return x.LastLine
	case *FuncCallExp:
		return x.LastLine
	}
	panic("kolibri: unreachable")
}

// cgExpList compiles a list of expressions where only the last one
// may expand to multiple values (a vararg or function call not
// wrapped in parens); every other expression always yields exactly
// one value. n is the number of results wanted from the whole list,
// -1 meaning "all the last expression produces".
func cgExpList(fi *funcInfo, exps []Exp, a, n int) {
	if len(exps) == 0 {
		return
	}
	last := exps[len(exps)-1]
	for i := 0; i < len(exps)-1; i++ {
		cgExp(fi, exps[i], fi.allocReg(), 1)
	}
	r := fi.allocReg()
	if isVarargOrFuncCall(last) {
		rem := -1
		if n >= 0 {
			rem = n - (len(exps) - 1)
		}
		cgExp(fi, last, r, rem)
	} else {
		cgExp(fi, last, r, 1)
		if n > len(exps) {
			fi.emitLoadNil(lastLineOf(last), a+len(exps), n-len(exps))
		}
	}
	fi.freeRegs(len(exps))
}

// cgExpListToMulti compiles exps, growing the register window to fit
// every value (used by RETURN/CALL-argument positions), and reports
// how many values ended up at a: -1 if the count is only known at
// run time (the last expression was vararg/call and contributed an
// unbounded tail).
func cgExpListToMulti(fi *funcInfo, exps []Exp, a int) int {
	if len(exps) == 0 {
		return 0
	}
	last := exps[len(exps)-1]
	for i := 0; i < len(exps)-1; i++ {
		cgExp(fi, exps[i], fi.allocReg(), 1)
	}
	r := fi.allocReg()
	if isVarargOrFuncCall(last) {
		cgExp(fi, last, r, -1)
		fi.freeRegs(len(exps))
		return -1
	}
	cgExp(fi, last, r, 1)
	fi.freeRegs(len(exps))
	return len(exps)
}

func cgVarargExp(fi *funcInfo, exp *VarargExp, a, n int) {
	if !fi.isVararg {
		panic("cannot use '...' outside a vararg function")
	}
	if n < 0 {
		n = -1
	}
	fi.emitVararg(exp.Line, a, n)
}

func cgFuncDefExp(fi *funcInfo, exp *FuncDefExp, a int) {
	subFI := newFuncInfo(fi, exp.Line, exp.LastLine, len(exp.ParList), exp.IsVararg)
	fi.subFuncs = append(fi.subFuncs, subFI)

	for _, param := range exp.ParList {
		subFI.addLocVar(param, 0)
	}
	cgBlock(subFI, exp.Block)
	subFI.exitScope(subFI.pc())
	subFI.emitReturn(exp.LastLine, 0, 0)

	bx := len(fi.subFuncs) - 1
	fi.emitClosure(exp.Line, a, bx)
}

// cgTableConstructorExp emits NEWTABLE sized with the hint its fields
// give it, fills array-style entries in LFieldsPerFlush-sized batches
// via SETLIST (the last batch may be an unbounded vararg/call tail),
// and sets keyed entries with individual SETTABLE instructions.
func cgTableConstructorExp(fi *funcInfo, exp *TableConstructorExp, a int) {
	nArr := 0
	for _, key := range exp.KeyExps {
		if key == nil {
			nArr++
		}
	}
	nRec := len(exp.KeyExps) - nArr

	fi.emitNewTable(exp.Line, a, nArr, nRec)

	arrIdx := 0
	for i, key := range exp.KeyExps {
		val := exp.ValExps[i]
		if key != nil {
			keyReg := fi.allocReg()
			cgExp(fi, key, keyReg, 1)
			valReg := fi.allocReg()
			cgExp(fi, val, valReg, 1)
			fi.freeRegs(2)
			line := lastLineOf(val)
			fi.emitSetTable(line, a, keyReg, valReg)
			continue
		}

		arrIdx++
		isLast := arrIdx == nArr
		if i == len(exp.KeyExps)-1 && isVarargOrFuncCall(val) {
			n := (arrIdx-1)%LFieldsPerFlush + 1
			valReg := fi.allocReg()
			cgExp(fi, val, valReg, -1)
			fi.freeRegs(n)
			fi.emitSetList(exp.Line, a, 0, (arrIdx-1)/LFieldsPerFlush+1)
			continue
		}

		valReg := fi.allocReg()
		cgExp(fi, val, valReg, 1)
		if arrIdx%LFieldsPerFlush == 0 || isLast {
			n := arrIdx % LFieldsPerFlush
			if n == 0 {
				n = LFieldsPerFlush
			}
			fi.freeRegs(n)
			fi.emitSetList(exp.Line, a, n, (arrIdx-1)/LFieldsPerFlush+1)
		}
	}
}

func cgNameExp(fi *funcInfo, exp *NameExp, a int) {
	if r := fi.slotOfLocVar(exp.Name); r >= 0 {
		fi.emitMove(exp.Line, a, r)
		return
	}
	if idx := fi.indexOfUpval(exp.Name); idx >= 0 {
		fi.emitGetUpval(exp.Line, a, idx)
		return
	}
	// global: _ENV.name, via GETTABUP
	taExp := &TableAccessExp{
		LastLine:  exp.Line,
		PrefixExp: &NameExp{exp.Line, "_ENV"},
		KeyExp:    &StringExp{exp.Line, exp.Name},
	}
	cgTableAccessExp(fi, taExp, a)
}

func cgTableAccessExp(fi *funcInfo, exp *TableAccessExp, a int) {
	if nameExp, ok := exp.PrefixExp.(*NameExp); ok && nameExp.Name == "_ENV" {
		if idx := fi.indexOfUpval("_ENV"); idx >= 0 {
			kReg := fi.allocReg()
			cgExp(fi, exp.KeyExp, kReg, 1)
			fi.freeReg()
			fi.emitGetTabUp(exp.LastLine, a, idx, kReg)
			return
		}
	}

	bReg := fi.allocReg()
	cgExp(fi, exp.PrefixExp, bReg, 1)
	cReg := fi.allocReg()
	cgExp(fi, exp.KeyExp, cReg, 1)
	fi.freeRegs(2)
	fi.emitGetTable(exp.LastLine, a, bReg, cReg)
}

func cgUnopExp(fi *funcInfo, exp *UnopExp, a int) {
	bReg := fi.allocReg()
	cgExp(fi, exp.Exp, bReg, 1)
	fi.emitUnaryOp(exp.Line, Kind(exp.Op), a, bReg)
	fi.freeReg()
}

func cgBinopExp(fi *funcInfo, exp *BinopExp, a int) {
	switch Kind(exp.Op) {
	case TokenOpAnd, TokenOpOr:
		cgLogicalBinopExp(fi, exp, a)
	default:
		bReg := fi.allocReg()
		cgExp(fi, exp.Left, bReg, 1)
		cReg := fi.allocReg()
		cgExp(fi, exp.Right, cReg, 1)
		fi.freeRegs(2)
		fi.emitBinaryOp(exp.Line, Kind(exp.Op), a, bReg, cReg)
	}
}

// cgLogicalBinopExp compiles `and`/`or` with short circuit: evaluate
// the left operand into a, TESTSET it against the desired truthiness,
// and only evaluate the right operand (again into a) if the left
// didn't already decide the result.
func cgLogicalBinopExp(fi *funcInfo, exp *BinopExp, a int) {
	cgExp(fi, exp.Left, a, 1)
	var c int
	if Kind(exp.Op) == TokenOpAnd {
		c = 0
	} else {
		c = 1
	}
	fi.emitTestSet(exp.Line, a, a, c)
	pc := fi.emitJmp(exp.Line, 0, 0)
	cgExp(fi, exp.Right, a, 1)
	fi.fixSbx(pc, fi.pc()-pc)
}

// cgConcatExp emits the operands of a flattened a..b..c..chain into a
// contiguous register run, then a single CONCAT over that run.
func cgConcatExp(fi *funcInfo, exp *ConcatExp, a int) {
	for _, sub := range exp.Exps {
		r := fi.allocReg()
		cgExp(fi, sub, r, 1)
	}
	n := len(exp.Exps)
	start := fi.usedRegs - n
	fi.emitConcat(exp.Line, a, start, start+n-1)
	fi.freeRegs(n)
}

func cgFuncCallExp(fi *funcInfo, exp *FuncCallExp, a, n int) {
	nArgs := prepFuncCall(fi, exp, a)
	fi.emitCall(exp.Line, a, nArgs, n)
}

// prepFuncCall loads the callee (and, for method calls, the receiver
// via SELF) into register a and its arguments into the registers
// above it, returning the argument count to pass to emitCall (-1 if
// the last argument was itself a vararg/call expansion).
func prepFuncCall(fi *funcInfo, exp *FuncCallExp, a int) int {
	nArgs := len(exp.Args)
	lastArgIsVarargOrCall := nArgs > 0 && isVarargOrFuncCall(exp.Args[nArgs-1])

	if exp.NameExp == nil {
		cgExp(fi, exp.PrefixExp, a, 1)
	} else {
		cgExp(fi, exp.PrefixExp, a, 1)
		fi.allocReg() // a+1, the receiver copy SELF fills in
		k := fi.indexOfConstant(exp.NameExp.Str)
		fi.emitSelf(exp.Line, a, a, 0x100|k)
	}

	for i, arg := range exp.Args {
		ar := fi.allocReg()
		if i == nArgs-1 && lastArgIsVarargOrCall {
			cgExp(fi, arg, ar, -1)
		} else {
			cgExp(fi, arg, ar, 1)
		}
	}

	n := fi.usedRegs - a - 1
	fi.freeRegs(n)

	if lastArgIsVarargOrCall {
		return -1
	}
	return n
}
