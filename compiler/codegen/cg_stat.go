package codegen

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
)

// cgBlock compiles a statement sequence plus its optional trailing
// return. It does not open its own scope: callers that need one
// (loop/if/do bodies) call enterScope/exitScope around cgBlock
// themselves so the right PC range gets closed.
func cgBlock(fi *funcInfo, node *Block) {
	for _, stat := range node.Stats {
		cgStat(fi, stat)
	}
	if node.RetExps != nil {
		cgRetStat(fi, node.RetExps, node.LastLine)
	}
}

func cgRetStat(fi *funcInfo, exps []Exp, lastLine int) {
	n := len(exps)
	if n == 0 {
		fi.emitReturn(lastLine, 0, 0)
		return
	}
	if n == 1 {
		if nameExp, ok := exps[0].(*NameExp); ok {
			if r := fi.slotOfLocVar(nameExp.Name); r >= 0 {
				fi.emitReturn(lastLine, r, 1)
				return
			}
		}
		if call, ok := exps[0].(*FuncCallExp); ok {
			a := fi.allocReg()
			prepTailCall(fi, call, a)
			fi.freeReg()
			fi.emitReturn(lastLine, a, -1)
			return
		}
	}

	multi := isVarargOrFuncCall(exps[n-1])
	a := fi.usedRegs
	cnt := cgExpListToMulti(fi, exps, a)
	if multi {
		cnt = -1
	}
	fi.emitReturn(lastLine, a, cnt)
}

// prepTailCall compiles a function call in return-statement position
// as a genuine TAILCALL instruction (kolibri's CALL-with-forwarding
// semantics still apply; see vm.tailCall).
func prepTailCall(fi *funcInfo, exp *FuncCallExp, a int) {
	nArgs := prepFuncCall(fi, exp, a)
	fi.emitTailCall(exp.Line, a, nArgs)
}

func cgStat(fi *funcInfo, node Stat) {
	switch x := node.(type) {
	case *EmptyStat:
		// nothing to emit
	case *BreakStat:
		cgBreakStat(fi, x)
	case *LabelStat:
		// goto/label execution is not implemented; the node survives
		// parsing so a future codegen can add it.
	case *GotoStat:
		panic("goto is not supported")
	case *DoStat:
		cgDoStat(fi, x)
	case *WhileStat:
		cgWhileStat(fi, x)
	case *RepeatStat:
		cgRepeatStat(fi, x)
	case *IfStat:
		cgIfStat(fi, x)
	case *ForNumStat:
		cgForNumStat(fi, x)
	case *ForInStat:
		cgForInStat(fi, x)
	case *LocalVarDeclStat:
		cgLocalVarDeclStat(fi, x)
	case *LocalFuncDefStat:
		cgLocalFuncDefStat(fi, x)
	case *AssignStat:
		cgAssignStat(fi, x)
	case *FuncCallExp:
		r := fi.allocReg()
		cgFuncCallExp(fi, x, r, 0)
		fi.freeReg()
	default:
		panic("kolibri: unknown statement node")
	}
}

func cgBreakStat(fi *funcInfo, node *BreakStat) {
	pc := fi.emitJmp(node.Line, 0, 0)
	fi.addBreakJmp(pc)
}

func cgDoStat(fi *funcInfo, node *DoStat) {
	fi.enterScope(false)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.exitScope(fi.pc() + 1)
}

// cgWhileStat: while exp do block end
//
//	  condPC: evaluate exp into a throwaway register; TEST/JMP to bodyEnd
//	          ... body ...
//	          JMP condPC
//	bodyEnd:
func cgWhileStat(fi *funcInfo, node *WhileStat) {
	condPC := fi.pc() + 1
	r := fi.allocReg()
	cgExp(fi, node.Exp, r, 1)
	fi.freeReg()
	fi.emitTest(lastLineOf(node.Exp), r, 0)
	jmpToEnd := fi.emitJmp(lastLineOf(node.Exp), 0, 0)

	fi.enterScope(true)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.emitJmp(node.Block.LastLine, 0, condPC-fi.pc()-2)
	fi.exitScope(fi.pc() + 1)

	fi.fixSbx(jmpToEnd, fi.pc()-jmpToEnd)
}

// cgRepeatStat: repeat block until exp
//
// The until expression is compiled inside the body's scope (its
// locals are visible there), then the scope closes only after the
// trailing conditional JMP is emitted, matching Lua's repeat/until
// scoping rule.
func cgRepeatStat(fi *funcInfo, node *RepeatStat) {
	bodyPC := fi.pc() + 1
	fi.enterScope(true)

	cgBlock(fi, node.Block)

	r := fi.allocReg()
	cgExp(fi, node.Exp, r, 1)
	fi.freeReg()
	fi.emitTest(lastLineOf(node.Exp), r, 0)
	fi.emitJmp(lastLineOf(node.Exp), 0, bodyPC-fi.pc()-2)

	fi.closeOpenUpvals(lastLineOf(node.Exp))
	fi.exitScope(fi.pc() + 1)
}

func cgIfStat(fi *funcInfo, node *IfStat) {
	jmpsToEnd := make([]int, len(node.Exps))
	var prevJmpToNext int = -1

	for i, exp := range node.Exps {
		if prevJmpToNext >= 0 {
			fi.fixSbx(prevJmpToNext, fi.pc()-prevJmpToNext)
		}

		r := fi.allocReg()
		cgExp(fi, exp, r, 1)
		fi.freeReg()
		line := lastLineOf(exp)
		fi.emitTest(line, r, 0)
		prevJmpToNext = fi.emitJmp(line, 0, 0)

		fi.enterScope(false)
		cgBlock(fi, node.Blocks[i])
		fi.closeOpenUpvals(node.Blocks[i].LastLine)
		fi.exitScope(fi.pc() + 1)

		if i < len(node.Exps)-1 {
			jmpsToEnd[i] = fi.emitJmp(node.Blocks[i].LastLine, 0, 0)
		}
	}

	if prevJmpToNext >= 0 {
		fi.fixSbx(prevJmpToNext, fi.pc()-prevJmpToNext)
	}
	for i := 0; i < len(node.Exps)-1; i++ {
		fi.fixSbx(jmpsToEnd[i], fi.pc()-jmpsToEnd[i])
	}
}

// cgForNumStat: for Name = init, limit [, step] do block end
//
// FORPREP/FORLOOP own three hidden control registers (init, limit,
// step) below the loop variable's own visible register.
func cgForNumStat(fi *funcInfo, node *ForNumStat) {
	fi.enterScope(true)

	// the three control slots, then the visible loop variable
	initReg := fi.addLocVar("(for init)", fi.pc()+1)
	cgExp(fi, node.InitExp, initReg, 1)

	limitReg := fi.addLocVar("(for limit)", fi.pc()+1)
	cgExp(fi, node.LimitExp, limitReg, 1)

	stepReg := fi.addLocVar("(for step)", fi.pc()+1)
	if node.StepExp != nil {
		cgExp(fi, node.StepExp, stepReg, 1)
	} else {
		fi.emitLoadK(node.LineOfFor, stepReg, int64(1))
	}

	prepPC := fi.emitForPrep(node.LineOfFor, initReg, 0)

	fi.addLocVar(node.VarName, fi.pc()+1)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)

	fi.exitScope(fi.pc() + 1)
	fi.fixSbx(prepPC, fi.pc()-prepPC)

	loopPC := fi.emitForLoop(node.LineOfDo, initReg, 0)
	fi.fixSbx(loopPC, prepPC-loopPC)
}

// cgForInStat: for NameList in ExpList do block end
//
// ExpList's three results (generator, state, initial control) fill
// three hidden registers below the visible NameList locals.
func cgForInStat(fi *funcInfo, node *ForInStat) {
	fi.enterScope(true)

	generatorReg := fi.usedRegs
	cgExpList(fi, node.ExpList, generatorReg, 3)
	fi.addLocVar("(for generator)", fi.pc()+1)
	fi.addLocVar("(for state)", fi.pc()+1)
	fi.addLocVar("(for control)", fi.pc()+1)

	jmpToTest := fi.emitJmp(node.LineOfDo, 0, 0)

	for _, name := range node.NameList {
		fi.addLocVar(name, fi.pc()+1)
	}
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)

	fi.fixSbx(jmpToTest, fi.pc()-jmpToTest)

	line := node.LineOfDo
	fi.emitTForCall(line, generatorReg, len(node.NameList))
	fi.emitTForLoop(line, generatorReg+2, jmpToTest-fi.pc()-1)

	fi.exitScope(fi.pc() + 1)
}

func cgLocalVarDeclStat(fi *funcInfo, node *LocalVarDeclStat) {
	nNames := len(node.NameList)
	a := fi.usedRegs
	fi.allocRegs(nNames)
	cgAssignList(fi, node.ExpList, a, nNames, node.LastLine)
	fi.freeRegs(nNames)

	for _, name := range node.NameList {
		fi.addLocVar(name, fi.pc()+1)
	}
}

// cgAssignList compiles exps so that exactly n values land in the
// contiguous registers starting at a: a shorter exps list pads the
// remaining registers with nil (the last given expression, if a
// vararg or call, instead expands to fill them); a longer one still
// evaluates the extra expressions, for their side effects, into a
// scratch register that is immediately freed.
func cgAssignList(fi *funcInfo, exps []Exp, a, n int, line int) {
	nExps := len(exps)
	if nExps == 0 {
		fi.emitLoadNil(line, a, n)
		return
	}

	fi.freeRegs(n)
	if nExps <= n {
		last := exps[nExps-1]
		for i := 0; i < nExps-1; i++ {
			cgExp(fi, exps[i], fi.allocReg(), 1)
		}
		r := fi.allocReg()
		if isVarargOrFuncCall(last) {
			cgExp(fi, last, r, n-nExps+1)
		} else {
			cgExp(fi, last, r, 1)
			if nExps < n {
				fi.emitLoadNil(lastLineOf(last), a+nExps, n-nExps)
			}
		}
		if nExps < n {
			fi.allocRegs(n - nExps)
		}
		return
	}

	for i := 0; i < n; i++ {
		cgExp(fi, exps[i], fi.allocReg(), 1)
	}
	for i := n; i < nExps; i++ {
		r := fi.allocReg()
		cgExp(fi, exps[i], r, 1)
		fi.freeReg()
	}
}

func cgLocalFuncDefStat(fi *funcInfo, node *LocalFuncDefStat) {
	r := fi.addLocVar(node.Name, fi.pc()+1)
	cgFuncDefExp(fi, node.Exp, r)
}

func cgAssignStat(fi *funcInfo, node *AssignStat) {
	n := len(node.VarList)
	if n == 1 {
		cgSingleAssign(fi, node.VarList[0], node.ExpList[0], node.LastLine)
		return
	}

	// Pre-evaluate every TableAccessExp target's prefix/key into
	// temporaries, left to right, before the RHS runs: `t[i], i = 99, 2`
	// must index with the old i, not the one the RHS just wrote.
	targets := make([]assignTarget, n)
	for i, v := range node.VarList {
		targets[i] = prepareAssignTarget(fi, v)
	}

	a := fi.usedRegs
	fi.allocRegs(n)
	cgAssignList(fi, node.ExpList, a, n, node.LastLine)

	for i := 0; i < n; i++ {
		cgAssign(fi, targets[i], a+i, node.LastLine)
	}
	fi.freeRegs(n)

	for i := n - 1; i >= 0; i-- {
		if targets[i].cReg >= 0 {
			fi.freeRegs(2)
		}
	}
}

// assignTarget is a multi-assignment target with its TableAccessExp
// prefix/key (if any) already evaluated into temporaries.
type assignTarget struct {
	exp  Exp
	bReg int // prefix register, -1 unless exp is *TableAccessExp
	cReg int // key register, -1 unless exp is *TableAccessExp
}

func prepareAssignTarget(fi *funcInfo, target Exp) assignTarget {
	ta, ok := target.(*TableAccessExp)
	if !ok {
		return assignTarget{exp: target, bReg: -1, cReg: -1}
	}

	bReg := fi.allocReg()
	cgExp(fi, ta.PrefixExp, bReg, 1)
	cReg := fi.allocReg()
	cgExp(fi, ta.KeyExp, cReg, 1)
	return assignTarget{exp: target, bReg: bReg, cReg: cReg}
}

func cgSingleAssign(fi *funcInfo, target, value Exp, lastLine int) {
	switch t := target.(type) {
	case *NameExp:
		cgNameAssign(fi, t, value, lastLine)
	case *TableAccessExp:
		cgTableAssign(fi, t, value, lastLine)
	}
}

func cgNameAssign(fi *funcInfo, target *NameExp, value Exp, lastLine int) {
	if r := fi.slotOfLocVar(target.Name); r >= 0 {
		cgExp(fi, value, r, 1)
		return
	}
	if idx := fi.indexOfUpval(target.Name); idx >= 0 {
		r := fi.allocReg()
		cgExp(fi, value, r, 1)
		fi.emitSetUpval(lastLine, r, idx)
		fi.freeReg()
		return
	}
	ta := &TableAccessExp{
		LastLine:  lastLine,
		PrefixExp: &NameExp{target.Line, "_ENV"},
		KeyExp:    &StringExp{target.Line, target.Name},
	}
	cgTableAssign(fi, ta, value, lastLine)
}

func cgTableAssign(fi *funcInfo, target *TableAccessExp, value Exp, lastLine int) {
	if nameExp, ok := target.PrefixExp.(*NameExp); ok && nameExp.Name == "_ENV" {
		if idx := fi.indexOfUpval("_ENV"); idx >= 0 {
			kReg := fi.allocReg()
			cgExp(fi, target.KeyExp, kReg, 1)
			vReg := fi.allocReg()
			cgExp(fi, value, vReg, 1)
			fi.freeRegs(2)
			fi.emitSetTabUp(lastLine, idx, kReg, vReg)
			return
		}
	}

	bReg := fi.allocReg()
	cgExp(fi, target.PrefixExp, bReg, 1)
	cReg := fi.allocReg()
	cgExp(fi, target.KeyExp, cReg, 1)
	vReg := fi.allocReg()
	cgExp(fi, value, vReg, 1)
	fi.freeRegs(3)
	fi.emitSetTable(lastLine, bReg, cReg, vReg)
}

// cgAssign stores the value already evaluated into temp register vReg
// into target t (used by the multi-assignment path, where all RHS values are
// evaluated into a contiguous block before any LHS write happens, so
// `a, b = b, a` swaps correctly). TableAccessExp targets use the
// prefix/key registers prepareAssignTarget already evaluated, rather
// than re-evaluating them here after the RHS has run.
func cgAssign(fi *funcInfo, t assignTarget, vReg int, lastLine int) {
	switch target := t.exp.(type) {
	case *NameExp:
		if r := fi.slotOfLocVar(target.Name); r >= 0 {
			fi.emitMove(lastLine, r, vReg)
			return
		}
		if idx := fi.indexOfUpval(target.Name); idx >= 0 {
			fi.emitSetUpval(lastLine, vReg, idx)
			return
		}
		if envIdx := fi.indexOfUpval("_ENV"); envIdx >= 0 {
			k := fi.indexOfConstant(target.Name)
			fi.emitSetTabUp(lastLine, envIdx, 0x100|k, vReg)
			return
		}
	case *TableAccessExp:
		fi.emitSetTable(lastLine, t.bReg, t.cReg, vReg)
	}
}
