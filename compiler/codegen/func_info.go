package codegen

import (
	. "github.com/kolibrilang/kolibri/compiler/lexer"
	"github.com/kolibrilang/kolibri/vm"
)

var arithAndBitwiseBinops = map[Kind]int{
	TokenOpAdd:  vm.OpAdd,
	TokenOpMinus: vm.OpSub,
	TokenOpMul:  vm.OpMul,
	TokenOpMod:  vm.OpMod,
	TokenOpPow:  vm.OpPow,
	TokenOpDiv:  vm.OpDiv,
	TokenOpIDiv: vm.OpIDiv,
	TokenOpBAnd: vm.OpBAnd,
	TokenOpBOr:  vm.OpBOr,
	TokenOpBXor: vm.OpBXor,
	TokenOpShl:  vm.OpShl,
	TokenOpShr:  vm.OpShr,
}

type upvalInfo struct {
	locVarSlot int
	upvalIndex int
	index      int
}

type locVarInfo struct {
	prev     *locVarInfo
	name     string
	scopeLv  int
	slot     int
	startPC  int
	endPC    int
	captured bool
}

// funcInfo is the one-pass compile state for a single function body:
// its register allocator, constant pool, local/upvalue tables and the
// instruction stream being emitted. Nested function literals get
// their own funcInfo linked to the enclosing one via parent, which is
// how upvalue resolution walks outward.
type funcInfo struct {
	parent    *funcInfo
	subFuncs  []*funcInfo
	usedRegs  int
	maxRegs   int
	scopeLv   int
	locVars   []*locVarInfo
	locNames  map[string]*locVarInfo
	upvalues  map[string]upvalInfo
	constants map[any]int
	breaks    [][]int
	insts     []uint32
	lineNums  []uint32
	line      int
	lastLine  int
	numParams int
	isVararg  bool
}

func newFuncInfo(parent *funcInfo, line, lastLine, numParams int, isVararg bool) *funcInfo {
	return &funcInfo{
		parent:    parent,
		locVars:   make([]*locVarInfo, 0, 8),
		locNames:  map[string]*locVarInfo{},
		upvalues:  map[string]upvalInfo{},
		constants: map[any]int{},
		breaks:    make([][]int, 1),
		insts:     make([]uint32, 0, 8),
		lineNums:  make([]uint32, 0, 8),
		line:      line,
		lastLine:  lastLine,
		numParams: numParams,
		isVararg:  isVararg,
	}
}

/* constants */

func (fi *funcInfo) indexOfConstant(k any) int {
	if idx, found := fi.constants[k]; found {
		return idx
	}
	idx := len(fi.constants)
	fi.constants[k] = idx
	return idx
}

/* registers */

func (fi *funcInfo) allocReg() int {
	fi.usedRegs++
	if fi.usedRegs >= 255 {
		panic("function or expression needs too many registers")
	}
	if fi.usedRegs > fi.maxRegs {
		fi.maxRegs = fi.usedRegs
	}
	return fi.usedRegs - 1
}

func (fi *funcInfo) freeReg() {
	if fi.usedRegs <= 0 {
		panic("kolibri: register freed with none allocated")
	}
	fi.usedRegs--
}

func (fi *funcInfo) allocRegs(n int) int {
	if n <= 0 {
		panic("kolibri: allocRegs requires n > 0")
	}
	for i := 0; i < n; i++ {
		fi.allocReg()
	}
	return fi.usedRegs - n
}

func (fi *funcInfo) freeRegs(n int) {
	for i := 0; i < n; i++ {
		fi.freeReg()
	}
}

/* lexical scope */

func (fi *funcInfo) enterScope(breakable bool) {
	fi.scopeLv++
	if breakable {
		fi.breaks = append(fi.breaks, []int{})
	} else {
		fi.breaks = append(fi.breaks, nil)
	}
}

func (fi *funcInfo) exitScope(endPC int) {
	pendingBreakJmps := fi.breaks[len(fi.breaks)-1]
	fi.breaks = fi.breaks[:len(fi.breaks)-1]

	a := fi.getJmpArgA()
	for _, pc := range pendingBreakJmps {
		sBx := fi.pc() - pc
		fi.insts[pc] = uint32(vm.EncodeAsBx(vm.OpJmp, a, sBx))
	}

	fi.scopeLv--
	for name := range fi.locNames {
		if fi.locNames[name].scopeLv > fi.scopeLv {
			fi.locNames[name].endPC = endPC
			fi.removeLocVar(fi.locNames[name])
		}
	}
}

func (fi *funcInfo) removeLocVar(locVar *locVarInfo) {
	fi.freeReg()
	if locVar.prev == nil {
		delete(fi.locNames, locVar.name)
	} else if locVar.prev.scopeLv == locVar.scopeLv {
		fi.removeLocVar(locVar.prev)
	} else {
		fi.locNames[locVar.name] = locVar.prev
	}
}

func (fi *funcInfo) addLocVar(name string, startPC int) int {
	newVar := &locVarInfo{
		name:    name,
		prev:    fi.locNames[name],
		scopeLv: fi.scopeLv,
		slot:    fi.allocReg(),
		startPC: startPC,
	}
	fi.locVars = append(fi.locVars, newVar)
	fi.locNames[name] = newVar
	return newVar.slot
}

func (fi *funcInfo) slotOfLocVar(name string) int {
	if locVar, found := fi.locNames[name]; found {
		return locVar.slot
	}
	return -1
}

func (fi *funcInfo) addBreakJmp(pc int) {
	for i := fi.scopeLv; i >= 0; i-- {
		if fi.breaks[i] != nil {
			fi.breaks[i] = append(fi.breaks[i], pc)
			return
		}
	}
	panic("break outside a loop")
}

/* upvalues */

// indexOfUpval resolves name to an upvalue index, recursing into the
// parent chain: a name found as a parent local becomes an "in-stack"
// upvalue (and marks that local captured, for scope-exit closing);
// a name found as one of the parent's own upvalues is chained through
// unchanged.
func (fi *funcInfo) indexOfUpval(name string) int {
	if upval, ok := fi.upvalues[name]; ok {
		return upval.index
	}
	if fi.parent == nil {
		return -1
	}
	if locVar, found := fi.parent.locNames[name]; found {
		idx := len(fi.upvalues)
		fi.upvalues[name] = upvalInfo{locVar.slot, -1, idx}
		locVar.captured = true
		return idx
	}
	if uvIdx := fi.parent.indexOfUpval(name); uvIdx >= 0 {
		idx := len(fi.upvalues)
		fi.upvalues[name] = upvalInfo{-1, uvIdx, idx}
		return idx
	}
	return -1
}

func (fi *funcInfo) closeOpenUpvals(line int) {
	a := fi.getJmpArgA()
	if a > 0 {
		fi.emitJmp(line, a, 0)
	}
}

// getJmpArgA computes the JMP instruction's A operand for a scope
// exit: 0 if nothing in the scope was captured (no upvalues need
// closing), otherwise one past the lowest captured local's register
// so CLOSE semantics close every slot from there up.
func (fi *funcInfo) getJmpArgA() int {
	hasCaptured := false
	minSlot := fi.maxRegs
	for _, v := range fi.locNames {
		if v.scopeLv != fi.scopeLv {
			continue
		}
		for ; v != nil && v.scopeLv == fi.scopeLv; v = v.prev {
			if v.captured {
				hasCaptured = true
				if v.slot < minSlot {
					minSlot = v.slot
				}
			}
		}
	}
	if hasCaptured {
		return minSlot + 1
	}
	return 0
}

/* code emission */

func (fi *funcInfo) pc() int {
	return len(fi.insts) - 1
}

func (fi *funcInfo) fixSbx(pc, sBx int) {
	a, _ := Instruction(fi.insts[pc]).AsBx()
	fi.insts[pc] = uint32(vm.EncodeAsBx(Instruction(fi.insts[pc]).Opcode(), a, sBx))
}

type Instruction = vm.Instruction

func (fi *funcInfo) emit(line int, i vm.Instruction) {
	fi.insts = append(fi.insts, uint32(i))
	fi.lineNums = append(fi.lineNums, uint32(line))
}

func (fi *funcInfo) emitABC(line, op, a, b, c int)   { fi.emit(line, vm.EncodeABC(op, a, b, c)) }
func (fi *funcInfo) emitABx(line, op, a, bx int)     { fi.emit(line, vm.EncodeABx(op, a, bx)) }
func (fi *funcInfo) emitAsBx(line, op, a, sbx int)   { fi.emit(line, vm.EncodeAsBx(op, a, sbx)) }
func (fi *funcInfo) emitAx(line, op, ax int)         { fi.emit(line, vm.EncodeAx(op, ax)) }

func (fi *funcInfo) emitMove(line, a, b int)        { fi.emitABC(line, vm.OpMove, a, b, 0) }
func (fi *funcInfo) emitLoadNil(line, a, n int)     { fi.emitABC(line, vm.OpLoadNil, a, n-1, 0) }
func (fi *funcInfo) emitLoadBool(line, a, b, c int) { fi.emitABC(line, vm.OpLoadBool, a, b, c) }

func (fi *funcInfo) emitLoadK(line, a int, k any) {
	idx := fi.indexOfConstant(k)
	if idx < (1 << 18) {
		fi.emitABx(line, vm.OpLoadK, a, idx)
	} else {
		fi.emitABx(line, vm.OpLoadKx, a, 0)
		fi.emitAx(line, vm.OpExtraArg, idx)
	}
}

func (fi *funcInfo) emitVararg(line, a, n int)  { fi.emitABC(line, vm.OpVararg, a, n+1, 0) }
func (fi *funcInfo) emitClosure(line, a, bx int) { fi.emitABx(line, vm.OpClosure, a, bx) }

func (fi *funcInfo) emitNewTable(line, a, nArr, nRec int) {
	fi.emitABC(line, vm.OpNewTable, a, vm.Int2Fb(nArr), vm.Int2Fb(nRec))
}

func (fi *funcInfo) emitSetList(line, a, b, c int) { fi.emitABC(line, vm.OpSetList, a, b, c) }
func (fi *funcInfo) emitGetTable(line, a, b, c int) { fi.emitABC(line, vm.OpGetTable, a, b, c) }
func (fi *funcInfo) emitSetTable(line, a, b, c int) { fi.emitABC(line, vm.OpSetTable, a, b, c) }
func (fi *funcInfo) emitGetUpval(line, a, b int)    { fi.emitABC(line, vm.OpGetUpval, a, b, 0) }
func (fi *funcInfo) emitSetUpval(line, a, b int)    { fi.emitABC(line, vm.OpSetUpval, a, b, 0) }
func (fi *funcInfo) emitGetTabUp(line, a, b, c int) { fi.emitABC(line, vm.OpGetTabUp, a, b, c) }
func (fi *funcInfo) emitSetTabUp(line, a, b, c int) { fi.emitABC(line, vm.OpSetTabUp, a, b, c) }
func (fi *funcInfo) emitCall(line, a, nArgs, nRet int) {
	fi.emitABC(line, vm.OpCall, a, nArgs+1, nRet+1)
}
func (fi *funcInfo) emitTailCall(line, a, nArgs int) { fi.emitABC(line, vm.OpTailCall, a, nArgs+1, 0) }
func (fi *funcInfo) emitReturn(line, a, n int)       { fi.emitABC(line, vm.OpReturn, a, n+1, 0) }
func (fi *funcInfo) emitSelf(line, a, b, c int)      { fi.emitABC(line, vm.OpSelf, a, b, c) }

func (fi *funcInfo) emitJmp(line, a, sBx int) int {
	fi.emitAsBx(line, vm.OpJmp, a, sBx)
	return fi.pc()
}

func (fi *funcInfo) emitTest(line, a, c int)         { fi.emitABC(line, vm.OpTest, a, 0, c) }
func (fi *funcInfo) emitTestSet(line, a, b, c int)   { fi.emitABC(line, vm.OpTestSet, a, b, c) }
func (fi *funcInfo) emitForPrep(line, a, sBx int) int { fi.emitAsBx(line, vm.OpForPrep, a, sBx); return fi.pc() }
func (fi *funcInfo) emitForLoop(line, a, sBx int) int { fi.emitAsBx(line, vm.OpForLoop, a, sBx); return fi.pc() }
func (fi *funcInfo) emitTForCall(line, a, c int)      { fi.emitABC(line, vm.OpTForCall, a, 0, c) }
func (fi *funcInfo) emitTForLoop(line, a, sBx int)    { fi.emitAsBx(line, vm.OpTForLoop, a, sBx) }
func (fi *funcInfo) emitConcat(line, a, b, c int)     { fi.emitABC(line, vm.OpConcat, a, b, c) }

// r[a] = op r[b]
func (fi *funcInfo) emitUnaryOp(line int, op Kind, a, b int) {
	switch op {
	case TokenOpNot:
		fi.emitABC(line, vm.OpNot, a, b, 0)
	case TokenOpWave:
		fi.emitABC(line, vm.OpBNot, a, b, 0)
	case TokenOpLen:
		fi.emitABC(line, vm.OpLen, a, b, 0)
	case TokenOpMinus:
		fi.emitABC(line, vm.OpUnm, a, b, 0)
	}
}

// r[a] = rk[b] op rk[c] — covers arithmetic, bitwise and relational
// operators; relationals aren't value-producing opcodes themselves
// (EQ/LT/LE are test-then-skip), so they're followed by a JMP and a
// two-arm LOADBOOL pair that materializes the 0/1 result into a.
func (fi *funcInfo) emitBinaryOp(line int, op Kind, a, b, c int) {
	if opcode, found := arithAndBitwiseBinops[op]; found {
		fi.emitABC(line, opcode, a, b, c)
		return
	}
	switch op {
	case TokenOpEq:
		fi.emitABC(line, vm.OpEq, 1, b, c)
	case TokenOpNe:
		fi.emitABC(line, vm.OpEq, 0, b, c)
	case TokenOpLt:
		fi.emitABC(line, vm.OpLt, 1, b, c)
	case TokenOpGt:
		fi.emitABC(line, vm.OpLt, 1, c, b)
	case TokenOpLe:
		fi.emitABC(line, vm.OpLe, 1, b, c)
	case TokenOpGe:
		fi.emitABC(line, vm.OpLe, 1, c, b)
	}
	fi.emitJmp(line, 0, 1)
	fi.emitLoadBool(line, a, 0, 1)
	fi.emitLoadBool(line, a, 1, 0)
}
