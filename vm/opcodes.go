// Package vm is the bytecode dispatch loop: instruction encoding, the
// 47-entry opcode table and one handler function per opcode. Handlers
// are driven entirely through the api.VM interface so this package
// never imports package state directly.
package vm

import "github.com/kolibrilang/kolibri/api"

// OpMode is the instruction's field layout.
const (
	IABC  = iota // [ B:9 ][ C:9 ][ A:8 ][OP:6]
	IABx         // [    Bx:18   ][ A:8 ][OP:6]
	IAsBx        // [   sBx:18   ][ A:8 ][OP:6]
	IAx          // [        Ax:26       ][OP:6]
)

// OpArgMask describes how a B or C field is used, for disassembly.
const (
	OpArgN = iota // unused
	OpArgU        // used as a plain unsigned value
	OpArgR        // register index or jump offset
	OpArgK        // constant index, or RK-encoded register/constant
)

// Opcode indices, in the fixed order the instruction word's low 6 bits
// encode.
const (
	OpMove = iota
	OpLoadK
	OpLoadKx
	OpLoadBool
	OpLoadNil
	OpGetUpval
	OpGetTabUp
	OpGetTable
	OpSetTabUp
	OpSetUpval
	OpSetTable
	OpNewTable
	OpSelf
	OpAdd
	OpSub
	OpMul
	OpMod
	OpPow
	OpDiv
	OpIDiv
	OpBAnd
	OpBOr
	OpBXor
	OpShl
	OpShr
	OpUnm
	OpBNot
	OpNot
	OpLen
	OpConcat
	OpJmp
	OpEq
	OpLt
	OpLe
	OpTest
	OpTestSet
	OpCall
	OpTailCall
	OpReturn
	OpForLoop
	OpForPrep
	OpTForCall
	OpTForLoop
	OpSetList
	OpClosure
	OpVararg
	OpExtraArg
)

type opcodeInfo struct {
	testFlag byte // 1 if the instruction is a test (next must be a jump)
	setAFlag byte // 1 if the instruction sets register A
	argBMode byte
	argCMode byte
	opMode   byte
	name     string
	action   func(i Instruction, vm api.VM)
}

var opcodes = [...]opcodeInfo{
	/*    T  A  B arg    C arg    mode    name        action */
	OpMove:     {0, 1, OpArgR, OpArgN, IABC, "MOVE", move},
	OpLoadK:    {0, 1, OpArgK, OpArgN, IABx, "LOADK", loadK},
	OpLoadKx:   {0, 1, OpArgN, OpArgN, IABx, "LOADKX", loadKx},
	OpLoadBool: {0, 1, OpArgU, OpArgU, IABC, "LOADBOOL", loadBool},
	OpLoadNil:  {0, 1, OpArgU, OpArgN, IABC, "LOADNIL", loadNil},
	OpGetUpval: {0, 1, OpArgU, OpArgN, IABC, "GETUPVAL", getUpval},
	OpGetTabUp: {0, 1, OpArgU, OpArgK, IABC, "GETTABUP", getTabUp},
	OpGetTable: {0, 1, OpArgR, OpArgK, IABC, "GETTABLE", getTable},
	OpSetTabUp: {0, 0, OpArgK, OpArgK, IABC, "SETTABUP", setTabUp},
	OpSetUpval: {0, 0, OpArgU, OpArgN, IABC, "SETUPVAL", setUpval},
	OpSetTable: {0, 0, OpArgK, OpArgK, IABC, "SETTABLE", setTable},
	OpNewTable: {0, 1, OpArgU, OpArgU, IABC, "NEWTABLE", newTable},
	OpSelf:     {0, 1, OpArgR, OpArgK, IABC, "SELF", self},
	OpAdd:      {0, 1, OpArgK, OpArgK, IABC, "ADD", add},
	OpSub:      {0, 1, OpArgK, OpArgK, IABC, "SUB", sub},
	OpMul:      {0, 1, OpArgK, OpArgK, IABC, "MUL", mul},
	OpMod:      {0, 1, OpArgK, OpArgK, IABC, "MOD", mod},
	OpPow:      {0, 1, OpArgK, OpArgK, IABC, "POW", pow},
	OpDiv:      {0, 1, OpArgK, OpArgK, IABC, "DIV", div},
	OpIDiv:     {0, 1, OpArgK, OpArgK, IABC, "IDIV", idiv},
	OpBAnd:     {0, 1, OpArgK, OpArgK, IABC, "BAND", band},
	OpBOr:      {0, 1, OpArgK, OpArgK, IABC, "BOR", bor},
	OpBXor:     {0, 1, OpArgK, OpArgK, IABC, "BXOR", bxor},
	OpShl:      {0, 1, OpArgK, OpArgK, IABC, "SHL", shl},
	OpShr:      {0, 1, OpArgK, OpArgK, IABC, "SHR", shr},
	OpUnm:      {0, 1, OpArgR, OpArgN, IABC, "UNM", unm},
	OpBNot:     {0, 1, OpArgR, OpArgN, IABC, "BNOT", bnot},
	OpNot:      {0, 1, OpArgR, OpArgN, IABC, "NOT", not},
	OpLen:      {0, 1, OpArgR, OpArgN, IABC, "LEN", length},
	OpConcat:   {0, 1, OpArgR, OpArgR, IABC, "CONCAT", concat},
	OpJmp:      {0, 0, OpArgR, OpArgN, IAsBx, "JMP", jmp},
	OpEq:       {1, 0, OpArgK, OpArgK, IABC, "EQ", eq},
	OpLt:       {1, 0, OpArgK, OpArgK, IABC, "LT", lt},
	OpLe:       {1, 0, OpArgK, OpArgK, IABC, "LE", le},
	OpTest:     {1, 0, OpArgN, OpArgU, IABC, "TEST", test},
	OpTestSet:  {1, 1, OpArgR, OpArgU, IABC, "TESTSET", testSet},
	OpCall:     {0, 1, OpArgU, OpArgU, IABC, "CALL", call},
	OpTailCall: {0, 1, OpArgU, OpArgU, IABC, "TAILCALL", tailCall},
	OpReturn:   {0, 0, OpArgU, OpArgN, IABC, "RETURN", opReturn},
	OpForLoop:  {0, 1, OpArgR, OpArgN, IAsBx, "FORLOOP", forLoop},
	OpForPrep:  {0, 1, OpArgR, OpArgN, IAsBx, "FORPREP", forPrep},
	OpTForCall: {0, 0, OpArgN, OpArgU, IABC, "TFORCALL", tForCall},
	OpTForLoop: {0, 1, OpArgR, OpArgN, IAsBx, "TFORLOOP", tForLoop},
	OpSetList:  {0, 0, OpArgU, OpArgU, IABC, "SETLIST", setList},
	OpClosure:  {0, 1, OpArgU, OpArgN, IABx, "CLOSURE", closure},
	OpVararg:   {0, 1, OpArgU, OpArgN, IABC, "VARARG", vararg},
	OpExtraArg: {0, 0, OpArgU, OpArgU, IAx, "EXTRAARG", nil},
}

var jumpTable [64]func(Instruction, api.VM)

func init() {
	for i := range opcodes {
		jumpTable[i] = opcodes[i].action
	}
}

// OpName returns an opcode's disassembly mnemonic.
func OpName(op int) string { return opcodes[op].name }
