package vm

import "github.com/kolibrilang/kolibri/api"

// MaxArgBx and MaxArgSBx bound the unsigned/signed 18-bit Bx field;
// sBx is stored biased by MaxArgSBx so it can be held in the same
// unsigned field as Bx.
const (
	MaxArgBx  = 1<<18 - 1
	MaxArgSBx = MaxArgBx >> 1
)

// Instruction is a single 32-bit bytecode word:
//
//	31       22       13       5    0
//	+---------+---------+--------+-----+
//	| B:9     | C:9     | A:8    |OP:6 |  IABC
//	+---------+---------+--------+-----+
//	| Bx:18             | A:8    |OP:6 |  IABx
//	+---------+---------+--------+-----+
//	| sBx:18 (biased)    | A:8    |OP:6 |  IAsBx
//	+---------+---------+--------+-----+
//	| Ax:26                      |OP:6 |  IAx
//	+---------+---------+--------+-----+
type Instruction uint32

// EncodeABC packs an IABC-mode instruction.
func EncodeABC(op, a, b, c int) Instruction {
	return Instruction(uint32(b)<<23 | uint32(c)<<14 | uint32(a)<<6 | uint32(op))
}

// EncodeABx packs an IABx-mode instruction.
func EncodeABx(op, a, bx int) Instruction {
	return Instruction(uint32(bx)<<14 | uint32(a)<<6 | uint32(op))
}

// EncodeAsBx packs an IAsBx-mode instruction, biasing sBx by MaxArgSBx.
func EncodeAsBx(op, a, sbx int) Instruction {
	return Instruction(uint32(sbx+MaxArgSBx)<<14 | uint32(a)<<6 | uint32(op))
}

// EncodeAx packs an IAx-mode instruction.
func EncodeAx(op, ax int) Instruction {
	return Instruction(uint32(ax)<<6 | uint32(op))
}

func (i Instruction) Opcode() int {
	return int(i & 0x3F)
}

func (i Instruction) ABC() (a, b, c int) {
	a = int(i >> 6 & 0xFF)
	c = int(i >> 14 & 0x1FF)
	b = int(i >> 23 & 0x1FF)
	return
}

func (i Instruction) ABx() (a, bx int) {
	a = int(i >> 6 & 0xFF)
	bx = int(i >> 14)
	return
}

func (i Instruction) AsBx() (a, sbx int) {
	a, bx := i.ABx()
	return a, bx - MaxArgSBx
}

func (i Instruction) Ax() int {
	return int(i >> 6)
}

func (i Instruction) OpName() string { return opcodes[i.Opcode()].name }
func (i Instruction) OpMode() byte   { return opcodes[i.Opcode()].opMode }
func (i Instruction) BMode() byte    { return opcodes[i.Opcode()].argBMode }
func (i Instruction) CMode() byte    { return opcodes[i.Opcode()].argCMode }

// Execute dispatches through the opcode jump table.
func (i Instruction) Execute(vm api.VM) {
	op := i.Opcode()
	if fn := jumpTable[op]; fn != nil {
		fn(i, vm)
	} else {
		panic("kolibri: no handler for opcode " + opcodes[op].name)
	}
}

// IsRK reports whether an RK-encoded B/C field addresses the constant
// pool (top bit set) rather than a register.
func IsRK(rk int) bool { return rk&0x100 != 0 }

// RKIndex extracts the constant-pool index from an RK-encoded operand.
func RKIndex(rk int) int { return rk & 0xFF }
