package vm

import "github.com/kolibrilang/kolibri/api"

func add(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpAdd) }
func sub(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpSub) }
func mul(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpMul) }
func mod(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpMod) }
func pow(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpPow) }
func div(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpDiv) }
func idiv(i Instruction, vm api.VM) { binaryArith(i, vm, api.OpIDiv) }
func band(i Instruction, vm api.VM) { binaryArith(i, vm, api.OpBAnd) }
func bor(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpBOr) }
func bxor(i Instruction, vm api.VM) { binaryArith(i, vm, api.OpBXor) }
func shl(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpShl) }
func shr(i Instruction, vm api.VM)  { binaryArith(i, vm, api.OpShr) }
func unm(i Instruction, vm api.VM)  { unaryArith(i, vm, api.OpUnm) }
func bnot(i Instruction, vm api.VM) { unaryArith(i, vm, api.OpBNot) }

// R(A) := RK(B) op RK(C)
func binaryArith(i Instruction, vm api.VM, op api.ArithOp) {
	a, b, c := i.ABC()
	a++
	vm.GetRK(b)
	vm.GetRK(c)
	vm.Arith(op)
	vm.Replace(a)
}

// R(A) := op R(B)
func unaryArith(i Instruction, vm api.VM, op api.ArithOp) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.PushValue(b)
	vm.Arith(op)
	vm.Replace(a)
}

// R(A) := length of R(B)
func length(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.Len(b)
	vm.Replace(a)
}

// R(A) := R(B).. ... ..R(C)
func concat(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	b++
	c++
	n := c - b + 1
	for r := b; r <= c; r++ {
		vm.PushValue(r)
	}
	vm.Concat(n)
	vm.Replace(a)
}
