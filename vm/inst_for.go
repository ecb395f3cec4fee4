package vm

import "github.com/kolibrilang/kolibri/api"

// FORPREP: R(A) -= R(A+2); pc += sBx
//
// Any of the init/limit/step slots holding a numeric string is
// coerced to a number first, matching the reference VM's preamble so
// `for i = "1", "3" do` still runs.
func forPrep(i Instruction, vm api.VM) {
	a, sBx := i.AsBx()
	a++

	coerceForSlot(vm, a)
	coerceForSlot(vm, a+1)
	coerceForSlot(vm, a+2)

	vm.PushValue(a)
	vm.PushValue(a + 2)
	vm.Arith(api.OpSub)
	vm.Replace(a)
	vm.AddPC(sBx)
}

func coerceForSlot(vm api.VM, idx int) {
	if vm.Type(idx) == api.TypeString {
		vm.PushNumber(vm.ToNumber(idx))
		vm.Replace(idx)
	}
}

// FORLOOP: R(A) += R(A+2); if R(A) <?= R(A+1) then { pc += sBx; R(A+3) = R(A) }
// the comparison direction depends on the sign of the step.
func forLoop(i Instruction, vm api.VM) {
	a, sBx := i.AsBx()
	a++

	vm.PushValue(a + 2)
	vm.PushValue(a)
	vm.Arith(api.OpAdd)
	vm.Replace(a)

	positiveStep := vm.ToNumber(a+2) >= 0
	continues := positiveStep && vm.Compare(a, a+1, api.OpLe) ||
		!positiveStep && vm.Compare(a+1, a, api.OpLe)
	if continues {
		vm.AddPC(sBx)
		vm.Copy(a, a+3)
	}
}

// TFORCALL: R(A+3), ..., R(A+2+C) := R(A)(R(A+1), R(A+2))
func tForCall(i Instruction, vm api.VM) {
	a, _, c := i.ABC()
	a++

	vm.PushValue(a)
	vm.PushValue(a + 1)
	vm.PushValue(a + 2)
	vm.Call(2, c)
	popResults(vm, a+3, c+1)
}

// TFORLOOP: if R(A+1) ~= nil then { R(A) = R(A+1); pc += sBx }
func tForLoop(i Instruction, vm api.VM) {
	a, sBx := i.AsBx()
	a++

	if !vm.IsNil(a + 1) {
		vm.Copy(a+1, a)
		vm.AddPC(sBx)
	}
}
