package vm

import "github.com/kolibrilang/kolibri/api"

func eq(i Instruction, vm api.VM) { compare(i, vm, api.OpEq) }
func lt(i Instruction, vm api.VM) { compare(i, vm, api.OpLt) }
func le(i Instruction, vm api.VM) { compare(i, vm, api.OpLe) }

// if ((RK(B) op RK(C)) ~= A) then pc++
func compare(i Instruction, vm api.VM, op api.CompareOp) {
	a, b, c := i.ABC()
	vm.GetRK(b)
	vm.GetRK(c)
	if vm.Compare(-2, -1, op) != (a != 0) {
		vm.AddPC(1)
	}
	vm.Pop(2)
}

// R(A) := not R(B)
func not(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.PushBoolean(!vm.ToBoolean(b))
	vm.Replace(a)
}

// if not (R(A) <=> C) then pc++
func test(i Instruction, vm api.VM) {
	a, _, c := i.ABC()
	a++
	if vm.ToBoolean(a) != (c != 0) {
		vm.AddPC(1)
	}
}

// if (R(B) <=> C) then R(A) := R(B) else pc++
func testSet(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	b++
	if vm.ToBoolean(b) == (c != 0) {
		vm.Copy(b, a)
	} else {
		vm.AddPC(1)
	}
}
