package vm

import "github.com/kolibrilang/kolibri/api"

// R(A) := closure(KPROTO[Bx])
func closure(i Instruction, vm api.VM) {
	a, bx := i.ABx()
	a++
	vm.LoadProto(bx)
	vm.Replace(a)
}

// R(A), R(A+1), ..., R(A+B-2) := vararg
// B == 0 means "as many as are available" (used when the vararg is
// the last expression of an explist, sized by the caller's top).
func vararg(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	if b != 1 {
		vm.LoadVararg(b - 1)
		popResults(vm, a, b)
	}
}

// popResults settles n-1 freshly pushed results into registers
// a, a+1, .... n follows the opcode's raw B/C encoding: n>1 means a
// fixed count of n-1 values sitting on top of the stack, which are
// walked down into place with Replace; n==0 means "every value
// already available from a onward" (the multi-return case), which are
// already sitting in the right registers and need no further move.
// This is the shared tail of CALL, VARARG and TFORCALL.
func popResults(vm api.VM, a, n int) {
	if n > 1 {
		for r := a + n - 2; r >= a; r-- {
			vm.Replace(r)
		}
	}
}
