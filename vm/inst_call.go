package vm

import "github.com/kolibrilang/kolibri/api"

// R(A), ..., R(A+C-2) := R(A)(R(A+1), ..., R(A+B-1))
func call(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++

	nArgs := pushFuncArgs(vm, a, b)
	vm.Call(nArgs, c-1)
	popResults(vm, a, c)
}

// return R(A)(R(A+1), ..., R(A+B-1))
//
// kolibri does not implement a true tail-call (the Go call stack
// still grows one frame per Lua call): TAILCALL behaves like CALL
// with all results forwarded, followed by RETURN.
func tailCall(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++

	nArgs := pushFuncArgs(vm, a, b)
	vm.Call(nArgs, -1)
	popResults(vm, a, 0)
}

// return R(A), ..., R(A+B-2)
func opReturn(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++

	if b == 1 {
		// no return values
	} else if b > 1 {
		vm.CheckStack(b - 1)
		for r := a; r <= a+b-2; r++ {
			vm.PushValue(r)
		}
	} else {
		n := vm.GetTop() - a + 1
		pushAllResultsFrom(vm, a, n)
	}
}

// pushFuncArgs pushes the callee R(A) and the B-1 fixed arguments of
// a CALL/TAILCALL (B == 0 means "every value from A+1 up to the
// current top", produced when the last argument expression was a
// vararg or multi-return call) and reports how many args the callee
// sees.
func pushFuncArgs(vm api.VM, a, b int) int {
	if b >= 1 {
		vm.CheckStack(b)
		for r := a; r <= a+b-1; r++ {
			vm.PushValue(r)
		}
		return b - 1
	}
	n := vm.GetTop() - a
	pushAllResultsFrom(vm, a, n+1)
	return n
}

func pushAllResultsFrom(vm api.VM, from, n int) {
	if n > 0 {
		vm.CheckStack(n)
		for r := from; r <= from+n-1; r++ {
			vm.PushValue(r)
		}
	}
}
