package vm

import "github.com/kolibrilang/kolibri/api"

// pc += sBx; if (A) close all open upvalues with register index >= A-1
func jmp(i Instruction, vm api.VM) {
	a, sBx := i.AsBx()
	vm.AddPC(sBx)
	if a != 0 {
		vm.CloseUpvalues(a)
	}
}
