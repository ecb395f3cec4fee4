package vm

import "github.com/kolibrilang/kolibri/api"

// R(A) := R(B)
func move(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.Copy(b, a)
}

// R(A) := Kst(Bx)
func loadK(i Instruction, vm api.VM) {
	a, bx := i.ABx()
	a++
	vm.GetConst(bx)
	vm.Replace(a)
}

// R(A) := Kst(extra arg); consumes the following EXTRAARG word
func loadKx(i Instruction, vm api.VM) {
	a, _ := i.ABx()
	a++
	ax := Instruction(vm.Fetch()).Ax()
	vm.GetConst(ax)
	vm.Replace(a)
}

// R(A) := (bool)B; if (C) pc++
func loadBool(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	vm.PushBoolean(b != 0)
	vm.Replace(a)
	if c != 0 {
		vm.AddPC(1)
	}
}

// R(A), R(A+1), ..., R(A+B) := nil
func loadNil(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	vm.PushNil()
	for r := a; r <= a+b; r++ {
		vm.Copy(-1, r)
	}
	vm.Pop(1)
}
