package vm

import "github.com/kolibrilang/kolibri/api"

// R(A) := UpValue[B]
func getUpval(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.Copy(api.UpvalueIndex(b), a)
}

// UpValue[B] := R(A)
func setUpval(i Instruction, vm api.VM) {
	a, b, _ := i.ABC()
	a++
	b++
	vm.Copy(a, api.UpvalueIndex(b))
}

// R(A) := UpValue[B][RK(C)]
func getTabUp(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	b++
	vm.GetRK(c)
	vm.GetTable(api.UpvalueIndex(b))
	vm.Replace(a)
}

// UpValue[A][RK(B)] := RK(C)
func setTabUp(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	vm.GetRK(b)
	vm.GetRK(c)
	vm.SetTable(api.UpvalueIndex(a))
}
