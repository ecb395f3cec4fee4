package vm

import "github.com/kolibrilang/kolibri/api"

// LFieldsPerFlush is the SETLIST batch size (Lua's LFIELDS_PER_FLUSH).
const LFieldsPerFlush = 50

// R(A) := {} (array size hint fb2int(B), hash size hint fb2int(C))
func newTable(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	vm.CreateTable(Fb2Int(b), Fb2Int(c))
	vm.Replace(a)
}

// R(A) := R(B)[RK(C)]
func getTable(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	b++
	vm.GetRK(c)
	vm.GetTable(b)
	vm.Replace(a)
}

// R(A)[RK(B)] := RK(C)
func setTable(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	vm.GetRK(b)
	vm.GetRK(c)
	vm.SetTable(a)
}

// R(A+1) := R(B); R(A) := R(B)[RK(C)]
func self(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++
	b++
	vm.Copy(b, a+1)
	vm.GetRK(c)
	vm.GetTable(b)
	vm.Replace(a)
}

// R(A)[(C-1)*LFIELDS_PER_FLUSH+j] := R(A+j), for 1 <= j <= B.
// B == 0 means "use every value up to the stack top" (the last
// constructor element was a vararg or multi-return call); C == 0
// means the batch index overflowed a byte and is fetched from the
// trailing EXTRAARG word.
func setList(i Instruction, vm api.VM) {
	a, b, c := i.ABC()
	a++

	if c > 0 {
		c--
	} else {
		c = Instruction(vm.Fetch()).Ax()
	}

	bIsZero := b == 0
	if bIsZero {
		b = vm.GetTop() - a
	}

	vm.CheckStack(1)
	idx := int64(c * LFieldsPerFlush)
	for j := 1; j <= b; j++ {
		idx++
		vm.PushValue(a + j)
		vm.SetI(a, idx)
	}

	if bIsZero {
		vm.SetTop(a)
	}
}
