package state

import "github.com/kolibrilang/kolibri/api"

// callFrame is a single call's virtual register stack plus the bits
// the bytecode loop needs to run it: the closure being executed, its
// varargs, the PC, and the set of still-open upvalues pointing into
// this frame's slots. Frames chain into a linked list through prev so
// PCall can unwind back to the caller's frame on panic.
type callFrame struct {
	slots []any
	top   int

	state   *luaState
	closure *closure
	varargs []any
	openuvs map[int]*upvalue
	pc      int
	lastPC  int

	prev *callFrame
}

func newCallFrame(size int, ls *luaState) *callFrame {
	return &callFrame{
		slots: make([]any, size),
		state: ls,
	}
}

func (f *callFrame) check(n int) {
	free := len(f.slots) - f.top
	for i := free; i < n; i++ {
		f.slots = append(f.slots, nil)
	}
}

func (f *callFrame) push(val any) {
	if f.top == len(f.slots) {
		panic("kolibri: stack overflow")
	}
	f.slots[f.top] = val
	f.top++
}

func (f *callFrame) pop() any {
	if f.top < 1 {
		panic("kolibri: stack underflow")
	}
	f.top--
	val := f.slots[f.top]
	f.slots[f.top] = nil
	return val
}

func (f *callFrame) pushN(vals []any, n int) {
	nVals := len(vals)
	if n < 0 {
		n = nVals
	}
	for i := 0; i < n; i++ {
		if i < nVals {
			f.push(vals[i])
		} else {
			f.push(nil)
		}
	}
}

func (f *callFrame) popN(n int) []any {
	vals := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = f.pop()
	}
	return vals
}

func (f *callFrame) absIndex(idx int) int {
	if idx >= 0 || idx <= api.RegistryIndex {
		return idx
	}
	return idx + f.top + 1
}

func (f *callFrame) isValid(idx int) bool {
	if idx < api.RegistryIndex { // upvalue pseudo-index
		uvIdx := api.RegistryIndex - idx - 1
		c := f.closure
		return c != nil && uvIdx < len(c.upVals)
	}
	if idx == api.RegistryIndex {
		return true
	}
	absIdx := f.absIndex(idx)
	return absIdx > 0 && absIdx <= f.top
}

func (f *callFrame) get(idx int) any {
	if idx < api.RegistryIndex {
		uvIdx := api.RegistryIndex - idx - 1
		c := f.closure
		if c == nil || uvIdx >= len(c.upVals) || c.upVals[uvIdx] == nil {
			return nil
		}
		return c.upVals[uvIdx].get()
	}

	if idx == api.RegistryIndex {
		return f.state.registry
	}

	absIdx := f.absIndex(idx)
	if absIdx > 0 && absIdx <= f.top {
		return f.slots[absIdx-1]
	}
	return nil
}

// set writes idx := val. For an upvalue pseudo-index this writes
// *through* the existing shared cell rather than replacing the
// pointer, so every closure that captured the same variable keeps
// seeing the new value.
func (f *callFrame) set(idx int, val any) {
	if idx < api.RegistryIndex {
		uvIdx := api.RegistryIndex - idx - 1
		c := f.closure
		if c != nil && uvIdx < len(c.upVals) {
			if c.upVals[uvIdx] == nil {
				c.upVals[uvIdx] = newOpenUpvalue(new(any))
			}
			c.upVals[uvIdx].set(val)
		}
		return
	}

	if idx == api.RegistryIndex {
		f.state.registry = val.(*Table)
		return
	}

	absIdx := f.absIndex(idx)
	if absIdx > 0 && absIdx <= f.top {
		f.slots[absIdx-1] = val
		return
	}
	panic("kolibri: invalid stack index")
}

func (f *callFrame) reverse(from, to int) {
	slots := f.slots
	for from < to {
		slots[from], slots[to] = slots[to], slots[from]
		from++
		to--
	}
}
