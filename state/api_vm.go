package state

func (ls *luaState) PC() int {
	return ls.stack.pc
}

func (ls *luaState) AddPC(n int) {
	ls.stack.lastPC = ls.stack.pc
	ls.stack.pc += n
}

func (ls *luaState) Fetch() uint32 {
	i := ls.stack.closure.proto.Code[ls.stack.pc]
	ls.stack.lastPC = ls.stack.pc
	ls.stack.pc++
	return i
}

func (ls *luaState) GetConst(idx int) {
	ls.stack.push(ls.stack.closure.proto.Constants[idx])
}

func (ls *luaState) GetRK(rk int) {
	if rk > 0xFF {
		ls.GetConst(rk & 0xFF)
	} else {
		ls.PushValue(rk + 1)
	}
}

func (ls *luaState) RegisterCount() int {
	return int(ls.stack.closure.proto.MaxStackSize)
}

func (ls *luaState) LoadVararg(n int) {
	if n < 0 {
		n = len(ls.stack.varargs)
	}
	ls.stack.check(n)
	ls.stack.pushN(ls.stack.varargs, n)
}

// LoadProto instantiates the idx'th nested prototype as a closure and
// pushes it, resolving each of its upvalues: an in-stack upvalue
// shares a single cell across every sibling closure that captures the
// same register (tracked in this frame's openuvs), while a
// from-parent-upvalue chains directly from this frame's own closure.
func (ls *luaState) LoadProto(idx int) {
	f := ls.stack
	subProto := f.closure.proto.Protos[idx]
	c := newLuaClosure(subProto)
	f.push(c)

	for i := range subProto.Upvalues {
		uvIdx := int(subProto.Upvalues[i].Idx)
		if subProto.Upvalues[i].InStack {
			if f.openuvs == nil {
				f.openuvs = map[int]*upvalue{}
			}
			if openuv, found := f.openuvs[uvIdx]; found {
				c.upVals[i] = openuv
			} else {
				u := newOpenUpvalue(&f.slots[uvIdx])
				c.upVals[i] = u
				f.openuvs[uvIdx] = u
			}
		} else {
			c.upVals[i] = f.closure.upVals[uvIdx]
		}
	}
}

// CloseUpvalues detaches every open upvalue at register a-1 or above
// from this frame's live slots: each upvalue's own cell, shared by
// every closure that captured it, copies out its current value and
// stops aliasing the register, so the register can be reused without
// disturbing those closures.
func (ls *luaState) CloseUpvalues(a int) {
	for i, u := range ls.stack.openuvs {
		if i >= a-1 {
			u.close()
			delete(ls.stack.openuvs, i)
		}
	}
}
