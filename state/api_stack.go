package state

// GetTop reports how many values are on the current frame's stack.
func (ls *luaState) GetTop() int {
	return ls.stack.top
}

// AbsIndex converts a possibly-negative index into an absolute one.
func (ls *luaState) AbsIndex(idx int) int {
	return ls.stack.absIndex(idx)
}

// CheckStack grows the frame to hold n more values; it never fails
// since the frame's backing slice just grows.
func (ls *luaState) CheckStack(n int) bool {
	ls.stack.check(n)
	return true
}

// Pop discards the top n values.
func (ls *luaState) Pop(n int) {
	for i := 0; i < n; i++ {
		ls.stack.pop()
	}
}

// Copy overwrites toIdx with the value at fromIdx.
func (ls *luaState) Copy(fromIdx, toIdx int) {
	ls.stack.set(toIdx, ls.stack.get(fromIdx))
}

// PushValue pushes a copy of the value at idx.
func (ls *luaState) PushValue(idx int) {
	ls.stack.push(ls.stack.get(idx))
}

// Replace pops the top value and stores it at idx.
func (ls *luaState) Replace(idx int) {
	ls.stack.set(idx, ls.stack.pop())
}

// Insert moves the top value down to idx, shifting the rest up.
func (ls *luaState) Insert(idx int) {
	ls.Rotate(idx, 1)
}

// Remove deletes the value at idx, shifting everything above it down.
func (ls *luaState) Remove(idx int) {
	ls.Rotate(idx, -1)
	ls.Pop(1)
}

// Rotate rotates the stack segment [idx, top] by n positions.
func (ls *luaState) Rotate(idx, n int) {
	t := ls.stack.top - 1
	p := ls.stack.absIndex(idx) - 1
	var m int
	if n >= 0 {
		m = t - n
	} else {
		m = p - n - 1
	}
	ls.stack.reverse(p, m)
	ls.stack.reverse(m+1, t)
	ls.stack.reverse(p, t)
}

// SetTop grows or shrinks the stack to end at idx.
func (ls *luaState) SetTop(idx int) {
	newTop := ls.stack.absIndex(idx)
	if newTop < 0 {
		panic("kolibri: stack underflow")
	}

	n := ls.stack.top - newTop
	if n > 0 {
		for i := 0; i < n; i++ {
			ls.stack.pop()
		}
	} else if n < 0 {
		for i := 0; i > n; i-- {
			ls.stack.push(nil)
		}
	}
}
