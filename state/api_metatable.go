package state

import "github.com/kolibrilang/kolibri/api"

// GetMetatable pushes idx's metatable and reports true, or reports
// false (pushing nothing) if it has none.
func (ls *luaState) GetMetatable(idx int) bool {
	val := ls.stack.get(idx)
	if mt := ls.getMetatable(val); mt != nil {
		ls.stack.push(mt)
		return true
	}
	return false
}

// SetMetatable pops a table (or nil) and installs it as idx's
// metatable. Tables carry their own metatable pointer; every other
// type shares one metatable per type, stored on the state.
func (ls *luaState) SetMetatable(idx int) {
	val := ls.stack.get(idx)
	mtVal := ls.stack.pop()

	var mt *Table
	if mtVal != nil {
		mt = mtVal.(*Table)
	}

	if t, ok := val.(*Table); ok {
		t.metatable = mt
		return
	}

	if ls.typeMetatables == nil {
		ls.typeMetatables = map[api.Type]*Table{}
	}
	ls.typeMetatables[typeOf(val)] = mt
}
