package state

import "github.com/kolibrilang/kolibri/api"

func (ls *luaState) SetTable(idx int) {
	t := ls.stack.get(idx)
	v := ls.stack.pop()
	k := ls.stack.pop()
	ls.setTable(t, k, v, false)
}

func (ls *luaState) SetField(idx int, k string) {
	t := ls.stack.get(idx)
	v := ls.stack.pop()
	ls.setTable(t, k, v, false)
}

func (ls *luaState) SetI(idx int, i int64) {
	t := ls.stack.get(idx)
	v := ls.stack.pop()
	ls.setTable(t, i, v, false)
}

func (ls *luaState) RawSet(idx int) {
	t := ls.stack.get(idx)
	v := ls.stack.pop()
	k := ls.stack.pop()
	ls.setTable(t, k, v, true)
}

func (ls *luaState) RawSetI(idx int, i int64) {
	t := ls.stack.get(idx)
	v := ls.stack.pop()
	ls.setTable(t, i, v, true)
}

func (ls *luaState) SetGlobal(name string) {
	globals := ls.registry.get(api.RegistryGlobalsKey)
	v := ls.stack.pop()
	ls.setTable(globals, name, v, false)
}

func (ls *luaState) Register(name string, f api.GoFunction) {
	ls.PushGoFunction(f)
	ls.SetGlobal(name)
}

// setTable assigns t[k] = v, consulting __newindex when t isn't a
// table or lacks the raw key and raw is false.
func (ls *luaState) setTable(t, k, v any, raw bool) {
	if tbl, ok := t.(*Table); ok {
		if raw || tbl.get(k) != nil || !tbl.hasMetafield("__newindex") {
			tbl.put(k, v)
			return
		}
	}

	if !raw {
		if mf := ls.getMetafield(t, "__newindex"); mf != nil {
			switch x := mf.(type) {
			case *Table:
				ls.setTable(x, k, v, false)
				return
			case *closure:
				ls.stack.push(mf)
				ls.stack.push(t)
				ls.stack.push(k)
				ls.stack.push(v)
				ls.Call(3, 0)
				return
			}
		}
	}

	panic("not a table")
}
