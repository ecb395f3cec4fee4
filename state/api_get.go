package state

import "github.com/kolibrilang/kolibri/api"

func (ls *luaState) NewTable() {
	ls.CreateTable(0, 0)
}

func (ls *luaState) CreateTable(nArr, nRec int) {
	ls.stack.push(newTable(nArr, nRec))
}

func (ls *luaState) GetTable(idx int) api.Type {
	t := ls.stack.get(idx)
	k := ls.stack.pop()
	return ls.getTable(t, k, false)
}

func (ls *luaState) GetField(idx int, k string) api.Type {
	t := ls.stack.get(idx)
	return ls.getTable(t, k, false)
}

func (ls *luaState) GetI(idx int, i int64) api.Type {
	t := ls.stack.get(idx)
	return ls.getTable(t, i, false)
}

func (ls *luaState) RawGet(idx int) api.Type {
	t := ls.stack.get(idx)
	k := ls.stack.pop()
	return ls.getTable(t, k, true)
}

func (ls *luaState) RawGetI(idx int, i int64) api.Type {
	t := ls.stack.get(idx)
	return ls.getTable(t, i, true)
}

func (ls *luaState) GetGlobal(name string) api.Type {
	globals := ls.registry.get(api.RegistryGlobalsKey)
	return ls.getTable(globals, name, false)
}

// getTable pushes t[k] and reports its type, consulting __index when
// t isn't a table or lacks the raw key and raw is false.
func (ls *luaState) getTable(t, k any, raw bool) api.Type {
	if tbl, ok := t.(*Table); ok {
		v := tbl.get(k)
		if raw || v != nil || !tbl.hasMetafield("__index") {
			ls.stack.push(v)
			return typeOf(v)
		}
	}

	if !raw {
		if mf := ls.getMetafield(t, "__index"); mf != nil {
			switch x := mf.(type) {
			case *Table:
				return ls.getTable(x, k, false)
			case *closure:
				ls.stack.push(mf)
				ls.stack.push(t)
				ls.stack.push(k)
				ls.Call(2, 1)
				return typeOf(ls.stack.get(-1))
			}
		}
	}

	panic("index error")
}
