package state

import "github.com/kolibrilang/kolibri/api"

// luaState is the concrete api.VM: one luaState per independent Lua
// world, holding the registry table and the live chain of call
// frames. Host code only ever sees it through the api.State/api.VM
// interfaces.
type luaState struct {
	registry       *Table
	stack          *callFrame
	typeMetatables map[api.Type]*Table
}

// New creates a fresh Lua state with an empty globals table installed
// in the registry, ready to Load and Call chunks into.
func New() api.VM {
	registry := newTable(0, 0)
	registry.put(api.RegistryGlobalsKey, newTable(0, 0))

	ls := &luaState{registry: registry}
	ls.pushCallFrame(newCallFrame(api.MinStack, ls))
	return ls
}

func (ls *luaState) pushCallFrame(f *callFrame) {
	f.prev = ls.stack
	ls.stack = f
}

func (ls *luaState) popCallFrame() {
	f := ls.stack
	ls.stack = f.prev
	f.prev = nil
}
