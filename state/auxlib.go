package state

import (
	"errors"
	"fmt"

	"github.com/kolibrilang/kolibri/api"
)

func (ls *luaState) ArgError(arg int, extraMsg string) int {
	return ls.Error("bad argument #%d (%s)", arg, extraMsg)
}

func (ls *luaState) CheckStack2(sz int, msg string) {
	if !ls.CheckStack(sz) {
		if msg != "" {
			ls.Error("stack overflow (%s)", msg)
		} else {
			ls.Error("stack overflow")
		}
	}
}

func (ls *luaState) ArgCheck(cond bool, arg int, extraMsg string) {
	if !cond {
		ls.ArgError(arg, extraMsg)
	}
}

func (ls *luaState) CheckAny(arg int) {
	if ls.Type(arg) == api.TypeNone {
		ls.ArgError(arg, "value expected")
	}
}

func (ls *luaState) CheckType(arg int, t api.Type) {
	if ls.Type(arg) != t {
		ls.typeError(arg, t)
	}
}

func (ls *luaState) CheckInteger(arg int) int64 {
	i, ok := ls.ToIntegerX(arg)
	if !ok {
		ls.intError(arg)
	}
	return i
}

func (ls *luaState) CheckNumber(arg int) float64 {
	f, ok := ls.ToNumberX(arg)
	if !ok {
		ls.typeError(arg, api.TypeNumber)
	}
	return f
}

func (ls *luaState) CheckString(arg int) string {
	s, ok := ls.ToStringX(arg)
	if !ok {
		ls.typeError(arg, api.TypeString)
	}
	return s
}

func (ls *luaState) CheckBool(arg int) bool {
	if ls.Type(arg) != api.TypeBoolean {
		ls.typeError(arg, api.TypeBoolean)
	}
	return ls.ToBoolean(arg)
}

func (ls *luaState) OptInteger(arg int, def int64) int64 {
	if ls.IsNoneOrNil(arg) {
		return def
	}
	return ls.CheckInteger(arg)
}

func (ls *luaState) OptNumber(arg int, def float64) float64 {
	if ls.IsNoneOrNil(arg) {
		return def
	}
	return ls.CheckNumber(arg)
}

func (ls *luaState) OptString(arg int, def string) string {
	if ls.IsNoneOrNil(arg) {
		return def
	}
	return ls.CheckString(arg)
}

func (ls *luaState) OptBool(arg int, def bool) bool {
	if ls.IsNoneOrNil(arg) {
		return def
	}
	return ls.ToBoolean(arg)
}

// DoString compiles and runs chunk in protected mode, returning the
// recovered error (if any) as a plain Go error.
func (ls *luaState) DoString(chunk, chunkName string) error {
	if ls.Load([]byte(chunk), chunkName, "t") != api.StatusOK {
		return errAsError(ls.stack.pop())
	}
	if ls.PCall(0, api.MultiReturn, 0) != api.StatusOK {
		return errAsError(ls.stack.pop())
	}
	return nil
}

func errAsError(v any) error {
	if v == nil {
		return errors.New("unknown error")
	}
	return fmt.Errorf("%v", v)
}

func (ls *luaState) TypeName2(idx int) string {
	return ls.TypeName(ls.Type(idx))
}

func (ls *luaState) Len2(idx int) int64 {
	ls.Len(idx)
	i, isNum := ls.ToIntegerX(-1)
	if !isNum {
		ls.Error("object length is not an integer")
	}
	ls.Pop(1)
	return i
}

// ToString2 is lua_tolstring: a formatted, metamethod-aware rendering
// of any value, used by print/tostring.
func (ls *luaState) ToString2(idx int) string {
	if ls.CallMeta(idx, "__tostring") {
		s, ok := ls.ToStringX(-1)
		if !ok {
			ls.Error("'__tostring' must return a string")
		}
		return s
	}

	switch ls.Type(idx) {
	case api.TypeNumber:
		if ls.IsInteger(idx) {
			return formatInteger(ls.ToInteger(idx))
		}
		return formatFloat(ls.ToNumber(idx))
	case api.TypeString:
		return ls.ToString(idx)
	case api.TypeBoolean:
		if ls.ToBoolean(idx) {
			return "true"
		}
		return "false"
	case api.TypeNil:
		return "nil"
	case api.TypeTable:
		return fmt.Sprintf("table: %p", ls.ToPointer(idx))
	case api.TypeFunction:
		return fmt.Sprintf("function: %p", ls.ToPointer(idx))
	default:
		return fmt.Sprintf("%s: %p", ls.TypeName2(idx), ls.ToPointer(idx))
	}
}

func (ls *luaState) GetMetafield(obj int, event string) api.Type {
	if !ls.GetMetatable(obj) {
		return api.TypeNil
	}
	ls.PushString(event)
	tt := ls.RawGet(-2)
	if tt == api.TypeNil {
		ls.Pop(2)
	} else {
		ls.Remove(-2)
	}
	return tt
}

func (ls *luaState) CallMeta(obj int, event string) bool {
	obj = ls.AbsIndex(obj)
	if ls.GetMetafield(obj, event) == api.TypeNil {
		return false
	}
	ls.PushValue(obj)
	ls.Call(1, 1)
	return true
}

func (ls *luaState) NewLib(l api.FuncReg) {
	ls.NewLibTable(l)
	ls.SetFuncs(l, 0)
}

func (ls *luaState) NewLibTable(l api.FuncReg) {
	ls.CreateTable(0, len(l))
}

func (ls *luaState) SetFuncs(l api.FuncReg, nup int) {
	ls.CheckStack2(nup, "too many upvalues")
	for name, fn := range l {
		for i := 0; i < nup; i++ {
			ls.PushValue(-nup)
		}
		ls.PushGoClosure(fn, nup)
		ls.SetField(-(nup + 2), name)
	}
	ls.Pop(nup)
}

func (ls *luaState) intError(arg int) {
	if ls.IsNumber(arg) {
		ls.ArgError(arg, "number has no integer representation")
	} else {
		ls.typeError(arg, api.TypeNumber)
	}
}

func (ls *luaState) typeError(arg int, t api.Type) {
	ls.ArgError(arg, t.String()+" expected, got "+ls.TypeName2(arg))
}
