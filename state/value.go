// Package state implements the api.State/api.VM contract: Lua values
// represented directly as Go's any, tables, closures and the
// per-call stack frames the bytecode dispatch loop runs against.
package state

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kolibrilang/kolibri/api"
)

func typeOf(val any) api.Type {
	switch val.(type) {
	case nil:
		return api.TypeNil
	case bool:
		return api.TypeBoolean
	case int64, float64:
		return api.TypeNumber
	case string:
		return api.TypeString
	case *Table:
		return api.TypeTable
	case *closure:
		return api.TypeFunction
	default:
		panic(fmt.Sprintf("kolibri: invalid value type %T<%v>", val, val))
	}
}

func convertToBoolean(val any) bool {
	switch x := val.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// convertToFloat implements the coercion rule of the Lua reference
// manual §3.4.3: integers widen exactly, strings parse as numerals.
func convertToFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		return parseFloat(x)
	default:
		return 0, false
	}
}

// convertToInteger implements §3.4.3's integer coercion: floats must
// have no fractional part, strings are parsed then coerced the same
// way.
func convertToInteger(val any) (int64, bool) {
	switch x := val.(type) {
	case int64:
		return x, true
	case float64:
		return floatToInteger(x)
	case string:
		return stringToInteger(x)
	default:
		return 0, false
	}
}

func stringToInteger(s string) (int64, bool) {
	if i, ok := parseInteger(s); ok {
		return i, true
	}
	if f, ok := parseFloat(s); ok {
		return floatToInteger(f)
	}
	return 0, false
}

func parseInteger(s string) (int64, bool) {
	if len(s) > 1 && (s[0:2] == "0x" || s[0:2] == "0X") {
		if u, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return int64(u), true
		}
		return 0, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	return i, err == nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func floatToInteger(f float64) (int64, bool) {
	i := int64(f)
	if float64(i) == f && !math.IsInf(f, 0) {
		return i, true
	}
	return 0, false
}

func iFloorDiv(a, b int64) int64 {
	if a > 0 && b > 0 || a < 0 && b < 0 || a%b == 0 {
		return a / b
	}
	return a/b - 1
}

func fFloorDiv(a, b float64) float64 {
	return math.Floor(a / b)
}

func iMod(a, b int64) int64 {
	return a - iFloorDiv(a, b)*b
}

func fMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m*b < 0 {
		m += b
	}
	return m
}

func shiftLeft(a, n int64) int64 {
	if n <= -64 || n >= 64 {
		return 0
	}
	if n >= 0 {
		return int64(uint64(a) << uint(n))
	}
	return int64(uint64(a) >> uint(-n))
}

func shiftRight(a, n int64) int64 {
	return shiftLeft(a, -n)
}

func toTable(val any) *Table {
	t, _ := val.(*Table)
	return t
}

/* metatables */

func (ls *luaState) getMetatable(val any) *Table {
	if t, ok := val.(*Table); ok {
		return t.metatable
	}
	if mt, ok := ls.typeMetatables[typeOf(val)]; ok {
		return mt
	}
	return nil
}

func (ls *luaState) getMetafield(val any, name string) any {
	if mt := ls.getMetatable(val); mt != nil {
		return mt.get(name)
	}
	return nil
}

func (ls *luaState) callMetamethod(a, b any, name string) (any, bool) {
	mm := ls.getMetafield(a, name)
	if mm == nil {
		if mm = ls.getMetafield(b, name); mm == nil {
			return nil, false
		}
	}

	ls.stack.check(4)
	ls.stack.push(mm)
	ls.stack.push(a)
	ls.stack.push(b)
	ls.Call(2, 1)
	return ls.stack.pop(), true
}
