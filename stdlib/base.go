// Package stdlib registers the base library host functions every Lua
// chunk expects in its global table: print, type conversions, raw
// table access, pairs/ipairs iteration, and protected calls.
package stdlib

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kolibrilang/kolibri/api"
)

// Stdout is where print writes. Tests redirect it to capture output
// without touching the process-wide os.Stdout.
var Stdout io.Writer = os.Stdout

var baseFuncs = api.FuncReg{
	"print":        basePrint,
	"type":         baseType,
	"tostring":     baseToString,
	"tonumber":     baseToNumber,
	"pairs":        basePairs,
	"ipairs":       baseIPairs,
	"next":         baseNext,
	"setmetatable": baseSetMetatable,
	"getmetatable": baseGetMetatable,
	"rawget":       baseRawGet,
	"rawset":       baseRawSet,
	"rawequal":     baseRawEqual,
	"rawlen":       baseRawLen,
	"select":       baseSelect,
	"assert":       baseAssert,
	"error":        baseError,
	"pcall":        basePCall,
}

// Open installs the base library into the global table.
func Open(ls api.State) int {
	ls.PushGlobalTable()
	ls.SetFuncs(baseFuncs, 0)
	ls.PushValue(-1)
	ls.SetField(-2, "_G")
	ls.PushString("Lua 5.3")
	ls.SetField(-2, "_VERSION")
	return 1
}

func basePrint(ls api.State) int {
	n := ls.GetTop()
	for i := 1; i <= n; i++ {
		if i > 1 {
			fmt.Fprint(Stdout, "\t")
		}
		fmt.Fprint(Stdout, ls.ToString2(i))
	}
	fmt.Fprintln(Stdout)
	return 0
}

func baseType(ls api.State) int {
	t := ls.Type(1)
	ls.ArgCheck(t != api.TypeNone, 1, "value expected")
	ls.PushString(ls.TypeName(t))
	return 1
}

func baseToString(ls api.State) int {
	ls.CheckAny(1)
	ls.PushString(ls.ToString2(1))
	return 1
}

func baseToNumber(ls api.State) int {
	if ls.IsNoneOrNil(2) {
		ls.CheckAny(1)
		if ls.Type(1) == api.TypeNumber {
			ls.SetTop(1)
			return 1
		}
		if s, ok := ls.ToStringX(1); ok {
			if pushStringAsNumber(ls, s) {
				return 1
			}
		}
	} else {
		ls.CheckType(1, api.TypeString)
		s := strings.TrimSpace(ls.ToString(1))
		base := int(ls.CheckInteger(2))
		ls.ArgCheck(base >= 2 && base <= 36, 2, "base out of range")
		if n, err := strconv.ParseInt(s, base, 64); err == nil {
			ls.PushInteger(n)
			return 1
		}
	}
	ls.PushNil()
	return 1
}

func pushStringAsNumber(ls api.State, s string) bool {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		ls.PushInteger(i)
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		ls.PushNumber(f)
		return true
	}
	return false
}

func baseIPairs(ls api.State) int {
	ls.CheckAny(1)
	ls.PushGoFunction(iPairsAux)
	ls.PushValue(1)
	ls.PushInteger(0)
	return 3
}

func iPairsAux(ls api.State) int {
	i := ls.CheckInteger(2) + 1
	ls.PushInteger(i)
	if ls.GetI(1, i) == api.TypeNil {
		return 1
	}
	return 2
}

func basePairs(ls api.State) int {
	ls.CheckAny(1)
	ls.PushGoFunction(baseNext)
	ls.PushValue(1)
	ls.PushNil()
	return 3
}

func baseNext(ls api.State) int {
	ls.CheckType(1, api.TypeTable)
	ls.SetTop(2)
	if ls.Next(1) {
		return 2
	}
	ls.PushNil()
	return 1
}

func baseSetMetatable(ls api.State) int {
	ls.CheckType(1, api.TypeTable)
	ls.ArgCheck(ls.IsNoneOrNil(2) || ls.IsTable(2), 2, "nil or table expected")
	ls.SetTop(2)
	ls.SetMetatable(1)
	return 1
}

func baseGetMetatable(ls api.State) int {
	if !ls.GetMetatable(1) {
		ls.PushNil()
	}
	return 1
}

func baseRawGet(ls api.State) int {
	ls.CheckType(1, api.TypeTable)
	ls.CheckAny(2)
	ls.SetTop(2)
	ls.RawGet(1)
	return 1
}

func baseRawSet(ls api.State) int {
	ls.CheckType(1, api.TypeTable)
	ls.CheckAny(2)
	ls.CheckAny(3)
	ls.SetTop(3)
	ls.RawSet(1)
	return 1
}

func baseRawEqual(ls api.State) int {
	ls.CheckAny(1)
	ls.CheckAny(2)
	ls.PushBoolean(ls.RawEqual(1, 2))
	return 1
}

func baseRawLen(ls api.State) int {
	ls.ArgCheck(ls.IsTable(1) || ls.IsString(1), 1, "table or string expected")
	ls.PushInteger(ls.RawLen(1))
	return 1
}

func baseSelect(ls api.State) int {
	n := ls.GetTop()
	if ls.Type(1) == api.TypeString && ls.ToString(1) == "#" {
		ls.PushInteger(int64(n - 1))
		return 1
	}
	i := ls.CheckInteger(1)
	if i < 0 {
		i = int64(n) + i
	}
	ls.ArgCheck(i >= 1, 1, "index out of range")
	if int(i) > n {
		return 0
	}
	return n - int(i)
}

func baseAssert(ls api.State) int {
	if ls.ToBoolean(1) {
		return ls.GetTop()
	}
	ls.CheckAny(1)
	ls.Remove(1)
	ls.PushString("assertion failed!")
	ls.SetTop(1)
	return baseError(ls)
}

func baseError(ls api.State) int {
	level := int(ls.OptInteger(2, 1))
	ls.SetTop(1)
	if ls.Type(1) == api.TypeString && level > 0 {
		ls.PushString(ls.ToString(1))
		ls.Replace(1)
	}
	return ls.Error("%s", ls.ToString2(1))
}

func basePCall(ls api.State) int {
	nArgs := ls.GetTop() - 1
	status := ls.PCall(nArgs, api.MultiReturn, 0)
	ls.PushBoolean(status == api.StatusOK)
	ls.Insert(1)
	return ls.GetTop()
}
