package state

import "github.com/kolibrilang/kolibri/api"

// TypeName returns the display name for a value tag.
func (ls *luaState) TypeName(tp api.Type) string {
	return tp.String()
}

// Type reports idx's value tag, or TypeNone if idx doesn't address a
// live stack slot.
func (ls *luaState) Type(idx int) api.Type {
	if ls.stack.isValid(idx) {
		return typeOf(ls.stack.get(idx))
	}
	return api.TypeNone
}

func (ls *luaState) IsNone(idx int) bool      { return ls.Type(idx) == api.TypeNone }
func (ls *luaState) IsNil(idx int) bool       { return ls.Type(idx) == api.TypeNil }
func (ls *luaState) IsNoneOrNil(idx int) bool { return ls.Type(idx) <= api.TypeNil }
func (ls *luaState) IsBoolean(idx int) bool   { return ls.Type(idx) == api.TypeBoolean }
func (ls *luaState) IsTable(idx int) bool     { return ls.Type(idx) == api.TypeTable }
func (ls *luaState) IsFunction(idx int) bool  { return ls.Type(idx) == api.TypeFunction }

func (ls *luaState) IsInteger(idx int) bool {
	_, ok := ls.stack.get(idx).(int64)
	return ok
}

func (ls *luaState) IsNumber(idx int) bool {
	_, ok := ls.ToNumberX(idx)
	return ok
}

func (ls *luaState) IsString(idx int) bool {
	t := ls.Type(idx)
	return t == api.TypeString || t == api.TypeNumber
}

func (ls *luaState) IsGoFunction(idx int) bool {
	if c, ok := ls.stack.get(idx).(*closure); ok {
		return c.goFunc != nil
	}
	return false
}

func (ls *luaState) ToBoolean(idx int) bool {
	return convertToBoolean(ls.stack.get(idx))
}

func (ls *luaState) ToInteger(idx int) int64 {
	i, _ := ls.ToIntegerX(idx)
	return i
}

func (ls *luaState) ToIntegerX(idx int) (int64, bool) {
	return convertToInteger(ls.stack.get(idx))
}

func (ls *luaState) ToNumber(idx int) float64 {
	n, _ := ls.ToNumberX(idx)
	return n
}

func (ls *luaState) ToNumberX(idx int) (float64, bool) {
	return convertToFloat(ls.stack.get(idx))
}

func (ls *luaState) ToString(idx int) string {
	s, _ := ls.ToStringX(idx)
	return s
}

// ToStringX converts a number in place to its string form (as the
// reference implementation's lua_tolstring does) so a subsequent read
// of the same slot is stable.
func (ls *luaState) ToStringX(idx int) (string, bool) {
	switch x := ls.stack.get(idx).(type) {
	case string:
		return x, true
	case int64:
		s := formatInteger(x)
		ls.stack.set(idx, s)
		return s, true
	case float64:
		s := formatFloat(x)
		ls.stack.set(idx, s)
		return s, true
	default:
		return "", false
	}
}

func (ls *luaState) ToGoFunction(idx int) api.GoFunction {
	if c, ok := ls.stack.get(idx).(*closure); ok {
		return c.goFunc
	}
	return nil
}

func (ls *luaState) ToPointer(idx int) any {
	return ls.stack.get(idx)
}
