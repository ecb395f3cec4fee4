package state

import "github.com/kolibrilang/kolibri/api"

// Compare reads idx1/idx2 (without popping) and evaluates op between
// them, following the reference manual's §3.4.4 rules: numbers compare
// by value across int/float, strings compare byte-wise, equality
// between any other same-type values falls back to __eq (tables only;
// Go identity otherwise), and </<= require both operands to be
// numbers or both strings before falling back to __lt/__le.
func (ls *luaState) Compare(idx1, idx2 int, op api.CompareOp) bool {
	a := ls.stack.get(idx1)
	b := ls.stack.get(idx2)

	switch op {
	case api.OpEq:
		return ls.valuesEqual(a, b)
	case api.OpLt:
		return ls.lessThan(a, b, false)
	case api.OpLe:
		return ls.lessThan(a, b, true)
	}
	panic("kolibri: unknown compare op")
}

func (ls *luaState) valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case *Table:
		y, ok := b.(*Table)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if result, ok := ls.callMetamethod(a, b, "__eq"); ok {
			return convertToBoolean(result)
		}
		return false
	case *closure:
		y, ok := b.(*closure)
		return ok && x == y
	default:
		return false
	}
}

func (ls *luaState) lessThan(a, b any, orEqual bool) bool {
	if an, aok := numericValue(a); aok {
		if bn, bok := numericValue(b); bok {
			if orEqual {
				return an <= bn
			}
			return an < bn
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			if orEqual {
				return as <= bs
			}
			return as < bs
		}
	}

	mm := "__lt"
	if orEqual {
		mm = "__le"
	}
	if result, ok := ls.callMetamethod(a, b, mm); ok {
		return convertToBoolean(result)
	}
	panic("comparison error")
}

func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// RawEqual compares without invoking any metamethod.
func (ls *luaState) RawEqual(idx1, idx2 int) bool {
	a := ls.stack.get(idx1)
	b := ls.stack.get(idx2)
	if at, ok := a.(*Table); ok {
		bt, ok := b.(*Table)
		return ok && at == bt
	}
	if ac, ok := a.(*closure); ok {
		bc, ok := b.(*closure)
		return ok && ac == bc
	}
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	default:
		return a == b
	}
}
