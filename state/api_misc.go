package state

import "fmt"

// Len pushes the length of the value at idx: a string's byte length,
// a table's __len result or array border, following §3.4.7.
func (ls *luaState) Len(idx int) {
	val := ls.stack.get(idx)

	if s, ok := val.(string); ok {
		ls.stack.push(int64(len(s)))
		return
	}
	if result, ok := ls.callMetamethod(val, val, "__len"); ok {
		ls.stack.push(result)
		return
	}
	if t := toTable(val); t != nil {
		ls.stack.push(t.length())
		return
	}
	panic("length error")
}

// RawLen is Len without the __len metamethod.
func (ls *luaState) RawLen(idx int) int64 {
	val := ls.stack.get(idx)
	if s, ok := val.(string); ok {
		return int64(len(s))
	}
	if t := toTable(val); t != nil {
		return t.length()
	}
	return 0
}

// Concat pops the top n values and pushes their concatenation,
// combining adjacent pairs right to left so __concat sees the same
// pairing order the reference implementation does.
func (ls *luaState) Concat(n int) {
	if n == 0 {
		ls.stack.push("")
		return
	}
	for n > 1 {
		b := ls.stack.pop()
		a := ls.stack.pop()
		ls.stack.push(ls.concatPair(a, b))
		n--
	}
}

func (ls *luaState) concatPair(a, b any) any {
	as, aok := concatString(a)
	bs, bok := concatString(b)
	if aok && bok {
		return as + bs
	}
	if result, ok := ls.callMetamethod(a, b, "__concat"); ok {
		return result
	}
	panic("concatenation error")
}

func concatString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return formatInteger(x), true
	case float64:
		return formatFloat(x), true
	default:
		return "", false
	}
}

// Next advances idx's table iteration from the key on top of the
// stack, pushing (key, value) and reporting true, or popping the key
// and reporting false once iteration is exhausted.
func (ls *luaState) Next(idx int) bool {
	val := ls.stack.get(idx)
	t := toTable(val)
	if t == nil {
		panic(fmt.Sprintf("bad argument to 'next' (table expected, got %s)", typeOf(val).String()))
	}
	key := ls.stack.pop()
	next := t.nextKey(key)
	if next == nil {
		return false
	}
	ls.stack.push(next)
	ls.stack.push(t.get(next))
	return true
}

// Error raises fmt.Sprintf(format, a...) as a Go panic, to be
// recovered by the nearest PCall; the stack is left as it is.
func (ls *luaState) Error(format string, a ...any) int {
	panic(fmt.Sprintf(format, a...))
}
