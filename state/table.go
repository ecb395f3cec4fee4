package state

import (
	"math"
	"strconv"
)

// Table is Lua's dual-representation table: a dense array part for
// consecutive non-nil integer keys starting at 1, and a hash part for
// everything else. Keys that are floats with an exact integer value
// are normalized to int64 so 1 and 1.0 address the same slot.
type Table struct {
	arr       []any
	hash      map[any]any
	metatable *Table

	keys    map[any]any // next()'s "previous key -> next key" snapshot
	lastKey any
	changed bool
}

func newTable(nArr, nRec int) *Table {
	t := &Table{}
	if nArr > 0 {
		t.arr = make([]any, 0, nArr)
	}
	if nRec > 0 {
		t.hash = make(map[any]any, nRec)
	}
	return t
}

func normalizeKey(key any) any {
	if f, ok := key.(float64); ok {
		if i, ok := floatToInteger(f); ok {
			return i
		}
	}
	return key
}

func (t *Table) get(key any) any {
	key = normalizeKey(key)
	if idx, ok := key.(int64); ok {
		if idx >= 1 && idx <= int64(len(t.arr)) {
			return t.arr[idx-1]
		}
	}
	return t.hash[key]
}

// put assigns t[key] = val, panicking with "table index is nil" or
// "table index is NaN" for a nil or NaN key.
func (t *Table) put(key, val any) {
	if key == nil {
		panic("table index is nil")
	}
	if f, ok := key.(float64); ok && math.IsNaN(f) {
		panic("table index is NaN")
	}

	t.changed = true
	key = normalizeKey(key)
	if idx, ok := key.(int64); ok && idx >= 1 {
		arrLen := int64(len(t.arr))
		if idx <= arrLen {
			t.arr[idx-1] = val
			if idx == arrLen && val == nil {
				t.shrinkArray()
			}
			return
		}
		if idx == arrLen+1 {
			delete(t.hash, key)
			if val != nil {
				t.arr = append(t.arr, val)
				t.expandArray()
			}
			return
		}
	}
	if val != nil {
		if t.hash == nil {
			t.hash = make(map[any]any, 8)
		}
		t.hash[key] = val
	} else {
		delete(t.hash, key)
	}
}

// shrinkArray trims trailing nils left behind when the array's last
// slot is cleared.
func (t *Table) shrinkArray() {
	for i := len(t.arr) - 1; i >= 0; i-- {
		if t.arr[i] == nil {
			t.arr = t.arr[:i]
		} else {
			break
		}
	}
}

// expandArray pulls consecutive integer keys out of the hash part
// once a put lands exactly at the array's boundary.
func (t *Table) expandArray() {
	for idx := int64(len(t.arr)) + 1; ; idx++ {
		val, found := t.hash[idx]
		if !found {
			break
		}
		delete(t.hash, idx)
		t.arr = append(t.arr, val)
	}
}

// length is the border used by the # operator and RawLen: with no
// nils in the array part this is exactly len(arr), matching the
// common case the array/hash split is built around.
func (t *Table) length() int64 {
	return int64(len(t.arr))
}

func (t *Table) hasMetafield(name string) bool {
	return t.metatable != nil && t.metatable.get(name) != nil
}

// nextKey implements lua_next's iteration contract via a lazily built
// "previous key -> next key" snapshot, rebuilt whenever the table has
// been mutated since the last rebuild (or on the very first call).
// This is also how concurrent-mutation is handled: per the reference
// manual, assigning to an existing field during traversal is safe and
// observed by the snapshot in use, but creating a new field has
// undefined behavior with respect to that same traversal — exactly
// what rebuilding only on stale/initial state gives us.
func (t *Table) nextKey(key any) any {
	if t.keys == nil || (key == nil && t.changed) {
		t.initKeys()
		t.changed = false
	}

	next := t.keys[key]
	if next == nil && key != nil && key != t.lastKey {
		// key may have round-tripped through a string conversion
		// (ToString mutates number slots in place); recover the
		// original integer form before giving up.
		s, ok := key.(string)
		if !ok {
			return nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		next = t.keys[i]
	}
	return next
}

func (t *Table) initKeys() {
	t.keys = make(map[any]any)
	var key any
	for i, v := range t.arr {
		if v != nil {
			t.keys[key] = int64(i + 1)
			key = int64(i + 1)
		}
	}
	for k, v := range t.hash {
		if v != nil {
			t.keys[key] = k
			key = k
		}
	}
	t.lastKey = key
}
