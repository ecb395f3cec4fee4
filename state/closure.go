package state

import (
	"fmt"

	"github.com/kolibrilang/kolibri/api"
	"github.com/kolibrilang/kolibri/compiler/proto"
)

// upvalue is a shared, independently closeable variable cell. While
// open, ptr aliases the register slot of the frame that created it, so
// every closure holding this *upvalue sees writes to that slot. close
// copies the slot's current value into the cell's own storage and
// repoints ptr at itself, detaching it from the (about-to-be-reused)
// slot without needing to touch any closure's upVals entry — they all
// already share this one *upvalue.
type upvalue struct {
	ptr   *any
	value any
}

func newOpenUpvalue(slot *any) *upvalue {
	u := &upvalue{}
	u.ptr = slot
	return u
}

func newClosedUpvalue(v any) *upvalue {
	u := &upvalue{value: v}
	u.ptr = &u.value
	return u
}

func (u *upvalue) get() any  { return *u.ptr }
func (u *upvalue) set(v any) { *u.ptr = v }

func (u *upvalue) close() {
	u.value = *u.ptr
	u.ptr = &u.value
}

// closure is either a Lua closure (proto set) or a host closure
// (goFunc set).
type closure struct {
	proto  *proto.Prototype
	goFunc api.GoFunction
	upVals []*upvalue
}

func newLuaClosure(p *proto.Prototype) *closure {
	c := &closure{proto: p}
	if n := len(p.Upvalues); n > 0 {
		c.upVals = make([]*upvalue, n)
	}
	return c
}

func newGoClosure(f api.GoFunction, nUpvals int) *closure {
	c := &closure{goFunc: f}
	if nUpvals > 0 {
		c.upVals = make([]*upvalue, nUpvals)
	}
	return c
}

func (c *closure) String() string {
	if c.goFunc != nil {
		return fmt.Sprintf("function: builtin %p", c.goFunc)
	}
	return fmt.Sprintf("function: %p", c.proto)
}
