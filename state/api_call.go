package state

import (
	"fmt"

	"github.com/kolibrilang/kolibri/api"
	"github.com/kolibrilang/kolibri/compiler/codegen"
	"github.com/kolibrilang/kolibri/compiler/parser"
	"github.com/kolibrilang/kolibri/vm"
)

// Load compiles chunk's source text and pushes the resulting closure.
// mode is accepted for api.State parity but ignored: binary chunk
// loading is out of scope, every chunk is compiled from source.
// A compile error pushes its message instead and reports
// StatusErrSyntax.
func (ls *luaState) Load(chunk []byte, chunkName, mode string) (status api.Status) {
	defer func() {
		if err := recover(); err != nil {
			ls.stack.push(errorValue(err))
			status = api.StatusErrSyntax
		}
	}()
	block := parser.Parse(string(chunk), chunkName)
	p := codegen.GenProto(block)
	p.Source = chunkName

	c := newLuaClosure(p)
	ls.stack.push(c)
	if len(p.Upvalues) > 0 {
		globals := ls.registry.get(api.RegistryGlobalsKey)
		c.upVals[0] = newClosedUpvalue(globals)
	}
	return api.StatusOK
}

// Call invokes the callable at stack depth nArgs+1 below the top with
// nArgs arguments already pushed above it, consulting __call when the
// value isn't itself a closure.
func (ls *luaState) Call(nArgs, nResults int) {
	val := ls.stack.get(-(nArgs + 1))

	c, ok := val.(*closure)
	if !ok {
		if mf := ls.getMetafield(val, "__call"); mf != nil {
			if c, ok = mf.(*closure); ok {
				ls.stack.push(val)
				ls.Insert(-(nArgs + 2))
				nArgs++
			}
		}
	}

	if !ok {
		panic("not a function")
	}

	if c.proto != nil {
		ls.callLuaClosure(nArgs, nResults, c)
	} else {
		ls.callGoClosure(nArgs, nResults, c)
	}
}

func (ls *luaState) callGoClosure(nArgs, nResults int, c *closure) {
	newFrame := newCallFrame(nArgs+api.MinStack, ls)
	newFrame.closure = c

	if nArgs > 0 {
		args := ls.stack.popN(nArgs)
		newFrame.pushN(args, nArgs)
	}
	ls.stack.pop() // the closure itself

	ls.pushCallFrame(newFrame)
	r := c.goFunc(ls)
	ls.popCallFrame()

	if nResults != 0 {
		results := newFrame.popN(r)
		ls.stack.check(len(results))
		ls.stack.pushN(results, nResults)
	}
}

func (ls *luaState) callLuaClosure(nArgs, nResults int, c *closure) {
	nRegs := int(c.proto.MaxStackSize)
	nParams := int(c.proto.NumParams)
	isVararg := c.proto.IsVararg

	newFrame := newCallFrame(nRegs+api.MinStack, ls)
	newFrame.closure = c

	funcAndArgs := ls.stack.popN(nArgs + 1)
	newFrame.pushN(funcAndArgs[1:], nParams)
	newFrame.top = nRegs
	if nArgs > nParams && isVararg {
		newFrame.varargs = funcAndArgs[nParams+1:]
	}

	ls.pushCallFrame(newFrame)
	ls.runLuaClosure()
	ls.popCallFrame()

	if nResults != 0 {
		results := newFrame.popN(newFrame.top - nRegs)
		ls.stack.check(len(results))
		ls.stack.pushN(results, nResults)
	}
}

func (ls *luaState) runLuaClosure() {
	for {
		inst := vm.Instruction(ls.Fetch())
		inst.Execute(ls)
		if inst.Opcode() == vm.OpReturn {
			break
		}
	}
}

// PCall calls in protected mode, unwinding the frame chain back to the
// caller's frame and pushing the recovered error value on panic.
func (ls *luaState) PCall(nArgs, nResults, msgh int) (status api.Status) {
	caller := ls.stack
	status = api.StatusErrRun

	defer func() {
		if err := recover(); err != nil {
			for ls.stack != caller {
				ls.popCallFrame()
			}
			ls.stack.push(errorValue(err))
		}
	}()

	ls.Call(nArgs, nResults)
	status = api.StatusOK
	return
}

func errorValue(err any) any {
	if e, ok := err.(error); ok {
		return e.Error()
	}
	if s, ok := err.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", err)
}
