package codegen

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	"github.com/kolibrilang/kolibri/compiler/proto"
)

// GenProto compiles a parsed chunk into its top-level function
// prototype. The chunk becomes a vararg function with a single
// upvalue, _ENV, bound by an enclosing synthetic scope — exactly as
// if it were `function (...) ... end` compiled inside a caller that
// already has _ENV in scope.
func GenProto(chunk *Block) *proto.Prototype {
	fd := &FuncDefExp{
		LastLine: chunk.LastLine,
		IsVararg: true,
		Block:    chunk,
	}

	fi := newFuncInfo(nil, 0, chunk.LastLine, 0, true)
	fi.addLocVar("_ENV", 0)
	cgFuncDefExp(fi, fd, 0)
	return toProto(fi.subFuncs[0])
}
