package api

// GoFunction is the signature of a host function pushed onto the Lua
// stack. It reads its arguments from positive stack indices and
// reports how many results it pushed.
type GoFunction func(State) int

// FuncReg is a named batch of host functions, as passed to
// State.SetFuncs / State.Register when opening a library table.
type FuncReg map[string]GoFunction

// State is the host-facing stack API every collaborator (standard
// library, loader, REPL) is written against. It never exposes the
// internal value representation; everything crosses the boundary
// through the 1-indexed, negative-from-top virtual stack described in
// the package vm and state implementations.
type State interface {
	/* stack manipulation */
	GetTop() int
	AbsIndex(idx int) int
	CheckStack(n int) bool
	Pop(n int)
	Copy(fromIdx, toIdx int)
	PushValue(idx int)
	Replace(idx int)
	Insert(idx int)
	Remove(idx int)
	Rotate(idx, n int)
	SetTop(idx int)

	/* type queries */
	TypeName(tp Type) string
	Type(idx int) Type
	IsNone(idx int) bool
	IsNil(idx int) bool
	IsNoneOrNil(idx int) bool
	IsBoolean(idx int) bool
	IsInteger(idx int) bool
	IsNumber(idx int) bool
	IsString(idx int) bool
	IsTable(idx int) bool
	IsFunction(idx int) bool
	IsGoFunction(idx int) bool

	/* conversions, stack -> Go */
	ToBoolean(idx int) bool
	ToInteger(idx int) int64
	ToIntegerX(idx int) (int64, bool)
	ToNumber(idx int) float64
	ToNumberX(idx int) (float64, bool)
	ToString(idx int) string
	ToStringX(idx int) (string, bool)
	ToGoFunction(idx int) GoFunction
	ToPointer(idx int) any

	/* push primitives, Go -> stack */
	PushNil()
	PushBoolean(b bool)
	PushInteger(n int64)
	PushNumber(n float64)
	PushString(s string)
	PushFString(format string, a ...any)
	PushGoFunction(f GoFunction)
	PushGoClosure(f GoFunction, n int)
	PushGlobalTable()

	/* arithmetic / comparison driver */
	Arith(op ArithOp)
	Compare(idx1, idx2 int, op CompareOp) bool

	/* table ops */
	NewTable()
	CreateTable(nArr, nRec int)
	GetTable(idx int) Type
	GetField(idx int, k string) Type
	GetI(idx int, i int64) Type
	SetTable(idx int)
	SetField(idx int, k string)
	SetI(idx int, i int64)
	RawGet(idx int) Type
	RawSet(idx int)
	RawGetI(idx int, i int64) Type
	RawSetI(idx int, i int64)
	RawLen(idx int) int64
	RawEqual(idx1, idx2 int) bool
	Next(idx int) bool
	Len(idx int)
	Concat(n int)

	/* metatables */
	GetMetatable(idx int) bool
	SetMetatable(idx int)

	/* globals and registration */
	GetGlobal(name string) Type
	SetGlobal(name string)
	Register(name string, f GoFunction)

	/* loading and calling */
	Load(chunk []byte, chunkName, mode string) Status
	Call(nArgs, nResults int)
	PCall(nArgs, nResults, msgh int) Status

	/* auxiliary: error reporting and argument checks */
	Error(format string, a ...any) int
	ArgError(arg int, extraMsg string) int
	ArgCheck(cond bool, arg int, extraMsg string)
	CheckStack2(sz int, msg string)
	CheckAny(arg int)
	CheckType(arg int, t Type)
	CheckInteger(arg int) int64
	CheckNumber(arg int) float64
	CheckString(arg int) string
	CheckBool(arg int) bool
	OptInteger(arg int, d int64) int64
	OptNumber(arg int, d float64) float64
	OptString(arg int, d string) string
	OptBool(arg int, d bool) bool

	/* auxiliary: library helpers */
	DoString(chunk, chunkName string) error
	TypeName2(idx int) string
	ToString2(idx int) string
	Len2(idx int) int64
	GetMetafield(obj int, e string) Type
	CallMeta(obj int, e string) bool
	NewLib(l FuncReg)
	NewLibTable(l FuncReg)
	SetFuncs(l FuncReg, nup int)
}

// VM is the interface the bytecode dispatch loop drives State through;
// it extends State with the handful of operations that only make
// sense mid fetch/decode/execute (PC control, constant/RK access,
// closure and vararg machinery). Host code never needs it — it exists
// so package vm can depend on package api instead of package state.
type VM interface {
	State
	PC() int
	AddPC(n int)
	Fetch() uint32
	GetConst(idx int)
	GetRK(rk int)
	RegisterCount() int
	LoadVararg(n int)
	LoadProto(idx int)
	CloseUpvalues(a int)
}
