package ast

// Stat is any statement node.
type Stat interface{}

// EmptyStat is a bare ';'. ParseStats drops it rather than emitting
// any code for it.
type EmptyStat struct{}

// BreakStat is `break`. Codegen rejects one that isn't lexically
// inside a loop.
type BreakStat struct{ Line int }

// LabelStat is `'::' Name '::'`. The spec keeps goto/label out of
// codegen's scope; the parser still builds the node so a future
// codegen can opt in.
type LabelStat struct {
	Line int
	Name string
}

// GotoStat is `goto Name`.
type GotoStat struct {
	Line int
	Name string
}

// DoStat is `do block end`.
type DoStat struct {
	Block *Block
}

// WhileStat is `while exp do block end`.
type WhileStat struct {
	Exp   Exp
	Block *Block
}

// RepeatStat is `repeat block until exp`. The until expression is
// evaluated inside the loop body's scope, so its locals are visible.
type RepeatStat struct {
	Block *Block
	Exp   Exp
}

// IfStat is `if exp then block {elseif exp then block} [else block] end`.
// A trailing `else` is folded in by the parser as `elseif true then`,
// so Exps and Blocks are always the same length.
type IfStat struct {
	Exps   []Exp
	Blocks []*Block
}

// ForNumStat is `for Name '=' exp ',' exp [',' exp] do block end`.
type ForNumStat struct {
	LineOfFor int
	LineOfDo  int
	VarName   string
	InitExp   Exp
	LimitExp  Exp
	StepExp   Exp
	Block     *Block
}

// ForInStat is `for namelist in explist do block end`.
type ForInStat struct {
	LineOfDo int
	NameList []string
	ExpList  []Exp
	Block    *Block
}

// LocalVarDeclStat is `local namelist ['=' explist]`.
type LocalVarDeclStat struct {
	LastLine int
	NameList []string
	ExpList  []Exp
}

// LocalFuncDefStat is `local function Name funcbody`. Unlike a plain
// local declaration, the name is in scope inside its own body (for
// recursion) before the function value is assigned.
type LocalFuncDefStat struct {
	Name string
	Exp  *FuncDefExp
}

// AssignStat is `varlist '=' explist`, and is also how `function
// funcname funcbody` desugars (VarList holds the single target).
type AssignStat struct {
	LastLine int
	VarList  []Exp
	ExpList  []Exp
}

// Block is a sequence of statements with an optional trailing return.
type Block struct {
	Stats    []Stat
	RetExps  []Exp
	LastLine int
}
