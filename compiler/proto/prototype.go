// Package proto defines the compiled function prototype produced by
// codegen and consumed by the VM and closure machinery. It also
// offers a JSON debug dump of a prototype tree — not a bytecode
// loader/serializer, which is out of scope, but a developer-facing
// introspection format in the same spirit as the teacher's binary
// chunk dumper.
package proto

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Prototype is one compiled function body: its bytecode, constants,
// nested function prototypes and upvalue/debug metadata. The top
// level chunk compiles to a single vararg Prototype with no upvalues
// besides the implicit _ENV.
type Prototype struct {
	Source          string   `json:"source"`
	LineDefined     int      `json:"lineDefined"`
	LastLineDefined int      `json:"lastLineDefined"`
	NumParams       byte     `json:"numParams"`
	IsVararg        bool     `json:"isVararg"`
	MaxStackSize    byte     `json:"maxStackSize"`
	Code            []uint32 `json:"code"`
	Constants       []any    `json:"constants"`
	Upvalues        []Upvalue `json:"upvalues"`
	Protos          []*Prototype `json:"protos"`
	LineInfo        []uint32 `json:"lineInfo"`
	LocVars         []LocVar `json:"locVars"`
	UpvalueNames    []string `json:"upvalueNames"`
}

// Upvalue records where a prototype's Nth upvalue comes from: a slot
// in the enclosing function's own registers (InStack) or one of the
// enclosing function's own upvalues.
type Upvalue struct {
	InStack bool `json:"inStack"`
	Idx     byte `json:"idx"`
}

// LocVar is debug information about one local variable's lifetime,
// keyed by the PC range it's visible over.
type LocVar struct {
	VarName string `json:"varName"`
	StartPC int    `json:"startPC"`
	EndPC   int    `json:"endPC"`
}

// Dump renders the prototype tree as JSON, for debugging and tests —
// there is no binary chunk writer/loader.
func (p *Prototype) Dump() ([]byte, error) {
	return json.Marshal(p)
}

// Load parses a prototype tree previously produced by Dump.
func Load(data []byte) (*Prototype, error) {
	var p Prototype
	if err := json.Unmarshal(bytes.TrimSpace(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
