package codegen

import "github.com/kolibrilang/kolibri/compiler/proto"

func toProto(fi *funcInfo) *proto.Prototype {
	p := &proto.Prototype{
		LineDefined:     fi.line,
		LastLineDefined: fi.lastLine,
		NumParams:       byte(fi.numParams),
		IsVararg:        fi.isVararg,
		MaxStackSize:    byte(fi.maxRegs),
		Code:            fi.insts,
		Constants:       getConstants(fi),
		Upvalues:        getUpvalues(fi),
		Protos:          toProtos(fi.subFuncs),
		LineInfo:        fi.lineNums,
		LocVars:         getLocVars(fi),
		UpvalueNames:    getUpvalueNames(fi),
	}

	if p.MaxStackSize < 2 {
		p.MaxStackSize = 2
	}

	return p
}

func toProtos(fis []*funcInfo) []*proto.Prototype {
	protos := make([]*proto.Prototype, len(fis))
	for i := range fis {
		protos[i] = toProto(fis[i])
	}
	return protos
}

func getConstants(fi *funcInfo) []any {
	consts := make([]any, len(fi.constants))
	for k, idx := range fi.constants {
		consts[idx] = k
	}
	return consts
}

func getLocVars(fi *funcInfo) []proto.LocVar {
	locVars := make([]proto.LocVar, len(fi.locVars))
	for i, v := range fi.locVars {
		locVars[i] = proto.LocVar{
			VarName: v.name,
			StartPC: v.startPC,
			EndPC:   v.endPC,
		}
	}
	return locVars
}

func getUpvalues(fi *funcInfo) []proto.Upvalue {
	upvals := make([]proto.Upvalue, len(fi.upvalues))
	for _, uv := range fi.upvalues {
		if uv.locVarSlot >= 0 {
			upvals[uv.index] = proto.Upvalue{InStack: true, Idx: byte(uv.locVarSlot)}
		} else {
			upvals[uv.index] = proto.Upvalue{InStack: false, Idx: byte(uv.upvalIndex)}
		}
	}
	return upvals
}

func getUpvalueNames(fi *funcInfo) []string {
	names := make([]string, len(fi.upvalues))
	for name, uv := range fi.upvalues {
		names[uv.index] = name
	}
	return names
}
