package parser

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

var statEmpty = &EmptyStat{}

/*
stat ::=  ';'
	| break
	| '::' Name '::'
	| goto Name
	| do block end
	| while exp do block end
	| repeat block until exp
	| if exp then block {elseif exp then block} [else block] end
	| for Name '=' exp ',' exp [',' exp] do block end
	| for namelist in explist do block end
	| function funcname funcbody
	| local function Name funcbody
	| local namelist ['=' explist]
	| varlist '=' explist
	| functioncall
*/
func ParseStat(lexer *Lexer) Stat {
	switch lexer.LookAhead() {
	case TokenSepSemi:
		return parseEmptyStat(lexer)
	case TokenKwBreak:
		return parseBreakStat(lexer)
	case TokenSepLabel:
		return parseLabelStat(lexer)
	case TokenKwGoto:
		return parseGotoStat(lexer)
	case TokenKwDo:
		return parseDoStat(lexer)
	case TokenKwWhile:
		return parseWhileStat(lexer)
	case TokenKwRepeat:
		return parseRepeatStat(lexer)
	case TokenKwIf:
		return parseIfStat(lexer)
	case TokenKwFor:
		return parseForStat(lexer)
	case TokenKwFunction:
		return parseFuncDefStat(lexer)
	case TokenKwLocal:
		return parseLocalAssignOrFuncDefStat(lexer)
	default:
		return parseAssignOrFuncCallStat(lexer)
	}
}

func parseEmptyStat(lexer *Lexer) *EmptyStat {
	lexer.NextTokenOfKind(TokenSepSemi)
	return statEmpty
}

func parseBreakStat(lexer *Lexer) *BreakStat {
	lexer.NextTokenOfKind(TokenKwBreak)
	return &BreakStat{lexer.Line()}
}

func parseLabelStat(lexer *Lexer) *LabelStat {
	lexer.NextTokenOfKind(TokenSepLabel)
	tok := lexer.NextIdentifier()
	lexer.NextTokenOfKind(TokenSepLabel)
	return &LabelStat{tok.Line, tok.Text}
}

func parseGotoStat(lexer *Lexer) *GotoStat {
	lexer.NextTokenOfKind(TokenKwGoto)
	tok := lexer.NextIdentifier()
	return &GotoStat{tok.Line, tok.Text}
}

func parseDoStat(lexer *Lexer) *DoStat {
	lexer.NextTokenOfKind(TokenKwDo)
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenKwEnd)
	return &DoStat{block}
}

func parseWhileStat(lexer *Lexer) *WhileStat {
	lexer.NextTokenOfKind(TokenKwWhile)
	exp := ParseExp(lexer)
	lexer.NextTokenOfKind(TokenKwDo)
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenKwEnd)
	return &WhileStat{exp, block}
}

// repeat block until exp — the until condition sees the block's
// locals, so codegen must emit it before closing that scope.
func parseRepeatStat(lexer *Lexer) *RepeatStat {
	lexer.NextTokenOfKind(TokenKwRepeat)
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenKwUntil)
	exp := ParseExp(lexer)
	return &RepeatStat{block, exp}
}

// if exp then block {elseif exp then block} [else block] end
// a trailing else is rewritten as elseif true then, so codegen only
// ever has to handle one shape.
func parseIfStat(lexer *Lexer) *IfStat {
	exps := make([]Exp, 0, 4)
	blocks := make([]*Block, 0, 4)

	lexer.NextTokenOfKind(TokenKwIf)
	exps = append(exps, ParseExp(lexer))
	lexer.NextTokenOfKind(TokenKwThen)
	blocks = append(blocks, ParseBlock(lexer))

	for lexer.LookAhead() == TokenKwElseif {
		lexer.NextToken()
		exps = append(exps, ParseExp(lexer))
		lexer.NextTokenOfKind(TokenKwThen)
		blocks = append(blocks, ParseBlock(lexer))
	}

	if lexer.LookAhead() == TokenKwElse {
		lexer.NextToken()
		exps = append(exps, &TrueExp{lexer.Line()})
		blocks = append(blocks, ParseBlock(lexer))
	}

	lexer.NextTokenOfKind(TokenKwEnd)
	return &IfStat{exps, blocks}
}

// for Name '=' exp ',' exp [',' exp] do block end
// for namelist in explist do block end
func parseForStat(lexer *Lexer) Stat {
	lineOfFor := lexer.NextTokenOfKind(TokenKwFor).Line
	name := lexer.NextIdentifier().Text
	if lexer.LookAhead() == TokenOpAssign {
		return finishForNumStat(lexer, lineOfFor, name)
	}
	return finishForInStat(lexer, name)
}

func finishForNumStat(lexer *Lexer, lineOfFor int, varName string) *ForNumStat {
	lexer.NextTokenOfKind(TokenOpAssign)
	initExp := ParseExp(lexer)
	lexer.NextTokenOfKind(TokenSepComma)
	limitExp := ParseExp(lexer)

	var stepExp Exp
	if lexer.LookAhead() == TokenSepComma {
		lexer.NextToken()
		stepExp = ParseExp(lexer)
	} else {
		stepExp = &IntegerExp{lexer.Line(), 1}
	}

	lineOfDo := lexer.NextTokenOfKind(TokenKwDo).Line
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenKwEnd)

	return &ForNumStat{lineOfFor, lineOfDo, varName, initExp, limitExp, stepExp, block}
}

// for namelist in explist do block end desugars at codegen time to
// three hidden locals (generator, state, control); the parser only
// needs to record the surface namelist and explist.
func finishForInStat(lexer *Lexer, name0 string) *ForInStat {
	nameList := finishNameList(lexer, name0)
	lexer.NextTokenOfKind(TokenKwIn)
	expList := parseExpList(lexer)
	lineOfDo := lexer.NextTokenOfKind(TokenKwDo).Line
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenKwEnd)
	return &ForInStat{lineOfDo, nameList, expList, block}
}

func finishNameList(lexer *Lexer, name0 string) []string {
	names := []string{name0}
	for lexer.LookAhead() == TokenSepComma {
		lexer.NextToken()
		names = append(names, lexer.NextIdentifier().Text)
	}
	return names
}

// local function Name funcbody
// local namelist ['=' explist]
func parseLocalAssignOrFuncDefStat(lexer *Lexer) Stat {
	lexer.NextTokenOfKind(TokenKwLocal)
	if lexer.LookAhead() == TokenKwFunction {
		return finishLocalFuncDefStat(lexer)
	}
	return finishLocalVarDeclStat(lexer)
}

// `local function f() body end` desugars to `local f; f = function()
// body end`, not `local f = function() body end`: f must already be
// in scope inside body for recursive calls to resolve to the local
// rather than a global. Codegen relies on this node shape, not a
// rewritten AssignStat, to get that ordering right.
func finishLocalFuncDefStat(lexer *Lexer) *LocalFuncDefStat {
	lexer.NextTokenOfKind(TokenKwFunction)
	name := lexer.NextIdentifier().Text
	fdExp := parseFuncDefExp(lexer)
	return &LocalFuncDefStat{name, fdExp}
}

func finishLocalVarDeclStat(lexer *Lexer) *LocalVarDeclStat {
	name0 := lexer.NextIdentifier().Text
	nameList := finishNameList(lexer, name0)
	var expList []Exp
	if lexer.LookAhead() == TokenOpAssign {
		lexer.NextToken()
		expList = parseExpList(lexer)
	}
	lastLine := lexer.Line()
	return &LocalVarDeclStat{lastLine, nameList, expList}
}

// varlist '=' explist
// functioncall
func parseAssignOrFuncCallStat(lexer *Lexer) Stat {
	prefixExp := parsePrefixExp(lexer)
	if fc, ok := prefixExp.(*FuncCallExp); ok && lexer.LookAhead() != TokenSepComma && lexer.LookAhead() != TokenOpAssign {
		return fc
	}
	return parseAssignStat(lexer, prefixExp)
}

func parseAssignStat(lexer *Lexer, var0 Exp) *AssignStat {
	varList := finishVarList(lexer, var0)
	lexer.NextTokenOfKind(TokenOpAssign)
	expList := parseExpList(lexer)
	lastLine := lexer.Line()
	return &AssignStat{lastLine, varList, expList}
}

func finishVarList(lexer *Lexer, var0 Exp) []Exp {
	vars := []Exp{checkVar(lexer, var0)}
	for lexer.LookAhead() == TokenSepComma {
		lexer.NextToken()
		exp := parsePrefixExp(lexer)
		vars = append(vars, checkVar(lexer, exp))
	}
	return vars
}

// var ::= Name | prefixexp '[' exp ']' | prefixexp '.' Name
func checkVar(lexer *Lexer, exp Exp) Exp {
	switch exp.(type) {
	case *NameExp, *TableAccessExp:
		return exp
	}
	lexer.NextTokenOfKind(Kind(-1)) // not a valid assignment target; forces a syntax error
	panic("unreachable")
}

// function funcname funcbody desugars to funcname = function funcbody,
// with a `self` parameter spliced in when funcname used ':'.
func parseFuncDefStat(lexer *Lexer) *AssignStat {
	lexer.NextTokenOfKind(TokenKwFunction)
	fnExp, hasColon := parseFuncName(lexer)
	fdExp := parseFuncDefExp(lexer)
	if hasColon {
		fdExp.ParList = append([]string{"self"}, fdExp.ParList...)
	}
	return &AssignStat{
		LastLine: fdExp.Line,
		VarList:  []Exp{fnExp},
		ExpList:  []Exp{fdExp},
	}
}

// funcname ::= Name {'.' Name} [':' Name]
func parseFuncName(lexer *Lexer) (exp Exp, hasColon bool) {
	tok := lexer.NextIdentifier()
	exp = &NameExp{tok.Line, tok.Text}

	for lexer.LookAhead() == TokenSepDot {
		lexer.NextToken()
		tok := lexer.NextIdentifier()
		exp = &TableAccessExp{tok.Line, exp, &StringExp{tok.Line, tok.Text}}
	}
	if lexer.LookAhead() == TokenSepColon {
		lexer.NextToken()
		tok := lexer.NextIdentifier()
		exp = &TableAccessExp{tok.Line, exp, &StringExp{tok.Line, tok.Text}}
		hasColon = true
	}
	return
}
