package parser

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

// explist ::= exp {',' exp}
func parseExpList(lexer *Lexer) []Exp {
	exps := make([]Exp, 0, 4)
	exps = append(exps, ParseExp(lexer))
	for lexer.LookAhead() == TokenSepComma {
		lexer.NextToken()
		exps = append(exps, ParseExp(lexer))
	}
	return exps
}

/*
Precedence climbs, weakest first:

	exp   ::= exp11
	exp11 ::= exp10 {or exp10}
	exp10 ::= exp9 {and exp9}
	exp9  ::= exp8 {('<' | '>' | '<=' | '>=' | '~=' | '==') exp8}
	exp8  ::= exp7 {'|' exp7}
	exp7  ::= exp6 {'~' exp6}
	exp6  ::= exp5 {'&' exp5}
	exp5  ::= exp4 {('<<' | '>>') exp4}
	exp4  ::= exp3 {'..' exp3}            (right-assoc, flattened)
	exp3  ::= exp2 {('+' | '-') exp2}
	exp2  ::= exp1 {('*' | '/' | '//' | '%') exp1}
	exp1  ::= {('not' | '#' | '-' | '~')} exp0
	exp0  ::= exp00 {'^' exp1}             (right-assoc)
	exp00 ::= nil | false | true | Numeral | LiteralString
	        | '...' | functiondef | prefixexp | tableconstructor
*/
func ParseExp(lexer *Lexer) Exp {
	return parseOrExp(lexer)
}

func parseOrExp(lexer *Lexer) Exp {
	exp := parseAndExp(lexer)
	for lexer.LookAhead() == TokenOpOr {
		tok := lexer.NextToken()
		lor := &BinopExp{tok.Line, int(TokenOpOr), exp, parseAndExp(lexer)}
		exp = optimizeLogicalOr(lor)
	}
	return exp
}

func parseAndExp(lexer *Lexer) Exp {
	exp := parseCompareExp(lexer)
	for lexer.LookAhead() == TokenOpAnd {
		tok := lexer.NextToken()
		land := &BinopExp{tok.Line, int(TokenOpAnd), exp, parseCompareExp(lexer)}
		exp = optimizeLogicalAnd(land)
	}
	return exp
}

func parseCompareExp(lexer *Lexer) Exp {
	exp := parseBOrExp(lexer)
	for {
		switch lexer.LookAhead() {
		case TokenOpLt, TokenOpGt, TokenOpLe, TokenOpGe, TokenOpNe, TokenOpEq:
			tok := lexer.NextToken()
			exp = &BinopExp{tok.Line, int(tok.Kind), exp, parseBOrExp(lexer)}
		default:
			return exp
		}
	}
}

func parseBOrExp(lexer *Lexer) Exp {
	exp := parseBXorExp(lexer)
	for lexer.LookAhead() == TokenOpBOr {
		tok := lexer.NextToken()
		exp = optimizeBitwiseBinaryOp(&BinopExp{tok.Line, int(TokenOpBOr), exp, parseBXorExp(lexer)})
	}
	return exp
}

func parseBXorExp(lexer *Lexer) Exp {
	exp := parseBAndExp(lexer)
	for lexer.LookAhead() == TokenOpWave {
		tok := lexer.NextToken()
		exp = optimizeBitwiseBinaryOp(&BinopExp{tok.Line, int(TokenOpBXor), exp, parseBAndExp(lexer)})
	}
	return exp
}

func parseBAndExp(lexer *Lexer) Exp {
	exp := parseShiftExp(lexer)
	for lexer.LookAhead() == TokenOpBAnd {
		tok := lexer.NextToken()
		exp = optimizeBitwiseBinaryOp(&BinopExp{tok.Line, int(TokenOpBAnd), exp, parseShiftExp(lexer)})
	}
	return exp
}

func parseShiftExp(lexer *Lexer) Exp {
	exp := parseConcatExp(lexer)
	for {
		switch lexer.LookAhead() {
		case TokenOpShl, TokenOpShr:
			tok := lexer.NextToken()
			exp = optimizeBitwiseBinaryOp(&BinopExp{tok.Line, int(tok.Kind), exp, parseConcatExp(lexer)})
		default:
			return exp
		}
	}
}

// '..' is right-associative and flattened into a single ConcatExp:
// a..b..c parses as one node over [a,b,c], matching the single
// CONCAT instruction codegen emits over a contiguous register run.
func parseConcatExp(lexer *Lexer) Exp {
	exp := parseAddExp(lexer)
	if lexer.LookAhead() != TokenOpConcat {
		return exp
	}

	line := 0
	exps := []Exp{exp}
	for lexer.LookAhead() == TokenOpConcat {
		tok := lexer.NextToken()
		line = tok.Line
		exps = append(exps, parseAddExp(lexer))
	}
	return &ConcatExp{line, exps}
}

func parseAddExp(lexer *Lexer) Exp {
	exp := parseMulExp(lexer)
	for {
		switch lexer.LookAhead() {
		case TokenOpAdd, TokenOpMinus:
			tok := lexer.NextToken()
			exp = optimizeArithBinaryOp(&BinopExp{tok.Line, int(tok.Kind), exp, parseMulExp(lexer)})
		default:
			return exp
		}
	}
}

func parseMulExp(lexer *Lexer) Exp {
	exp := parseUnaryExp(lexer)
	for {
		switch lexer.LookAhead() {
		case TokenOpMul, TokenOpDiv, TokenOpIDiv, TokenOpMod:
			tok := lexer.NextToken()
			exp = optimizeArithBinaryOp(&BinopExp{tok.Line, int(tok.Kind), exp, parseUnaryExp(lexer)})
		default:
			return exp
		}
	}
}

// exp1 ::= {('not' | '#' | '-' | '~')} exp0
func parseUnaryExp(lexer *Lexer) Exp {
	switch lexer.LookAhead() {
	case TokenOpNot, TokenOpLen, TokenOpMinus, TokenOpWave:
		tok := lexer.NextToken()
		exp := &UnopExp{tok.Line, int(tok.Kind), parseUnaryExp(lexer)}
		return optimizeUnaryOp(exp)
	}
	return parsePowExp(lexer)
}

// exp0 ::= exp00 {'^' exp1}  ('^' is right-associative, binds tighter
// than unary so that -2^2 == -4)
func parsePowExp(lexer *Lexer) Exp {
	exp := parseSimpleExp(lexer)
	if lexer.LookAhead() == TokenOpPow {
		tok := lexer.NextToken()
		exp = &BinopExp{tok.Line, int(TokenOpPow), exp, parseUnaryExp(lexer)}
	}
	return exp
}

// exp00 ::= nil | false | true | Numeral | LiteralString
//
//	| '...' | functiondef | prefixexp | tableconstructor
func parseSimpleExp(lexer *Lexer) Exp {
	switch lexer.LookAhead() {
	case TokenKwNil:
		tok := lexer.NextToken()
		return &NilExp{tok.Line}
	case TokenKwTrue:
		tok := lexer.NextToken()
		return &TrueExp{tok.Line}
	case TokenKwFalse:
		tok := lexer.NextToken()
		return &FalseExp{tok.Line}
	case TokenVararg:
		tok := lexer.NextToken()
		return &VarargExp{tok.Line}
	case TokenString:
		tok := lexer.NextToken()
		return &StringExp{tok.Line, tok.Text}
	case TokenNumber:
		return parseNumberExp(lexer)
	case TokenSepLCurly:
		return parseTableConstructorExp(lexer)
	case TokenKwFunction:
		lexer.NextToken()
		return parseFuncDefExp(lexer)
	default:
		return parsePrefixExp(lexer)
	}
}

func parseNumberExp(lexer *Lexer) Exp {
	tok := lexer.NextToken()
	if i, ok := parseInteger(tok.Text); ok {
		return &IntegerExp{tok.Line, i}
	}
	if f, ok := parseFloat(tok.Text); ok {
		return &FloatExp{tok.Line, f}
	}
	panic("not a number: " + tok.Text)
}

// functiondef ::= function funcbody
// funcbody ::= '(' [parlist] ')' block end
// parlist ::= namelist [',' '...'] | '...'
func parseFuncDefExp(lexer *Lexer) *FuncDefExp {
	line := lexer.Line()
	lexer.NextTokenOfKind(TokenSepLParen)
	parList, isVararg := parseParList(lexer)
	lexer.NextTokenOfKind(TokenSepRParen)
	block := ParseBlock(lexer)
	lastLine := lexer.NextTokenOfKind(TokenKwEnd).Line
	return &FuncDefExp{line, lastLine, parList, isVararg, block}
}

func parseParList(lexer *Lexer) (names []string, isVararg bool) {
	switch lexer.LookAhead() {
	case TokenSepRParen:
		return nil, false
	case TokenVararg:
		lexer.NextToken()
		return nil, true
	}

	names = append(names, lexer.NextIdentifier().Text)
	for lexer.LookAhead() == TokenSepComma {
		lexer.NextToken()
		if lexer.LookAhead() == TokenVararg {
			lexer.NextToken()
			isVararg = true
			break
		}
		names = append(names, lexer.NextIdentifier().Text)
	}
	return names, isVararg
}

// tableconstructor ::= '{' [fieldlist] '}'
// fieldlist ::= field {fieldsep field} [fieldsep]
// field ::= '[' exp ']' '=' exp | Name '=' exp | exp
// fieldsep ::= ',' | ';'
func parseTableConstructorExp(lexer *Lexer) *TableConstructorExp {
	line := lexer.Line()
	lexer.NextTokenOfKind(TokenSepLCurly)
	keyExps, valExps := parseFieldList(lexer)
	lastLine := lexer.NextTokenOfKind(TokenSepRCurly).Line
	return &TableConstructorExp{line, lastLine, keyExps, valExps}
}

func parseFieldList(lexer *Lexer) (ks, vs []Exp) {
	if lexer.LookAhead() != TokenSepRCurly {
		k, v := parseField(lexer)
		ks = append(ks, k)
		vs = append(vs, v)

		for isFieldSep(lexer.LookAhead()) {
			lexer.NextToken()
			if lexer.LookAhead() != TokenSepRCurly {
				k, v := parseField(lexer)
				ks = append(ks, k)
				vs = append(vs, v)
			}
		}
	}
	return
}

func isFieldSep(kind Kind) bool {
	return kind == TokenSepComma || kind == TokenSepSemi
}

// field ::= '[' exp ']' '=' exp | Name '=' exp | exp
func parseField(lexer *Lexer) (k, v Exp) {
	if lexer.LookAhead() == TokenSepLBrack {
		lexer.NextToken()
		k = ParseExp(lexer)
		lexer.NextTokenOfKind(TokenSepRBrack)
		lexer.NextTokenOfKind(TokenOpAssign)
		v = ParseExp(lexer)
		return
	}

	exp := ParseExp(lexer)
	if nameExp, ok := exp.(*NameExp); ok {
		if lexer.LookAhead() == TokenOpAssign {
			lexer.NextToken()
			return &StringExp{nameExp.Line, nameExp.Name}, ParseExp(lexer)
		}
	}
	return nil, exp
}

func isVarargOrFuncCall(exp Exp) bool {
	switch exp.(type) {
	case *VarargExp, *FuncCallExp:
		return true
	}
	return false
}

func lastLineOf(exp Exp) int {
	switch x := exp.(type) {
	case *NilExp:
		return x.Line
	case *TrueExp:
		return x.Line
	case *FalseExp:
		return x.Line
	case *VarargExp:
		return x.Line
	case *IntegerExp:
		return x.Line
	case *FloatExp:
		return x.Line
	case *StringExp:
		return x.Line
	case *NameExp:
		return x.Line
	case *UnopExp:
		return lastLineOf(x.Exp)
	case *BinopExp:
		return lastLineOf(x.Right)
	case *ConcatExp:
		return lastLineOf(x.Exps[len(x.Exps)-1])
	case *FuncDefExp:
		return x.LastLine
	case *TableConstructorExp:
		return x.LastLine
	case *ParensExp:
		return lastLineOf(x.Exp)
	case *TableAccessExp:
		return x.LastLine
	case *FuncCallExp:
		return x.LastLine
	}
	panic("unreachable")
}
