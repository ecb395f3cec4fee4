package parser

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

// prefixexp ::= Name
//             | '(' exp ')'
//             | prefixexp '[' exp ']'
//             | prefixexp '.' Name
//             | prefixexp [':' Name] args
func parsePrefixExp(lexer *Lexer) Exp {
	var exp Exp
	if lexer.LookAhead() == TokenIdentifier {
		tok := lexer.NextToken()
		exp = &NameExp{tok.Line, tok.Text}
	} else {
		exp = parseParensExp(lexer)
	}
	return finishPrefixExp(lexer, exp)
}

func parseParensExp(lexer *Lexer) Exp {
	lexer.NextTokenOfKind(TokenSepLParen)
	exp := ParseExp(lexer)
	lexer.NextTokenOfKind(TokenSepRParen)

	switch exp.(type) {
	case *VarargExp, *FuncCallExp, *NameExp, *TableAccessExp:
		return &ParensExp{exp}
	}
	return exp
}

func finishPrefixExp(lexer *Lexer, exp Exp) Exp {
	for {
		switch lexer.LookAhead() {
		case TokenSepLBrack:
			lexer.NextToken()
			keyExp := ParseExp(lexer)
			lastLine := lexer.NextTokenOfKind(TokenSepRBrack).Line
			exp = &TableAccessExp{lastLine, exp, keyExp}
		case TokenSepDot:
			lexer.NextToken()
			tok := lexer.NextIdentifier()
			keyExp := &StringExp{tok.Line, tok.Text}
			exp = &TableAccessExp{tok.Line, exp, keyExp}
		case TokenSepLParen, TokenString, TokenSepColon, TokenSepLCurly:
			exp = finishFuncCallExp(lexer, exp)
		default:
			return exp
		}
	}
}

// functioncall ::= prefixexp args | prefixexp ':' Name args
func finishFuncCallExp(lexer *Lexer, prefixExp Exp) *FuncCallExp {
	line := lexer.Line()
	nameExp := parseMethodNameExp(lexer)
	args := parseArgs(lexer)
	lastLine := lexer.Line()
	return &FuncCallExp{line, lastLine, prefixExp, nameExp, args}
}

func parseMethodNameExp(lexer *Lexer) *StringExp {
	if lexer.LookAhead() == TokenSepColon {
		lexer.NextToken()
		tok := lexer.NextIdentifier()
		return &StringExp{tok.Line, tok.Text}
	}
	return nil
}

// args ::= '(' [explist] ')' | tableconstructor | LiteralString
func parseArgs(lexer *Lexer) (args []Exp) {
	switch lexer.LookAhead() {
	case TokenSepLParen:
		lexer.NextToken()
		if lexer.LookAhead() != TokenSepRParen {
			args = parseExpList(lexer)
		}
		lexer.NextTokenOfKind(TokenSepRParen)
	case TokenSepLCurly:
		args = []Exp{parseTableConstructorExp(lexer)}
	default:
		tok := lexer.NextTokenOfKind(TokenString)
		args = []Exp{&StringExp{tok.Line, tok.Text}}
	}
	return
}
