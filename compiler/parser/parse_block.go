package parser

import (
	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
)

// block ::= {stat} [retstat]
func ParseBlock(lexer *Lexer) *Block {
	return &Block{
		Stats:    parseStats(lexer),
		RetExps:  parseRetExps(lexer),
		LastLine: lexer.Line(),
	}
}

func parseStats(lexer *Lexer) []Stat {
	stats := make([]Stat, 0, 8)
	for !isReturnOrBlockEnd(lexer.LookAhead()) {
		stat := ParseStat(lexer)
		if _, ok := stat.(*EmptyStat); !ok {
			stats = append(stats, stat)
		}
	}
	return stats
}

func isReturnOrBlockEnd(kind Kind) bool {
	switch kind {
	case TokenKwReturn, TokenEOF, TokenKwEnd, TokenKwElse, TokenKwElseif, TokenKwUntil:
		return true
	}
	return false
}

// retstat ::= return [explist] [';']
func parseRetExps(lexer *Lexer) []Exp {
	if lexer.LookAhead() != TokenKwReturn {
		return nil
	}

	lexer.NextToken()
	switch lexer.LookAhead() {
	case TokenEOF, TokenKwEnd, TokenKwElse, TokenKwElseif, TokenKwUntil:
		return []Exp{}
	case TokenSepSemi:
		lexer.NextToken()
		return []Exp{}
	default:
		exps := parseExpList(lexer)
		if lexer.LookAhead() == TokenSepSemi {
			lexer.NextToken()
		}
		return exps
	}
}
