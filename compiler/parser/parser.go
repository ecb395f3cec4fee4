// Package parser is a recursive-descent parser over the Lua 5.3
// grammar: it consumes the lexer's token stream and builds the ast.Block
// tree the code generator walks.
package parser

import (
	jsoniter "github.com/json-iterator/go"

	. "github.com/kolibrilang/kolibri/compiler/ast"
	. "github.com/kolibrilang/kolibri/compiler/lexer"
	"github.com/kolibrilang/kolibri/logger"
)

// Parse parses a full chunk and checks that nothing trails the final
// block.
func Parse(chunk, chunkName string) *Block {
	lexer := New(chunk, chunkName)
	block := ParseBlock(lexer)
	lexer.NextTokenOfKind(TokenEOF)

	if logger.Debug {
		if data, err := jsoniter.MarshalIndent(block, "", "  "); err == nil {
			logger.I("%s AST:\n%s", chunkName, data)
		}
	}

	return block
}
