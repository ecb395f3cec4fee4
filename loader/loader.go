// Package loader compiles Lua source into a prototype, caching recent
// results so re-running the same chunk (REPL history, a hot require
// path) skips lexing, parsing and codegen.
package loader

import (
	"fmt"

	glc "git.lolli.tech/lollipopkit/go_lru_cacher"

	"github.com/kolibrilang/kolibri/compiler/codegen"
	"github.com/kolibrilang/kolibri/compiler/parser"
	"github.com/kolibrilang/kolibri/compiler/proto"
)

// DefaultCacheSize bounds how many distinct chunk sources stay cached.
const DefaultCacheSize = 32

// Loader compiles chunks on demand, reusing a prototype for any source
// text it has already compiled.
type Loader struct {
	cache *glc.Cacher
}

// New returns a Loader with its own LRU cache.
func New() *Loader {
	return &Loader{cache: glc.NewCacher(DefaultCacheSize)}
}

// Load compiles chunk under chunkName, returning a cached prototype
// when this exact source text was compiled before.
func (l *Loader) Load(chunk []byte, chunkName string) (p *proto.Prototype, err error) {
	source := string(chunk)
	if cached, ok := l.cache.Get(source); ok {
		if cp, ok := cached.(*proto.Prototype); ok {
			return cp, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	block := parser.Parse(source, chunkName)
	p = codegen.GenProto(block)
	p.Source = chunkName
	l.cache.Set(source, p)
	return p, nil
}

type compileError struct{ v any }

func (e compileError) Error() string { return formatCompileError(e.v) }

func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return compileError{v}
}

func formatCompileError(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
