package kolibri_test

import (
	"bytes"
	"testing"

	"github.com/kolibrilang/kolibri/api"
	"github.com/kolibrilang/kolibri/state"
	"github.com/kolibrilang/kolibri/stdlib"
	"github.com/kolibrilang/kolibri/testutil"
)

const scenariosJSON = `[
  {"name": "arith", "source": "print(1+2, 1/2, 7//2, 2^10)", "want": "3\t0.5\t3\t1024.0\n"},
  {"name": "table-grow", "source": "local t={10,20,30}; t[4]=40; print(#t, t[2])", "want": "4\t20\n"},
  {"name": "closure-upvalue", "source": "local function f(x) return function() x=x+1; return x end end local g=f(10); print(g(), g(), g())", "want": "11\t12\t13\n"},
  {"name": "index-metamethod", "source": "local t=setmetatable({}, {__index=function(_,k) return k..\"!\" end}); print(t.hi)", "want": "hi!\n"},
  {"name": "numeric-for", "source": "local s=0; for i=1,5 do s=s+i end; print(s)", "want": "15\n"},
  {"name": "pairs-iteration", "source": "local t={a=1,b=2}; for k,v in pairs(t) do print(k,v) end", "want": "a\t1\nb\t2\n"}
]`

func run(t *testing.T, source string) string {
	t.Helper()

	var buf bytes.Buffer
	prev := stdlib.Stdout
	stdlib.Stdout = &buf
	defer func() { stdlib.Stdout = prev }()

	ls := state.New()
	stdlib.Open(ls)

	if ls.Load([]byte(source), source, "t") != api.StatusOK {
		t.Fatalf("load failed: %v", buf.String())
	}
	if status := ls.PCall(0, 0, 0); status != api.StatusOK {
		t.Fatalf("run failed with status %v: %s", status, ls.ToString2(-1))
	}
	return buf.String()
}

func TestScenarios(t *testing.T) {
	for _, sc := range testutil.ParseScenarios(scenariosJSON) {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			got := run(t, sc.Source)
			if sc.Name == "pairs-iteration" {
				if !testutil.LinesMatchAnyOrder(got, sc.Want) {
					t.Fatalf("got %q, want lines matching %q in any order", got, sc.Want)
				}
				return
			}
			if got != sc.Want {
				t.Fatalf("got %q, want %q", got, sc.Want)
			}
		})
	}
}
