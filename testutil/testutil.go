// Package testutil provides fixture-driven assertions for end-to-end
// interpreter tests: scenarios are declared as JSON and read with
// gjson so test files stay free of hand-rolled unmarshalling.
package testutil

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Scenario is one source-to-output example: running Source through the
// interpreter must print exactly Want to stdout.
type Scenario struct {
	Name   string
	Source string
	Want   string
}

// ParseScenarios reads a JSON array of {"name","source","want"}
// objects into Scenarios, in file order.
func ParseScenarios(doc string) []Scenario {
	var out []Scenario
	gjson.Parse(doc).ForEach(func(_, v gjson.Result) bool {
		out = append(out, Scenario{
			Name:   v.Get("name").String(),
			Source: v.Get("source").String(),
			Want:   v.Get("want").String(),
		})
		return true
	})
	return out
}

// LinesMatchAnyOrder reports whether got and want contain the same
// set of newline-terminated lines, ignoring order. It's for scenarios
// like pairs() iteration whose line order isn't guaranteed.
func LinesMatchAnyOrder(got, want string) bool {
	g := splitLines(got)
	w := splitLines(want)
	if len(g) != len(w) {
		return false
	}
	remaining := append([]string{}, w...)
	for _, line := range g {
		found := false
		for i, r := range remaining {
			if r == line {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
