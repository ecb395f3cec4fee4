package state

import "strconv"

func formatInteger(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatFloat mirrors Lua's default LUAI_NUMFFORMAT ("%.14g"), adding
// a trailing ".0" when the result would otherwise look like an
// integer so numbers stay visibly floats.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', 14, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' || c == 'n' || c == 'i' {
			return s
		}
	}
	return s + ".0"
}
