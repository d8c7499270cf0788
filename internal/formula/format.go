package formula

import (
	"regexp"
	"strconv"
)

var wordRe = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)

// Format renders formula with every bound identifier annotated by its value,
// e.g. "5 + area(720000)". Unbound identifiers are left as they are. The
// output is for display only.
func Format(formula string, env map[string]float64) string {
	return wordRe.ReplaceAllStringFunc(formula, func(name string) string {
		v, ok := env[name]
		if !ok {
			return name
		}
		return name + "(" + strconv.FormatFloat(v, 'f', -1, 64) + ")"
	})
}
