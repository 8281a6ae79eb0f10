package service

import (
	"strconv"
	"strings"
)

// valuesEqual reports whether two field values are the same after trimming,
// treating numerically equal strings ("1" vs "1.0") as identical so audit
// diffs are not polluted by formatting noise.
func valuesEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
