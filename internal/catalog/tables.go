package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// mergeDefaults returns tables with every missing default appended, and
// whether anything was added.
func mergeDefaults(tables []string) ([]string, bool) {
	out := slices.Clone(tables)
	changed := false
	for _, d := range DefaultTables() {
		if !slices.Contains(out, d) {
			out = append(out, d)
			changed = true
		}
	}
	return out, changed
}

// SortTables orders identifiers numerically ascending. Identifiers that are
// not integers sort after all numeric ones, in byte order. The sort is
// stable so equal numeric values ("7" and "07") keep their relative order.
func SortTables(tables []string) {
	slices.SortStableFunc(tables, compareTables)
}

func compareTables(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
