// Package query implements focused views over a completed analysis run —
// narrowing the full dependency/type report down to one file or one type
// name, for interactive exploration rather than whole-repo reporting (a
// supplement beyond spec.md's core; §3 of SPEC_FULL.md).
package query

import (
	"strings"

	"github.com/adrisola/typedep/internal/deps"
	"github.com/adrisola/typedep/internal/types"
)

// ByFile returns every edge that touches path, either as source or target.
func ByFile(edges []deps.Edge, path string) []deps.Edge {
	var out []deps.Edge
	for _, e := range edges {
		if e.Source == path || e.Target == path {
			out = append(out, e)
		}
	}
	return out
}

// BySymbol returns the names of every type in table whose name contains
// substr (case-insensitive), and every edge that references one of those
// types — a cross-file "who depends on this type" view.
func BySymbol(table types.Table, edges []deps.Edge, substr string) ([]string, []deps.Edge) {
	lower := strings.ToLower(substr)

	matched := map[string]bool{}
	for name := range table {
		if strings.Contains(strings.ToLower(name), lower) {
			matched[name] = true
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}

	var out []deps.Edge
	for _, e := range edges {
		for _, t := range e.Types {
			if matched[t] {
				out = append(out, e)
				break
			}
		}
	}
	return names, out
}
