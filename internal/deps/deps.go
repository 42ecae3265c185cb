// Package deps resolves cross-file type dependencies in two phases: the
// caller builds a complete types.Table across every parsed file first, then
// Resolve rescans each file's raw tokens for identifiers that name a type
// defined elsewhere (§4.H). Running resolution before every file has been
// parsed would miss forward references to types declared later, which is
// why the two phases are strictly sequenced by the orchestrator.
package deps

import (
	"sort"

	"github.com/adrisola/typedep/internal/token"
	"github.com/adrisola/typedep/internal/types"
)

// Edge is one file's dependency on a type defined in another file.
type Edge struct {
	Source string
	Target string
	Types  []string
}

// FileTokens is the raw token stream recorded for one parsed file, kept
// around after the AST pass specifically so Resolve can rescan it without
// re-tokenizing from disk.
type FileTokens struct {
	Path   string
	Tokens []token.Token
}

// Resolve scans every file's tokens for identifiers present in table and
// builds one Edge per (source, target) pair that has at least one such
// reference, skipping self-edges (a file referencing its own types isn't a
// dependency) and producing edges in deterministic source-then-target order.
func Resolve(files []FileTokens, table types.Table) []Edge {
	type edgeKey struct{ src, tgt string }
	edgeTypes := make(map[edgeKey][]string)
	seen := make(map[edgeKey]map[string]bool)

	for _, f := range files {
		for _, tok := range f.Tokens {
			defFile, ok := table[tok.Lexeme]
			if !ok || defFile == f.Path {
				continue
			}
			key := edgeKey{f.Path, defFile}
			if seen[key] == nil {
				seen[key] = map[string]bool{}
			}
			if !seen[key][tok.Lexeme] {
				seen[key][tok.Lexeme] = true
				edgeTypes[key] = append(edgeTypes[key], tok.Lexeme)
			}
		}
	}

	edges := make([]Edge, 0, len(edgeTypes))
	for key, names := range edgeTypes {
		edges = append(edges, Edge{Source: key.src, Target: key.tgt, Types: names})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	for _, e := range edges {
		sort.Strings(e.Types)
	}
	return edges
}
