package deps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrisola/typedep/internal/token"
	"github.com/adrisola/typedep/internal/types"
)

func tok(lex string) token.Token { return token.Token{Lexeme: lex, Line: 1} }

func TestResolveFindsCrossFileReference(t *testing.T) {
	table := types.Table{"Widget": "widget.h"}
	files := []FileTokens{
		{Path: "widget.h", Tokens: []token.Token{tok("class"), tok("Widget"), tok("{"), tok("}")}},
		{Path: "main.cpp", Tokens: []token.Token{tok("Widget"), tok("w"), tok(";")}},
	}

	edges := Resolve(files, table)

	require.Len(t, edges, 1)
	require.Equal(t, "main.cpp", edges[0].Source)
	require.Equal(t, "widget.h", edges[0].Target)
	require.Equal(t, []string{"Widget"}, edges[0].Types)
}

func TestResolveSkipsSelfReference(t *testing.T) {
	table := types.Table{"Widget": "widget.h"}
	files := []FileTokens{
		{Path: "widget.h", Tokens: []token.Token{tok("class"), tok("Widget"), tok("{"), tok("Widget"), tok("}")}},
	}

	edges := Resolve(files, table)
	if len(edges) != 0 {
		t.Fatalf("expected no self-edges, got %+v", edges)
	}
}

func TestResolveDeduplicatesRepeatedReferences(t *testing.T) {
	table := types.Table{"Widget": "widget.h"}
	files := []FileTokens{
		{Path: "main.cpp", Tokens: []token.Token{tok("Widget"), tok("a"), tok(";"), tok("Widget"), tok("b"), tok(";")}},
	}

	edges := Resolve(files, table)
	if len(edges) != 1 || len(edges[0].Types) != 1 {
		t.Fatalf("expected a single deduplicated edge, got %+v", edges)
	}
}

func TestResolveSortsEdgesDeterministically(t *testing.T) {
	table := types.Table{"A": "a.h", "B": "b.h"}
	files := []FileTokens{
		{Path: "z.cpp", Tokens: []token.Token{tok("B")}},
		{Path: "a.cpp", Tokens: []token.Token{tok("A")}},
	}

	edges := Resolve(files, table)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0].Source != "a.cpp" || edges[1].Source != "z.cpp" {
		t.Errorf("expected edges sorted by source, got %+v", edges)
	}
}
