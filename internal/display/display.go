// Package display renders a finished analysis run the way the original's
// CodeAnalysisExecutive did: a fixed-width metrics table, an indented AST
// dump, an SLOC report, and a metric-summary view filtered to functions
// that exceed size/complexity thresholds (§4.J).
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/adrisola/typedep/internal/astnode"
	"github.com/adrisola/typedep/internal/deps"
	"github.com/adrisola/typedep/internal/impact"
	"github.com/adrisola/typedep/internal/metrics"
)

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Header writes the metrics table's fixed-width column header: 25/12/35/
// 8/8/8, right-justified, matching the original's std::setw sequence.
func Header(w io.Writer) {
	fmt.Fprintf(w, "\n %25s%12s%35s%8s%8s%8s", "file name", "type", "name", "line", "size", "cplx")
	fmt.Fprintf(w, "\n  %23s%12s%35s%8s%8s%8s",
		strings.Repeat("-", 23), strings.Repeat("-", 10), strings.Repeat("-", 33),
		strings.Repeat("-", 6), strings.Repeat("-", 6), strings.Repeat("-", 6))
}

// MetricsLine writes one row of the metrics table for a single node.
func MetricsLine(w io.Writer, row metrics.Row) {
	n := row.Node
	fmt.Fprintf(w, "\n %25s%12s%35s%8d%8d%8d",
		trunc(row.Path, 23), n.Kind, trunc(n.Name, 33), n.StartLine, n.Size(), n.Complexity)
}

// DataLines writes the "public data:" lines a scope's direct declarations
// contribute, skipping function-type scopes (the original excludes
// function-local declarations from this listing entirely).
func DataLines(w io.Writer, n *astnode.Node, summary bool) {
	switch n.ParentKind {
	case astnode.Namespace, astnode.Class, astnode.Struct:
	default:
		return
	}
	if n.Kind == astnode.Function {
		return
	}
	for _, d := range n.Decl {
		if d.Access != astnode.Public || d.DeclType != astnode.DataDecl {
			continue
		}
		fmt.Fprintf(w, "\n %25s ", "public data:")
		if summary {
			fmt.Fprintf(w, "%s : %d - %s %s\n %15s", d.Package, d.Line, n.Kind, n.Name, " ")
		}
		fmt.Fprint(w, strings.Join(d.Raw, " "))
	}
}

// Metrics writes the full metrics table for every metrics.Row in rows,
// re-printing the header each time the file changes (rows must already be
// metrics.Sort-ed).
func Metrics(w io.Writer, rows []metrics.Row) {
	fmt.Fprint(w, "\n=== Code Metrics - Start Line, Size (lines/code), and Complexity (number of scopes) ===\n")
	Header(w)

	prevFile := ""
	for _, row := range rows {
		if row.Path != prevFile {
			fmt.Fprint(w, "\n")
			Header(w)
		}
		MetricsLine(w, row)
		DataLines(w, row.Node, false)
		prevFile = row.Path
	}
	fmt.Fprint(w, "\n")
}

// AST writes an indented tree dump of root, one line per node.
func AST(w io.Writer, root *astnode.Node) {
	fmt.Fprint(w, "\n=== Abstract Syntax Tree ===")
	var walk func(n *astnode.Node, depth int)
	walk = func(n *astnode.Node, depth int) {
		fmt.Fprintf(w, "\n  %s%s", strings.Repeat("  ", depth), n.Show())
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	fmt.Fprint(w, "\n")
}

// MetricSummary writes only the functions whose size exceeds maxSize or
// whose complexity exceeds maxComplexity, followed by every scope's public
// data declarations — the "what needs attention" view (§4.J).
func MetricSummary(w io.Writer, rows []metrics.Row, maxSize, maxComplexity int) {
	fmt.Fprint(w, "\n=== Functions Exceeding Metric Limits and Public Data ===\n")
	Header(w)

	for _, row := range rows {
		if row.Node.Kind != astnode.Function {
			continue
		}
		if row.Node.Size() > maxSize || row.Node.Complexity > maxComplexity {
			MetricsLine(w, row)
		}
	}
	fmt.Fprint(w, "\n")
	for _, row := range rows {
		DataLines(w, row.Node, true)
	}
	fmt.Fprint(w, "\n")
}

// Sloc writes one line per file's line count, sorted the way the original's
// compFiles functor did — headers (.h) sort as if their extension were
// ".a" so a file's header groups immediately before its implementation —
// followed by the total across every file.
func Sloc(w io.Writer, slocByFile map[string]int) {
	fmt.Fprint(w, "\n=== File Size - Source Lines of Code ===\n")

	paths := make([]string, 0, len(slocByFile))
	for p := range slocByFile {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return headerFirstKey(paths[i]) < headerFirstKey(paths[j])
	})

	total := 0
	for _, p := range paths {
		fmt.Fprintf(w, "\n  %8d : %s", slocByFile[p], p)
		total += slocByFile[p]
	}
	fmt.Fprintf(w, "\n\n      Total line count = %d\n", total)
}

func headerFirstKey(path string) string {
	dot := strings.LastIndex(path, ".")
	if dot < 0 || dot == len(path)-1 {
		return path
	}
	if path[dot+1] == 'h' {
		return path[:dot+1] + "a" + path[dot+2:]
	}
	return path
}

// Impact writes each file's PageRank centrality score, most depended-upon
// first — the "/i" view, a natural complement to the metrics table's own
// filename ordering.
func Impact(w io.Writer, scores []impact.Score) {
	fmt.Fprint(w, "\n=== File Impact (PageRank over type dependencies) ===\n")
	for _, s := range scores {
		fmt.Fprintf(w, "\n  %8.4f : %s", s.Rank, s.Path)
	}
	fmt.Fprint(w, "\n")
}

// Dependencies writes one record per source file (§6): sources first, in the
// order given, then any remaining edge sources not already covered. A file
// with no resolved edges still gets a line with nothing past the arrow — the
// ∅ case §4.H's failure semantics call for, rather than omitting the file as
// a key entirely.
func Dependencies(w io.Writer, edges []deps.Edge, sources []string) {
	fmt.Fprint(w, "\n=== Type Dependencies ===\n")

	bySource := map[string][]deps.Edge{}
	for _, e := range edges {
		bySource[e.Source] = append(bySource[e.Source], e)
	}

	seen := map[string]bool{}
	list := func(source string) {
		if seen[source] {
			return
		}
		seen[source] = true
		es := bySource[source]
		if len(es) == 0 {
			fmt.Fprintf(w, "\n  %s -> ", source)
			return
		}
		for _, e := range es {
			fmt.Fprintf(w, "\n  %s -> %s (%s)", e.Source, e.Target, strings.Join(e.Types, ", "))
		}
	}
	for _, s := range sources {
		list(s)
	}
	for _, e := range edges {
		list(e.Source)
	}
	fmt.Fprint(w, "\n")
}
