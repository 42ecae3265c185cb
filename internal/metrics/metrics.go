// Package metrics walks a completed AST to compute per-node complexity and
// to produce the flat, sorted node list the display layer renders (§4.F).
package metrics

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrisola/typedep/internal/astnode"
)

// Complexity computes n.Complexity for n and every descendant, post-order:
// complexity = 1 + sum of children's complexity. Every node gets a
// complexity, including ones CountsTowardMetrics excludes, since their
// count still folds into their parent's sum.
func Complexity(n *astnode.Node) int {
	sum := 0
	for _, c := range n.Children {
		sum += Complexity(c)
	}
	n.Complexity = 1 + sum
	return n.Complexity
}

// Row is one line of the flat metrics table: a node plus the file it came
// from (the node's own recorded Package, set when it was parsed — see
// internal/repo.Push).
type Row struct {
	Node *astnode.Node
	Path string
}

// Collect walks the AST rooted at n and returns n and every descendant whose kind
// counts toward the metrics table (namespace, class, struct, interface,
// function, lambda), each tagged with its own Package as Path.
func Collect(n *astnode.Node) []Row {
	var rows []Row
	var walk func(node *astnode.Node)
	walk = func(node *astnode.Node) {
		if node.CountsTowardMetrics() {
			rows = append(rows, Row{Node: node, Path: node.Package})
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(n)
	return rows
}

// Sort orders rows by file-name stem ascending, then by extension
// descending — a stable double sort, ported from Executive.cpp's two
// std::stable_sort passes (CompExts then CompNames): the last pass is the
// dominant key, so extension sorts first and stem sorts last, leaving a
// file's header grouped immediately before its own implementation.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return ext(rows[i].Path) > ext(rows[j].Path)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return stem(rows[i].Path) < stem(rows[j].Path)
	})
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
