// Package impact ranks files by how central they are in the dependency
// graph, using PageRank over the edges internal/deps produces — a file that
// many other files depend on for types ranks higher than a leaf file (a
// supplement beyond spec.md's core; §3 of SPEC_FULL.md).
package impact

import (
	"math"
	"sort"

	"github.com/adrisola/typedep/internal/deps"
)

// Score pairs a file path with its PageRank weight.
type Score struct {
	Path string
	Rank float64
}

const (
	damping  = 0.85
	maxIter  = 100
	tolerance = 1e-6
)

// Rank computes a PageRank score for each file, treating a dependency edge
// source->target as a vote of target's importance to source, and returns
// scores sorted rank descending, path ascending on ties.
func Rank(paths []string, edges []deps.Edge) []Score {
	if len(paths) == 0 {
		return nil
	}

	nodes := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		nodes[p] = struct{}{}
	}

	outEdges := make(map[string][]string)
	outDegree := make(map[string]int)
	for _, e := range edges {
		for range e.Types {
			outEdges[e.Source] = append(outEdges[e.Source], e.Target)
			outDegree[e.Source]++
		}
	}

	ranks := pageRank(nodes, outEdges, outDegree, damping, maxIter, tolerance)

	scores := make([]Score, 0, len(paths))
	for _, p := range paths {
		scores = append(scores, Score{Path: p, Rank: ranks[p]})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Rank != scores[j].Rank {
			return scores[i].Rank > scores[j].Rank
		}
		return scores[i].Path < scores[j].Path
	})
	return scores
}

func pageRank(nodes map[string]struct{}, outEdges map[string][]string, outDegree map[string]int, alpha float64, maxIter int, tol float64) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			deg := float64(outDegree[src])
			contrib := alpha * rank[src] / deg
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}
		rank = newRank

		if diff < tol {
			break
		}
	}
	return rank
}
