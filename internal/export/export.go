// Package export writes an analysis run's dependency graph in formats
// meant for downstream tooling rather than a human terminal: one JSON
// object per line, a Mermaid diagram, and TOON — a supplement beyond
// spec.md's terminal-only display (§3 of SPEC_FULL.md).
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/adrisola/typedep/internal/deps"
)

// JSONLWriter writes one JSON-encoded value per line.
type JSONLWriter struct {
	encoder *json.Encoder
}

// NewJSONLWriter wraps w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{encoder: json.NewEncoder(w)}
}

// WriteEdge emits one dependency edge as a JSON line.
func (w *JSONLWriter) WriteEdge(e deps.Edge) error {
	return w.encoder.Encode(e)
}

// WriteEdges writes every edge to w, one per line, and returns the count
// written.
func WriteEdges(w io.Writer, edges []deps.Edge) (int, error) {
	jw := NewJSONLWriter(w)
	for i, e := range edges {
		if err := jw.WriteEdge(e); err != nil {
			return i, err
		}
	}
	return len(edges), nil
}

var idReplacer = strings.NewReplacer(".", "_", "/", "_", "(", "_", ")", "_", "[", "_", "]", "_", " ", "_", "-", "_")

func safeID(id string) string {
	return "n_" + idReplacer.Replace(id)
}

// WriteMermaid renders edges as a Mermaid flowchart: one node per file that
// appears as a source or target, then one arrow per dependency edge labelled
// with its types, in edge order. A self-edge produces no arrow.
func WriteMermaid(w io.Writer, edges []deps.Edge) error {
	fmt.Fprintln(w, "graph LR")
	seen := map[string]bool{}
	for _, e := range edges {
		for _, path := range []string{e.Source, e.Target} {
			if seen[path] {
				continue
			}
			seen[path] = true
			fmt.Fprintf(w, "  %s[\"%s\"]\n", safeID(path), path)
		}
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		label := strings.Join(e.Types, ",")
		fmt.Fprintf(w, "  %s -->|%s| %s\n", safeID(e.Source), label, safeID(e.Target))
	}
	return nil
}

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]bool{"true": true, "false": true, "null": true}
)

// WriteTOON renders edges in Token-Oriented Object Notation: a single
// tabular block, one row per edge, ported from the teacher's RepoMap
// encoder and narrowed to the one table this analyzer produces.
func WriteTOON(w io.Writer, edges []deps.Edge) error {
	fmt.Fprintf(w, "dependencies[%d]{source,target,types}:", len(edges))
	for _, e := range edges {
		fmt.Fprintf(w, "\n  %s,%s,%s",
			encodeValue(e.Source), encodeValue(e.Target), encodeValue(strings.Join(e.Types, " ")))
	}
	fmt.Fprintln(w)
	return nil
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}
	if value != strings.TrimSpace(value) || strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}
	if keywords[strings.ToLower(value)] {
		return quote(value)
	}
	if looksNumeric.MatchString(value) {
		return value
	}
	if needsQuoting.MatchString(value) || strings.HasPrefix(value, "-") {
		return quote(value)
	}
	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
