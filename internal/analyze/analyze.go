// Package analyze is the Executive: it wires file discovery, tokenizing,
// semi-expression collection, the rule engine, complexity computation, the
// type table, and dependency resolution into the single ordered pass §5
// requires — headers before implementation files before C#, the type table
// complete before dependency resolution starts, complexity computed before
// any display runs.
package analyze

import (
	"os"
	"path/filepath"

	"github.com/adrisola/typedep/internal/deps"
	"github.com/adrisola/typedep/internal/discover"
	"github.com/adrisola/typedep/internal/errcode"
	"github.com/adrisola/typedep/internal/logging"
	"github.com/adrisola/typedep/internal/metrics"
	"github.com/adrisola/typedep/internal/repo"
	"github.com/adrisola/typedep/internal/rules"
	"github.com/adrisola/typedep/internal/semiexpr"
	"github.com/adrisola/typedep/internal/token"
	"github.com/adrisola/typedep/internal/types"
)

// Result is everything a completed run produced, ready for any combination
// of display/export/query/impact consumers to read.
type Result struct {
	Repo       *repo.Repository
	TypeTable  types.Table
	Collisions []types.Collision
	Edges      []deps.Edge
	MetricRows []metrics.Row
	Sloc       map[string]int
}

// Option configures a Run call. The zero value of every option is a no-op,
// so Run(root) alone behaves exactly as it did before options existed.
type Option func(*options)

type options struct {
	onFile func(path string)
}

// WithProgress registers a callback invoked with each file's relative path
// immediately before it is parsed — the hook `cmd/typedep`'s "-progress"
// supplement uses to show a single-line "Processing file: ..." indicator
// (Executive.cpp's showActivity, §4 of SPEC_FULL.md).
func WithProgress(onFile func(path string)) Option {
	return func(o *options) { o.onFile = onFile }
}

// Run discovers every header/impl/C# file under root, parses them in that
// fixed order into one cross-file AST, then resolves type dependencies. A
// missing root is a PathError, propagated to the caller; a per-file IoError
// or InternalError is recorded to the Dbug sink and does not stop the run.
func Run(root string, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(root); err != nil {
		return nil, errcode.Wrap(errcode.PathError, root, err)
	}

	files, err := discover.Files(root)
	if err != nil {
		return nil, errcode.Wrap(errcode.PathError, root, err)
	}

	r := repo.New()
	var fileTokens []deps.FileTokens
	sloc := map[string]int{}

	for _, f := range files {
		if o.onFile != nil {
			o.onFile(f.Path)
		}
		lang := repo.Cpp
		if f.Bucket == discover.CSharp {
			lang = repo.CSharp
		}
		toks, lines, err := parseOneFile(r, filepath.Join(root, f.Path), f.Path, lang)
		if err != nil {
			logging.Dbug.Log("skipping unreadable file", "file", f.Path, "error", err)
			continue
		}
		base := filepath.Base(f.Path)
		fileTokens = append(fileTokens, deps.FileTokens{Path: base, Tokens: toks})
		sloc[base] = lines
	}

	metrics.Complexity(r.Root)

	table, collisions := types.Build(r.Root)
	for _, c := range collisions {
		logging.Dbug.Log("type redefined", "name", c.Name, "previous", c.PreviousFile, "new", c.NewFile)
	}

	edges := deps.Resolve(fileTokens, table)

	rows := metrics.Collect(r.Root)
	metrics.Sort(rows)

	return &Result{
		Repo:       r,
		TypeTable:  table,
		Collisions: collisions,
		Edges:      edges,
		MetricRows: rows,
		Sloc:       sloc,
	}, nil
}

// parseOneFile tokenizes fullPath, threading every semi-expression through
// the rule engine against the shared Repository, and returns the flat token
// list the dependency resolver's reference scan needs plus the file's line
// count for the SLOC report.
func parseOneFile(r *repo.Repository, fullPath, relPath string, lang repo.Language) ([]token.Token, int, error) {
	tz, err := token.Open(fullPath)
	if err != nil {
		return nil, 0, err
	}
	defer tz.Close()

	r.SetFile(relPath, filepath.Base(relPath), lang)

	var allTokens []token.Token
	c := semiexpr.New(tz.Next)
	e := rules.New(r)
	diags := len(r.Diagnostics)
	stopped := false
	for c.HasMore() {
		se := c.Next()
		allTokens = append(allTokens, se.Tokens...)
		if stopped {
			continue
		}
		e.Apply(se)
		if len(r.Diagnostics) > diags {
			// InternalError: the rest of this file is tokenized but not parsed.
			logging.Dbug.Log("internal error", "file", relPath, "error", r.Diagnostics[len(r.Diagnostics)-1])
			stopped = true
		}
	}

	if !r.AtRoot() {
		logging.Dbug.Log("file ended with unclosed scopes", "file", relPath, "depth", r.Depth())
		r.ResetToRoot()
	}

	return allTokens, tz.CurrentLineCount(), nil
}
