// typedep is a type-based dependency analyzer for C++ and C# source trees:
// it discovers headers, implementation files, and C# files under a root
// directory, parses them into one cross-file AST, and reports which files
// depend on types defined in which other files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrisola/typedep/internal/analyze"
	"github.com/adrisola/typedep/internal/config"
	"github.com/adrisola/typedep/internal/deps"
	"github.com/adrisola/typedep/internal/display"
	"github.com/adrisola/typedep/internal/errcode"
	"github.com/adrisola/typedep/internal/export"
	"github.com/adrisola/typedep/internal/impact"
	"github.com/adrisola/typedep/internal/logging"
	"github.com/adrisola/typedep/internal/metrics"
	"github.com/adrisola/typedep/internal/query"
	"github.com/adrisola/typedep/internal/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// slashOptions are the original's "/x" single-character display/logging
// toggles (§6), plus "/i" for the impact-ranking supplement. Recognized
// case-insensitively.
type slashOptions struct {
	metrics, sloc, ast bool
	rslt, demo, dbug   bool
	logFile            bool
	impactView         bool
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errcode.New(errcode.UsageError, "usage: typedep <root> <pattern> [<pattern> ...] [/m /s /a /r /d /b /f /i] [-export fmt] [-focus substr] [-progress]")
	}

	root := args[0]
	rest := args[1:]

	var slash slashOptions
	var patterns, dashArgs []string
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		switch {
		case strings.HasPrefix(a, "/"):
			if err := applySlashOption(&slash, a[1:]); err != nil {
				return err
			}
		case strings.HasPrefix(a, "-"):
			dashArgs = append(dashArgs, a)
			// "-export fmt" and "-focus substr" take their value as the next token.
			if name := strings.TrimLeft(a, "-"); (name == "export" || name == "focus") && i+1 < len(rest) {
				i++
				dashArgs = append(dashArgs, rest[i])
			}
		default:
			patterns = append(patterns, a)
		}
	}
	if len(patterns) == 0 {
		return errcode.New(errcode.UsageError, "at least one file pattern is required")
	}

	fs := flag.NewFlagSet("typedep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exportFormat := fs.String("export", "", "also write the dependency table as jsonl, mermaid, or toon")
	focus := fs.String("focus", "", "restrict the dependency table to edges touching files/types containing this substring")
	progress := fs.Bool("progress", false, "show a one-line progress indicator while parsing")
	if err := fs.Parse(dashArgs); err != nil {
		return errcode.New(errcode.UsageError, err.Error())
	}

	info, err := os.Stat(root)
	if err != nil {
		return errcode.Wrap(errcode.PathError, root, err)
	}
	if !info.IsDir() {
		return errcode.New(errcode.PathError, root+": not a directory")
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return errcode.Wrap(errcode.PathError, root, err)
	}

	cfg, err := config.Load(filepath.Join(root, ".typedep.yaml"))
	if err != nil {
		return errcode.New(errcode.UsageError, "reading .typedep.yaml: "+err.Error())
	}

	startSinks(&slash, cfg)
	var sinkOut io.Writer = stdout
	if slash.logFile {
		logFile, err := os.Create(filepath.Join(root, "logFile.txt"))
		if err != nil {
			return errcode.Wrap(errcode.IoError, root, err)
		}
		defer logFile.Close()
		sinkOut = io.MultiWriter(stdout, logFile)
	}
	attachSinks(sinkOut)

	logging.Rslt.Log("command line", "root", root, "patterns", patterns, "args", rest)

	var opts []analyze.Option
	if *progress {
		opts = append(opts, analyze.WithProgress(func(path string) {
			fmt.Fprintf(stderr, "\rProcessing file: %-60s", path)
		}))
	}

	res, err := analyze.Run(root, opts...)
	if err != nil {
		return err
	}
	if *progress {
		fmt.Fprintf(stderr, "\r%-70s\r", "")
	}

	matched := matchesPatterns(res.Sloc, patterns)
	edges := filterEdgesBySource(res.Edges, matched)
	rows := filterRowsByPath(res.MetricRows, matched)

	if *focus != "" {
		edges = focusEdges(res.TypeTable, edges, matched, *focus)
	}

	display.Dependencies(stdout, edges, sortedKeys(matched))

	if slash.metrics {
		display.Metrics(stdout, rows)
		display.MetricSummary(stdout, rows, cfg.Thresholds.MaxSize, cfg.Thresholds.MaxComplexity)
	}
	if slash.ast {
		display.AST(stdout, res.Repo.Root)
	}
	if slash.sloc {
		display.Sloc(stdout, res.Sloc)
	}
	if slash.impactView {
		display.Impact(stdout, impact.Rank(pathsOf(res.Sloc), res.Edges))
	}

	if *exportFormat != "" {
		if err := exportEdges(stdout, *exportFormat, edges); err != nil {
			return errcode.New(errcode.UsageError, err.Error())
		}
	}

	return nil
}

func applySlashOption(s *slashOptions, opt string) error {
	switch strings.ToLower(opt) {
	case "m":
		s.metrics = true
	case "s":
		s.sloc = true
	case "a":
		s.ast = true
	case "r":
		s.rslt = true
	case "d":
		s.demo = true
	case "b":
		s.dbug = true
	case "f":
		s.logFile = true
	case "i":
		s.impactView = true
	default:
		return errcode.New(errcode.UsageError, "unrecognized option /"+opt)
	}
	return nil
}

func startSinks(s *slashOptions, cfg *config.Config) {
	if s.rslt {
		logging.Rslt.Start()
	}
	if s.demo || cfg.Logging.Demo {
		logging.Demo.Start()
	}
	if s.dbug || cfg.Logging.Dbug {
		logging.Dbug.Start()
	}
}

func attachSinks(w io.Writer) {
	for _, sink := range []*logging.Sink{logging.Rslt, logging.Demo, logging.Dbug} {
		sink.Attach(w, nil)
	}
}

// matchesPatterns reduces a run's discovered files down to those whose base
// name matches at least one user-supplied glob pattern (§6 positional 2..N).
func matchesPatterns(sloc map[string]int, patterns []string) map[string]bool {
	matched := map[string]bool{}
	for path := range sloc {
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, path); ok {
				matched[path] = true
				break
			}
		}
	}
	return matched
}

func filterEdgesBySource(edges []deps.Edge, matched map[string]bool) []deps.Edge {
	var out []deps.Edge
	for _, e := range edges {
		if matched[e.Source] {
			out = append(out, e)
		}
	}
	return out
}

func filterRowsByPath(rows []metrics.Row, matched map[string]bool) []metrics.Row {
	var out []metrics.Row
	for _, r := range rows {
		if matched[r.Path] {
			out = append(out, r)
		}
	}
	return out
}

// focusEdges narrows edges to those touching a file whose name contains
// substr, plus any edge referencing a type whose name contains substr — the
// "-focus" supplement (§3 of SPEC_FULL.md).
func focusEdges(table types.Table, edges []deps.Edge, matched map[string]bool, substr string) []deps.Edge {
	seen := map[string]deps.Edge{}
	add := func(es []deps.Edge) {
		for _, e := range es {
			seen[e.Source+"->"+e.Target] = e
		}
	}

	lower := strings.ToLower(substr)
	for path := range matched {
		if strings.Contains(strings.ToLower(path), lower) {
			add(query.ByFile(edges, path))
		}
	}
	_, symbolEdges := query.BySymbol(table, edges, substr)
	add(symbolEdges)

	out := make([]deps.Edge, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func pathsOf(sloc map[string]int) []string {
	paths := make([]string, 0, len(sloc))
	for p := range sloc {
		paths = append(paths, p)
	}
	return paths
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func exportEdges(w io.Writer, format string, edges []deps.Edge) error {
	switch format {
	case "jsonl":
		_, err := export.WriteEdges(w, edges)
		return err
	case "mermaid":
		return export.WriteMermaid(w, edges)
	case "toon":
		return export.WriteTOON(w, edges)
	default:
		return fmt.Errorf("unknown -export format %q (want jsonl, mermaid, or toon)", format)
	}
}
