// Package discover finds the C++ headers, C++ implementation files, and C#
// files under a repository root, in the headers-then-impl-then-C# bucket
// order the parsing pass requires (§4.I, §5).
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

// Bucket identifies which parsing phase a file belongs to.
type Bucket string

const (
	Header Bucket = "header"
	Impl   Bucket = "impl"
	CSharp Bucket = "csharp"
)

// FileEntry is one discovered source file.
type FileEntry struct {
	Path   string // relative to repo root
	Bucket Bucket
}

var skipDirs = map[string]struct{}{
	"__pycache__": {}, "node_modules": {}, ".git": {}, ".hg": {}, ".svn": {},
	"venv": {}, ".venv": {}, "env": {}, ".env": {}, "build": {}, "dist": {},
	".tox": {}, ".mypy_cache": {}, ".ruff_cache": {}, ".pytest_cache": {}, "egg-info": {},
}

var headerPatterns = []string{"*.h", "*.hpp", "*.hh"}
var implPatterns = []string{"*.cpp", "*.cc", "*.cxx"}
var csharpPatterns = []string{"*.cs"}

// Files walks root and returns every matching file, with headers sorted
// ahead of implementation files ahead of C# files, each group sorted by
// path — the ordering §4.C's out-of-line member relocation and §5's phase
// guarantees depend on. .gitignore rules (or, if root is a git checkout,
// `git ls-files`) are honored the same way the original file manager's
// `cppHeaderFiles`/`cppImplemFiles` bucketing was, minus its manual glob
// loop.
func Files(root string) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var headers, impls, csharp []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		switch {
		case matchesAny(name, headerPatterns):
			headers = append(headers, FileEntry{Path: rel, Bucket: Header})
		case matchesAny(name, implPatterns):
			impls = append(impls, FileEntry{Path: rel, Bucket: Impl})
		case matchesAny(name, csharpPatterns):
			csharp = append(csharp, FileEntry{Path: rel, Bucket: CSharp})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byPath := func(s []FileEntry) {
		sort.Slice(s, func(i, j int) bool { return s[i].Path < s[j].Path })
	}
	byPath(headers)
	byPath(impls)
	byPath(csharp)

	results := make([]FileEntry, 0, len(headers)+len(impls)+len(csharp))
	results = append(results, headers...)
	results = append(results, impls...)
	results = append(results, csharp...)
	return results, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
