// Package repo holds the process-wide state the parsing pass mutates: the
// current language and file, the open-scope stack, and the single root of
// the cross-file AST. It is an explicit struct threaded through the parse
// pass rather than a singleton — callers that want process-global behavior
// can hold one package-level instance, but nothing here requires it.
package repo

import (
	"fmt"

	"github.com/adrisola/typedep/internal/astnode"
)

// Language selects which dialect-specific rules apply during parsing.
type Language string

const (
	Cpp    Language = "cpp"
	CSharp Language = "csharp"
)

// Access tracks the current member-visibility mode inside a class/struct
// body, mutated by "public:"/"protected:"/"private:" semi-expressions.
type Access = astnode.Access

// Repository is the single writer's view of parse state for one run. It is
// created once, mutated by exactly one pass (single-threaded per §5), then
// frozen for the read-only analyses that follow.
type Repository struct {
	Root *astnode.Node

	stack []*astnode.Node

	Language    Language
	CurrentFile string
	Package     string // basename of CurrentFile
	Access      Access // current class/struct visibility mode

	// Diagnostics accumulates non-fatal ParseWarning/InternalError messages
	// (see internal/errcode), surfaced later to the Dbug sink.
	Diagnostics []string
}

// New returns a fresh Repository with the stack holding only the root.
func New() *Repository {
	root := astnode.NewRoot()
	return &Repository{
		Root:  root,
		stack: []*astnode.Node{root},
	}
}

// Top returns the innermost open scope — the attachment point for new
// children and declarations.
func (r *Repository) Top() *astnode.Node {
	return r.stack[len(r.stack)-1]
}

// Push opens a new scope as a child of the current top and makes it the new
// top. The caller is responsible for having consumed the opening "{".
func (r *Repository) Push(n *astnode.Node) {
	n.ParentKind = r.Top().Kind
	n.Package = r.Package
	r.Top().AddChild(n)
	r.stack = append(r.stack, n)
}

// PushDetached opens a new scope without attaching it to the current top —
// used by the C++ out-of-line member relocation (§4.C), which attaches the
// node to a different parent found by qualified-name lookup instead.
func (r *Repository) PushDetached(n *astnode.Node) {
	n.Package = r.Package
	r.stack = append(r.stack, n)
}

// Pop closes the current top scope, setting its end line, and returns it.
// If the stack would be emptied below the root, Pop records an InternalError
// diagnostic and resets to just the root — "unmatched }" per §7 — so parsing
// of later files is unaffected.
func (r *Repository) Pop(endLine int) *astnode.Node {
	if len(r.stack) <= 1 {
		r.Diagnostics = append(r.Diagnostics, fmt.Sprintf("InternalError: unmatched '}' in %s at line %d", r.CurrentFile, endLine))
		r.stack = []*astnode.Node{r.Root}
		return r.Root
	}
	top := r.stack[len(r.stack)-1]
	top.EndLine = endLine
	r.stack = r.stack[:len(r.stack)-1]
	return top
}

// Depth returns the number of open scopes, including the root.
func (r *Repository) Depth() int {
	return len(r.stack)
}

// AtRoot reports whether only the root scope is open — the invariant that
// must hold once a file's parsing completes (spec.md §8, invariant 5).
func (r *Repository) AtRoot() bool {
	return len(r.stack) == 1
}

// ResetToRoot discards any partially-open scopes, used after an
// InternalError to keep downstream passes usable despite a malformed file.
func (r *Repository) ResetToRoot() {
	r.stack = []*astnode.Node{r.Root}
}

// SetFile updates the current file/package and resets the per-class access
// mode — each file starts a fresh parse context even though the AST and
// scope stack persist across files within a language pass.
func (r *Repository) SetFile(path, base string, lang Language) {
	r.CurrentFile = path
	r.Package = base
	r.Language = lang
	r.Access = astnode.Public
}

// PushRelocated attaches n as a child of the scope found by walking
// qualifiers (see FindScopeChain) instead of the current lexical scope, and
// makes n the new top. If no such scope exists, it falls back to attaching
// n at the current lexical scope, per §4.C's C++ out-of-line relocation
// policy.
func (r *Repository) PushRelocated(n *astnode.Node, qualifiers []string) {
	parent := r.FindScopeChain(qualifiers)
	if parent == nil {
		r.Push(n)
		return
	}
	n.ParentKind = parent.Kind
	n.Package = r.Package
	parent.AddChild(n)
	r.stack = append(r.stack, n)
}

// FindScopeChain looks up a node by walking a dotted/"::"-joined qualified
// name (e.g. "A::B") against the immediate children of the root, then their
// children, left to right — the lookup the C++ member-relocation rule uses
// to attach an out-of-line function to its declaring class (§4.C).
func (r *Repository) FindScopeChain(parts []string) *astnode.Node {
	if len(parts) == 0 {
		return nil
	}
	current := r.Root
	for _, part := range parts {
		var next *astnode.Node
		for _, child := range current.Children {
			if child.Name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}
