// Package types builds the type-name-to-defining-file index the dependency
// resolver's reference-scan phase looks names up against (§4.G).
package types

import (
	"fmt"

	"github.com/adrisola/typedep/internal/astnode"
)

// Table maps a declared type name to the file that defines it.
type Table map[string]string

// Collision records a non-fatal last-writer-wins overwrite, reported to the
// Dbug sink by the caller rather than treated as an error (§9 Open Question
// 3: defined behavior, not a bug).
type Collision struct {
	Name         string
	PreviousFile string
	NewFile      string
}

// Build walks root once, recording every class/struct/interface node's name,
// plus every typedef/using-alias/enum declaration's introduced type name,
// against the file it was declared in (each node's own Package, set when it
// was parsed — see internal/repo.Push). A name declared in more than one
// file overwrites its previous entry (last writer wins) and is reported as
// a Collision rather than failing the build.
func Build(root *astnode.Node) (Table, []Collision) {
	table := Table{}
	var collisions []Collision
	record := func(name, pkg string) {
		if name == "" {
			return
		}
		if prev, ok := table[name]; ok && prev != pkg {
			collisions = append(collisions, Collision{Name: name, PreviousFile: prev, NewFile: pkg})
		}
		table[name] = pkg
	}
	var walk func(n *astnode.Node)
	walk = func(n *astnode.Node) {
		switch n.Kind {
		case astnode.Class, astnode.Struct, astnode.Interface:
			record(n.Name, n.Package)
		}
		for _, d := range n.Decl {
			switch d.DeclType {
			case astnode.TypedefDecl, astnode.UsingDecl, astnode.EnumDecl:
				record(d.TypeName, d.Package)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return table, collisions
}

func (c Collision) String() string {
	return fmt.Sprintf("type %q redefined: %s overwrites %s", c.Name, c.NewFile, c.PreviousFile)
}
