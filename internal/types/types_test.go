package types

import (
	"testing"

	"github.com/adrisola/typedep/internal/astnode"
)

func TestBuildIndexesClassesStructsInterfaces(t *testing.T) {
	root := astnode.NewRoot()
	root.AddChild(&astnode.Node{Name: "Widget", Kind: astnode.Class, Package: "A.h"})
	root.AddChild(&astnode.Node{Name: "Point", Kind: astnode.Struct, Package: "A.h"})
	root.AddChild(&astnode.Node{Name: "IWidget", Kind: astnode.Interface, Package: "A.h"})
	root.AddChild(&astnode.Node{Name: "doWork", Kind: astnode.Function, Package: "A.h"})

	table, collisions := Build(root)

	if len(collisions) != 0 {
		t.Errorf("expected no collisions, got %v", collisions)
	}
	for _, name := range []string{"Widget", "Point", "IWidget"} {
		if table[name] != "A.h" {
			t.Errorf("table[%q] = %q, want A.h", name, table[name])
		}
	}
	if _, ok := table["doWork"]; ok {
		t.Error("functions should not appear in the type table")
	}
}

func TestBuildRecordsCollisionOnRedefinitionAcrossFiles(t *testing.T) {
	root := astnode.NewRoot()
	root.AddChild(&astnode.Node{Name: "Widget", Kind: astnode.Class, Package: "A.h"})
	root.AddChild(&astnode.Node{Name: "Widget", Kind: astnode.Class, Package: "B.h"})

	table, collisions := Build(root)

	if len(collisions) != 1 || collisions[0].Name != "Widget" {
		t.Fatalf("expected one collision for Widget, got %v", collisions)
	}
	if table["Widget"] != "B.h" {
		t.Errorf("last writer should win, got %q", table["Widget"])
	}
}

func TestBuildNestedClassesAreIndexedToo(t *testing.T) {
	root := astnode.NewRoot()
	outer := &astnode.Node{Name: "Outer", Kind: astnode.Class, Package: "A.h"}
	outer.AddChild(&astnode.Node{Name: "Inner", Kind: astnode.Class, Package: "A.h"})
	root.AddChild(outer)

	table, _ := Build(root)
	if table["Inner"] != "A.h" {
		t.Errorf("expected nested class Inner to be indexed, got %q", table["Inner"])
	}
}

func TestBuildIndexesTypedefUsingAndEnumDeclarations(t *testing.T) {
	root := astnode.NewRoot()
	root.AddDeclaration(astnode.Declaration{Package: "A.h", DeclType: astnode.TypedefDecl, TypeName: "ulong"})
	root.AddDeclaration(astnode.Declaration{Package: "A.h", DeclType: astnode.UsingDecl, TypeName: "Handle"})
	root.AddDeclaration(astnode.Declaration{Package: "A.h", DeclType: astnode.EnumDecl, TypeName: "Color"})
	root.AddDeclaration(astnode.Declaration{Package: "A.h", DeclType: astnode.DataDecl, Raw: []string{"int", "x", ";"}})

	table, collisions := Build(root)

	if len(collisions) != 0 {
		t.Errorf("expected no collisions, got %v", collisions)
	}
	for _, name := range []string{"ulong", "Handle", "Color"} {
		if table[name] != "A.h" {
			t.Errorf("table[%q] = %q, want A.h", name, table[name])
		}
	}
	if len(table) != 3 {
		t.Errorf("expected only the 3 typedef/using/enum names indexed, got %v", table)
	}
}
