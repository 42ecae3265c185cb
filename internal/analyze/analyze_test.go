package analyze

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunResolvesCrossFileDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Widget.h", `
class Widget {
public:
	void spin();
};
`)
	writeFile(t, dir, "Gadget.cpp", `
#include "Widget.h"
void Gadget::assemble() {
	Widget w;
	w.spin();
}
`)

	res, err := Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.TypeTable["Widget"] != "Widget.h" {
		t.Errorf("TypeTable[Widget] = %q, want Widget.h", res.TypeTable["Widget"])
	}

	found := false
	for _, e := range res.Edges {
		if e.Source == "Gadget.cpp" && e.Target == "Widget.h" {
			found = true
			for _, ty := range e.Types {
				if ty != "Widget" {
					t.Errorf("unexpected type %q on edge", ty)
				}
			}
		}
	}
	if !found {
		t.Errorf("expected edge Gadget.cpp -> Widget.h, got %+v", res.Edges)
	}
}

func TestRunPopulatesMetricRowsWithComplexity(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.h", `
class A {
	void f() {
		if (true) {
		}
	}
};
`)

	res, err := Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.MetricRows) == 0 {
		t.Fatal("expected at least one metric row")
	}
	for _, row := range res.MetricRows {
		if row.Node.Complexity == 0 {
			t.Errorf("row %q has zero complexity, want Complexity to have run", row.Node.Name)
		}
	}
}

func TestRunMissingRootIsPathError(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestRunWithProgressInvokesCallbackPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.h", "class A {\n};\n")
	writeFile(t, dir, "B.cpp", "void f() {}\n")

	var seen []string
	_, err := Run(dir, WithProgress(func(path string) { seen = append(seen, path) }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected progress callback for 2 files, got %v", seen)
	}
}

func TestRunRecordsCollisionAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.h", "class Shape {\n};\n")
	writeFile(t, dir, "B.h", "class Shape {\n};\n")

	res, err := Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Collisions) != 1 || res.Collisions[0].Name != "Shape" {
		t.Fatalf("expected one Shape collision, got %+v", res.Collisions)
	}
}
