package astnode

import "testing"

func TestNewRootIsGlobalNamespace(t *testing.T) {
	root := NewRoot()
	if root.Name != "Global Namespace" {
		t.Errorf("root.Name = %q", root.Name)
	}
	if root.Kind != Namespace {
		t.Errorf("root.Kind = %q", root.Kind)
	}
	if len(root.Children) != 0 {
		t.Errorf("fresh root should have no children")
	}
}

func TestAddChildAppendsWithoutBackPointer(t *testing.T) {
	root := NewRoot()
	child := &Node{Name: "A", Kind: Class}
	root.AddChild(child)

	if len(root.Children) != 1 || root.Children[0] != child {
		t.Fatalf("child not appended correctly")
	}
}

func TestSizeInclusive(t *testing.T) {
	n := &Node{StartLine: 10, EndLine: 12}
	if got := n.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}

func TestSizeNeverNegative(t *testing.T) {
	n := &Node{StartLine: 10, EndLine: 5}
	if got := n.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}

func TestCountsTowardMetrics(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Namespace, true},
		{Class, true},
		{Struct, true},
		{Interface, true},
		{Function, true},
		{Lambda, true},
		{Control, false},
		{Anonymous, false},
	}
	for _, c := range cases {
		n := &Node{Kind: c.kind}
		if got := n.CountsTowardMetrics(); got != c.want {
			t.Errorf("CountsTowardMetrics(%s) = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestShowFormatsSummary(t *testing.T) {
	n := &Node{Name: "f", Kind: Function, StartLine: 5, EndLine: 9, Complexity: 3}
	got := n.Show()
	want := "(function) f [5-9] complexity=3"
	if got != want {
		t.Errorf("Show() = %q, want %q", got, want)
	}
}
