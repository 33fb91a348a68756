package starfield

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test")
	if n.Image() != nil {
		t.Error("container should have no image")
	}
}

func TestNewSpriteDefaults(t *testing.T) {
	img := ebiten.NewImage(4, 4)
	n := NewSprite("spr", img)
	assertNodeDefaults(t, n, "spr")
	if n.Image() != img {
		t.Error("Image() should return the sprite image")
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if n.Parent != nil || n.NumChildren() != 0 {
		t.Error("new node should be detached and childless")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewSprite("c", nil)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", parent.NumChildren())
	}
	if parent.Children()[0] != child {
		t.Error("Children()[0] should be child")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 {
		t.Error("p2 should have 1 child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewContainer("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	grandchild.AddChild(parent)
}

func TestAddChildSelfPanic(t *testing.T) {
	n := NewContainer("self")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for self-add, got none")
		}
	}()
	n.AddChild(n)
}

func TestAddChildNilPanic(t *testing.T) {
	n := NewContainer("n")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	n.AddChild(nil)
}

// --- RemoveChild ---

func TestRemoveChild(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewContainer("c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)
	parent.RemoveChild(b)

	if parent.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", parent.NumChildren())
	}
	if parent.Children()[0] != a || parent.Children()[1] != c {
		t.Error("remaining children should keep their order")
	}
	if b.Parent != nil {
		t.Error("b.Parent should be nil")
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for wrong parent, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := NewContainer("orphan")
	n.RemoveFromParent()
	if n.Parent != nil {
		t.Error("Parent should remain nil")
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Error("parent should have 0 children")
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("detached children should have nil Parent")
	}
	if a.IsDisposed() || b.IsDisposed() {
		t.Error("RemoveChildren should not dispose")
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewSprite("child", ebiten.NewImage(2, 2))
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Dispose()

	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("parent and child should be disposed")
	}
	if parent.ID != 0 || child.ID != 0 {
		t.Error("disposed nodes should have ID = 0")
	}
	if child.Image() != nil {
		t.Error("disposed sprite should drop its image")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have 0 children after dispose")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewContainer("n")
	n.Dispose()
	n.Dispose()
	if !n.IsDisposed() {
		t.Error("should still be disposed")
	}
}

// --- Update ---

func TestUpdateNodesDepthFirst(t *testing.T) {
	var order []string
	mk := func(name string) *Node {
		n := NewContainer(name)
		n.OnUpdate = func(dt float64) {
			if dt != 0.5 {
				t.Errorf("%s: dt = %v, want 0.5", name, dt)
			}
			order = append(order, name)
		}
		return n
	}
	root := mk("root")
	a := mk("a")
	root.AddChild(a)
	a.AddChild(mk("a1"))
	root.AddChild(mk("b"))

	updateNodes(root, 0.5)

	want := []string{"root", "a", "a1", "b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
