package starfield

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter; nodes are only touched from the game goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is an element of the retained display tree the field mounts into.
// Containers group children; sprites draw a custom image. Positions are in
// logical pixels relative to the parent.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation and skew are not needed by anything that
	// mounts here.
	X, Y           float64
	ScaleX, ScaleY float64
	PivotX, PivotY float64

	Alpha   float64
	Visible bool

	// OnUpdate is called once per tick with the elapsed seconds.
	OnUpdate func(dt float64)

	image    *ebiten.Image
	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Visible = true
}

// NewContainer creates a node with no visual output.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewSprite creates a node that draws img with its top-left corner at the
// node position minus the pivot.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, image: img}
	nodeDefaults(n)
	return n
}

// Image returns the sprite image, or nil for containers.
func (n *Node) Image() *ebiten.Image {
	return n.image
}

// SetImage replaces the sprite image.
func (n *Node) SetImage(img *ebiten.Image) {
	n.image = img
}

// SetPosition sets the local position.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("starfield: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("starfield: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("starfield: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Sprite images are deallocated.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.OnUpdate = nil
	if n.image != nil {
		n.image.Deallocate()
		n.image = nil
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// updateNodes runs OnUpdate callbacks depth-first.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		updateNodes(child, dt)
	}
}

// drawNode paints n and its descendants onto dst. parent is the accumulated
// transform of n's parent.
func drawNode(dst *ebiten.Image, n *Node, parent ebiten.GeoM, parentAlpha float64) {
	if !n.Visible {
		return
	}
	var geo ebiten.GeoM
	geo.Translate(-n.PivotX, -n.PivotY)
	geo.Scale(n.ScaleX, n.ScaleY)
	geo.Translate(n.X, n.Y)
	geo.Concat(parent)
	alpha := parentAlpha * n.Alpha

	if n.image != nil && alpha > 0 {
		op := &ebiten.DrawImageOptions{}
		op.GeoM = geo
		op.ColorScale.ScaleAlpha(float32(alpha))
		dst.DrawImage(n.image, op)
	}
	for _, child := range n.children {
		drawNode(dst, child, geo, alpha)
	}
}
