package position

import "github.com/jmylchreest/popover/internal/geom"

// Node is a concrete, mutable layout node. Nesting nodes with Append builds
// the offset-parent chain.
type Node struct {
	ID string

	// Offset is the border box relative to the offset parent.
	Offset geom.Rect
	// Border holds the left/top border widths (clientLeft/clientTop).
	Border geom.Point
	// Scroll is the node's own scroll offset.
	Scroll geom.Point
	// Root marks the document body.
	Root bool

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with the given offset box.
func NewNode(id string, offset geom.Rect) *Node {
	return &Node{ID: id, Offset: offset}
}

// Append attaches child under n and returns the child.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Detach removes n from its parent. Detached nodes resolve as the top of
// their own chain.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	n.parent.remove(n)
	n.parent = nil
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children in insertion order.
func (n *Node) Children() []*Node { return n.children }

// Find returns the first node in the subtree (including n) with the given id.
func (n *Node) Find(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) OffsetLeft() float64   { return n.Offset.X }
func (n *Node) OffsetTop() float64    { return n.Offset.Y }
func (n *Node) OffsetWidth() float64  { return n.Offset.Width }
func (n *Node) OffsetHeight() float64 { return n.Offset.Height }
func (n *Node) ClientLeft() float64   { return n.Border.X }
func (n *Node) ClientTop() float64    { return n.Border.Y }
func (n *Node) ScrollLeft() float64   { return n.Scroll.X }
func (n *Node) ScrollTop() float64    { return n.Scroll.Y }
func (n *Node) IsDocumentRoot() bool  { return n.Root }

// OffsetParent implements Element.
func (n *Node) OffsetParent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Document owns the root node and the page scroll offsets.
type Document struct {
	Body   *Node
	Scroll geom.Point
}

// NewDocument creates a document with a body node marked as root.
func NewDocument(width, height float64) *Document {
	body := NewNode("body", geom.Rect{Width: width, Height: height})
	body.Root = true
	return &Document{Body: body}
}

// ScrollTo sets the page scroll offsets.
func (d *Document) ScrollTo(x, y float64) {
	d.Scroll = geom.Point{X: x, Y: y}
}

// ScrollLeft implements Viewport. A nil document reports zero.
func (d *Document) ScrollLeft() float64 {
	if d == nil {
		return 0
	}
	return d.Scroll.X
}

// ScrollTop implements Viewport. A nil document reports zero.
func (d *Document) ScrollTop() float64 {
	if d == nil {
		return 0
	}
	return d.Scroll.Y
}

// Resolve resolves el against this document's scroll offsets.
func (d *Document) Resolve(el Element) geom.Rect {
	return Resolve(el, d)
}

// Find looks up a node by id under the body.
func (d *Document) Find(id string) *Node {
	if d.Body == nil {
		return nil
	}
	return d.Body.Find(id)
}
