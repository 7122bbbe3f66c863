package property

import "weak"

// TreeNode wraps one payload with an optional labelled group of children.
//
// A parent owns its children; a child refers back to its parent through a weak pointer
// that does not keep the parent alive. A node must never become its own descendant.
type TreeNode[T any] struct {
	node          T
	childNodeName string
	children      []*TreeNode[T]
	parent        weak.Pointer[TreeNode[T]]
}

// Composite is a tree of properties.
type Composite = TreeNode[Property]

// Root creates a parentless leaf.
func Root[T any](node T) *TreeNode[T] {
	return &TreeNode[T]{node: node}
}

// Create creates a parentless node owning children under label.
func Create[T any](node T, label string, children ...*TreeNode[T]) *TreeNode[T] {
	n := Root(node)
	n.SetChildren(label, children...)
	return n
}

// NewComposite creates a root composite for p.
func NewComposite(p Property) *Composite {
	return Root(p)
}

// NewCompositeGroup creates a composite for p owning children under label.
func NewCompositeGroup(p Property, label string, children ...*Composite) *Composite {
	return Create(p, label, children...)
}

// SetChildren replaces the label and the children together. Every child is re-parented
// to n, even when it already belonged to another node; its previous parent keeps listing
// it until that parent's own children are replaced.
func (n *TreeNode[T]) SetChildren(label string, children ...*TreeNode[T]) *TreeNode[T] {
	n.childNodeName = label
	if len(children) == 0 {
		n.children = nil
		return n
	}
	n.children = make([]*TreeNode[T], 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = weak.Make(n)
		n.children = append(n.children, c)
	}
	return n
}

// Node returns the payload.
func (n *TreeNode[T]) Node() T { return n.node }

// ChildNodeName returns the label of the child group.
func (n *TreeNode[T]) ChildNodeName() string { return n.childNodeName }

// Children returns the children in order.
func (n *TreeNode[T]) Children() []*TreeNode[T] {
	return append([]*TreeNode[T](nil), n.children...)
}

// Parent returns the parent, or nil for a root or a node whose parent is gone.
func (n *TreeNode[T]) Parent() *TreeNode[T] {
	return n.parent.Value()
}

// IsRoot reports whether n has no live parent.
func (n *TreeNode[T]) IsRoot() bool { return n.Parent() == nil }

// IsLeaf reports whether n has no children.
func (n *TreeNode[T]) IsLeaf() bool { return len(n.children) == 0 }

// Walk visits n and its descendants depth first, parents before children. Returning
// false from fn skips the children of that node. A node reached twice is not visited
// again.
func (n *TreeNode[T]) Walk(fn func(node *TreeNode[T], depth int) bool) {
	seen := make(map[*TreeNode[T]]struct{})
	var walk func(*TreeNode[T], int)
	walk = func(c *TreeNode[T], depth int) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		if !fn(c, depth) {
			return
		}
		for _, child := range c.children {
			walk(child, depth+1)
		}
	}
	walk(n, 0)
}

// Validate validates every property of the tree. A violation is reported against the
// slash separated path of the failing property; see Support.
func Validate(root *Composite) error {
	var errs []error
	root.Walk(func(node *Composite, _ int) bool {
		p := node.Node()
		if p == nil {
			return true
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, &PathError{Path: PathOf(node), Err: err})
		}
		return true
	})
	return joinErrors(errs)
}
