package property

import (
	"errors"
	"fmt"
	"strings"
	"weak"
)

// PathSeparator separates property names in a path.
const PathSeparator = "/"

// DefaultChildNodeName labels child groups created by Support.AddProperty.
const DefaultChildNodeName = "children"

var (
	// ErrPropertyNotFound is returned when a path does not resolve.
	ErrPropertyNotFound = errors.New("property: not found")

	// ErrDuplicateProperty is returned when a sibling already uses the name.
	ErrDuplicateProperty = errors.New("property: duplicate name")
)

// PathError attaches the path of a property to an error.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap returns the validation error.
func (e *PathError) Unwrap() error { return e.Err }

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}

// Support layers path lookup over a composite tree. A path lists property names from
// the root down, joined by PathSeparator; the root name is its first element.
type Support struct {
	root *Composite
}

// NewSupport wraps root.
func NewSupport(root *Composite) *Support {
	return &Support{root: root}
}

// Root returns the wrapped tree.
func (s *Support) Root() *Composite { return s.root }

// Find returns the node at path.
func (s *Support) Find(path string) (*Composite, error) {
	names := splitPath(path)
	if len(names) == 0 || s.root == nil || nameOf(s.root) != names[0] {
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, path)
	}
	node := s.root
	for _, name := range names[1:] {
		node = childNamed(node, name)
		if node == nil {
			return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, path)
		}
	}
	return node, nil
}

// FindProperty returns the property at path.
func (s *Support) FindProperty(path string) (Property, bool) {
	node, err := s.Find(path)
	if err != nil {
		return nil, false
	}
	return node.Node(), true
}

// AddProperty appends p as a child of the node at parentPath and returns the new node.
// A parent without children gets the DefaultChildNodeName label.
func (s *Support) AddProperty(parentPath string, p Property) (*Composite, error) {
	parent, err := s.Find(parentPath)
	if err != nil {
		return nil, err
	}
	if childNamed(parent, p.Name()) != nil {
		return nil, fmt.Errorf("%w: %q under %q", ErrDuplicateProperty, p.Name(), parentPath)
	}
	label := parent.ChildNodeName()
	if label == "" {
		label = DefaultChildNodeName
	}
	child := NewComposite(p)
	parent.SetChildren(label, append(parent.Children(), child)...)
	return child, nil
}

// RemoveProperty detaches the node at path from its parent. The root cannot be removed.
func (s *Support) RemoveProperty(path string) error {
	node, err := s.Find(path)
	if err != nil {
		return err
	}
	parent := node.Parent()
	if parent == nil {
		return fmt.Errorf("property: cannot remove root %q", path)
	}
	kept := make([]*Composite, 0, len(parent.children))
	for _, c := range parent.children {
		if c != node {
			kept = append(kept, c)
		}
	}
	parent.SetChildren(parent.ChildNodeName(), kept...)
	node.parent = weak.Pointer[Composite]{}
	return nil
}

// PathOf returns the path of node from its root.
func PathOf(node *Composite) string {
	var names []string
	for n := node; n != nil; n = n.Parent() {
		names = append(names, nameOf(n))
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator)
}

func splitPath(path string) []string {
	var names []string
	for _, n := range strings.Split(strings.Trim(path, PathSeparator), PathSeparator) {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

func nameOf(n *Composite) string {
	if p := n.Node(); p != nil {
		return p.Name()
	}
	return ""
}

func childNamed(n *Composite, name string) *Composite {
	for _, c := range n.children {
		if nameOf(c) == name {
			return c
		}
	}
	return nil
}
