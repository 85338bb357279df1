package sqltree

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Tree struct {
	inner  *sitter.Tree
	source []byte
}

func (t *Tree) RootNode() *Node {
	return &Node{inner: t.inner.RootNode(), source: t.source}
}

func (t *Tree) Source() []byte {
	return t.source
}

func (t *Tree) Close() {
	t.inner.Close()
}

// FirstError returns the shallowest ERROR or MISSING node in the tree, or
// nil when the parse was clean. Used to build parse diagnostics.
func (t *Tree) FirstError() *Node {
	root := t.RootNode()
	if !root.HasError() {
		return nil
	}
	return findErrorNode(root)
}

func findErrorNode(n *Node) *Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := findErrorNode(child); found != nil {
			return found
		}
	}
	// HasError with no ERROR descendant means the node itself is the problem.
	return n
}

type Node struct {
	inner  *sitter.Node
	source []byte
}

func (n *Node) Kind() string {
	return n.inner.Kind()
}

func (n *Node) StartByte() uint {
	return n.inner.StartByte()
}

func (n *Node) EndByte() uint {
	return n.inner.EndByte()
}

func (n *Node) StartPosition() Point {
	p := n.inner.StartPosition()
	return Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}

func (n *Node) ChildCount() uint {
	return uint(n.inner.ChildCount())
}

func (n *Node) Child(index uint) *Node {
	child := n.inner.Child(index)
	if child == nil {
		return nil
	}
	return &Node{inner: child, source: n.source}
}

func (n *Node) NamedChildCount() uint {
	return uint(n.inner.NamedChildCount())
}

func (n *Node) NamedChild(index uint) *Node {
	child := n.inner.NamedChild(index)
	if child == nil {
		return nil
	}
	return &Node{inner: child, source: n.source}
}

func (n *Node) ChildByFieldName(name string) *Node {
	child := n.inner.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return &Node{inner: child, source: n.source}
}

func (n *Node) Parent() *Node {
	parent := n.inner.Parent()
	if parent == nil {
		return nil
	}
	return &Node{inner: parent, source: n.source}
}

func (n *Node) IsNamed() bool {
	return n.inner.IsNamed()
}

func (n *Node) IsError() bool {
	return n.inner.IsError()
}

func (n *Node) IsMissing() bool {
	return n.inner.IsMissing()
}

func (n *Node) HasError() bool {
	return n.inner.HasError()
}

// Content returns the verbatim source text the node spans.
func (n *Node) Content() string {
	start := n.StartByte()
	end := n.EndByte()
	if end > uint(len(n.source)) {
		end = uint(len(n.source))
	}
	if start >= end {
		return ""
	}
	return string(n.source[start:end])
}

func (n *Node) String() string {
	return n.inner.ToSexp()
}

type Point struct {
	Row    uint32
	Column uint32
}
