package dom

import (
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota // <div>, <input>, etc.
	TextNode                    // Plain text
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Attribute is a single name/value attribute.
type Attribute struct {
	Key   string
	Value string
}

// Node is a live element or text node.
type Node struct {
	Type NodeType
	Tag  string // lowercase tag name, elements only

	text     string
	attrs    []Attribute
	children []*Node
	parent   *Node

	// Live form-control properties. Until set they fall back to the
	// corresponding attributes.
	value      string
	valueSet   bool
	checked    bool
	checkedSet bool

	observers []*Observer
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...Attribute) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
	for _, a := range attrs {
		n.setAttr(a.Key, a.Value)
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, text: text}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Parent returns the parent node, or nil if detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the i-th child, or nil if out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Index returns the position of n within its parent, or -1 if detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Attributes

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// GetAttr returns the value of the named attribute, or "".
func (n *Node) GetAttr(key string) string {
	v, _ := n.Attr(key)
	return v
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// Attributes returns a copy of the attributes in document order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetAttr sets an attribute, keeping its position if it already exists.
func (n *Node) SetAttr(key, value string) {
	key = strings.ToLower(key)
	if old, ok := n.Attr(key); ok && old == value {
		return
	}
	n.setAttr(key, value)
	n.notify(Mutation{Op: OpSetAttr, Target: n, Key: key, Value: value})
}

func (n *Node) setAttr(key, value string) {
	key = strings.ToLower(key)
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Value: value})
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(key string) {
	key = strings.ToLower(key)
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i:i], n.attrs[i+1:]...)
			n.notify(Mutation{Op: OpRemoveAttr, Target: n, Key: key})
			return
		}
	}
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.GetAttr("id")
}

// ClassList returns the whitespace-separated classes.
func (n *Node) ClassList() []string {
	return strings.Fields(n.GetAttr("class"))
}

// HasClass reports whether the class attribute contains class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.ClassList() {
		if c == class {
			return true
		}
	}
	return false
}

// Tree mutation

// AppendChild appends child as the last child of n. A child that already
// has a parent is moved.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child == nil || child == ref {
		return child
	}
	if child.Contains(n) {
		// Inserting an ancestor into its own subtree would create a cycle.
		return child
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	idx := len(n.children)
	if ref != nil {
		if i := ref.Index(); ref.parent == n && i >= 0 {
			idx = i
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	n.notify(Mutation{Op: OpInsertNode, Target: n, Node: child, Index: idx})
	return child
}

// RemoveChild detaches child from n. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			n.notify(Mutation{Op: OpRemoveNode, Target: n, Node: child, Index: i})
			return true
		}
	}
	return false
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren removes all children and appends the given nodes.
func (n *Node) ReplaceChildren(children ...*Node) {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}

// Text

// Text returns the data of a text node.
func (n *Node) Text() string {
	return n.text
}

// SetText replaces the data of a text node.
func (n *Node) SetText(text string) {
	if n.Type != TextNode || n.text == text {
		return
	}
	n.text = text
	n.notify(Mutation{Op: OpSetText, Target: n, Value: text})
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.text
	}
	var b strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			b.WriteString(d.text)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode {
		n.SetText(text)
		return
	}
	if len(n.children) == 1 && n.children[0].Type == TextNode {
		n.children[0].SetText(text)
		return
	}
	if text == "" {
		n.ReplaceChildren()
		return
	}
	n.ReplaceChildren(NewText(text))
}

// Traversal

// Walk visits the descendants of n in document order. Returning false from
// fn skips the subtree of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Clone returns a detached deep copy of n including live properties.
// Observers are not copied.
func (n *Node) Clone() *Node {
	c := &Node{
		Type:       n.Type,
		Tag:        n.Tag,
		text:       n.text,
		value:      n.value,
		valueSet:   n.valueSet,
		checked:    n.checked,
		checkedSet: n.checkedSet,
	}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attribute, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			cc := child.Clone()
			cc.parent = c
			c.children[i] = cc
		}
	}
	return c
}
