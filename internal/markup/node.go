// Package markup is a small XML tree used while splitting source documents.
//
// Trees are treated as values: transforms return new nodes and never modify
// their input. Element and attribute names keep the prefix as written in the
// source ("xml:id"), since documents are re-serialized rather than
// interpreted.
package markup

import "strings"

// Kind distinguishes node types.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
)

// Attr is one attribute as written in the source.
type Attr struct {
	Name  string
	Value string
}

// Node is an element, a run of character data or a comment.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    []Attr
	Data     string
	Children []*Node
}

// NewElement builds an element node.
func NewElement(name string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Name: name, Attrs: attrs, Children: children}
}

// NewText builds a character data node.
func NewText(data string) *Node {
	return &Node{Kind: TextNode, Data: data}
}

// NewComment builds a comment node.
func NewComment(data string) *Node {
	return &Node{Kind: CommentNode, Data: data}
}

// IsElement reports whether n is an element called name.
func (n *Node) IsElement(name string) bool {
	return n != nil && n.Kind == ElementNode && n.Name == name
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Name: n.Name, Data: n.Data}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// WithChildren returns a shallow copy of n holding children instead of its
// own.
func (n *Node) WithChildren(children []*Node) *Node {
	out := *n
	out.Children = children
	return &out
}

// Renamed returns a shallow copy of n with a different name.
func (n *Node) Renamed(name string) *Node {
	out := *n
	out.Name = name
	return &out
}

// TextContent concatenates the character data of n and its descendants.
// Comments contribute their own text only when n is itself a comment.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case TextNode, CommentNode:
		return n.Data
	}
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	for _, child := range n.Children {
		switch child.Kind {
		case TextNode:
			b.WriteString(child.Data)
		case ElementNode:
			child.appendText(b)
		}
	}
}

// Document is a parsed source file.
type Document struct {
	// Prolog holds the declaration, doctype and comments before the root, verbatim.
	Prolog string
	Root   *Node
}
