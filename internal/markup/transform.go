package markup

import "strings"

// ConvertNotes rewrites editorial notes into TEI form and returns the new
// tree. A div of type "mjsnote" becomes <note resp="MJS"> holding the
// contents of its first p child, and floatingText elements become div.
// A mjsnote without a p child is kept as is. The input is not modified.
func ConvertNotes(n *Node) *Node {
	if n == nil || n.Kind != ElementNode {
		return n
	}
	switch n.Name {
	case "div":
		if kind, ok := n.Attr("type"); ok && strings.EqualFold(kind, "mjsnote") {
			for _, child := range n.Children {
				if child.IsElement("p") {
					return NewElement("note", []Attr{{Name: "resp", Value: "MJS"}}, cloneAll(child.Children)...)
				}
			}
			return n
		}
	case "floatingText":
		n = n.Renamed("div")
	}

	var children []*Node
	for i, child := range n.Children {
		converted := ConvertNotes(child)
		if converted != child && children == nil {
			children = make([]*Node, len(n.Children))
			copy(children, n.Children[:i])
		}
		if children != nil {
			children[i] = converted
		}
	}
	if children == nil {
		return n
	}
	return n.WithChildren(children)
}

func cloneAll(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, node := range nodes {
		out[i] = node.Clone()
	}
	return out
}
