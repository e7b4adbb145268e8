package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Parse reads a complete XML document. Namespace prefixes are kept as part of
// names and not resolved.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	doc := &Document{}
	var prolog bytes.Buffer
	var stack []*Node

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Kind: ElementNode, Name: qualified(t.Name)}
			for _, attr := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: qualified(attr.Name), Value: attr.Value})
			}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			case doc.Root != nil:
				return nil, fmt.Errorf("parse xml: second root element <%s> at offset %d", node.Name, dec.InputOffset())
			default:
				doc.Root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unexpected </%s> at offset %d", name, dec.InputOffset())
			}
			open := stack[len(stack)-1]
			if open.Name != name {
				return nil, fmt.Errorf("parse xml: element <%s> closed by </%s> at offset %d", open.Name, name, dec.InputOffset())
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if doc.Root == nil {
					prolog.Write(t)
				}
				continue
			}
			parent := stack[len(stack)-1]
			if last := lastChild(parent); last != nil && last.Kind == TextNode {
				last.Data += string(t)
				continue
			}
			parent.Children = append(parent.Children, NewText(string(t)))
		case xml.Comment:
			if len(stack) == 0 {
				if doc.Root == nil {
					prolog.WriteString("<!--" + string(t) + "-->")
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, NewComment(string(t)))
		case xml.ProcInst:
			if doc.Root == nil && len(stack) == 0 {
				prolog.WriteString("<?" + t.Target)
				if len(t.Inst) > 0 {
					prolog.WriteString(" " + string(t.Inst))
				}
				prolog.WriteString("?>")
			}
		case xml.Directive:
			if doc.Root == nil {
				prolog.WriteString("<!" + string(t) + ">")
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parse xml: element <%s> not closed", stack[len(stack)-1].Name)
	}
	if doc.Root == nil {
		return nil, errors.New("parse xml: no root element")
	}
	doc.Prolog = prolog.String()
	return doc, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func lastChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}
