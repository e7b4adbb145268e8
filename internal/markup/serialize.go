package markup

import (
	"bytes"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)

// Write serializes n. Elements without children are written in the
// self-closing form and no declaration is emitted.
func Write(w io.Writer, n *Node) error {
	var buf bytes.Buffer
	writeNode(&buf, n)
	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes serializes n into a new slice.
func Bytes(n *Node) []byte {
	var buf bytes.Buffer
	writeNode(&buf, n)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case TextNode:
		buf.WriteString(textEscaper.Replace(n.Data))
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")
	case ElementNode:
		buf.WriteByte('<')
		buf.WriteString(n.Name)
		for _, attr := range n.Attrs {
			buf.WriteByte(' ')
			buf.WriteString(attr.Name)
			buf.WriteString(`="`)
			buf.WriteString(attrEscaper.Replace(attr.Value))
			buf.WriteByte('"')
		}
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, child := range n.Children {
			writeNode(buf, child)
		}
		buf.WriteString("</")
		buf.WriteString(n.Name)
		buf.WriteByte('>')
	}
}
