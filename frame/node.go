package frame

import (
	"encoding/xml"
	"strings"

	"github.com/antchfx/xmlquery"
)

// NS is the EPP base namespace carried by the root element of every
// frame.
const NS = "urn:ietf:params:xml:ns:epp-1.0"

// Element returns a new element node with the given local name.
func Element(local string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: local}
}

// TextElement returns a new element node with the given local name
// containing a single text child.
func TextElement(local, text string) *xmlquery.Node {
	n := Element(local)
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	return n
}

// Clone returns a deep copy of n, detached from any tree.  Response
// construction imports handler-supplied elements by cloning so the
// handler's document is never spliced into an engine-owned frame.
func Clone(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	out := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]xmlquery.Attr, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		xmlquery.AddChild(out, Clone(c))
	}
	return out
}

// Marshal serializes the frame rooted at n to its wire payload.
func Marshal(n *xmlquery.Node) []byte { return []byte(n.OutputXML(true)) }

// Root returns the root element of a parsed or constructed frame,
// accepting either the document node or the root element itself.
func Root(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	if n.Type == xmlquery.DocumentNode {
		return firstElement(n)
	}
	return n
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func elements(n *xmlquery.Node) (out []*xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func childElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

func xmlName(local string, spaces ...string) xml.Name {
	n := xml.Name{Local: local}
	if len(spaces) > 0 {
		n.Space = spaces[0]
	}
	return n
}

func text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
