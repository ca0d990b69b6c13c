package schema

import (
	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"

	"github.com/provreg/epp/frame"
)

// Validator checks a parsed frame against a schema.
type Validator interface {
	// Validate returns nil when doc conforms.
	Validate(doc *xmlquery.Node) error
}

// Func adapts a function to the Validator interface.
type Func func(doc *xmlquery.Node) error

// Validate implements Validator.
func (f Func) Validate(doc *xmlquery.Node) error { return f(doc) }

// Structural validates the EPP base document shape: an <epp> root in
// the EPP namespace carrying exactly one element child.
type Structural struct{}

// Validate implements Validator.
func (Structural) Validate(doc *xmlquery.Node) error {
	root := frame.Root(doc)
	if root == nil {
		return errors.New("document has no root element")
	}
	if root.Data != "epp" || root.NamespaceURI != frame.NS {
		return errors.Errorf("root element is {%s}%s, not {%s}epp", root.NamespaceURI, root.Data, frame.NS)
	}
	var n int
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			n++
		}
	}
	if n != 1 {
		return errors.Errorf("<epp> carries %d element children, want 1", n)
	}
	return nil
}
