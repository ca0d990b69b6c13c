package frame

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Parse parses an inbound frame payload into a document tree.
//
// Whitespace-only text nodes are dropped and CDATA sections are
// materialized as ordinary text, so descriptor extraction can walk
// element children without tripping over indentation.
func Parse(payload []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "parsing frame")
	}
	normalize(doc)
	return doc, nil
}

func normalize(n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case xmlquery.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				xmlquery.RemoveFromTree(c)
			}
		case xmlquery.CharDataNode:
			c.Type = xmlquery.TextNode
		default:
			normalize(c)
		}
		c = next
	}
}

// Command names carrying an object payload whose namespace must lie in
// the session's negotiated object repertoire.
var objectCommands = map[string]bool{
	"check":    true,
	"info":     true,
	"create":   true,
	"delete":   true,
	"renew":    true,
	"transfer": true,
	"update":   true,
}

// IsObjectCommand reports whether name is a command that carries an
// object payload.
func IsObjectCommand(name string) bool { return objectCommands[name] }

// Command describes one inbound command frame.
type Command struct {
	// Name is the local name of the command verb element, or the
	// literal "other" for an extension-only frame.
	Name string
	// ClTRID is the client transaction identifier, empty when absent.
	ClTRID string
	// ObjectURI is the namespace URI of the innermost object element.
	// Set for object commands only.
	ObjectURI string
	// ExtensionURIs holds the namespace URIs of the direct children of
	// the command's <extension> element.
	ExtensionURIs []string
}

var (
	xpRoot = xpath.MustCompile(`/epp[namespace-uri()='` + NS + `']`)
)

// IsHello reports whether the frame's first element child is <hello>.
func IsHello(doc *xmlquery.Node) bool {
	root := xmlquery.QuerySelector(doc, xpRoot)
	if root == nil {
		return false
	}
	fc := firstElement(root)
	return fc != nil && fc.Data == "hello" && fc.NamespaceURI == NS
}

// ErrStructure indicates a well-formed frame that is not an EPP
// command: the root is not <epp>, or its first child is not one of the
// elements a server accepts.
type ErrStructure struct{ Reason string }

func (e ErrStructure) Error() string { return e.Reason }

// Describe extracts the command descriptor from a parsed frame.
//
// It returns ErrStructure when the frame's first element child is
// neither <command> nor <extension>; <hello> frames never reach this
// path (see IsHello).
func Describe(doc *xmlquery.Node) (*Command, error) {
	root := xmlquery.QuerySelector(doc, xpRoot)
	if root == nil {
		return nil, ErrStructure{Reason: "Root element is not <epp>."}
	}
	top := firstElement(root)
	if top == nil || top.Data != "command" && top.Data != "extension" {
		return nil, ErrStructure{Reason: "First child element of <epp> is not <command> or <extension>."}
	}
	if top.Data == "extension" {
		return &Command{Name: "other"}, nil
	}

	cmd := &Command{ClTRID: text(childElement(top, "clTRID"))}
	var verb *xmlquery.Node
	for _, c := range elements(top) {
		if c.Data != "clTRID" && c.Data != "extension" {
			verb = c
			break
		}
	}
	if verb == nil {
		return nil, ErrStructure{Reason: "Element <command> is empty."}
	}
	cmd.Name = verb.Data
	if IsObjectCommand(cmd.Name) {
		if obj := firstElement(verb); obj != nil {
			cmd.ObjectURI = obj.NamespaceURI
		}
	}
	if ext := childElement(top, "extension"); ext != nil {
		for _, c := range elements(ext) {
			cmd.ExtensionURIs = append(cmd.ExtensionURIs, c.NamespaceURI)
		}
	}
	return cmd, nil
}

// Login holds the values a <login> command carries, recorded on the
// session when the login handler succeeds.
type Login struct {
	ClID       string
	Password   string
	Lang       string
	Objects    []string
	Extensions []string
}

var (
	xpLoginClID   = xpath.MustCompile(`command/login/clID`)
	xpLoginPw     = xpath.MustCompile(`command/login/pw`)
	xpLoginLang   = xpath.MustCompile(`command/login/options/lang`)
	xpLoginObjURI = xpath.MustCompile(`command/login/svcs/objURI`)
	xpLoginExtURI = xpath.MustCompile(`command/login/svcs/svcExtension/extURI`)
)

// ParseLogin extracts the login descriptor from a parsed <login>
// command frame.
func ParseLogin(doc *xmlquery.Node) (*Login, error) {
	root := xmlquery.QuerySelector(doc, xpRoot)
	if root == nil {
		return nil, ErrStructure{Reason: "Root element is not <epp>."}
	}
	l := &Login{
		ClID:     text(xmlquery.QuerySelector(root, xpLoginClID)),
		Password: text(xmlquery.QuerySelector(root, xpLoginPw)),
		Lang:     text(xmlquery.QuerySelector(root, xpLoginLang)),
	}
	for _, n := range xmlquery.QuerySelectorAll(root, xpLoginObjURI) {
		if uri := text(n); uri != "" {
			l.Objects = append(l.Objects, uri)
		}
	}
	for _, n := range xmlquery.QuerySelectorAll(root, xpLoginExtURI) {
		if uri := text(n); uri != "" {
			l.Extensions = append(l.Extensions, uri)
		}
	}
	return l, nil
}
