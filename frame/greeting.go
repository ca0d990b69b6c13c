package frame

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/antchfx/xmlquery"
)

// ServerInfo is the server metadata advertised in the <greeting>.
// Applications return it from their hello handler.
type ServerInfo struct {
	// ServerID is the <svID> value.  Defaults to the lowercased host
	// name when empty.
	ServerID string
	// Languages are the <lang> values offered.  Defaults to ["en"].
	Languages []string
	// Objects are the <objURI> object service namespaces offered.
	Objects []string
	// Extensions are the <extURI> extension namespaces offered.  The
	// <svcExtension> element is omitted entirely when empty.
	Extensions []string
}

// Greeting builds <greeting> frames from server metadata.
//
// Everything except <svDate> is invariant for the life of the server,
// so the element tree is assembled once and cloned per emission with
// the timestamp of the moment the frame is sent.
type Greeting struct {
	info ServerInfo

	once     sync.Once
	skeleton *xmlquery.Node
}

// NewGreeting returns a Greeting advertising info.
func NewGreeting(info ServerInfo) *Greeting { return &Greeting{info: info} }

// Frame returns the greeting frame stamped with the given send time.
func (g *Greeting) Frame(now time.Time) *xmlquery.Node {
	g.once.Do(g.build)
	out := Clone(g.skeleton)
	svDate := childElement(firstElement(out), "svDate")
	xmlquery.AddChild(svDate, &xmlquery.Node{Type: xmlquery.TextNode, Data: svDateFormat(now)})
	return out
}

func svDateFormat(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + ".0Z"
}

func (g *Greeting) build() {
	svID := g.info.ServerID
	if svID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "localhost"
		}
		svID = strings.ToLower(host)
	}
	langs := g.info.Languages
	if len(langs) == 0 {
		langs = []string{"en"}
	}

	root := Element("epp")
	root.Attr = []xmlquery.Attr{{Name: xmlName("xmlns"), Value: NS}}
	root.NamespaceURI = NS

	greeting := Element("greeting")
	xmlquery.AddChild(root, greeting)
	xmlquery.AddChild(greeting, TextElement("svID", svID))
	xmlquery.AddChild(greeting, Element("svDate"))

	menu := Element("svcMenu")
	xmlquery.AddChild(greeting, menu)
	xmlquery.AddChild(menu, TextElement("version", "1.0"))
	for _, lang := range langs {
		xmlquery.AddChild(menu, TextElement("lang", lang))
	}
	for _, uri := range g.info.Objects {
		xmlquery.AddChild(menu, TextElement("objURI", uri))
	}
	if len(g.info.Extensions) > 0 {
		ext := Element("svcExtension")
		xmlquery.AddChild(menu, ext)
		for _, uri := range g.info.Extensions {
			xmlquery.AddChild(ext, TextElement("extURI", uri))
		}
	}

	// fixed data collection policy: provisioning data, publicly
	// accessible, retained as legally required
	dcp := Element("dcp")
	xmlquery.AddChild(greeting, dcp)
	access := Element("access")
	xmlquery.AddChild(access, Element("all"))
	xmlquery.AddChild(dcp, access)
	statement := Element("statement")
	xmlquery.AddChild(dcp, statement)
	purpose := Element("purpose")
	xmlquery.AddChild(purpose, Element("prov"))
	xmlquery.AddChild(statement, purpose)
	recipient := Element("recipient")
	xmlquery.AddChild(recipient, Element("public"))
	xmlquery.AddChild(statement, recipient)
	retention := Element("retention")
	xmlquery.AddChild(retention, Element("legal"))
	xmlquery.AddChild(statement, retention)

	g.skeleton = root
}
