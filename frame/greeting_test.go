package frame

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGreetingStructure(t *testing.T) {
	ck := assert.New(t)
	g := NewGreeting(ServerInfo{
		ServerID:   "epp.example.com",
		Objects:    []string{"urn:ietf:params:xml:ns:domain-1.0"},
		Extensions: []string{"urn:ietf:params:xml:ns:secDNS-1.1"},
	})
	sent := time.Date(2023, 4, 1, 12, 30, 45, 0, time.UTC)
	doc := reparse(t, g.Frame(sent))

	root := Root(doc)
	ck.Equal("epp", root.Data)
	ck.Equal(NS, root.NamespaceURI)

	greeting := firstElement(root)
	ck.Equal("greeting", greeting.Data)
	ck.Equal([]string{"svID", "svDate", "svcMenu", "dcp"}, childNames(greeting))

	ck.Equal("epp.example.com", text(childElement(greeting, "svID")))
	ck.Equal("2023-04-01T12:30:45.0Z", text(childElement(greeting, "svDate")))

	menu := childElement(greeting, "svcMenu")
	ck.Equal([]string{"version", "lang", "objURI", "svcExtension"}, childNames(menu))
	ck.Equal("1.0", text(childElement(menu, "version")))
	ck.Equal("en", text(childElement(menu, "lang")))
	ck.Equal("urn:ietf:params:xml:ns:domain-1.0", text(childElement(menu, "objURI")))
	ck.Equal("urn:ietf:params:xml:ns:secDNS-1.1",
		text(childElement(childElement(menu, "svcExtension"), "extURI")))

	dcp := childElement(greeting, "dcp")
	ck.NotNil(childElement(childElement(dcp, "access"), "all"))
	statement := childElement(dcp, "statement")
	ck.NotNil(childElement(childElement(statement, "purpose"), "prov"))
	ck.NotNil(childElement(childElement(statement, "recipient"), "public"))
	ck.NotNil(childElement(childElement(statement, "retention"), "legal"))
}

func TestGreetingNoExtensions(t *testing.T) {
	ck := assert.New(t)
	g := NewGreeting(ServerInfo{
		ServerID: "epp.example.com",
		Objects:  []string{"urn:ietf:params:xml:ns:domain-1.0"},
	})
	doc := reparse(t, g.Frame(time.Now()))
	menu := childElement(firstElement(Root(doc)), "svcMenu")
	ck.Nil(childElement(menu, "svcExtension"))
}

func TestGreetingDefaults(t *testing.T) {
	ck := assert.New(t)
	g := NewGreeting(ServerInfo{Objects: []string{"urn:ietf:params:xml:ns:domain-1.0"}})
	doc := reparse(t, g.Frame(time.Now()))
	greeting := firstElement(Root(doc))
	svID := text(childElement(greeting, "svID"))
	ck.NotEmpty(svID)
	ck.Equal(strings.ToLower(svID), svID)
	ck.Equal("en", text(childElement(childElement(greeting, "svcMenu"), "lang")))
}

func TestGreetingIdempotent(t *testing.T) {
	ck := assert.New(t)
	g := NewGreeting(ServerInfo{
		ServerID:   "epp.example.com",
		Languages:  []string{"en", "fr"},
		Objects:    []string{"urn:ietf:params:xml:ns:domain-1.0", "urn:ietf:params:xml:ns:host-1.0"},
		Extensions: []string{"urn:ietf:params:xml:ns:secDNS-1.1"},
	})
	t0 := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(90 * time.Minute)
	a := string(Marshal(g.Frame(t0)))
	b := string(Marshal(g.Frame(t1)))

	// only the timestamps may differ between emissions
	ck.NotEqual(a, b)
	ck.Equal(
		strings.ReplaceAll(a, svDateFormat(t0), "@"),
		strings.ReplaceAll(b, svDateFormat(t1), "@"),
	)
}

func TestSvDateFormat(t *testing.T) {
	ck := assert.New(t)
	loc := time.FixedZone("UTC+2", 7200)
	ck.Equal("2023-04-01T10:30:45.0Z",
		svDateFormat(time.Date(2023, 4, 1, 12, 30, 45, 123456, loc)))
	// the emitted instant must parse as ISO-8601 UTC
	_, err := time.Parse("2006-01-02T15:04:05.0Z07:00", svDateFormat(time.Now()))
	ck.NoError(err)
}
