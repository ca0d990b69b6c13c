package frame

import (
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
)

const loginFrame = `
<epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
  <command>
    <login>
      <clID>gavin</clID>
      <pw>foo2bar</pw>
      <options>
        <version>1.0</version>
        <lang>en</lang>
      </options>
      <svcs>
        <objURI>urn:ietf:params:xml:ns:domain-1.0</objURI>
        <objURI>urn:ietf:params:xml:ns:host-1.0</objURI>
        <svcExtension>
          <extURI>urn:ietf:params:xml:ns:loginSec-1.0</extURI>
        </svcExtension>
      </svcs>
    </login>
    <clTRID>ABC-12345</clTRID>
  </command>
</epp>`

const checkFrame = `
<epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
  <command>
    <check>
      <domain:check xmlns:domain="urn:ietf:params:xml:ns:domain-1.0">
        <domain:name>example.com</domain:name>
      </domain:check>
    </check>
    <clTRID>ABC-12346</clTRID>
  </command>
</epp>`

func TestParse(t *testing.T) {
	ck := assert.New(t)
	doc, err := Parse([]byte(loginFrame))
	ck.NoError(err)
	root := Root(doc)
	ck.Equal("epp", root.Data)
	ck.Equal(NS, root.NamespaceURI)
	// indentation between elements must not survive the parse
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		ck.NotEqual(xmlquery.TextNode, c.Type)
	}

	_, err = Parse([]byte("<epp><command"))
	ck.ErrorContains(err, "parsing frame")
}

func TestParseCData(t *testing.T) {
	ck := assert.New(t)
	doc, err := Parse([]byte(`<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><command><info><![CDATA[raw < text]]></info></command></epp>`))
	ck.NoError(err)
	cmd := firstElement(Root(doc))
	info := firstElement(cmd)
	ck.Equal(xmlquery.TextNode, info.FirstChild.Type)
	ck.Equal("raw < text", info.InnerText())
}

func TestDescribe(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   string
		want    Command
		wantErr string
	}{
		{
			name:  "login",
			input: loginFrame,
			want:  Command{Name: "login", ClTRID: "ABC-12345"},
		},
		{
			name:  "domain check",
			input: checkFrame,
			want: Command{
				Name:      "check",
				ClTRID:    "ABC-12346",
				ObjectURI: "urn:ietf:params:xml:ns:domain-1.0",
			},
		},
		{
			name: "command extension",
			input: `
<epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
  <command>
    <info>
      <domain:info xmlns:domain="urn:ietf:params:xml:ns:domain-1.0">
        <domain:name>example.com</domain:name>
      </domain:info>
    </info>
    <extension>
      <secDNS:info xmlns:secDNS="urn:ietf:params:xml:ns:secDNS-1.1"/>
    </extension>
    <clTRID>XYZ-1</clTRID>
  </command>
</epp>`,
			want: Command{
				Name:          "info",
				ClTRID:        "XYZ-1",
				ObjectURI:     "urn:ietf:params:xml:ns:domain-1.0",
				ExtensionURIs: []string{"urn:ietf:params:xml:ns:secDNS-1.1"},
			},
		},
		{
			name:  "extension only frame",
			input: `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><extension><x:y xmlns:x="urn:example:x-1.0"/></extension></epp>`,
			want:  Command{Name: "other"},
		},
		{
			name:  "no clTRID",
			input: `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><command><poll op="req"/></command></epp>`,
			want:  Command{Name: "poll"},
		},
		{
			name:    "wrong namespace",
			input:   `<epp xmlns="urn:example:wrong"><command><poll/></command></epp>`,
			wantErr: "Root element is not <epp>.",
		},
		{
			name:    "wrong first child",
			input:   `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><greeting/></epp>`,
			wantErr: "First child element of <epp> is not <command> or <extension>.",
		},
		{
			name:    "empty command",
			input:   `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><command><clTRID>x</clTRID></command></epp>`,
			wantErr: "Element <command> is empty.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ck := assert.New(t)
			doc, err := Parse([]byte(tc.input))
			ck.NoError(err)
			cmd, err := Describe(doc)
			if tc.wantErr != "" {
				ck.EqualError(err, tc.wantErr)
				return
			}
			ck.NoError(err)
			ck.Equal(tc.want, *cmd)
		})
	}
}

func TestIsHello(t *testing.T) {
	ck := assert.New(t)
	doc, err := Parse([]byte(`<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><hello/></epp>`))
	ck.NoError(err)
	ck.True(IsHello(doc))

	doc, err = Parse([]byte(loginFrame))
	ck.NoError(err)
	ck.False(IsHello(doc))

	// <hello> spelled outside the EPP namespace is not a hello
	doc, err = Parse([]byte(`<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><h:hello xmlns:h="urn:example:h"/></epp>`))
	ck.NoError(err)
	ck.False(IsHello(doc))
}

func TestParseLogin(t *testing.T) {
	ck := assert.New(t)
	doc, err := Parse([]byte(loginFrame))
	ck.NoError(err)
	l, err := ParseLogin(doc)
	ck.NoError(err)
	ck.Equal("gavin", l.ClID)
	ck.Equal("foo2bar", l.Password)
	ck.Equal("en", l.Lang)
	ck.Equal([]string{
		"urn:ietf:params:xml:ns:domain-1.0",
		"urn:ietf:params:xml:ns:host-1.0",
	}, l.Objects)
	ck.Equal([]string{"urn:ietf:params:xml:ns:loginSec-1.0"}, l.Extensions)
}
