package frame

import (
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"

	"github.com/provreg/epp/result"
)

func childNames(n *xmlquery.Node) (names []string) {
	for _, c := range elements(n) {
		names = append(names, c.Data)
	}
	return names
}

func reparse(t *testing.T, n *xmlquery.Node) *xmlquery.Node {
	doc, err := Parse(Marshal(n))
	assert.NoError(t, err)
	return doc
}

func TestResponseDefaults(t *testing.T) {
	ck := assert.New(t)
	doc := reparse(t, Response{}.Frame())
	root := Root(doc)
	ck.Equal("epp", root.Data)
	ck.Equal(NS, root.NamespaceURI)

	resp := firstElement(root)
	ck.Equal("response", resp.Data)
	ck.Equal([]string{"result"}, childNames(resp))

	res := childElement(resp, "result")
	ck.Equal("1000", attrValue(res, "code"))
	ck.Equal("Command completed successfully.", text(childElement(res, "msg")))
}

func TestResponseErrorDefaults(t *testing.T) {
	ck := assert.New(t)
	doc := reparse(t, Response{Code: result.CommandFailed}.Frame())
	res := childElement(firstElement(Root(doc)), "result")
	ck.Equal("2400", attrValue(res, "code"))
	ck.Equal("Command failed.", text(childElement(res, "msg")))
}

func TestResponseTrID(t *testing.T) {
	for _, tc := range []struct {
		name           string
		clTRID, svTRID string
		want           []string
	}{
		{name: "both", clTRID: "ABC-1", svTRID: "DEF-2", want: []string{"clTRID", "svTRID"}},
		{name: "server only", svTRID: "DEF-2", want: []string{"svTRID"}},
		{name: "client only", clTRID: "ABC-1", want: []string{"clTRID"}},
		{name: "neither"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ck := assert.New(t)
			doc := reparse(t, Response{ClTRID: tc.clTRID, SvTRID: tc.svTRID}.Frame())
			resp := firstElement(Root(doc))
			trID := childElement(resp, "trID")
			if tc.want == nil {
				ck.Nil(trID)
				return
			}
			ck.NotNil(trID)
			ck.Equal(tc.want, childNames(trID))
			if tc.clTRID != "" {
				ck.Equal(tc.clTRID, text(childElement(trID, "clTRID")))
			}
			if tc.svTRID != "" {
				ck.Equal(tc.svTRID, text(childElement(trID, "svTRID")))
			}
		})
	}
}

func TestResponseChildOrder(t *testing.T) {
	ck := assert.New(t)

	resData := Element("resData")
	xmlquery.AddChild(resData, TextElement("value", "x"))
	msgQ := Element("msgQ")
	extension := Element("extension")

	doc := reparse(t, Response{
		Code:      result.OKMessagePresent,
		ResData:   resData,
		MsgQ:      msgQ,
		Extension: extension,
		ClTRID:    "ABC-1",
		SvTRID:    "DEF-2",
	}.Frame())
	resp := firstElement(Root(doc))
	ck.Equal([]string{"result", "msgQ", "resData", "extension", "trID"}, childNames(resp))
}

func TestResponseImportsClones(t *testing.T) {
	ck := assert.New(t)
	resData := Element("resData")
	child := TextElement("value", "x")
	xmlquery.AddChild(resData, child)

	out := Response{ResData: resData}.Frame()

	// the handler's element must not have been spliced into the frame
	ck.Nil(resData.Parent)
	imported := childElement(firstElement(out), "resData")
	ck.NotNil(imported)
	ck.NotSame(resData, imported)
	ck.Equal("x", imported.InnerText())
}

func attrValue(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
