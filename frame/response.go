package frame

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/provreg/epp/result"
)

// Response describes one outbound <response> frame.
//
// Code defaults to 1000 and Message to the code's RFC5730 default text
// (see result.Code.Message; unassigned codes get the generic text for
// their band).  ResData, MsgQ and Extension are optional pre-built elements;
// they are deep-cloned into the frame in the canonical RFC5730 order
// (<result>, <msgQ>, <resData>, <extension>, <trID>) no matter how the
// handler assembled them.
type Response struct {
	Code    result.Code
	Message string

	ClTRID string
	SvTRID string

	ResData   *xmlquery.Node
	MsgQ      *xmlquery.Node
	Extension *xmlquery.Node
}

// Frame constructs the response frame.
func (r Response) Frame() *xmlquery.Node {
	code := r.Code
	if code == 0 {
		code = result.OK
	}
	msg := r.Message
	if msg == "" {
		msg = code.Message()
	}

	root := Element("epp")
	root.Attr = []xmlquery.Attr{{Name: xmlName("xmlns"), Value: NS}}
	root.NamespaceURI = NS

	resp := Element("response")
	xmlquery.AddChild(root, resp)

	res := Element("result")
	res.Attr = []xmlquery.Attr{{Name: xmlName("code"), Value: strconv.Itoa(int(code))}}
	xmlquery.AddChild(res, TextElement("msg", msg))
	xmlquery.AddChild(resp, res)

	if r.MsgQ != nil {
		xmlquery.AddChild(resp, Clone(r.MsgQ))
	}
	if r.ResData != nil {
		xmlquery.AddChild(resp, Clone(r.ResData))
	}
	if r.Extension != nil {
		xmlquery.AddChild(resp, Clone(r.Extension))
	}

	if r.ClTRID != "" || r.SvTRID != "" {
		trID := Element("trID")
		if r.ClTRID != "" {
			xmlquery.AddChild(trID, TextElement("clTRID", r.ClTRID))
		}
		if r.SvTRID != "" {
			xmlquery.AddChild(trID, TextElement("svTRID", r.SvTRID))
		}
		xmlquery.AddChild(resp, trID)
	}
	return root
}
