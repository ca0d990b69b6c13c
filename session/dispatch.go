package session

import (
	"fmt"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/provreg/epp/frame"
	"github.com/provreg/epp/result"
)

// dispatch processes one inbound frame payload and returns the
// outbound frame along with its result code.  The check order is
// contractual: parse, schema, hello bypass, structure, authentication,
// logout, handler presence, object service, extension repertoire.
func (s *Session) dispatch(payload []byte) (*xmlquery.Node, result.Code) {
	svTRID := s.trids.Next()
	fail := func(code result.Code, msg, clTRID string) (*xmlquery.Node, result.Code) {
		return frame.Response{Code: code, Message: msg, ClTRID: clTRID, SvTRID: svTRID}.Frame(), code
	}

	doc, err := frame.Parse(payload)
	if err != nil {
		return s.prepared(fail(result.SyntaxError, "XML parse error.", ""))
	}
	if v := s.Config.Validator; v != nil {
		if err := v.Validate(doc); err != nil {
			return s.prepared(fail(result.SyntaxError, "XML schema error.", ""))
		}
	}

	if frame.IsHello(doc) {
		return s.Config.Greeting.Frame(time.Now()), result.OK
	}

	s.fireHook(EventFrameReceived, &Request{Frame: doc, Session: s, SvTRID: svTRID})

	cmd, err := frame.Describe(doc)
	if err != nil {
		return s.prepared(fail(result.SyntaxError, err.Error(), ""))
	}

	switch {
	case s.state == StateUnauthenticated && cmd.Name != EventLogin:
		return s.prepared(fail(result.AuthenticationError, "You are not logged in.", cmd.ClTRID))
	case s.state == StateAuthenticated && cmd.Name == EventLogin:
		return s.prepared(fail(result.AuthenticationError, "You are already logged in.", cmd.ClTRID))
	}

	if cmd.Name == "logout" {
		s.fireHook(EventSessionClosed, &Request{Frame: doc, Session: s, ClTRID: cmd.ClTRID, SvTRID: svTRID})
		return s.prepared(fail(result.OKBye, "", cmd.ClTRID))
	}

	handler, ok := s.Config.Handlers[cmd.Name]
	if !ok {
		msg := fmt.Sprintf("This server does not implement the <%s> command.", cmd.Name)
		return s.prepared(fail(result.UnimplementedCommand, msg, cmd.ClTRID))
	}

	if frame.IsObjectCommand(cmd.Name) && !s.objects.Has(cmd.ObjectURI) {
		msg := fmt.Sprintf("This server does not support %s objects.", cmd.ObjectURI)
		return s.prepared(fail(result.UnimplementedObjectService, msg, cmd.ClTRID))
	}
	if cmd.Name != EventLogin {
		for _, uri := range cmd.ExtensionURIs {
			if !s.extensions.Has(uri) {
				msg := fmt.Sprintf("This server does not support the %s extension.", uri)
				return s.prepared(fail(result.UnimplementedExtension, msg, cmd.ClTRID))
			}
		}
	}

	req := &Request{Frame: doc, Session: s, ClTRID: cmd.ClTRID, SvTRID: svTRID}
	ret, err := s.invoke(handler, req)
	if err != nil {
		s.log.Warn().Err(err).Str("command", cmd.Name).Msg("handler failed")
		return s.prepared(fail(result.CommandFailed, "", cmd.ClTRID))
	}

	out, code := s.normalize(ret, cmd.Name, cmd.ClTRID, svTRID)

	if cmd.Name == EventLogin && code.IsSuccess() {
		s.commitLogin(doc)
	}

	return s.prepared(out, code)
}

// invoke runs a handler, converting a panic into an error so one
// misbehaving callback cannot take the connection's goroutine down.
func (s *Session) invoke(h Handler, req *Request) (ret interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(req)
}

// fireHook runs a lifecycle hook, swallowing its result, error and any
// panic.
func (s *Session) fireHook(event string, req *Request) {
	h, ok := s.Config.Handlers[event]
	if !ok {
		return
	}
	if _, err := s.invoke(h, req); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("hook failed")
	}
}

// prepared fires the response_prepared hook on its way out of dispatch.
func (s *Session) prepared(out *xmlquery.Node, code result.Code) (*xmlquery.Node, result.Code) {
	s.fireHook(EventResponsePrepared, &Request{Frame: out, Session: s})
	return out, code
}

// commitLogin records the repertoire a successful <login> negotiated.
func (s *Session) commitLogin(doc *xmlquery.Node) {
	login, err := frame.ParseLogin(doc)
	if err != nil {
		return
	}
	s.state = StateAuthenticated
	s.clid = login.ClID
	s.lang = login.Lang
	s.objects = Repertoire(login.Objects)
	s.extensions = Repertoire(login.Extensions)
}

// normalize coerces the four handler return shapes into a response
// frame.  Anything unrecognized is answered as 2400 with a logged
// warning.
func (s *Session) normalize(ret interface{}, name, clTRID, svTRID string) (*xmlquery.Node, result.Code) {
	misbehaved := func(format string, args ...interface{}) (*xmlquery.Node, result.Code) {
		s.log.Warn().Str("command", name).Msgf(format, args...)
		return frame.Response{Code: result.CommandFailed, ClTRID: clTRID, SvTRID: svTRID}.Frame(), result.CommandFailed
	}

	var code result.Code
	switch v := ret.(type) {
	case *xmlquery.Node:
		root := frame.Root(v)
		if root == nil || root.Data != "epp" {
			return misbehaved("handler returned a non-frame node")
		}
		return root, responseCode(root)
	case result.Code:
		code = v
	case int:
		code = result.Code(v)
	case Reply:
		if !validCode(v.Code) {
			return misbehaved("handler returned result code %d outside [1000,2502]", int(v.Code))
		}
		return frame.Response{Code: v.Code, Message: v.Message, ClTRID: clTRID, SvTRID: svTRID}.Frame(), v.Code
	case Payload:
		return s.normalizePayload(v, name, clTRID, svTRID)
	default:
		return misbehaved("handler returned unrecognized value %T", ret)
	}
	if !validCode(code) {
		return misbehaved("handler returned result code %d outside [1000,2502]", int(code))
	}
	return frame.Response{Code: code, ClTRID: clTRID, SvTRID: svTRID}.Frame(), code
}

func (s *Session) normalizePayload(p Payload, name, clTRID, svTRID string) (*xmlquery.Node, result.Code) {
	if !validCode(p.Code) {
		s.log.Warn().Str("command", name).Msgf("handler returned result code %d outside [1000,2502]", int(p.Code))
		return frame.Response{Code: result.CommandFailed, ClTRID: clTRID, SvTRID: svTRID}.Frame(), result.CommandFailed
	}
	resp := frame.Response{Code: p.Code, ClTRID: clTRID, SvTRID: svTRID}
	slots := map[string]**xmlquery.Node{
		"resData":   &resp.ResData,
		"msgQ":      &resp.MsgQ,
		"extension": &resp.Extension,
	}
	for _, el := range p.Elements {
		if el == nil || el.Type != xmlquery.ElementNode {
			s.log.Warn().Str("command", name).Msg("skipping non-element handler payload value")
			continue
		}
		slot, ok := slots[el.Data]
		if !ok {
			s.log.Warn().Str("command", name).Str("element", el.Data).Msg("skipping unexpected handler payload element")
			continue
		}
		if *slot != nil {
			s.log.Warn().Str("command", name).Str("element", el.Data).Msg("duplicate handler payload element, first wins")
			continue
		}
		*slot = el
	}
	return resp.Frame(), p.Code
}

func validCode(c result.Code) bool { return c >= 1000 && c <= 2502 }

var xpResultCode = xpath.MustCompile(`response/result/@code`)

// responseCode reads the result code out of a pre-built response
// frame; frames without one (a handler-built greeting, say) count as
// success so the session continues.
func responseCode(root *xmlquery.Node) result.Code {
	attr := xmlquery.QuerySelector(root, xpResultCode)
	if attr == nil {
		return result.OK
	}
	var code int
	if _, err := fmt.Sscanf(attr.InnerText(), "%d", &code); err != nil {
		return result.OK
	}
	return result.Code(code)
}
