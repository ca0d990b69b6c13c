package session

import (
	"github.com/antchfx/xmlquery"

	"github.com/provreg/epp/result"
)

// Event names a Registry maps to handlers.
//
// There is intentionally no logout event: the engine answers <logout>
// itself with a 1500 result after firing EventSessionClosed.
const (
	// EventHello is the server metadata callback.  Its handler returns
	// a frame.ServerInfo describing the greeting; it is invoked once
	// per server, not per <hello>.
	EventHello = "hello"

	// EventFrameReceived fires after a frame passes parsing and
	// validation, before dispatch.  Return values and errors are
	// ignored.
	EventFrameReceived = "frame_received"
	// EventResponsePrepared fires with each prepared response frame
	// before it is written.  Return values and errors are ignored.
	EventResponsePrepared = "response_prepared"
	// EventSessionClosed fires when the client sends <logout>, before
	// the 1500 response is written.  Return values and errors are
	// ignored.
	EventSessionClosed = "session_closed"

	EventLogin    = "login"
	EventPoll     = "poll"
	EventCheck    = "check"
	EventInfo     = "info"
	EventCreate   = "create"
	EventUpdate   = "update"
	EventRenew    = "renew"
	EventDelete   = "delete"
	EventTransfer = "transfer"
	// EventOther handles frames whose first <epp> child is
	// <extension> rather than <command>.
	EventOther = "other"
)

// Request carries one dispatched frame to a handler.
type Request struct {
	// Frame is the parsed inbound frame; for EventResponsePrepared it
	// is the outbound response frame instead.
	Frame *xmlquery.Node
	// Session is the session the frame arrived on.
	Session *Session
	// ClTRID is the client transaction identifier, empty when the
	// command carried none.
	ClTRID string
	// SvTRID is the server transaction identifier minted for the
	// response.
	SvTRID string
}

// Handler is a command callback.
//
// The returned value must take one of four shapes:
//
//   - a result.Code (or untyped int in [1000,2502]): a response with
//     that code and its default message
//   - a Reply: a response with the given code and message
//   - a Payload: a response with the given code, default message, and
//     the payload elements placed in canonical order
//   - a *xmlquery.Node whose root element is <epp>: used verbatim
//
// A non-nil error, a panic, or any other return value yields a 2400
// response and a logged warning; the session continues.
type Handler func(*Request) (interface{}, error)

// Reply is the code-with-message handler return shape.
type Reply struct {
	Code    result.Code
	Message string
}

// Payload is the code-with-elements handler return shape.  Elements
// must be element nodes with local names among resData, msgQ and
// extension; on duplicates the first wins and anything else is
// skipped, each with a logged warning.
type Payload struct {
	Code     result.Code
	Elements []*xmlquery.Node
}

// Registry maps event names to handlers.  It is established at server
// start and must not be mutated afterwards: every connection reads it
// concurrently.
//
// Unknown event names are never invoked; a command name with no
// handler yields a 2101 response.
type Registry map[string]Handler
