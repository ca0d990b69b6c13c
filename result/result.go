// Package result provides the RFC5730 result code vocabulary used in
// EPP response frames, along with the classification predicates the
// protocol engine keys its behavior on.
package result

import "fmt"

// Code is an RFC5730 result code.
//
// Codes below 2000 indicate success; 2000 and above indicate failure.
// Code 1500 and all codes at or above 2500 end the session once the
// response carrying them has been sent.
type Code int

const (
	// OK indicates the command completed successfully.
	OK Code = 1000
	// OKActionPending indicates success with offline action pending.
	OKActionPending Code = 1001
	// OKNoMessages indicates an empty service message queue.
	OKNoMessages Code = 1300
	// OKMessagePresent indicates a service message is being delivered.
	OKMessagePresent Code = 1301
	// OKBye indicates success ending the session.
	OKBye Code = 1500

	// UnknownCommand indicates an unrecognized command element.
	UnknownCommand Code = 2000
	// SyntaxError indicates a malformed command frame.
	SyntaxError Code = 2001
	// UseError indicates improper command use.
	UseError Code = 2002
	// MissingParameter indicates a required parameter is absent.
	MissingParameter Code = 2003
	// ParameterRangeError indicates a parameter value outside its range.
	ParameterRangeError Code = 2004
	// ParameterSyntaxError indicates a malformed parameter value.
	ParameterSyntaxError Code = 2005

	// UnimplementedVersion indicates an unsupported protocol version.
	UnimplementedVersion Code = 2100
	// UnimplementedCommand indicates a command the server does not offer.
	UnimplementedCommand Code = 2101
	// UnimplementedOption indicates an unsupported command option.
	UnimplementedOption Code = 2102
	// UnimplementedExtension indicates an extension outside the session
	// repertoire.
	UnimplementedExtension Code = 2103
	// BillingFailure indicates a billing failure.
	BillingFailure Code = 2104
	// NotRenewable indicates the object is not eligible for renewal.
	NotRenewable Code = 2105
	// NotTransferrable indicates the object is not eligible for transfer.
	NotTransferrable Code = 2106

	// AuthenticationError indicates failed or missing authentication.
	AuthenticationError Code = 2200
	// AuthorizationError indicates insufficient authorization.
	AuthorizationError Code = 2201
	// InvalidAuthInfo indicates invalid object authorization information.
	InvalidAuthInfo Code = 2202

	// ObjectPendingTransfer indicates the object is already in transfer.
	ObjectPendingTransfer Code = 2300
	// ObjectNotPendingTransfer indicates no transfer is in progress.
	ObjectNotPendingTransfer Code = 2301
	// ObjectExists indicates the object already exists.
	ObjectExists Code = 2302
	// ObjectDoesNotExist indicates the object does not exist.
	ObjectDoesNotExist Code = 2303
	// StatusProhibitsOperation indicates object status forbids the command.
	StatusProhibitsOperation Code = 2304
	// AssociationProhibitsOperation indicates object links forbid the command.
	AssociationProhibitsOperation Code = 2305
	// ParameterPolicyError indicates a parameter value violates policy.
	ParameterPolicyError Code = 2306
	// UnimplementedObjectService indicates an object namespace outside the
	// session repertoire.
	UnimplementedObjectService Code = 2307
	// DataManagementPolicyViolation indicates a data management policy
	// violation.
	DataManagementPolicyViolation Code = 2308

	// CommandFailed indicates an internal server error; the session
	// continues.
	CommandFailed Code = 2400

	// CommandFailedBye indicates an internal server error ending the
	// session.
	CommandFailedBye Code = 2500
	// AuthenticationErrorBye indicates an authentication failure ending
	// the session.
	AuthenticationErrorBye Code = 2501
	// SessionLimitExceededBye indicates the session limit was exceeded,
	// ending the session.
	SessionLimitExceededBye Code = 2502
)

// IsSuccess reports whether c lies in the success band.
func (c Code) IsSuccess() bool { return c < 2000 }

// IsError reports whether c lies in the failure band.
func (c Code) IsError() bool { return c >= 2000 }

// IsBye reports whether c is the successful end-of-session code.
func (c Code) IsBye() bool { return c == OKBye }

// IsTerminal reports whether a response carrying c ends the session
// after it is sent.
func (c Code) IsTerminal() bool { return c == OKBye || c >= 2500 }

// Known reports whether c is a code assigned by RFC5730.
func (c Code) Known() bool { _, ok := messages[c]; return ok }

// Message returns the RFC5730 default message for c.  Codes without an
// assigned message fall back to the generic text for their band.
func (c Code) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	if c.IsSuccess() {
		return "Command completed successfully."
	}
	return "Command failed."
}

func (c Code) String() string { return fmt.Sprintf("%d %s", int(c), c.Message()) }

var messages = map[Code]string{
	OK:               "Command completed successfully.",
	OKActionPending:  "Command completed successfully; action pending.",
	OKNoMessages:     "Command completed successfully; no messages.",
	OKMessagePresent: "Command completed successfully; ack to dequeue.",
	OKBye:            "Command completed successfully; ending session.",

	UnknownCommand:       "Unknown command.",
	SyntaxError:          "Command syntax error.",
	UseError:             "Command use error.",
	MissingParameter:     "Required parameter missing.",
	ParameterRangeError:  "Parameter value range error.",
	ParameterSyntaxError: "Parameter value syntax error.",

	UnimplementedVersion:   "Unimplemented protocol version.",
	UnimplementedCommand:   "Unimplemented command.",
	UnimplementedOption:    "Unimplemented option.",
	UnimplementedExtension: "Unimplemented extension.",
	BillingFailure:         "Billing failure.",
	NotRenewable:           "Object is not eligible for renewal.",
	NotTransferrable:       "Object is not eligible for transfer.",

	AuthenticationError: "Authentication error.",
	AuthorizationError:  "Authorization error.",
	InvalidAuthInfo:     "Invalid authorization information.",

	ObjectPendingTransfer:         "Object pending transfer.",
	ObjectNotPendingTransfer:      "Object not pending transfer.",
	ObjectExists:                  "Object exists.",
	ObjectDoesNotExist:            "Object does not exist.",
	StatusProhibitsOperation:      "Object status prohibits operation.",
	AssociationProhibitsOperation: "Object association prohibits operation.",
	ParameterPolicyError:          "Parameter value policy error.",
	UnimplementedObjectService:    "Unimplemented object service.",
	DataManagementPolicyViolation: "Data management policy violation.",

	CommandFailed: "Command failed.",

	CommandFailedBye:        "Command failed; server closing connection.",
	AuthenticationErrorBye:  "Authentication error; server closing connection.",
	SessionLimitExceededBye: "Session limit exceeded; server closing connection.",
}
