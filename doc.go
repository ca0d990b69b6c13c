/*
Package epp is a set of EPP (RFC5730) server support libraries.

Doing the heavy lifting of protocol framing (RFC5734 length-prefixed
frames over TLS), XML frame parsing, greeting and response construction,
session state tracking and command dispatch, these libraries allow easy
EPP server application development.

An EPP server accepts a TLS connection from a registrar, greets it, and
then alternates strictly between reading one command frame and writing
one response frame until the session ends.  Applications supply business
logic as handler callbacks keyed by command name; the engine enforces the
protocol around them: authentication gating, object-service and extension
repertoire checks negotiated at login, result-code semantics, and
transaction ID correlation.

See the session sub-directory for more information about Session objects
and handler implementations, and the server sub-directory for the TLS
listener which drives one session per connection.
*/
package epp
