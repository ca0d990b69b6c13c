/*
Package session offers the per-connection EPP protocol engine.

A Session is created for each accepted connection and drives the EPP
server state machine over it: the server greets the client, then reads
one command frame, dispatches it, and writes one response frame,
strictly alternating, until a response carries a session-ending result
code or the transport fails.

Applications supply business logic as a Registry of handler callbacks
keyed by command name.  The engine enforces the protocol around the
handlers: only <login> is accepted before authentication, a second
<login> is rejected, object and extension namespaces are checked
against the repertoire the client negotiated at login, and <logout> is
answered by the engine itself.  Handler return values may take four
shapes (a result code, a code with message, a code with response
elements, or a complete pre-built frame); the engine normalizes all of
them into correctly shaped <response> frames.

Session execution

Sessions are created with New, providing the connection byte stream
along with a session Config, and executed with Run.  Run sends the
greeting, then loops until a response's result code is 1500 or at
least 2500, or reading a frame fails, in which case the session ends
as a transport failure and nothing further is sent.  Handler callbacks
run on the session's goroutine; a client that disconnects mid-command
causes the handler to run to completion with its response discarded by
the failing write.
*/
package session
