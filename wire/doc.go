/*
Package wire offers the RFC5734 EPP transport framing codec.

Each frame on the wire is a 4 octet unsigned big-endian length header
followed by the XML payload; the length value counts the header octets
themselves.  The Reader and Writer in this package decode and encode
that framing over any byte stream and never interpret the XML payload.

Reads terminating other than on a frame boundary return a wrapped
io.ErrUnexpectedEOF; a header whose length value cannot describe a
frame returns ErrBadLength.
*/
package wire
