/*
Package frame offers EPP (RFC5730) XML frame handling.

A frame is one XML document on the wire whose root element is <epp> in
the urn:ietf:params:xml:ns:epp-1.0 namespace.  The package parses
inbound frames into a namespace-aware document tree, extracts command
descriptors from them, and constructs the two outbound frame kinds a
server produces: <greeting> and <response>.

All object and extension checks in the EPP command repertoire hinge on
namespace URIs, never on tag spellings, so the object and extension
URIs of a command are read from the parsed elements' namespace URIs.
The root <epp> and <hello> are matched by namespace; the other EPP
envelope elements inside the root (<command>, <extension>, <clTRID>,
the command verb) are matched by local name.
*/
package frame
