/*
Package server offers the TLS/TCP listener driving EPP sessions.

The Server terminates TLS per RFC5734 (optionally demanding client
certificates signed by a configured CA bundle), accepts registrar
connections, and runs one session per connection on its own goroutine.
Each connection owns its Session; the handler registry, the greeting
skeleton and the transaction ID counter are the only state shared
between connections.

A peer whose certificate fails validation is rejected during the TLS
handshake, before any EPP exchange.
*/
package server
