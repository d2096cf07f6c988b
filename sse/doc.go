// Package sse is the server's push channel: it keeps at most one live
// Server-Sent Events stream per session id and delivers asynchronous
// JSON-RPC notifications to it.
//
// Opening a stream for a session id replaces any prior stream for that id.
// Each connection carries its own heartbeat timer; a connection that cannot
// confirm liveness within the timeout window is closed. All delivery is
// best effort: a missing connection is a normal condition, not an error.
package sse
