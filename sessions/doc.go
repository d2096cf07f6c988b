// Package sessions is the authoritative owner of MCP session entities.
//
// Sessions are created by the protocol's initialize method and live for a
// fixed TTL (24h) unless explicitly extended. Expiry is enforced twice:
// lazily on every read (an expired entry is treated as absent and removed on
// access) and actively by an hourly sweep, so abandoned sessions cannot
// accumulate. Other components hold sessions only by id and receive
// read-only projections; nothing outside this package mutates the map.
package sessions
