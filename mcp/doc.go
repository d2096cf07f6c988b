// Package mcp defines the wire-level types of the Model Context Protocol
// dialect served by the mock: method names, the initialize handshake, tool
// and prompt shapes, and content blocks. The types mirror the JSON the
// upstream agents exchange and carry no behavior.
package mcp
