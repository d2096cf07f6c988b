// Package tools registers the MediaMath tool surface the mock exposes over
// tools/list and tools/call: campaign, strategy, audience, creative, account,
// and supply-source operations backed by the fixture store. Input schemas are
// reflected from the typed argument structs.
package tools
