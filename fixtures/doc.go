// Package fixtures holds the deterministic in-memory dataset the mock
// serves: organizations, users, campaigns, strategies, audience segments,
// creatives, and supply sources. State lives for the process lifetime only.
// An optional YAML overrides file can replace or extend the seed and is
// hot-reloaded on change.
package fixtures
