// Package concord is a client-side object model for a remote chat-platform
// REST API. It normalizes partial, denormalized JSON payloads into a
// cross-referenced in-memory graph of entities (guilds, channels, members,
// roles, messages, presences) and keeps that graph authoritative as mutation
// calls round-trip to the remote service.
//
// The package is organized around three layers:
//
//   - A raw payload tier (RawGuild, RawChannel, ...) mirroring the wire shape.
//   - An entity tier (Guild, Channel, Member, ...) with back-references to the
//     owning Client for issuing further calls.
//   - A State holding the client-wide registries, which applies every
//     multi-cache write inside a single critical section.
//
// Channels, roles, and emojis are cached at the raw tier inside their owning
// guild and promoted to entities on demand; members and presences are promoted
// eagerly during normalization because they carry guild-scoped state. Entities
// are never field-edited after construction: mutators build fresh instances
// from response payloads and overwrite the cache slot, so a previously held
// reference remains a valid stale snapshot.
package concord
