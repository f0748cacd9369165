// Package models defines the wire-level domain models exchanged with the
// Packet backend.
//
// All entities except the chat message are server-authoritative: the client
// fetches them fresh per screen and never mutates them locally (the optimistic
// IsViewed flip on GroupListItem being the one exception). Chat messages are
// created on the client with a pre-assigned idempotency token and reconciled
// against the server echo by that token.
//
// JSON field names follow the backend's camelCase convention; the structs here
// must stay in sync with it.
package models
