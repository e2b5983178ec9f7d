// Package domain contains the core entities of the study scheduler: the
// per-user learning state of a card, the append-only review events that
// feed it, and the aggregate statistics derived from both. It has no
// knowledge of storage or transport.
package domain
