// Package registry owns the mutable set of named operations.
//
// The registry maps operation names to (description, input shape, handler)
// triples. Every mutation emits a change record on the injected event bus:
// first registration of a name emits "added", re-registration emits
// "updated" with the prior description, removal emits "removed". Records
// are published while the registry lock is held, so a mutation and its
// emission are never observably interleaved by other registry calls; the
// corollary is that bus handlers must not call back into the registry.
package registry
