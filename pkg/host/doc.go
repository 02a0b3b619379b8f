// Package host defines the boundary between the reconciler and the tree it
// mutates.
//
// Adapter wraps the primitive operations of a host tree: node creation,
// structural edits, attributes, direct fields, style, event listeners and
// focus. The reconciler performs every host-side effect through it and
// never inspects host nodes beyond what the interface exposes.
//
// Op and Mutation describe those effects as data, for journals, metrics,
// and the inspector stream. See package memhost for an in-memory adapter.
package host
