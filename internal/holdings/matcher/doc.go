// Package matcher turns heterogeneous raw holder records into canonical
// records and selects those that correspond to a national ID.
//
// Everything here is pure: no I/O, no shared mutable state, inputs are never
// modified. Functions are safe to call concurrently.
//
// Matching is a linear scan over the snapshot. Register sizes are small
// enough for that; a high-volume deployment should instead index each
// field named by the Policy when the snapshot is canonicalized.
package matcher
