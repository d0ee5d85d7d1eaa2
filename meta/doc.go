// Package meta implements a runtime type-introspection engine for composite
// types. For each registered Go struct it builds a descriptor listing the
// struct's members, their memory layout, their container shape, and a
// pluggable per-field translator used for comparison, cloning, and
// serialization.
//
// Descriptors are registered once, single-threaded, during application
// startup (base types before derived types). After registration completes a
// descriptor is frozen: field lookup, hierarchy queries, Equals and Copy may
// then be called concurrently from any number of goroutines without locking.
// The engine does not synchronize access to instance data itself; callers
// that mutate an instance while another goroutine compares or copies it must
// provide their own locking.
//
// Inheritance is modeled with Go embedding: a derived struct embeds its base
// struct as its first, anonymous field. Register validates this convention so
// that a base descriptor's fields remain addressable on derived instances.
package meta
