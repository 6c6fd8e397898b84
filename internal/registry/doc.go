// Package registry implements the counted key registry: a concurrent
// key -> semaphore body mapping with atomic reference counting and
// race-free creation/disposal, backed by github.com/puzpuzpuz/xsync/v3's
// MapOf. MapOf.Compute performs an atomic, per-bucket-locked
// read-modify-write, so the get-or-create and release algorithms need no
// hand-rolled per-bucket locking on top of it.
package registry
