// Package body defines the semaphore body shared by the pool, the counted
// registry, and the stripe table: a semaphore plus the bookkeeping needed
// to know whether it is live and who it is bound to.
package body
