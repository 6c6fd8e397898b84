// Package pool provides a bounded cache of detached semaphore bodies,
// amortizing allocation for the counted registry: Rent reuses a returned
// body when one is available, falling back to a fresh allocation; Return
// hands a drained body back for reuse, dropping it once the pool is at
// capacity.
package pool
