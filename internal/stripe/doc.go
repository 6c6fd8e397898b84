// Package stripe implements the striped keyed locker's fixed-size stripe
// table: a prime-sized array of permanent semaphore bodies, indexed by a
// hash of the key. Distinct keys may collide onto the same stripe
// (stronger than necessary mutual exclusion), trading that for O(1) space
// and no per-key allocation.
package stripe
