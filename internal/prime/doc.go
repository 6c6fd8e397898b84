// Package prime provides the hash-prime table used to size the striped
// keyed locker's stripe array: given a requested stripe count, it returns
// the first tabled prime at least that large, reducing collision bias across
// power-of-two hash distributions.
package prime
