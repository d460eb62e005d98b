// Package flatmap implements maps and sets stored in contiguous arrays.
//
// OrderedMap and OrderedSet keep their elements sorted by key and use binary
// search. LinearMap, LinearSet and ConsecutiveKeyMap keep the insertion
// order and scan; with a hashing KeyPolicy the scan runs over a column of
// 32-bit reduced hashes first and compares keys only on a hash match.
//
// Flat containers beat hash maps for small sizes, on memory footprint and on
// iteration speed. Insertions and erasures shift elements, so pointers
// returned by any method are invalidated by the next modification.
//
// Containers must be created with their New functions and are not safe for
// concurrent use.
package flatmap
