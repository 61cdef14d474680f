// Package retention bounds the total cost of retained hidden records.
//
// The Policy keeps an LRU ledger over hidden records only: a record is
// inserted at the most-recently-used end when it transitions to hidden and
// leaves the ledger the moment it becomes visible, so a visible record is
// never an eviction candidate. The budget has two independent axes, a
// maximum record count and a maximum total estimated cost; either may be
// unbounded.
//
// The policy itself only identifies eviction candidates and tracks the
// counters. The registry drives the actual eviction loop so that teardown
// runs through the same path as an explicit removal.
package retention
