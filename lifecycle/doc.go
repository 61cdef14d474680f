// Package lifecycle encodes the effect contract across mode transitions.
//
// The Controller runs owner-supplied effect setups when a record becomes
// visible and their cleanups, in reverse registration order, when it is
// hidden again. Effects flagged mode-independent survive hiding and are
// torn down only on the final teardown (removal or eviction).
//
// Setup and cleanup callbacks never fail a transition: a panicking setup
// is recovered, reported through the configured error handler, and the
// mode still flips. Only cleanups that a setup actually returned are ever
// tracked, so a failed setup cannot corrupt the cleanup list.
package lifecycle
