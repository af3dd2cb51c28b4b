// Package gen synthesizes fuzz programs from a type catalog and the
// per-group relation tables of its operations.
//
// Generation has two stages. Sequence turns a relation table into a plan,
// a list of operation indices built by randomized dependency closure. The
// assembler then walks the plan and synthesizes every argument by case on
// its type kind, threading resources produced by earlier calls into later
// ones as references.
//
// All randomness comes from the rng.Source passed in by the caller, and all
// mutable state lives in one invocation, so a validated Generator can be
// used from many goroutines at once. The resource index and the string pool
// only grow during an invocation; resource liveness across calls is not
// tracked.
package gen
