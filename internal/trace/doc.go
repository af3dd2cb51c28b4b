// Package trace provides structured tracing for program generation.
//
// Tracing records batch runs, single program generations and, at the most
// verbose level, every synthesized call. It is the logging layer of the
// tool: spans carry key/value extras and are written as text or NDJSON.
//
// # Usage
//
//	callgen generate --trace=- --trace-level=detail -n 100
//
// # Tracers
//
//   - Nop: disabled tracing, zero work per span
//   - StreamTracer: writes every event immediately (file/stderr)
//   - RingTracer: keeps the last N events in memory for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopeBatch events, LevelDetail adds
// ScopeProgram, LevelDebug adds ScopeCall.
//
// Tracers travel through context in the CLI and driver:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeBatch, "batch", 0)
//	defer span.End("")
package trace
