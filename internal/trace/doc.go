// Package trace records what a lint run spends its time on.
//
// Events are grouped by scope: ScopeDriver for whole-run work (config,
// discovery, reporting), ScopeFile for one source file, ScopeRule for one
// rule evaluated against one file. The level selects how deep to record:
//
//	swiftlint lint --trace=- --trace-level=detail Sources/
//
// Tracers:
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes each event to stderr or a rotating file
//   - RingTracer: keeps the last events in memory for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// The tracer travels with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, 0)
//	defer span.End("")
package trace
