// Package trace provides structured tracing for the ionc driver and the C
// generator.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	ionc gen --trace=- --trace-level=detail prog.ionsnap
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a unit fails
//   - MultiTracer: combines multiple tracers
//
// # Scopes
//
//   - ScopeDriver: CLI commands, batch builds, heartbeats
//   - ScopeUnit: one snapshot turned into one C file
//   - ScopeStage: generator stages (foreign, forward, decls, typeinfo, defs)
//   - ScopeDecl: single emitted declarations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStage, "typeinfo", parentID)
//	defer span.End("")
package trace
