// Package diag defines the diagnostic model shared by the generator, the
// snapshot loader and the batch driver.
//
// A Diagnostic pairs a Severity and a Code (see codes.go) with a message and
// the source.Pos it refers to. Generation never degrades: every fatal
// condition travels up the call chain as an *Error, and callers recover the
// structured record with AsDiagnostic. The batch driver collects per-unit
// failures into a Bag through a Reporter, and the CLI renders them with
// FormatShort.
package diag
