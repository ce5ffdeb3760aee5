// Package hir holds the resolved Ion program model consumed by the C back end.
//
// Everything here is produced upstream (parsing, resolution, type checking,
// constant evaluation, reachability) and is read-only during generation.
// Nodes carry their resolved metadata inline: every expression knows its
// type, the symbol it names, an implicit conversion target, an expected
// type for compound literals, a pointer promotion type and whether it must
// be boxed into `any`.
package hir

// PackageID identifies a package within a Program.
type PackageID uint32

// DeclID identifies a declaration within a Program.
type DeclID uint32

// SymbolID identifies a symbol within a Program.
type SymbolID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoPackageID PackageID = 0
	NoDeclID    DeclID    = 0
	NoSymbolID  SymbolID  = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id PackageID) IsValid() bool { return id != NoPackageID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id SymbolID) IsValid() bool  { return id != NoSymbolID }
