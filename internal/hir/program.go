package hir

import (
	"fmt"

	"ionc/internal/layout"
	"ionc/internal/types"
)

// Reachability is the upstream liveness classification of a symbol or a
// synthesized type.
type Reachability uint8

const (
	Unreachable Reachability = iota
	ReachableNatural
	// ReachableForced entities are referenced only to keep them alive
	// for the resolver; they are never emitted.
	ReachableForced
)

func (r Reachability) String() string {
	switch r {
	case Unreachable:
		return "unreachable"
	case ReachableNatural:
		return "natural"
	case ReachableForced:
		return "forced"
	default:
		return fmt.Sprintf("Reachability(%d)", r)
	}
}

// SymbolKind classifies symbols.
type SymbolKind uint8

const (
	SymbolNone SymbolKind = iota
	SymbolVar
	SymbolConst
	SymbolFunc
	SymbolType
	SymbolPackage
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolConst:
		return "const"
	case SymbolFunc:
		return "func"
	case SymbolType:
		return "type"
	case SymbolPackage:
		return "package"
	default:
		return "none"
	}
}

// SymbolState tracks resolution progress; only resolved symbols get bodies.
type SymbolState uint8

const (
	SymbolUnresolved SymbolState = iota
	SymbolResolving
	SymbolResolved
)

// Symbol is a named program entity.
type Symbol struct {
	Name         string
	Kind         SymbolKind
	State        SymbolState
	Type         types.TypeID
	Decl         DeclID
	Home         PackageID
	ExternalName string
	Reachable    Reachability
	Intrinsic    Intrinsic
}

// Package is one compiled Ion package.
type Package struct {
	Path string // import path, e.g. "std/io"
	Dir  string // directory holding the package sources
	// ExternalName is the prefix of exported C names. When
	// HasExternalName is false it is derived from Path.
	ExternalName    string
	HasExternalName bool
	Decls           []DeclID
}

// Program is the resolved whole-program model.
type Program struct {
	Packages []Package // index 0 reserved
	Decls    []Decl    // index 0 reserved
	Syms     []Symbol  // index 0 reserved

	// Sorted is the upstream dependency order of symbols.
	Sorted []SymbolID
	// TypeReach holds reachability of synthesized types (tuples).
	TypeReach map[types.TypeID]Reachability

	Types  *types.Interner `msgpack:"-"`
	Target layout.Target
}

// NewProgram returns an empty program with reserved zero slots.
func NewProgram(typesIn *types.Interner) *Program {
	if typesIn == nil {
		typesIn = types.NewInterner()
	}
	return &Program{
		Packages:  make([]Package, 1),
		Decls:     make([]Decl, 1),
		Syms:      make([]Symbol, 1),
		TypeReach: make(map[types.TypeID]Reachability),
		Types:     typesIn,
		Target:    layout.X86_64LinuxGNU(),
	}
}

// Package returns the package or nil when id is invalid.
func (p *Program) Package(id PackageID) *Package {
	if p == nil || !id.IsValid() || int(id) >= len(p.Packages) {
		return nil
	}
	return &p.Packages[id]
}

// Decl returns the declaration or nil when id is invalid.
func (p *Program) Decl(id DeclID) *Decl {
	if p == nil || !id.IsValid() || int(id) >= len(p.Decls) {
		return nil
	}
	return &p.Decls[id]
}

// Sym returns the symbol or nil when id is invalid.
func (p *Program) Sym(id SymbolID) *Symbol {
	if p == nil || !id.IsValid() || int(id) >= len(p.Syms) {
		return nil
	}
	return &p.Syms[id]
}

// PackageIDs lists valid package ids in order.
func (p *Program) PackageIDs() []PackageID {
	ids := make([]PackageID, 0, len(p.Packages))
	for i := 1; i < len(p.Packages); i++ {
		ids = append(ids, PackageID(i)) //nolint:gosec // bounded by len
	}
	return ids
}

// TypeReachability returns the reachability of a synthesized type.
func (p *Program) TypeReachability(id types.TypeID) Reachability {
	if p == nil || p.TypeReach == nil {
		return Unreachable
	}
	return p.TypeReach[id]
}

// Validate checks the structural invariants generation relies on: every
// sorted symbol and every referenced declaration exists.
func (p *Program) Validate() error {
	if p == nil {
		return fmt.Errorf("nil program")
	}
	if p.Types == nil {
		return fmt.Errorf("program has no type table")
	}
	for _, id := range p.Sorted {
		sym := p.Sym(id)
		if sym == nil {
			return fmt.Errorf("sorted symbol #%d does not exist", id)
		}
		if sym.Decl.IsValid() && p.Decl(sym.Decl) == nil {
			return fmt.Errorf("symbol %q references missing decl #%d", sym.Name, sym.Decl)
		}
		if sym.Home.IsValid() && p.Package(sym.Home) == nil {
			return fmt.Errorf("symbol %q references missing package #%d", sym.Name, sym.Home)
		}
		if sym.Type != types.NoTypeID {
			if _, ok := p.Types.Lookup(sym.Type); !ok {
				return fmt.Errorf("symbol %q has unknown type#%d", sym.Name, sym.Type)
			}
		}
	}
	for i := 1; i < len(p.Packages); i++ {
		for _, d := range p.Packages[i].Decls {
			if p.Decl(d) == nil {
				return fmt.Errorf("package %q references missing decl #%d", p.Packages[i].Path, d)
			}
		}
	}
	return nil
}
