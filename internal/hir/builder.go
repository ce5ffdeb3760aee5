package hir

import (
	"fortio.org/safecast"

	"ionc/internal/types"
)

// Builder assembles a Program in upstream order: every Define appends the
// symbol to Sorted.
type Builder struct {
	Prog *Program
}

func NewBuilder(typesIn *types.Interner) *Builder {
	return &Builder{Prog: NewProgram(typesIn)}
}

func mustID(n int) uint32 {
	id, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return id
}

// Package registers a package whose prefix is derived from its path.
func (b *Builder) Package(path, dir string) PackageID {
	b.Prog.Packages = append(b.Prog.Packages, Package{Path: path, Dir: dir})
	return PackageID(mustID(len(b.Prog.Packages) - 1))
}

// PackageWithPrefix registers a package with an explicit external prefix.
func (b *Builder) PackageWithPrefix(path, dir, prefix string) PackageID {
	id := b.Package(path, dir)
	pkg := b.Prog.Package(id)
	pkg.ExternalName = prefix
	pkg.HasExternalName = true
	return id
}

// Symbol adds a free-standing symbol (builtins, locals referenced by name).
func (b *Builder) Symbol(sym Symbol) SymbolID {
	b.Prog.Syms = append(b.Prog.Syms, sym)
	return SymbolID(mustID(len(b.Prog.Syms) - 1))
}

// Decl adds a declaration owned by pkg.
func (b *Builder) Decl(pkg PackageID, d Decl) DeclID {
	b.Prog.Decls = append(b.Prog.Decls, d)
	id := DeclID(mustID(len(b.Prog.Decls) - 1))
	if p := b.Prog.Package(pkg); p != nil {
		p.Decls = append(p.Decls, id)
	}
	return id
}

// Define adds a symbol together with its declaration and appends it to
// the emission order.
func (b *Builder) Define(pkg PackageID, sym Symbol, d Decl) SymbolID {
	sym.Home = pkg
	if sym.Name == "" {
		sym.Name = d.Name
	}
	if d.Name == "" {
		d.Name = sym.Name
	}
	id := b.Symbol(sym)
	d.Sym = id
	declID := b.Decl(pkg, d)
	b.Prog.Syms[id].Decl = declID
	b.Prog.Sorted = append(b.Prog.Sorted, id)
	return id
}

// ReachTuple marks a synthesized type reachable.
func (b *Builder) ReachTuple(id types.TypeID, r Reachability) {
	b.Prog.TypeReach[id] = r
}

// Build validates and returns the program.
func (b *Builder) Build() (*Program, error) {
	if err := b.Prog.Validate(); err != nil {
		return nil, err
	}
	return b.Prog, nil
}
