package cgen

import (
	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
)

// nameKey identifies an entity whose C name is cached: a symbol, or a
// name expression that resolved to no symbol.
type nameKey struct {
	sym  hir.SymbolID
	expr *hir.Expr
}

// symName returns the C name of a symbol. An unresolved symbol is fatal.
func (g *Generator) symName(id hir.SymbolID, pos source.Pos) (string, error) {
	return g.cachedName(nameKey{sym: id}, "", pos)
}

// exprName returns the C name for a name expression, falling back to the
// spelled name when it resolved to no symbol.
func (g *Generator) exprName(e *hir.Expr, spelled string) (string, error) {
	if e.Sym.IsValid() {
		return g.cachedName(nameKey{sym: e.Sym}, spelled, e.Pos)
	}
	return g.cachedName(nameKey{expr: e}, spelled, e.Pos)
}

// cachedName resolves key to its C name. Without a symbol the fallback is
// used as is; an empty fallback means the name had to resolve.
func (g *Generator) cachedName(key nameKey, fallback string, pos source.Pos) (string, error) {
	if name, ok := g.names[key]; ok {
		return name, nil
	}
	var name string
	if sym := g.prog.Sym(key.sym); sym != nil {
		name = g.mangle(sym)
	} else {
		if fallback == "" {
			return "", diag.Errorf(diag.CGUnresolvedName, pos, "unresolved name reached code generation")
		}
		name = fallback
	}
	g.names[key] = name
	return name, nil
}

// mangle prefixes a symbol with its package prefix; constants get an
// upper-cased prefix since they become macros.
func (g *Generator) mangle(sym *hir.Symbol) string {
	if sym.ExternalName != "" {
		return sym.ExternalName
	}
	prefix := g.packagePrefix(sym.Home)
	if prefix == "" {
		return sym.Name
	}
	if sym.Kind == hir.SymbolConst {
		prefix = g.upper.String(prefix)
	}
	return prefix + sym.Name
}

// packagePrefix derives "a/b" to "a_b_" unless the package declares its own.
func (g *Generator) packagePrefix(id hir.PackageID) string {
	if prefix, ok := g.prefixes[id]; ok {
		return prefix
	}
	prefix := PackagePrefix(g.prog.Package(id))
	g.prefixes[id] = prefix
	return prefix
}

// PackagePrefix is the C name prefix of pkg's symbols.
func PackagePrefix(pkg *hir.Package) string {
	if pkg == nil {
		return ""
	}
	if pkg.HasExternalName {
		return pkg.ExternalName
	}
	return pathPrefix(pkg.Path)
}

func pathPrefix(path string) string {
	if path == "" {
		return ""
	}
	b := []byte(path)
	for i, c := range b {
		if c == '/' {
			b[i] = '_'
		}
	}
	return string(b) + "_"
}
