package cgen

import (
	"strconv"
	"strings"

	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

// cdeclParen wraps a derived declarator in parentheses unless the inner
// declarator it was built from is empty or an array suffix.
func cdeclParen(s string, inner string) string {
	if inner == "" || inner[0] == '[' {
		return s
	}
	return "(" + s + ")"
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func joinDecl(base, inner string) string {
	if inner == "" {
		return base
	}
	return base + " " + inner
}

// typeDecl renders a C declarator for a resolved type around inner.
func (g *Generator) typeDecl(id types.TypeID, inner string) (string, error) {
	tt, ok := g.types.Lookup(id)
	if !ok {
		return "", malformed(source.NoPos, "declarator for unknown type#%d", id)
	}
	switch tt.Kind {
	case types.KindPtr:
		return g.typeDecl(tt.Base, cdeclParen("*"+inner, inner))
	case types.KindConst:
		return g.typeDecl(tt.Base, "const "+cdeclParen(inner, inner))
	case types.KindArray:
		if tt.Count == 0 {
			return g.typeDecl(tt.Base, cdeclParen(inner+"[]", inner))
		}
		return g.typeDecl(tt.Base, cdeclParen(inner+"["+itoa(uint64(tt.Count))+"]", inner))
	case types.KindFunc:
		fn, ok := g.types.FuncInfo(id)
		if !ok {
			return "", malformed(source.NoPos, "func type#%d has no signature", id)
		}
		var sb strings.Builder
		sb.WriteString("(*")
		sb.WriteString(inner)
		sb.WriteString(")(")
		if len(fn.Params) == 0 {
			sb.WriteString("void")
		}
		for i, p := range fn.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			s, err := g.typeDecl(p, "")
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		if fn.Variadic {
			sb.WriteString(", ...")
		}
		sb.WriteString(")")
		return g.typeDecl(fn.Ret, sb.String())
	default:
		name, err := g.typeName(id, tt)
		if err != nil {
			return "", err
		}
		return joinDecl(name, inner), nil
	}
}

func (g *Generator) typeName(id types.TypeID, tt types.Type) (string, error) {
	switch {
	case tt.Kind.IsPrimitive():
		return tt.Kind.String(), nil
	case tt.Kind == types.KindTuple:
		return "tuple" + itoa(uint64(id)), nil
	case tt.Kind == types.KindNone:
		return "", malformed(source.NoPos, "type#%d has no kind", id)
	default:
		return g.symName(hir.SymbolID(tt.Sym), source.NoPos)
	}
}

// typespecDecl renders a declarator from type syntax, keeping spelled
// array lengths. A missing typespec means void.
func (g *Generator) typespecDecl(ts *hir.Typespec, inner string) (string, error) {
	if ts == nil {
		return joinDecl("void", inner), nil
	}
	switch ts.Kind {
	case hir.TypespecName:
		name, err := g.symName(ts.Sym, ts.Pos)
		if err != nil {
			return "", err
		}
		return joinDecl(name, inner), nil
	case hir.TypespecPtr:
		return g.typespecDecl(ts.Base, cdeclParen("*"+inner, inner))
	case hir.TypespecConst:
		return g.typespecDecl(ts.Base, inner)
	case hir.TypespecArray:
		if ts.Len == nil {
			return g.typespecDecl(ts.Base, cdeclParen(inner+"[]", inner))
		}
		n, err := g.exprString(ts.Len)
		if err != nil {
			return "", err
		}
		return g.typespecDecl(ts.Base, cdeclParen(inner+"["+n+"]", inner))
	case hir.TypespecFunc:
		var sb strings.Builder
		sb.WriteString("(*")
		sb.WriteString(inner)
		sb.WriteString(")(")
		if len(ts.Args) == 0 {
			sb.WriteString("void")
		}
		for i, arg := range ts.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			s, err := g.typespecDecl(arg, "")
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		if ts.Variadic {
			sb.WriteString(", ...")
		}
		sb.WriteString(")")
		return g.typespecDecl(ts.Ret, sb.String())
	case hir.TypespecTuple:
		tt, ok := g.types.Lookup(ts.Type)
		if !ok || tt.Kind != types.KindTuple {
			return "", malformed(ts.Pos, "tuple typespec resolved to type#%d", ts.Type)
		}
		return joinDecl("tuple"+itoa(uint64(ts.Type)), inner), nil
	default:
		return "", malformed(ts.Pos, "unknown typespec kind %s", ts.Kind)
	}
}

// exprString renders e into a detached buffer.
func (g *Generator) exprString(e *hir.Expr) (string, error) {
	w := &writer{noSync: true}
	if err := g.expr(w, e); err != nil {
		return "", err
	}
	return w.String(), nil
}
