package cgen

import (
	"ionc/internal/hir"
	"ionc/internal/types"
)

// newExpr lowers an allocation to the runtime allocator family: an
// explicit allocator selects generic_alloc*, a copy argument the *_copy
// variant, and a length scales the element size.
func (g *Generator) newExpr(w *writer, e *hir.Expr) error {
	d, err := exprData[hir.NewData](e)
	if err != nil {
		return err
	}
	pt, ok := g.types.Lookup(e.Type)
	if !ok || pt.Kind != types.KindPtr {
		return malformed(e.Pos, "new must produce a pointer")
	}
	ptr, err := g.typeDecl(e.Type, "")
	if err != nil {
		return err
	}
	base, err := g.typeDecl(pt.Base, "")
	if err != nil {
		return err
	}

	fn := "tls_alloc"
	switch {
	case d.Alloc != nil && d.Arg != nil:
		fn = "generic_alloc_copy"
	case d.Alloc != nil:
		fn = "generic_alloc"
	case d.Arg != nil:
		fn = "alloc_copy"
	}
	w.printf("((%s)%s(", ptr, fn)
	if d.Alloc != nil {
		w.write("(Allocator *)")
		if err := g.parenExpr(w, d.Alloc); err != nil {
			return err
		}
		w.write(", ")
	}
	if d.Len != nil {
		if err := g.expr(w, d.Len); err != nil {
			return err
		}
		w.write(" * ")
	}
	w.printf("sizeof(%s), alignof(%s)", base, base)
	if d.Arg != nil {
		w.write(", &")
		if err := g.parenExpr(w, d.Arg); err != nil {
			return err
		}
	}
	w.write("))")
	return nil
}
