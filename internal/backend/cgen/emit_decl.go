package cgen

import (
	"strings"

	"ionc/internal/hir"
	"ionc/internal/trace"
)

// funcProto writes a function prototype without a trailing semicolon.
// The return type goes on its own line so the name line carries the
// declaration's #line.
func (g *Generator) funcProto(w *writer, d *hir.Decl) error {
	if d.Func == nil {
		return malformed(d.Pos, "func %s has no signature", d.Name)
	}
	name, err := g.symName(d.Sym, d.Pos)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("(")
	if len(d.Func.Params) == 0 {
		sb.WriteString("void")
	}
	for i, p := range d.Func.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Type == nil {
			return malformed(p.Pos, "parameter %s has no type", p.Name)
		}
		s, err := g.typeDecl(g.types.IncompleteDecay(p.Type.Type), p.Name)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	}
	if d.Func.Variadic {
		sb.WriteString(", ...")
	}
	sb.WriteString(")")

	w.sync(d.Pos)
	if d.Func.Ret == nil {
		w.lnf("void %s", sb.String())
		return nil
	}
	s, err := g.typeDecl(g.types.IncompleteDecay(d.Func.Ret.Type), sb.String())
	if err != nil {
		return err
	}
	w.lnf("%s", s)
	return nil
}

func aggregateKeyword(kind hir.AggregateKind) string {
	if kind == hir.AggregateUnion {
		return "union"
	}
	return "struct"
}

// forwardDecls typedefs every emitted aggregate and tuple so later
// declarations may refer to them in any order.
func (g *Generator) forwardDecls(w *writer) error {
	for _, id := range g.types.Tuples() {
		if g.tupleReachable(id) {
			w.lnf("typedef struct tuple%d tuple%d;", id, id)
		}
	}
	for _, id := range g.prog.Sorted {
		sym := g.prog.Sym(id)
		d := g.prog.Decl(sym.Decl)
		if d == nil || !g.reachable(sym) || d.IsForeign() {
			continue
		}
		if d.Kind != hir.DeclStruct && d.Kind != hir.DeclUnion {
			continue
		}
		name, err := g.symName(id, d.Pos)
		if err != nil {
			return err
		}
		kw := "struct"
		if d.Kind == hir.DeclUnion {
			kw = "union"
		}
		w.lnf("typedef %s %s %s;", kw, name, name)
	}
	return nil
}

func (g *Generator) aggregateItems(w *writer, agg *hir.Aggregate) error {
	w.indent++
	for _, item := range agg.Items {
		switch item.Kind {
		case hir.AggregateItemField:
			ts := item.Type
			if ts.IsIncompleteArray() {
				ts = &hir.Typespec{
					Kind: hir.TypespecPtr,
					Pos:  ts.Pos,
					Type: g.types.Ptr(g.types.Unqualify(ts.Base.Type)),
					Base: ts.Base,
				}
			}
			for _, name := range item.Names {
				w.sync(item.Pos)
				s, err := g.typespecDecl(ts, name)
				if err != nil {
					return err
				}
				w.lnf("%s;", s)
			}
		case hir.AggregateItemSubaggregate:
			if item.Subaggregate == nil {
				return malformed(item.Pos, "empty nested aggregate")
			}
			w.lnf("%s {", aggregateKeyword(item.Subaggregate.Kind))
			if err := g.aggregateItems(w, item.Subaggregate); err != nil {
				return err
			}
			w.lnf("};")
		}
	}
	w.indent--
	return nil
}

func (g *Generator) aggregate(w *writer, d *hir.Decl) error {
	if d.IsIncomplete {
		return nil
	}
	if d.Aggregate == nil {
		return malformed(d.Pos, "%s %s has no body", d.Kind, d.Name)
	}
	name, err := g.symName(d.Sym, d.Pos)
	if err != nil {
		return err
	}
	w.lnf("%s %s {", aggregateKeyword(d.Aggregate.Kind), name)
	if err := g.aggregateItems(w, d.Aggregate); err != nil {
		return err
	}
	w.lnf("};")
	return nil
}

// decl writes the declaration part of one symbol: macros for constants,
// extern variables, prototypes, aggregate bodies and typedefs.
func (g *Generator) decl(w *writer, sym *hir.Symbol) error {
	d := g.prog.Decl(sym.Decl)
	if d == nil || d.IsForeign() {
		return nil
	}
	span := trace.Begin(g.tracer, trace.ScopeDecl, "decl "+d.Name, g.span)
	defer span.End("")

	w.sync(d.Pos)
	name, err := g.symName(d.Sym, d.Pos)
	if err != nil {
		return err
	}
	switch d.Kind {
	case hir.DeclConst:
		if d.Const == nil {
			return malformed(d.Pos, "const %s has no value", d.Name)
		}
		w.lnf("#define %s (", name)
		if d.Const.Type != nil {
			ts, err := g.typespecDecl(d.Const.Type, "")
			if err != nil {
				return err
			}
			w.printf("(%s)(", ts)
		}
		if err := g.expr(w, d.Const.Init); err != nil {
			return err
		}
		if d.Const.Type != nil {
			w.write(")")
		}
		w.write(")")
	case hir.DeclVar:
		if d.IsThreadLocal() {
			w.lnf("THREADLOCAL")
		}
		w.lnf("extern ")
		s, err := g.varDecl(d, sym, name)
		if err != nil {
			return err
		}
		w.printf("%s;", s)
	case hir.DeclFunc:
		if err := g.funcProto(w, d); err != nil {
			return err
		}
		w.write(";")
	case hir.DeclStruct, hir.DeclUnion:
		if err := g.aggregate(w, d); err != nil {
			return err
		}
	case hir.DeclTypedef:
		if d.Typedef == nil {
			return malformed(d.Pos, "typedef %s has no type", d.Name)
		}
		s, err := g.typespecDecl(d.Typedef.Type, name)
		if err != nil {
			return err
		}
		w.lnf("typedef %s;", s)
	case hir.DeclEnum:
		if d.Enum != nil && d.Enum.Type != nil {
			s, err := g.typespecDecl(d.Enum.Type, name)
			if err != nil {
				return err
			}
			w.lnf("typedef %s;", s)
		} else {
			w.lnf("typedef int %s;", name)
		}
	case hir.DeclImport:
	default:
		return malformed(d.Pos, "symbol %s has a %s declaration", sym.Name, d.Kind)
	}
	w.ln()
	g.stats.Decls++
	return nil
}

// varDecl prefers the spelled type, except for T[] whose size is only
// known from the resolved type.
func (g *Generator) varDecl(d *hir.Decl, sym *hir.Symbol, name string) (string, error) {
	if d.Var != nil && d.Var.Type != nil && !d.Var.Type.IsIncompleteArray() {
		return g.typespecDecl(d.Var.Type, name)
	}
	return g.typeDecl(sym.Type, name)
}

// sortedDecls writes tuple bodies, then every reachable symbol's
// declaration in upstream order.
func (g *Generator) sortedDecls(w *writer) error {
	for _, id := range g.types.Tuples() {
		if !g.tupleReachable(id) {
			continue
		}
		w.lnf("struct tuple%d {", id)
		w.indent++
		for _, f := range g.types.Fields(id) {
			s, err := g.typeDecl(f.Type, f.Name)
			if err != nil {
				return err
			}
			w.lnf("%s;", s)
		}
		w.indent--
		w.lnf("};")
		g.stats.Tuples++
	}
	for _, id := range g.prog.Sorted {
		sym := g.prog.Sym(id)
		if !g.reachable(sym) {
			continue
		}
		if err := g.decl(w, sym); err != nil {
			return err
		}
	}
	return nil
}

// defs writes function bodies and variable definitions. Foreign
// functions are still visited so their body notes are collected, but
// their text is discarded.
func (g *Generator) defs(w *writer) error {
	for _, id := range g.prog.Sorted {
		sym := g.prog.Sym(id)
		d := g.prog.Decl(sym.Decl)
		if sym.State != hir.SymbolResolved || d == nil || d.IsIncomplete || !g.reachable(sym) {
			continue
		}
		var err error
		switch d.Kind {
		case hir.DeclFunc:
			out := w
			if d.IsForeign() {
				out = w.detached()
			}
			err = g.funcDef(out, d)
		case hir.DeclVar:
			err = g.varDef(w, d, sym)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) funcDef(w *writer, d *hir.Decl) error {
	span := trace.Begin(g.tracer, trace.ScopeDecl, "def "+d.Name, g.span)
	defer span.End("")

	if d.FindNote(hir.NoteInline) != nil {
		w.lnf("INLINE")
	}
	if d.FindNote(hir.NoteNoInline) != nil {
		w.lnf("NOINLINE")
	}
	if err := g.funcProto(w, d); err != nil {
		return err
	}
	w.write(" ")
	if err := g.block(w, d.Func.Body); err != nil {
		return err
	}
	w.ln()
	if !d.IsForeign() {
		g.stats.Defs++
	}
	return nil
}

func (g *Generator) varDef(w *writer, d *hir.Decl, sym *hir.Symbol) error {
	name, err := g.symName(d.Sym, d.Pos)
	if err != nil {
		return err
	}
	if d.IsThreadLocal() {
		w.lnf("THREADLOCAL")
	}
	s, err := g.varDecl(d, sym, name)
	if err != nil {
		return err
	}
	w.lnf("%s", s)
	if d.Var != nil && d.Var.Init != nil {
		w.write(" = ")
		if err := g.expr(w, d.Var.Init); err != nil {
			return err
		}
	}
	w.write(";")
	g.stats.Defs++
	return nil
}

