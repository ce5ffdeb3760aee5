package cgen

import (
	"ionc/internal/hir"
	"ionc/internal/types"
)

// expr writes e together with its implicit conversion and any boxing.
func (g *Generator) expr(w *writer, e *hir.Expr) error {
	if e == nil {
		return malformed(w.posHint(), "missing expression")
	}
	if e.Conv != types.NoTypeID {
		c, err := g.typeDecl(e.Conv, "")
		if err != nil {
			return err
		}
		w.printf("(%s)(", c)
	}
	if e.Any {
		t, err := g.typeDecl(e.Type, "")
		if err != nil {
			return err
		}
		w.printf("(any){(%s[]){", t)
	}
	if err := g.exprBody(w, e); err != nil {
		return err
	}
	if e.Any {
		w.write("}, ")
		if err := g.typeid(w, e.Type); err != nil {
			return err
		}
		w.write("}")
	}
	if e.Conv != types.NoTypeID {
		w.write(")")
	}
	return nil
}

func (g *Generator) parenExpr(w *writer, e *hir.Expr) error {
	w.write("(")
	if err := g.expr(w, e); err != nil {
		return err
	}
	w.write(")")
	return nil
}

func (g *Generator) exprBody(w *writer, e *hir.Expr) error {
	switch e.Kind {
	case hir.ExprParen:
		d, err := exprData[hir.ParenData](e)
		if err != nil {
			return err
		}
		return g.parenExpr(w, d.Expr)
	case hir.ExprInt:
		d, err := exprData[hir.IntData](e)
		if err != nil {
			return err
		}
		writeInt(w, d)
	case hir.ExprFloat:
		d, err := exprData[hir.FloatData](e)
		if err != nil {
			return err
		}
		writeFloat(w, d)
	case hir.ExprStr:
		d, err := exprData[hir.StrData](e)
		if err != nil {
			return err
		}
		writeStr(w, d.Val, d.Multiline)
	case hir.ExprName:
		d, err := exprData[hir.NameData](e)
		if err != nil {
			return err
		}
		name, err := g.exprName(e, d.Name)
		if err != nil {
			return err
		}
		w.write(name)
	case hir.ExprCast:
		d, err := exprData[hir.CastData](e)
		if err != nil {
			return err
		}
		ts, err := g.typespecDecl(d.Type, "")
		if err != nil {
			return err
		}
		w.printf("(%s)", ts)
		return g.parenExpr(w, d.Expr)
	case hir.ExprCall:
		return g.call(w, e)
	case hir.ExprIndex:
		return g.index(w, e)
	case hir.ExprField:
		return g.field(w, e)
	case hir.ExprCompound:
		return g.compound(w, e)
	case hir.ExprUnary:
		d, err := exprData[hir.UnaryData](e)
		if err != nil {
			return err
		}
		w.write(d.Op.String())
		return g.parenExpr(w, d.Expr)
	case hir.ExprBinary:
		return g.binary(w, e)
	case hir.ExprTernary:
		d, err := exprData[hir.TernaryData](e)
		if err != nil {
			return err
		}
		w.write("(")
		if err := g.expr(w, d.Cond); err != nil {
			return err
		}
		w.write(" ? ")
		if err := g.expr(w, d.Then); err != nil {
			return err
		}
		w.write(" : ")
		if err := g.expr(w, d.Else); err != nil {
			return err
		}
		w.write(")")
	case hir.ExprSizeofExpr:
		d, err := exprData[hir.OperandData](e)
		if err != nil {
			return err
		}
		w.write("sizeof")
		return g.parenExpr(w, d.Expr)
	case hir.ExprSizeofType:
		d, err := exprData[hir.TypeOperandData](e)
		if err != nil {
			return err
		}
		ts, err := g.typespecDecl(d.Type, "")
		if err != nil {
			return err
		}
		w.printf("sizeof(%s)", ts)
	case hir.ExprAlignofExpr:
		d, err := exprData[hir.OperandData](e)
		if err != nil {
			return err
		}
		if d.Expr == nil {
			return malformed(e.Pos, "alignof without operand")
		}
		t, err := g.typeDecl(d.Expr.Type, "")
		if err != nil {
			return err
		}
		w.printf("alignof(%s)", t)
	case hir.ExprAlignofType:
		d, err := exprData[hir.TypeOperandData](e)
		if err != nil {
			return err
		}
		ts, err := g.typespecDecl(d.Type, "")
		if err != nil {
			return err
		}
		w.printf("alignof(%s)", ts)
	case hir.ExprTypeofExpr:
		d, err := exprData[hir.OperandData](e)
		if err != nil {
			return err
		}
		if d.Expr == nil {
			return malformed(e.Pos, "typeof without operand")
		}
		return g.typeid(w, d.Expr.Type)
	case hir.ExprTypeofType:
		d, err := exprData[hir.TypeOperandData](e)
		if err != nil {
			return err
		}
		if d.Type == nil {
			return malformed(e.Pos, "typeof without type")
		}
		return g.typeid(w, d.Type.Type)
	case hir.ExprOffsetof:
		d, err := exprData[hir.OffsetofData](e)
		if err != nil {
			return err
		}
		ts, err := g.typespecDecl(d.Type, "")
		if err != nil {
			return err
		}
		w.printf("offsetof(%s, %s)", ts, d.Name)
	case hir.ExprModify:
		d, err := exprData[hir.ModifyData](e)
		if err != nil {
			return err
		}
		if !d.Post {
			w.write(d.Op.String())
		}
		if err := g.parenExpr(w, d.Expr); err != nil {
			return err
		}
		if d.Post {
			w.write(d.Op.String())
		}
	case hir.ExprNew:
		return g.newExpr(w, e)
	default:
		return malformed(e.Pos, "unexpected expression kind %s", e.Kind)
	}
	return nil
}

func (g *Generator) call(w *writer, e *hir.Expr) error {
	d, err := exprData[hir.CallData](e)
	if err != nil {
		return err
	}
	if d.Callee == nil {
		return malformed(e.Pos, "call without callee")
	}
	sym := g.prog.Sym(d.Callee.Sym)
	switch {
	case sym != nil && sym.Intrinsic != hir.IntrinsicNone:
		return g.intrinsic(w, e, sym, d.Args)
	case sym != nil && sym.Kind == hir.SymbolType:
		name, err := g.symName(d.Callee.Sym, d.Callee.Pos)
		if err != nil {
			return err
		}
		w.printf("(%s)", name)
	default:
		if err := g.expr(w, d.Callee); err != nil {
			return err
		}
	}
	w.write("(")
	for i, arg := range d.Args {
		if i > 0 {
			w.write(", ")
		}
		if err := g.expr(w, arg); err != nil {
			return err
		}
	}
	w.write(")")
	return nil
}

// index writes a[i]; indexing an aggregate by a constant selects a field.
func (g *Generator) index(w *writer, e *hir.Expr) error {
	d, err := exprData[hir.IndexData](e)
	if err != nil {
		return err
	}
	if d.Expr == nil || d.Index == nil {
		return malformed(e.Pos, "index without operands")
	}
	if err := g.expr(w, d.Expr); err != nil {
		return err
	}
	t := g.types.Unqualify(d.Expr.Type)
	if g.types.IsAggregate(t) {
		if !d.Index.HasVal {
			return malformed(d.Index.Pos, "aggregate index is not a constant")
		}
		fields := g.types.Fields(t)
		if d.Index.Val < 0 || d.Index.Val >= int64(len(fields)) {
			return malformed(d.Index.Pos, "aggregate index %d out of range", d.Index.Val)
		}
		w.printf(".%s", fields[d.Index.Val].Name)
		return nil
	}
	w.write("[")
	if err := g.expr(w, d.Index); err != nil {
		return err
	}
	w.write("]")
	return nil
}

func (g *Generator) field(w *writer, e *hir.Expr) error {
	if e.Sym.IsValid() {
		name, err := g.symName(e.Sym, e.Pos)
		if err != nil {
			return err
		}
		w.printf("(%s)", name)
		return nil
	}
	d, err := exprData[hir.FieldData](e)
	if err != nil {
		return err
	}
	if d.Expr == nil {
		return malformed(e.Pos, "field access without operand")
	}
	if err := g.expr(w, d.Expr); err != nil {
		return err
	}
	sep := "."
	if g.types.IsPtr(g.types.Unqualify(d.Expr.Type)) {
		sep = "->"
	}
	w.printf("%s%s", sep, d.Name)
	return nil
}

func (g *Generator) compound(w *writer, e *hir.Expr) error {
	d, err := exprData[hir.CompoundData](e)
	if err != nil {
		return err
	}
	switch {
	case e.Expected != types.NoTypeID && !g.types.IsPtr(e.Expected):
		w.write("{")
	case d.Type != nil:
		ts, err := g.typespecDecl(d.Type, "")
		if err != nil {
			return err
		}
		w.printf("(%s){", ts)
	default:
		t, err := g.typeDecl(e.Type, "")
		if err != nil {
			return err
		}
		w.printf("(%s){", t)
	}
	for i, f := range d.Fields {
		if i > 0 {
			w.write(", ")
		}
		switch f.Kind {
		case hir.FieldName:
			w.printf(".%s = ", f.Name)
		case hir.FieldIndex:
			w.write("[")
			if err := g.expr(w, f.Index); err != nil {
				return err
			}
			w.write("] = ")
		}
		if err := g.expr(w, f.Init); err != nil {
			return err
		}
	}
	if len(d.Fields) == 0 {
		w.write("0")
	}
	w.write("}")
	return nil
}

// binary parenthesizes both operands; operands with a pointer promotion
// are cast first.
func (g *Generator) binary(w *writer, e *hir.Expr) error {
	d, err := exprData[hir.BinaryData](e)
	if err != nil {
		return err
	}
	if d.Left == nil || d.Right == nil {
		return malformed(e.Pos, "binary expression without operands")
	}
	w.write("(")
	if err := g.promoted(w, d.Left); err != nil {
		return err
	}
	w.printf(") %s (", d.Op)
	if err := g.promoted(w, d.Right); err != nil {
		return err
	}
	w.write(")")
	return nil
}

func (g *Generator) promoted(w *writer, e *hir.Expr) error {
	if e.Promo != types.NoTypeID {
		t, err := g.typeDecl(e.Promo, "")
		if err != nil {
			return err
		}
		w.printf("(%s)", t)
	}
	return g.expr(w, e)
}
