package cgen

import (
	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/types"
)

func (g *Generator) block(w *writer, b *hir.Block) error {
	w.write("{")
	w.indent++
	if b != nil {
		for _, s := range b.Stmts {
			if err := g.stmt(w, s); err != nil {
				return err
			}
		}
	}
	w.indent--
	w.lnf("}")
	return nil
}

// simpleStmt writes statements that may appear in for headers and if
// initializers, without a trailing semicolon.
func (g *Generator) simpleStmt(w *writer, s *hir.Stmt) error {
	switch s.Kind {
	case hir.StmtExpr:
		d, err := stmtData[hir.ExprStmtData](s)
		if err != nil {
			return err
		}
		return g.expr(w, d.Expr)
	case hir.StmtInit:
		d, err := stmtData[hir.InitData](s)
		if err != nil {
			return err
		}
		return g.initStmt(w, s, d)
	case hir.StmtAssign:
		d, err := stmtData[hir.AssignData](s)
		if err != nil {
			return err
		}
		return g.assign(w, s, d)
	default:
		return malformed(s.Pos, "%s is not a simple statement", s.Kind)
	}
}

func (g *Generator) initStmt(w *writer, s *hir.Stmt, d hir.InitData) error {
	if d.Type == nil {
		if d.Expr == nil {
			return malformed(s.Pos, "%s has neither type nor initializer", d.Name)
		}
		decl, err := g.typeDecl(g.types.Unqualify(d.Expr.Type), d.Name)
		if err != nil {
			return err
		}
		w.printf("%s = ", decl)
		return g.expr(w, d.Expr)
	}

	incomplete := d.Type.IsIncompleteArray()
	switch {
	case incomplete && d.Expr == nil:
		decl, err := g.typeDecl(g.types.Decay(d.Type.Type), d.Name)
		if err != nil {
			return err
		}
		w.printf("%s = 0", decl)
		return nil
	case incomplete && g.types.IsPtr(d.Expr.Type):
		decl, err := g.typeDecl(d.Expr.Type, d.Name)
		if err != nil {
			return err
		}
		w.write(decl)
		if d.IsUndef {
			return nil
		}
		w.write(" = ")
		return g.expr(w, d.Expr)
	}

	ts := d.Type
	if incomplete {
		ts = g.sizedTypespec(d.Type, d.Expr)
	}
	decl, err := g.typespecDecl(ts, d.Name)
	if err != nil {
		return err
	}
	w.write(decl)
	switch {
	case d.IsUndef:
	case d.Expr != nil:
		w.write(" = ")
		return g.expr(w, d.Expr)
	default:
		w.write(" = {0}")
	}
	return nil
}

// sizedTypespec completes T[] with the element count of the initializer.
func (g *Generator) sizedTypespec(ts *hir.Typespec, init *hir.Expr) *hir.Typespec {
	tt, ok := g.types.Lookup(g.types.Unqualify(init.Type))
	if !ok || tt.Kind != types.KindArray || tt.Count == 0 {
		return ts
	}
	n := uint64(tt.Count)
	sized := *ts
	sized.Type = g.types.Array(tt.Base, tt.Count)
	sized.Len = &hir.Expr{
		Kind:   hir.ExprInt,
		Pos:    ts.Pos,
		Val:    int64(n),
		HasVal: true,
		Data:   hir.IntData{Val: n},
	}
	return &sized
}

// assign writes an assignment. A promoted `+=` on a pointer adds a byte
// offset: names are updated in place, other lvalues go through a
// temporary pointer so they are evaluated once.
func (g *Generator) assign(w *writer, s *hir.Stmt, d hir.AssignData) error {
	if d.Left == nil || d.Right == nil {
		return malformed(s.Pos, "assignment without operands")
	}
	if d.Left.Promo == types.NoTypeID {
		if err := g.expr(w, d.Left); err != nil {
			return err
		}
		w.printf(" %s ", d.Op)
		return g.expr(w, d.Right)
	}
	if d.Op != hir.OpAddAssign {
		return malformed(s.Pos, "pointer promotion on %s", d.Op)
	}
	if d.Left.Kind == hir.ExprName {
		nd, err := exprData[hir.NameData](d.Left)
		if err != nil {
			return err
		}
		name, err := g.exprName(d.Left, nd.Name)
		if err != nil {
			return err
		}
		w.printf("%s = (char *)(%s) + ", name, name)
		return g.expr(w, d.Right)
	}
	pp := g.types.Ptr(d.Left.Type)
	decl, err := g.typeDecl(pp, "__pp")
	if err != nil {
		return err
	}
	ptr, err := g.typeDecl(pp, "")
	if err != nil {
		return err
	}
	elem, err := g.typeDecl(d.Left.Type, "")
	if err != nil {
		return err
	}
	w.printf("do { %s = (%s)&(", decl, ptr)
	if err := g.expr(w, d.Left); err != nil {
		return err
	}
	w.printf("); *__pp = (%s)(*(char **)__pp + ", elem)
	if err := g.expr(w, d.Right); err != nil {
		return err
	}
	w.write("); } while(0)")
	return nil
}

func (g *Generator) stmt(w *writer, s *hir.Stmt) error {
	if s == nil {
		return malformed(w.posHint(), "missing statement")
	}
	w.sync(s.Pos)
	switch s.Kind {
	case hir.StmtReturn:
		d, err := stmtData[hir.ReturnData](s)
		if err != nil {
			return err
		}
		w.lnf("return")
		if d.Expr != nil {
			w.write(" ")
			if err := g.expr(w, d.Expr); err != nil {
				return err
			}
		}
		w.write(";")
	case hir.StmtBreak:
		w.lnf("break;")
	case hir.StmtContinue:
		w.lnf("continue;")
	case hir.StmtBlock:
		d, err := stmtData[hir.BlockData](s)
		if err != nil {
			return err
		}
		w.ln()
		return g.block(w, d.Block)
	case hir.StmtNote:
		d, err := stmtData[hir.NoteData](s)
		if err != nil {
			return err
		}
		return g.noteStmt(w, s, d.Note)
	case hir.StmtIf:
		d, err := stmtData[hir.IfData](s)
		if err != nil {
			return err
		}
		return g.ifStmt(w, s, d)
	case hir.StmtWhile:
		d, err := stmtData[hir.WhileData](s)
		if err != nil {
			return err
		}
		w.lnf("while (")
		if err := g.expr(w, d.Cond); err != nil {
			return err
		}
		w.write(") ")
		return g.block(w, d.Block)
	case hir.StmtDoWhile:
		d, err := stmtData[hir.WhileData](s)
		if err != nil {
			return err
		}
		w.lnf("do ")
		if err := g.block(w, d.Block); err != nil {
			return err
		}
		w.write(" while (")
		if err := g.expr(w, d.Cond); err != nil {
			return err
		}
		w.write(");")
	case hir.StmtFor:
		d, err := stmtData[hir.ForData](s)
		if err != nil {
			return err
		}
		return g.forStmt(w, d)
	case hir.StmtSwitch:
		d, err := stmtData[hir.SwitchData](s)
		if err != nil {
			return err
		}
		return g.switchStmt(w, s, d)
	case hir.StmtLabel:
		d, err := stmtData[hir.LabelData](s)
		if err != nil {
			return err
		}
		w.lnf("%s: ;", d.Label)
	case hir.StmtGoto:
		d, err := stmtData[hir.LabelData](s)
		if err != nil {
			return err
		}
		w.lnf("goto %s;", d.Label)
	default:
		w.ln()
		if err := g.simpleStmt(w, s); err != nil {
			return err
		}
		w.write(";")
	}
	return nil
}

// noteStmt handles #assert and body-level #foreign notes. Foreign
// preamble and postamble text is collected; nothing is emitted inline.
func (g *Generator) noteStmt(w *writer, s *hir.Stmt, note hir.Note) error {
	switch note.Name {
	case hir.NoteAssert:
		if len(note.Args) != 1 {
			return malformed(note.Pos, "#assert takes 1 argument, got %d", len(note.Args))
		}
		w.lnf("assert(")
		if err := g.expr(w, note.Args[0].Expr); err != nil {
			return err
		}
		w.write(");")
	case hir.NoteForeign:
		for _, arg := range note.Args {
			if arg.Expr == nil || arg.Expr.Kind != hir.ExprStr {
				pos := s.Pos
				if arg.Expr != nil {
					pos = arg.Expr.Pos
				}
				return diag.Errorf(diag.CGForeignArgNotString, pos, "#foreign argument must be a string")
			}
			str, err := exprData[hir.StrData](arg.Expr)
			if err != nil {
				return err
			}
			switch arg.Name {
			case hir.ForeignPreamble:
				g.amble(&g.preamble, arg.Pos, str.Val)
			case hir.ForeignPostamble:
				g.amble(&g.postamble, arg.Pos, str.Val)
			}
		}
	}
	return nil
}

func (g *Generator) ifStmt(w *writer, s *hir.Stmt, d hir.IfData) error {
	if d.Init != nil {
		w.lnf("{")
		w.indent++
		if err := g.stmt(w, d.Init); err != nil {
			return err
		}
		w.sync(s.Pos)
	}
	w.lnf("if (")
	switch {
	case d.Cond != nil:
		if err := g.expr(w, d.Cond); err != nil {
			return err
		}
	case d.Init != nil && d.Init.Kind == hir.StmtInit:
		init, err := stmtData[hir.InitData](d.Init)
		if err != nil {
			return err
		}
		w.write(init.Name)
	default:
		return malformed(s.Pos, "if without condition")
	}
	w.write(") ")
	if err := g.block(w, d.Then); err != nil {
		return err
	}
	for _, elif := range d.ElseIfs {
		w.write(" else if (")
		if err := g.expr(w, elif.Cond); err != nil {
			return err
		}
		w.write(") ")
		if err := g.block(w, elif.Block); err != nil {
			return err
		}
	}
	if d.Else != nil {
		w.write(" else ")
		if err := g.block(w, d.Else); err != nil {
			return err
		}
	} else if note := s.FindNote(hir.NoteComplete); note != nil {
		w.write(" else {")
		w.indent++
		w.sync(note.Pos)
		w.lnf(`assert("@complete if/elseif chain failed to handle case" && 0);`)
		w.indent--
		w.lnf("}")
	}
	if d.Init != nil {
		w.indent--
		w.lnf("}")
	}
	return nil
}

func (g *Generator) forStmt(w *writer, d hir.ForData) error {
	w.lnf("for (")
	if d.Init != nil {
		if err := g.simpleStmt(w, d.Init); err != nil {
			return err
		}
	}
	w.write(";")
	if d.Cond != nil {
		w.write(" ")
		if err := g.expr(w, d.Cond); err != nil {
			return err
		}
	}
	w.write(";")
	if d.Next != nil {
		w.write(" ")
		if err := g.simpleStmt(w, d.Next); err != nil {
			return err
		}
	}
	w.write(") ")
	return g.block(w, d.Block)
}

func (g *Generator) switchStmt(w *writer, s *hir.Stmt, d hir.SwitchData) error {
	w.lnf("switch (")
	if err := g.expr(w, d.Expr); err != nil {
		return err
	}
	w.write(") {")
	hasDefault := false
	for _, c := range d.Cases {
		for _, p := range c.Patterns {
			if err := g.casePattern(w, p); err != nil {
				return err
			}
		}
		if c.IsDefault {
			hasDefault = true
			w.lnf("default:")
		}
		w.write(" {")
		w.indent++
		if c.Block != nil {
			for _, st := range c.Block.Stmts {
				if err := g.stmt(w, st); err != nil {
					return err
				}
			}
		}
		w.lnf("break;")
		w.indent--
		w.lnf("}")
	}
	if !hasDefault && s.FindNote(hir.NoteComplete) != nil {
		w.lnf("default:")
		w.indent++
		w.lnf(`assert("@complete switch failed to handle case" && 0);`)
		w.lnf("break;")
		w.indent--
	}
	w.lnf("}")
	return nil
}

// casePattern writes the labels of one pattern. Ranges expand to one
// label per value; character ranges keep character spelling.
func (g *Generator) casePattern(w *writer, p hir.SwitchPattern) error {
	if p.Start == nil {
		return malformed(w.posHint(), "case pattern without value")
	}
	if p.End == nil {
		w.lnf("case ")
		if err := g.expr(w, p.Start); err != nil {
			return err
		}
		w.write(":")
		return nil
	}
	if !p.Start.HasVal || !p.End.HasVal {
		return malformed(p.Start.Pos, "case range bounds are not constant")
	}
	lo, hi := p.Start.Val, p.End.Val
	if isCharLit(p.Start) && isCharLit(p.End) {
		w.ln()
		eachInRange(lo, hi, func(c int64) {
			w.write("case ")
			writeChar(w, byte(c))
			w.write(": ")
		})
		return nil
	}
	w.lnf("// ")
	if err := g.expr(w, p.Start); err != nil {
		return err
	}
	w.write("...")
	if err := g.expr(w, p.End); err != nil {
		return err
	}
	w.ln()
	eachInRange(lo, hi, func(v int64) {
		w.printf("case %d: ", v)
	})
	return nil
}

// eachInRange calls fn for lo..hi inclusive without overflowing at the
// top of the int64 range.
func eachInRange(lo, hi int64, fn func(int64)) {
	if lo > hi {
		return
	}
	for v := lo; ; v++ {
		fn(v)
		if v == hi {
			return
		}
	}
}

func isCharLit(e *hir.Expr) bool {
	if e.Kind != hir.ExprInt {
		return false
	}
	d, ok := e.Data.(hir.IntData)
	return ok && d.Mod == hir.IntModChar
}
