package cgen

import (
	"strings"
	"testing"

	"ionc/internal/hir"
)

func renderStmt(t *testing.T, g *Generator, s *hir.Stmt) string {
	t.Helper()
	w := &writer{noSync: true}
	if err := g.stmt(w, s); err != nil {
		t.Fatalf("render: %v", err)
	}
	return w.String()
}

func initStmt(d hir.InitData) *hir.Stmt {
	return &hir.Stmt{Kind: hir.StmtInit, Data: d}
}

func TestInitStatementForms(t *testing.T) {
	f := newFixture(t)
	ty := f.ty
	intArr := &hir.Typespec{Kind: hir.TypespecArray, Type: ty.Array(f.intID, 0), Base: f.intSpec()}
	g := newGenerator(f.program(t), Options{})

	lit := &hir.Expr{Kind: hir.ExprCompound, Type: ty.Array(f.intID, 3), Expected: ty.Array(f.intID, 3), Data: hir.CompoundData{
		Fields: []hir.CompoundField{{Init: intLit(1)}, {Init: intLit(2)}, {Init: intLit(3)}},
	}}
	cases := []struct {
		name string
		d    hir.InitData
		want string
	}{
		{"inferred", hir.InitData{Name: "x", Expr: typedName("y", ty.Const(f.intID))}, "\nint x = y;"},
		{"typed zero", hir.InitData{Name: "x", Type: f.intSpec()}, "\nint x = {0};"},
		{"typed", hir.InitData{Name: "x", Type: f.intSpec(), Expr: intLit(2)}, "\nint x = 2;"},
		{"undef", hir.InitData{Name: "x", Type: f.intSpec(), IsUndef: true}, "\nint x;"},
		{"open array", hir.InitData{Name: "xs", Type: intArr}, "\nint (*xs) = 0;"},
		{"open array from pointer", hir.InitData{Name: "xs", Type: intArr, Expr: typedName("p", ty.Ptr(f.intID))}, "\nint (*xs) = p;"},
		{"open array from literal", hir.InitData{Name: "xs", Type: intArr, Expr: lit}, "\nint (xs[3]) = {1, 2, 3};"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderStmt(t, g, initStmt(tc.d)); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPointerPromotedAssignment(t *testing.T) {
	f := newFixture(t)
	charPtr := f.ty.Ptr(f.charID)
	intPtr := f.ty.Ptr(f.intID)
	g := newGenerator(f.program(t), Options{})

	p := typedName("p", intPtr)
	p.Promo = charPtr
	got := renderStmt(t, g, &hir.Stmt{Kind: hir.StmtAssign, Data: hir.AssignData{Op: hir.OpAddAssign, Left: p, Right: name("n")}})
	if want := "\np = (char *)(p) + n;"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	field := &hir.Expr{Kind: hir.ExprField, Type: intPtr, Promo: charPtr, Data: hir.FieldData{Expr: typedName("s", f.intID), Name: "cur"}}
	got = renderStmt(t, g, &hir.Stmt{Kind: hir.StmtAssign, Data: hir.AssignData{Op: hir.OpAddAssign, Left: field, Right: name("n")}})
	want := "\ndo { int (*(*__pp)) = (int (**))&(s.cur); *__pp = (int *)(*(char **)__pp + n); } while(0);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestControlFlowStatements(t *testing.T) {
	f := newFixture(t)
	g := newGenerator(f.program(t), Options{})
	body := &hir.Block{Stmts: []*hir.Stmt{{Kind: hir.StmtBreak}}}

	cases := []struct {
		name string
		s    *hir.Stmt
		want string
	}{
		{"return", &hir.Stmt{Kind: hir.StmtReturn, Data: hir.ReturnData{Expr: intLit(0)}}, "\nreturn 0;"},
		{"bare return", &hir.Stmt{Kind: hir.StmtReturn, Data: hir.ReturnData{}}, "\nreturn;"},
		{"while", &hir.Stmt{Kind: hir.StmtWhile, Data: hir.WhileData{Cond: name("ok"), Block: body}}, "\nwhile (ok) {\n    break;\n}"},
		{"do while", &hir.Stmt{Kind: hir.StmtDoWhile, Data: hir.WhileData{Cond: name("ok"), Block: body}}, "\ndo {\n    break;\n} while (ok);"},
		{"for", &hir.Stmt{Kind: hir.StmtFor, Data: hir.ForData{
			Init:  initStmt(hir.InitData{Name: "i", Type: f.intSpec(), Expr: intLit(0)}),
			Cond:  &hir.Expr{Kind: hir.ExprBinary, Data: hir.BinaryData{Op: hir.OpLt, Left: name("i"), Right: name("n")}},
			Next:  exprStmt(0, &hir.Expr{Kind: hir.ExprModify, Data: hir.ModifyData{Op: hir.OpInc, Post: true, Expr: name("i")}}),
			Block: &hir.Block{},
		}}, "\nfor (int i = 0; (i) < (n); (i)++) {\n}"},
		{"endless for", &hir.Stmt{Kind: hir.StmtFor, Data: hir.ForData{Block: &hir.Block{}}}, "\nfor (;;) {\n}"},
		{"label", &hir.Stmt{Kind: hir.StmtLabel, Data: hir.LabelData{Label: "again"}}, "\nagain: ;"},
		{"goto", &hir.Stmt{Kind: hir.StmtGoto, Data: hir.LabelData{Label: "again"}}, "\ngoto again;"},
		{"assert", &hir.Stmt{Kind: hir.StmtNote, Data: hir.NoteData{Note: hir.Note{Name: hir.NoteAssert, Args: []hir.NoteArg{{Expr: name("ok")}}}}}, "\nassert(ok);"},
		{"nested block", &hir.Stmt{Kind: hir.StmtBlock, Data: hir.BlockData{Block: body}}, "\n{\n    break;\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderStmt(t, g, tc.s); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIfChainWithInitAndCompleteNote(t *testing.T) {
	f := newFixture(t)
	g := newGenerator(f.program(t), Options{})
	s := &hir.Stmt{
		Kind:  hir.StmtIf,
		Notes: []hir.Note{{Name: hir.NoteComplete}},
		Data: hir.IfData{
			Init:    initStmt(hir.InitData{Name: "v", Type: f.intSpec(), Expr: name("get")}),
			Then:    &hir.Block{},
			ElseIfs: []hir.ElseIf{{Cond: name("other"), Block: &hir.Block{}}},
		},
	}
	got := renderStmt(t, g, s)
	want := strings.Join([]string{
		"",
		"{",
		"    int v = get;",
		"    if (v) {",
		"    } else if (other) {",
		"    } else {",
		`        assert("@complete if/elseif chain failed to handle case" && 0);`,
		"    }",
		"}",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestStatementsResyncLines(t *testing.T) {
	f := newFixture(t)
	g := newGenerator(f.program(t), Options{})
	w := &writer{}
	blk := &hir.Block{Stmts: []*hir.Stmt{
		{Kind: hir.StmtBreak, Pos: at(10)},
		{Kind: hir.StmtContinue, Pos: at(11)},
		{Kind: hir.StmtBreak, Pos: at(20)},
	}}
	if err := g.block(w, blk); err != nil {
		t.Fatalf("block: %v", err)
	}
	out := w.String()
	if !strings.Contains(out, "#line 10 \"main.ion\"\n    break;") {
		t.Fatalf("missing first marker:\n%s", out)
	}
	if !strings.Contains(out, "#line 20\n    break;") {
		t.Fatalf("missing jump marker:\n%s", out)
	}
	if strings.Count(out, "#line") != 2 {
		t.Fatalf("unexpected marker count:\n%s", out)
	}
}
