package cgen

import (
	"context"
	"testing"

	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

const testFile = "main.ion"

func at(line uint32) source.Pos {
	return source.Pos{File: testFile, Line: line}
}

type fixture struct {
	b      *hir.Builder
	ty     *types.Interner
	pkg    hir.PackageID
	intID  types.TypeID
	charID types.TypeID
	intSym hir.SymbolID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ty := types.NewInterner()
	b := hir.NewBuilder(ty)
	f := &fixture{
		b:      b,
		ty:     ty,
		pkg:    b.Package("main", "/src/main"),
		intID:  ty.Primitive(types.KindInt),
		charID: ty.Primitive(types.KindChar),
	}
	f.intSym = b.Symbol(hir.Symbol{
		Name:      "int",
		Kind:      hir.SymbolType,
		State:     hir.SymbolResolved,
		Type:      f.intID,
		Reachable: hir.ReachableNatural,
	})
	return f
}

func (f *fixture) intSpec() *hir.Typespec {
	return &hir.Typespec{Kind: hir.TypespecName, Name: "int", Sym: f.intSym, Type: f.intID}
}

// fn defines a reachable, resolved function without parameters.
func (f *fixture) fn(name string, line uint32, stmts ...*hir.Stmt) hir.SymbolID {
	return f.b.Define(f.pkg, hir.Symbol{
		Name:      name,
		Kind:      hir.SymbolFunc,
		State:     hir.SymbolResolved,
		Reachable: hir.ReachableNatural,
	}, hir.Decl{
		Kind: hir.DeclFunc,
		Pos:  at(line),
		Func: &hir.FuncDecl{Body: &hir.Block{Stmts: stmts}},
	})
}

func (f *fixture) program(t *testing.T) *hir.Program {
	t.Helper()
	prog, err := f.b.Build()
	if err != nil {
		t.Fatalf("build program: %v", err)
	}
	return prog
}

// quiet disables line markers and the typeinfo table.
var quiet = Options{NoLineSync: true, NoTypeInfo: true}

func generate(t *testing.T, prog *hir.Program, opts Options) string {
	t.Helper()
	res, err := Generate(context.Background(), prog, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return res.Text
}

func name(n string) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprName, Data: hir.NameData{Name: n}}
}

func typedName(n string, ty types.TypeID) *hir.Expr {
	e := name(n)
	e.Type = ty
	return e
}

func intLit(v int64) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprInt, Val: v, HasVal: true, Data: hir.IntData{Val: uint64(v)}}
}

func charLit(c byte) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprInt, Val: int64(c), HasVal: true, Data: hir.IntData{Val: uint64(c), Mod: hir.IntModChar}}
}

func strLit(s string) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprStr, Data: hir.StrData{Val: s}}
}

func exprStmt(line uint32, e *hir.Expr) *hir.Stmt {
	return &hir.Stmt{Kind: hir.StmtExpr, Pos: at(line), Data: hir.ExprStmtData{Expr: e}}
}

func generateErr(prog *hir.Program, opts Options) (*Result, error) {
	return Generate(context.Background(), prog, opts)
}
