package cgen

import (
	"strings"
	"testing"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
)

func TestNameResolutionOrder(t *testing.T) {
	f := newFixture(t)
	io := f.b.Package("std/io", "/lib/std/io")
	libc := f.b.PackageWithPrefix("libc", "/lib/libc", "")
	fn := f.b.Define(io, hir.Symbol{Name: "write", Kind: hir.SymbolFunc}, hir.Decl{Kind: hir.DeclFunc, Pos: at(1)})
	cst := f.b.Define(io, hir.Symbol{Name: "eof", Kind: hir.SymbolConst}, hir.Decl{Kind: hir.DeclConst, Pos: at(2)})
	ext := f.b.Define(io, hir.Symbol{Name: "open", Kind: hir.SymbolFunc, ExternalName: "fopen"}, hir.Decl{Kind: hir.DeclFunc, Pos: at(3)})
	raw := f.b.Define(libc, hir.Symbol{Name: "malloc", Kind: hir.SymbolFunc}, hir.Decl{Kind: hir.DeclFunc, Pos: at(4)})
	g := newGenerator(f.program(t), Options{})
	g.packagePrefixes()

	cases := []struct {
		id   hir.SymbolID
		want string
	}{
		{fn, "std_io_write"},
		{cst, "STD_IO_eof"},
		{ext, "fopen"},
		{raw, "malloc"},
		{f.intSym, "int"},
	}
	for _, tc := range cases {
		got, err := g.symName(tc.id, source.NoPos)
		if err != nil {
			t.Fatalf("symName(%d): %v", tc.id, err)
		}
		if got != tc.want {
			t.Fatalf("symName(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestNameIsCachedPerEntity(t *testing.T) {
	f := newFixture(t)
	id := f.fn("f", 1)
	g := newGenerator(f.program(t), Options{})
	first, err := g.symName(id, source.NoPos)
	if err != nil {
		t.Fatalf("symName: %v", err)
	}
	f.b.Prog.Syms[id].Name = "renamed"
	second, err := g.symName(id, source.NoPos)
	if err != nil {
		t.Fatalf("symName: %v", err)
	}
	if first != second {
		t.Fatalf("cached name changed: %q then %q", first, second)
	}
}

func TestUnresolvedNameIsFatal(t *testing.T) {
	f := newFixture(t)
	f.b.Define(f.pkg, hir.Symbol{
		Name:      "v",
		Kind:      hir.SymbolVar,
		State:     hir.SymbolResolved,
		Reachable: hir.ReachableNatural,
	}, hir.Decl{
		Kind: hir.DeclVar,
		Pos:  at(4),
		Var:  &hir.VarDecl{Type: &hir.Typespec{Kind: hir.TypespecName, Pos: at(4), Name: "missing"}},
	})
	_, err := generateErr(f.program(t), quiet)
	if diag.CodeOf(err) != diag.CGUnresolvedName {
		t.Fatalf("want %s, got %v", diag.CGUnresolvedName.ID(), err)
	}
	if d, _ := diag.AsDiagnostic(err); d.Primary != at(4) {
		t.Fatalf("reported at %s", d.Primary)
	}
}

func TestSameLocalNameInDifferentPackages(t *testing.T) {
	f := newFixture(t)
	a := f.b.Package("a", "/src/a")
	b := f.b.Package("b", "/src/b")
	readA := f.b.Define(a, hir.Symbol{Name: "read", Kind: hir.SymbolFunc}, hir.Decl{Kind: hir.DeclFunc, Pos: at(1)})
	readB := f.b.Define(b, hir.Symbol{Name: "read", Kind: hir.SymbolFunc}, hir.Decl{Kind: hir.DeclFunc, Pos: at(2)})
	g := newGenerator(f.program(t), Options{})

	for round := 0; round < 2; round++ {
		gotA, err := g.symName(readA, source.NoPos)
		if err != nil {
			t.Fatalf("symName(a.read): %v", err)
		}
		gotB, err := g.symName(readB, source.NoPos)
		if err != nil {
			t.Fatalf("symName(b.read): %v", err)
		}
		if gotA != "a_read" || gotB != "b_read" {
			t.Fatalf("round %d: got %q and %q, want a_read and b_read", round, gotA, gotB)
		}
	}
}

func TestLocalNamedErrorIsEmitted(t *testing.T) {
	f := newFixture(t)
	local := &hir.Expr{Kind: hir.ExprName, Type: f.intID, Pos: at(3), Data: hir.NameData{Name: "error"}}
	f.fn("f", 1,
		&hir.Stmt{Kind: hir.StmtInit, Pos: at(2), Data: hir.InitData{Name: "error", Type: f.intSpec(), Expr: intLit(1)}},
		&hir.Stmt{Kind: hir.StmtAssign, Pos: at(3), Data: hir.AssignData{Op: hir.OpAddAssign, Left: local, Right: intLit(1)}},
	)
	out := generate(t, f.program(t), quiet)
	for _, want := range []string{"int error = 1;", "error += 1;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
