package cgen

import (
	"testing"

	"ionc/internal/hir"
	"ionc/internal/types"
)

func TestTypeDeclaratorShapes(t *testing.T) {
	f := newFixture(t)
	g := newGenerator(f.program(t), Options{})
	ty := f.ty
	voidID := ty.Primitive(types.KindVoid)

	cases := []struct {
		name  string
		id    types.TypeID
		inner string
		want  string
	}{
		{"plain", f.intID, "x", "int x"},
		{"abstract", f.intID, "", "int"},
		{"pointer", ty.Ptr(f.intID), "p", "int (*p)"},
		{"abstract pointer", ty.Ptr(f.intID), "", "int *"},
		{"array", ty.Array(f.intID, 4), "a", "int (a[4])"},
		{"incomplete array", ty.Array(f.intID, 0), "", "int []"},
		{"pointer to array", ty.Ptr(ty.Array(f.intID, 3)), "x", "int ((*x)[3])"},
		{"const pointee", ty.Ptr(ty.Const(f.charID)), "s", "char const ((*s))"},
		{"func pointer", ty.Func([]types.TypeID{f.intID, f.charID}, voidID, false), "cb", "void (*cb)(int, char)"},
		{"nullary func", ty.Func(nil, f.intID, false), "", "int (*)(void)"},
		{"variadic func", ty.Func([]types.TypeID{f.intID}, f.intID, true), "pf", "int (*pf)(int, ...)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.typeDecl(tc.id, tc.inner)
			if err != nil {
				t.Fatalf("typeDecl: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTupleDeclaratorUsesTypeID(t *testing.T) {
	f := newFixture(t)
	tup := f.ty.Tuple([]types.TypeID{f.intID, f.charID})
	g := newGenerator(f.program(t), Options{})

	got, err := g.typeDecl(tup, "pair")
	if err != nil {
		t.Fatalf("typeDecl: %v", err)
	}
	if want := "tuple" + itoa(uint64(tup)) + " pair"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	spec := &hir.Typespec{Kind: hir.TypespecTuple, Type: tup}
	got, err = g.typespecDecl(spec, "")
	if err != nil {
		t.Fatalf("typespecDecl: %v", err)
	}
	if want := "tuple" + itoa(uint64(tup)); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTypespecKeepsSpelledLength(t *testing.T) {
	f := newFixture(t)
	nSym := f.b.Define(f.pkg, hir.Symbol{
		Name:      "N",
		Kind:      hir.SymbolConst,
		State:     hir.SymbolResolved,
		Reachable: hir.ReachableNatural,
	}, hir.Decl{Kind: hir.DeclConst, Pos: at(1), Const: &hir.ConstDecl{Init: intLit(8)}})
	g := newGenerator(f.program(t), Options{})
	g.packagePrefixes()

	length := name("N")
	length.Sym = nSym
	spec := &hir.Typespec{
		Kind: hir.TypespecPtr,
		Base: &hir.Typespec{
			Kind: hir.TypespecArray,
			Base: &hir.Typespec{Kind: hir.TypespecConst, Base: f.intSpec()},
			Len:  length,
		},
	}
	got, err := g.typespecDecl(spec, "buf")
	if err != nil {
		t.Fatalf("typespecDecl: %v", err)
	}
	if want := "int ((*buf)[MAIN_N])"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	fnSpec := &hir.Typespec{Kind: hir.TypespecFunc, Args: []*hir.Typespec{f.intSpec()}}
	got, err = g.typespecDecl(fnSpec, "h")
	if err != nil {
		t.Fatalf("typespecDecl: %v", err)
	}
	if want := "void (*h)(int)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
