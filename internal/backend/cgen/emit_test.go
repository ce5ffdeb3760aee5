package cgen

import (
	"context"
	"strings"
	"testing"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

func TestEmptyFunctionPrototypeAndDefinition(t *testing.T) {
	f := newFixture(t)
	f.fn("f", 3)
	out := generate(t, f.program(t), quiet)

	if !strings.Contains(out, "\nvoid main_f(void);") {
		t.Fatalf("missing prototype:\n%s", out)
	}
	if !strings.Contains(out, "\nvoid main_f(void) {\n}") {
		t.Fatalf("missing definition:\n%s", out)
	}
}

func TestIncompleteArrayFieldBecomesPointer(t *testing.T) {
	f := newFixture(t)
	sSym := f.b.Define(f.pkg, hir.Symbol{
		Name:      "S",
		Kind:      hir.SymbolType,
		State:     hir.SymbolResolved,
		Reachable: hir.ReachableNatural,
	}, hir.Decl{
		Kind: hir.DeclStruct,
		Pos:  at(1),
		Aggregate: &hir.Aggregate{Items: []hir.AggregateItem{{
			Pos:   at(2),
			Names: []string{"a"},
			Type: &hir.Typespec{
				Kind: hir.TypespecArray,
				Type: f.ty.Array(f.intID, 0),
				Base: f.intSpec(),
			},
		}}},
	})
	sType := f.ty.Struct(uint32(sSym))
	f.ty.SetFields(sType, []types.Field{{Name: "a", Type: f.ty.Array(f.intID, 0)}})
	f.b.Prog.Syms[sSym].Type = sType

	intPtr := f.ty.Ptr(f.intID)
	arr := typedName("arr", f.ty.Array(f.intID, 3))
	arr.Conv = intPtr
	f.fn("use", 5, &hir.Stmt{Kind: hir.StmtAssign, Pos: at(6), Data: hir.AssignData{
		Op:    hir.OpAssign,
		Left:  &hir.Expr{Kind: hir.ExprField, Type: intPtr, Data: hir.FieldData{Expr: typedName("s", sType), Name: "a"}},
		Right: arr,
	}})
	out := generate(t, f.program(t), quiet)

	if !strings.Contains(out, "typedef struct main_S main_S;") {
		t.Fatalf("missing forward declaration:\n%s", out)
	}
	if !strings.Contains(out, "struct main_S {\n    int (*a);\n};") {
		t.Fatalf("field was not lowered to a pointer:\n%s", out)
	}
	if !strings.Contains(out, "s.a = (int *)(arr);") {
		t.Fatalf("missing assignment:\n%s", out)
	}
}

func TestCharRangeSwitchExpandsLabels(t *testing.T) {
	f := newFixture(t)
	body := &hir.Block{Stmts: []*hir.Stmt{exprStmt(4, &hir.Expr{
		Kind: hir.ExprModify,
		Data: hir.ModifyData{Op: hir.OpInc, Post: true, Expr: name("n")},
	})}}
	f.fn("classify", 1, &hir.Stmt{Kind: hir.StmtSwitch, Pos: at(2), Data: hir.SwitchData{
		Expr: typedName("c", f.charID),
		Cases: []hir.SwitchCase{{
			Patterns: []hir.SwitchPattern{{Start: charLit('a'), End: charLit('c')}},
			Block:    body,
		}},
	}})
	out := generate(t, f.program(t), quiet)

	want := "switch (c) {\n    case 'a': case 'b': case 'c':  {\n        (n)++;\n        break;\n    }\n    }"
	if !strings.Contains(out, want) {
		t.Fatalf("unexpected switch lowering, want %q in:\n%s", want, out)
	}
	if n := strings.Count(out, "break;"); n != 1 {
		t.Fatalf("expected exactly one break, got %d", n)
	}
}

func TestNumericRangeSwitchKeepsComment(t *testing.T) {
	f := newFixture(t)
	f.fn("classify", 1, &hir.Stmt{Kind: hir.StmtSwitch, Pos: at(2), Data: hir.SwitchData{
		Expr: typedName("n", f.intID),
		Cases: []hir.SwitchCase{
			{Patterns: []hir.SwitchPattern{{Start: intLit(1), End: intLit(3)}}, Block: &hir.Block{}},
			{IsDefault: true, Block: &hir.Block{}},
		},
	}})
	out := generate(t, f.program(t), quiet)

	if !strings.Contains(out, "// 1...3\n    case 1: case 2: case 3:  {") {
		t.Fatalf("numeric range not expanded:\n%s", out)
	}
	if !strings.Contains(out, "default: {") {
		t.Fatalf("missing default arm:\n%s", out)
	}
}

func TestCompleteSwitchGetsAssertingDefault(t *testing.T) {
	f := newFixture(t)
	f.fn("classify", 1, &hir.Stmt{
		Kind:  hir.StmtSwitch,
		Pos:   at(2),
		Notes: []hir.Note{{Pos: at(2), Name: hir.NoteComplete}},
		Data: hir.SwitchData{
			Expr:  typedName("n", f.intID),
			Cases: []hir.SwitchCase{{Patterns: []hir.SwitchPattern{{Start: intLit(1)}}, Block: &hir.Block{}}},
		},
	})
	out := generate(t, f.program(t), quiet)

	if !strings.Contains(out, "case 1: {") {
		t.Fatalf("missing single case:\n%s", out)
	}
	if !strings.Contains(out, `assert("@complete switch failed to handle case" && 0);`) {
		t.Fatalf("missing synthesized default:\n%s", out)
	}
}

func TestForeignHeaderDeduplicated(t *testing.T) {
	f := newFixture(t)
	for i, header := range []string{"lib.h", "<stdio.h>", "lib.h"} {
		f.b.Decl(f.pkg, hir.Decl{
			Kind: hir.DeclNote,
			Pos:  at(uint32(i + 1)),
			Note: &hir.Note{Name: hir.NoteForeign, Args: []hir.NoteArg{{Name: hir.ForeignHeader, Expr: strLit(header)}}},
		})
	}
	f.fn("f", 10)
	res, err := Generate(context.Background(), f.program(t), quiet)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got := strings.Count(res.Text, `#include "/src/main/lib.h"`); got != 1 {
		t.Fatalf("header emitted %d times:\n%s", got, res.Text)
	}
	first := strings.Index(res.Text, `#include "/src/main/lib.h"`)
	system := strings.Index(res.Text, "#include <stdio.h>")
	if first < 0 || system < 0 || first > system {
		t.Fatalf("headers out of request order:\n%s", res.Text)
	}
	if len(res.Headers) != 2 || res.Headers[0] != "/src/main/lib.h" {
		t.Fatalf("unexpected header list %v", res.Headers)
	}
}

func TestForeignSourcesRepeat(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		f.b.Decl(f.pkg, hir.Decl{
			Kind: hir.DeclNote,
			Pos:  at(uint32(i + 1)),
			Note: &hir.Note{Name: hir.NoteForeign, Args: []hir.NoteArg{{Name: hir.ForeignSource, Expr: strLit("impl.c")}}},
		})
	}
	res, err := Generate(context.Background(), f.program(t), quiet)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.Count(res.Text, `#include "/src/main/impl.c"`); got != 2 {
		t.Fatalf("source included %d times, want 2", got)
	}
}

func TestForeignNoteErrors(t *testing.T) {
	badArg := intLit(1)
	badArg.Pos = at(8)
	cases := []struct {
		name string
		arg  hir.NoteArg
		code diag.Code
		pos  source.Pos
	}{
		{"not a string", hir.NoteArg{Name: hir.ForeignHeader, Expr: badArg}, diag.CGForeignArgNotString, at(8)},
		{"no value", hir.NoteArg{Name: hir.ForeignHeader}, diag.CGForeignArgNotString, at(7)},
		{"unknown name", hir.NoteArg{Name: "library", Expr: strLit("m")}, diag.CGForeignUnknownArg, at(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.b.Decl(f.pkg, hir.Decl{
				Kind: hir.DeclNote,
				Pos:  at(7),
				Note: &hir.Note{Name: hir.NoteForeign, Args: []hir.NoteArg{tc.arg}},
			})
			res, err := Generate(context.Background(), f.program(t), quiet)
			if err == nil {
				t.Fatalf("expected error, got output:\n%s", res.Text)
			}
			if res != nil {
				t.Fatalf("partial result returned on error")
			}
			d, ok := diag.AsDiagnostic(err)
			if !ok || d.Code != tc.code {
				t.Fatalf("want %s, got %v", tc.code.ID(), err)
			}
			if d.Primary != tc.pos {
				t.Fatalf("error reported at %s, want %s", d.Primary, tc.pos)
			}
		})
	}
}

func TestPreambleComesFirstAndPostambleLast(t *testing.T) {
	f := newFixture(t)
	f.b.Decl(f.pkg, hir.Decl{
		Kind: hir.DeclNote,
		Pos:  at(1),
		Note: &hir.Note{Name: hir.NoteForeign, Args: []hir.NoteArg{
			{Pos: at(1), Name: hir.ForeignPreamble, Expr: strLit("#define EARLY 1")},
			{Pos: at(1), Name: hir.ForeignPostamble, Expr: strLit("#undef EARLY")},
		}},
	})
	f.fn("f", 3)
	out := generate(t, f.program(t), quiet)

	if !strings.HasPrefix(out, "\n#define EARLY 1\n") {
		t.Fatalf("preamble is not first:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "#undef EARLY") {
		t.Fatalf("postamble is not last:\n%s", out)
	}
}

func TestPreambleCarriesLineMarker(t *testing.T) {
	f := newFixture(t)
	f.b.Decl(f.pkg, hir.Decl{
		Kind: hir.DeclNote,
		Pos:  at(1),
		Note: &hir.Note{Name: hir.NoteForeign, Args: []hir.NoteArg{
			{Pos: at(4), Name: hir.ForeignPreamble, Expr: strLit("int x;")},
		}},
	})
	out := generate(t, f.program(t), Options{NoTypeInfo: true})
	if !strings.HasPrefix(out, "\n\n#line 4 \"main.ion\"\nint x;\n") {
		t.Fatalf("missing preamble marker:\n%q", out)
	}
}

func TestLineMarkersTrackFileAndLine(t *testing.T) {
	f := newFixture(t)
	f.fn("a", 3)
	f.fn("b", 9)
	out := generate(t, f.program(t), Options{NoTypeInfo: true})

	if n := strings.Count(out, `#line 3 "main.ion"`); n != 1 {
		t.Fatalf("want one file-qualified marker for line 3, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "#line 9\n") {
		t.Fatalf("line-only marker missing:\n%s", out)
	}

	quietOut := generate(t, f.program(t), quiet)
	if strings.Contains(quietOut, "#line") {
		t.Fatalf("markers emitted with line sync disabled:\n%s", quietOut)
	}
}

func TestStatementForeignNoteInForeignFunction(t *testing.T) {
	f := newFixture(t)
	note := &hir.Stmt{Kind: hir.StmtNote, Pos: at(2), Data: hir.NoteData{Note: hir.Note{
		Name: hir.NoteForeign,
		Args: []hir.NoteArg{{Pos: at(2), Name: hir.ForeignPreamble, Expr: strLit("#include <math.h>")}},
	}}}
	f.b.Define(f.pkg, hir.Symbol{
		Name:         "sqrt",
		Kind:         hir.SymbolFunc,
		State:        hir.SymbolResolved,
		Reachable:    hir.ReachableNatural,
		ExternalName: "sqrt",
	}, hir.Decl{
		Kind:  hir.DeclFunc,
		Pos:   at(1),
		Notes: []hir.Note{{Pos: at(1), Name: hir.NoteForeign}},
		Func:  &hir.FuncDecl{Body: &hir.Block{Stmts: []*hir.Stmt{note}}},
	})
	out := generate(t, f.program(t), quiet)

	if strings.Contains(out, "sqrt") {
		t.Fatalf("foreign function leaked into output:\n%s", out)
	}
	if !strings.HasPrefix(out, "\n#include <math.h>\n") {
		t.Fatalf("body note of foreign function not collected:\n%s", out)
	}
}

func TestGenerationIsRepeatable(t *testing.T) {
	f := newFixture(t)
	f.fn("a", 3)
	f.fn("b", 5)
	prog := f.program(t)
	first := generate(t, prog, Options{})
	second := generate(t, prog, Options{})
	if first != second {
		t.Fatalf("two runs over one program differ")
	}
}

func TestCanceledContextAborts(t *testing.T) {
	f := newFixture(t)
	f.fn("a", 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, f.program(t), quiet); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
