package hir

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"ionc/internal/source"
)

func TestExprCodecKeepsPayload(t *testing.T) {
	pos := source.Pos{File: "a.ion", Line: 4}
	call := &Expr{
		Kind: ExprCall,
		Pos:  pos,
		Data: CallData{
			Callee: &Expr{Kind: ExprName, Sym: 3, Data: NameData{Name: "f"}},
			Args: []*Expr{
				{Kind: ExprInt, Val: 7, HasVal: true, Data: IntData{Val: 7, Mod: IntModHex}},
				{Kind: ExprStr, Any: true, Data: StrData{Val: "hi\n", Multiline: true}},
			},
		},
	}
	raw, err := msgpack.Marshal(call)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Expr
	if err := msgpack.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data, ok := got.Data.(CallData)
	if !ok {
		t.Fatalf("payload type %T, want CallData", got.Data)
	}
	if got.Pos != pos || data.Callee.Sym != 3 || len(data.Args) != 2 {
		t.Fatalf("header lost: %+v", got)
	}
	if lit, ok := data.Args[0].Data.(IntData); !ok || lit.Mod != IntModHex || !data.Args[0].HasVal {
		t.Fatalf("int payload lost: %+v", data.Args[0])
	}
	if s, ok := data.Args[1].Data.(StrData); !ok || !s.Multiline || !data.Args[1].Any {
		t.Fatalf("string payload lost: %+v", data.Args[1])
	}
}

func TestStmtCodecHandlesEmptyPayload(t *testing.T) {
	body := &Block{Stmts: []*Stmt{
		{Kind: StmtBreak},
		{Kind: StmtSwitch, Notes: []Note{{Name: NoteComplete}}, Data: SwitchData{
			Expr: &Expr{Kind: ExprName, Data: NameData{Name: "c"}},
			Cases: []SwitchCase{{
				Patterns: []SwitchPattern{{
					Start: &Expr{Kind: ExprInt, Data: IntData{Val: 'a', Mod: IntModChar}},
					End:   &Expr{Kind: ExprInt, Data: IntData{Val: 'c', Mod: IntModChar}},
				}},
				Block: &Block{},
			}},
		}},
	}}
	raw, err := msgpack.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Block
	if err := msgpack.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Stmts) != 2 || got.Stmts[0].Kind != StmtBreak || got.Stmts[0].Data != nil {
		t.Fatalf("break lost: %+v", got.Stmts)
	}
	sw, ok := got.Stmts[1].Data.(SwitchData)
	if !ok || got.Stmts[1].FindNote(NoteComplete) == nil {
		t.Fatalf("switch lost: %+v", got.Stmts[1])
	}
	if sw.Cases[0].Patterns[0].End == nil {
		t.Fatal("range end lost")
	}
}

func TestBuilderLinksSymbolsAndDecls(t *testing.T) {
	b := NewBuilder(nil)
	pkg := b.Package("main", "/src/main")
	id := b.Define(pkg, Symbol{Kind: SymbolFunc, Reachable: ReachableNatural}, Decl{Kind: DeclFunc, Name: "f", Func: &FuncDecl{Body: &Block{}}})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sym := prog.Sym(id)
	if sym.Name != "f" || prog.Decl(sym.Decl).Sym != id || sym.Home != pkg {
		t.Fatalf("links broken: %+v", sym)
	}
	if len(prog.Sorted) != 1 || prog.Package(pkg).Decls[0] != sym.Decl {
		t.Fatal("order or package membership broken")
	}
	if prog.Sym(NoSymbolID) != nil || prog.Sym(99) != nil {
		t.Fatal("invalid ids must return nil")
	}
}
