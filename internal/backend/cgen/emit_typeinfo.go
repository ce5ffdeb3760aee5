package cgen

import (
	"strings"

	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

func typeKindName(k types.Kind) string {
	return "TYPE_" + strings.ToUpper(k.RuntimeKind().String())
}

// excludedTypeInfo reports types whose runtime descriptor is omitted:
// types named by unreachable or @notypeinfo symbols, unreachable tuples
// and anonymous aggregates.
func (g *Generator) excludedTypeInfo(id types.TypeID) bool {
	tt, ok := g.types.Lookup(g.types.Named(id))
	if !ok {
		return true
	}
	if tt.Sym != 0 {
		sym := g.prog.Sym(hir.SymbolID(tt.Sym))
		if sym == nil {
			return true
		}
		if d := g.prog.Decl(sym.Decl); d != nil && d.FindNote(hir.NoteNoTypeInfo) != nil {
			return true
		}
		return !g.reachable(sym)
	}
	switch tt.Kind {
	case types.KindTuple:
		return !g.tupleReachable(g.types.Named(id))
	case types.KindStruct, types.KindUnion:
		return true
	}
	return false
}

func (g *Generator) sizeOf(id types.TypeID) (int, error) {
	size, err := g.layout.SizeOf(id)
	if err != nil {
		return 0, malformed(source.NoPos, "layout of type#%d: %v", id, err)
	}
	return size, nil
}

// typeid writes the runtime typeid of a type as a TYPEID/TYPEID0 macro.
func (g *Generator) typeid(w *writer, id types.TypeID) error {
	tt, ok := g.types.Lookup(id)
	if !ok {
		return malformed(w.posHint(), "typeid of unknown type#%d", id)
	}
	size, err := g.sizeOf(id)
	if err != nil {
		return err
	}
	kind := typeKindName(tt.Kind)
	if size == 0 || g.excludedTypeInfo(id) {
		w.printf("TYPEID0(%d, %s)", id, kind)
		return nil
	}
	t, err := g.typeDecl(id, "")
	if err != nil {
		return err
	}
	w.printf("TYPEID(%d, %s, %s)", id, kind, t)
	return nil
}

func (g *Generator) typeInfos(w *writer) error {
	w.lnf("#define TYPEID0(index, kind) ((ullong)(index) | ((ullong)(kind) << 24))")
	w.lnf("#define TYPEID(index, kind, ...) ((ullong)(index) | ((ullong)sizeof(__VA_ARGS__) << 32) | ((ullong)(kind) << 24))")
	w.ln()
	if g.opts.NoTypeInfo {
		w.lnf("int num_typeinfos;")
		w.lnf("TypeInfo **typeinfos;")
		return nil
	}
	n := g.types.Len()
	w.lnf("TypeInfo *typeinfo_table[%d] = {", n)
	w.indent++
	for i := 0; i < n; i++ {
		id := types.TypeID(i) //nolint:gosec // bounded by the interner size
		w.lnf("[%d] = ", i)
		if _, ok := g.types.Lookup(id); !ok || g.excludedTypeInfo(id) {
			w.write("NULL, // No associated type")
			continue
		}
		if err := g.typeInfo(w, id); err != nil {
			return err
		}
		g.stats.TypeInfos++
	}
	w.indent--
	w.lnf("};")
	w.ln()
	w.lnf("int num_typeinfos = %d;", n)
	w.lnf("TypeInfo **typeinfos = (TypeInfo **)typeinfo_table;")
	return nil
}

func (g *Generator) typeInfoHeader(w *writer, id types.TypeID, kind string) error {
	size, err := g.sizeOf(id)
	if err != nil {
		return err
	}
	if size == 0 {
		w.printf("&(TypeInfo){%s, .size = 0, .align = 0", kind)
		return nil
	}
	t, err := g.typeDecl(id, "")
	if err != nil {
		return err
	}
	w.printf("&(TypeInfo){%s, .size = sizeof(%s), .align = alignof(%s)", kind, t, t)
	return nil
}

func (g *Generator) typeInfo(w *writer, id types.TypeID) error {
	tt := g.types.MustLookup(id)
	switch tt.Kind {
	case types.KindVoid:
		w.write(`&(TypeInfo){TYPE_VOID, .name = "void", .size = 0, .align = 0},`)
	case types.KindPtr:
		w.write("&(TypeInfo){TYPE_PTR, .size = sizeof(void *), .align = alignof(void *), .base = ")
		if err := g.typeid(w, tt.Base); err != nil {
			return err
		}
		w.write("},")
	case types.KindConst:
		if err := g.typeInfoHeader(w, id, "TYPE_CONST"); err != nil {
			return err
		}
		w.write(", .base = ")
		if err := g.typeid(w, tt.Base); err != nil {
			return err
		}
		w.write("},")
	case types.KindArray:
		if tt.Count == 0 {
			w.write("NULL, // Incomplete array type")
			return nil
		}
		if err := g.typeInfoHeader(w, id, "TYPE_ARRAY"); err != nil {
			return err
		}
		w.write(", .base = ")
		if err := g.typeid(w, tt.Base); err != nil {
			return err
		}
		w.printf(", .count = %d},", tt.Count)
	case types.KindStruct, types.KindUnion:
		return g.aggregateTypeInfo(w, id, tt)
	case types.KindFunc:
		w.write("NULL, // Func")
	case types.KindEnum:
		w.write("NULL, // Enum")
	case types.KindIncomplete:
		name, err := g.symName(hir.SymbolID(tt.Sym), source.NoPos)
		if err != nil {
			return err
		}
		w.printf("NULL, // Incomplete: %s", name)
	default:
		if !tt.Kind.IsPrimitive() {
			w.write("NULL, // Unhandled")
			return nil
		}
		name := tt.Kind.String()
		w.printf("&(TypeInfo){%s, .size = sizeof(%s), .align = sizeof(%s), .name = ", typeKindName(tt.Kind), name, name)
		writeStr(w, name, false)
		w.write("},")
	}
	return nil
}

func (g *Generator) aggregateTypeInfo(w *writer, id types.TypeID, tt types.Type) error {
	kind := "TYPE_STRUCT"
	if tt.Kind == types.KindUnion {
		kind = "TYPE_UNION"
	}
	name, err := g.symName(hir.SymbolID(tt.Sym), source.NoPos)
	if err != nil {
		return err
	}
	if err := g.typeInfoHeader(w, id, kind); err != nil {
		return err
	}
	fields := g.types.Fields(id)
	w.write(", .name = ")
	writeStr(w, name, false)
	w.printf(", .num_fields = %d, .fields = (TypeFieldInfo[]) {", len(fields))
	w.indent++
	for _, f := range fields {
		w.lnf("{")
		writeStr(w, f.Name, false)
		w.write(", .type = ")
		if err := g.typeid(w, f.Type); err != nil {
			return err
		}
		w.printf(", .offset = offsetof(%s, %s)},", name, f.Name)
	}
	w.indent--
	w.lnf("}},")
	return nil
}
