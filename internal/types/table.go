package types

import (
	"fmt"
	"slices"
)

// Table is the flat, serializable form of an Interner.
type Table struct {
	Types      []Type
	Aggregates [][]Field
	Funcs      []FuncInfo
	Tuples     []TypeID
}

// Export copies the interner into a Table.
func (in *Interner) Export() Table {
	aggs := make([][]Field, len(in.aggregates))
	for i, fields := range in.aggregates {
		aggs[i] = slices.Clone(fields)
	}
	funcs := make([]FuncInfo, len(in.funcs))
	for i, f := range in.funcs {
		funcs[i] = FuncInfo{Params: slices.Clone(f.Params), Ret: f.Ret, Variadic: f.Variadic}
	}
	return Table{
		Types:      slices.Clone(in.types),
		Aggregates: aggs,
		Funcs:      funcs,
		Tuples:     slices.Clone(in.tuples),
	}
}

// FromTable rebuilds an interner, restoring the structural index so that
// later lookups (pointer decay during generation) reuse existing ids.
func FromTable(t Table) (*Interner, error) {
	if len(t.Types) == 0 || t.Types[0].Kind != KindNone {
		return nil, fmt.Errorf("type table must start with the reserved zero slot")
	}
	in := &Interner{
		types:      slices.Clone(t.Types),
		index:      make(map[typeKey]TypeID, len(t.Types)),
		aggregates: t.Aggregates,
		funcs:      t.Funcs,
		tuples:     slices.Clone(t.Tuples),
	}
	if len(in.aggregates) == 0 {
		in.aggregates = [][]Field{nil}
	}
	if len(in.funcs) == 0 {
		in.funcs = []FuncInfo{{}}
	}
	for i := 1; i < len(in.types); i++ {
		tt := in.types[i]
		switch {
		case tt.Kind.IsPrimitive(), tt.Kind == KindPtr, tt.Kind == KindConst, tt.Kind == KindArray:
			key := typeKey{Kind: tt.Kind, Base: tt.Base, Count: tt.Count}
			if _, dup := in.index[key]; !dup {
				in.index[key] = TypeID(i) //nolint:gosec // bounded by len(types)
			}
		case tt.Kind.IsAggregate():
			if int(tt.Payload) >= len(in.aggregates) {
				return nil, fmt.Errorf("type %d: aggregate slot %d out of range", i, tt.Payload)
			}
		case tt.Kind == KindFunc:
			if int(tt.Payload) >= len(in.funcs) {
				return nil, fmt.Errorf("type %d: func slot %d out of range", i, tt.Payload)
			}
		}
	}
	for k := KindVoid; k <= KindDouble; k++ {
		if _, ok := in.index[typeKey{Kind: k}]; !ok {
			in.intern(Type{Kind: k})
		}
	}
	return in, nil
}
