package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Interner provides stable TypeIDs. Structural types (pointers, arrays,
// functions, tuples) are deduplicated so identity comparison is valid;
// nominal types get a fresh id on every registration.
type Interner struct {
	types      []Type
	index      map[typeKey]TypeID
	aggregates [][]Field
	funcs      []FuncInfo
	tuples     []TypeID
}

type typeKey struct {
	Kind  Kind
	Base  TypeID
	Count uint32
}

// NewInterner constructs an interner seeded with the primitive types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.types = append(in.types, Type{}) // reserve 0 as NoTypeID
	in.aggregates = append(in.aggregates, nil)
	in.funcs = append(in.funcs, FuncInfo{})
	for k := KindVoid; k <= KindDouble; k++ {
		in.intern(Type{Kind: k})
	}
	return in
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(n)
}

func (in *Interner) intern(t Type) TypeID {
	key := typeKey{Kind: t.Kind, Base: t.Base, Count: t.Count}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// Len returns the number of type slots including the reserved zero slot;
// it is the size of the runtime typeinfo table.
func (in *Interner) Len() int {
	return len(in.types)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Primitive returns the pre-registered id of a primitive kind.
func (in *Interner) Primitive(k Kind) TypeID {
	if !k.IsPrimitive() {
		panic(fmt.Sprintf("types: %s is not primitive", k))
	}
	return in.index[typeKey{Kind: k}]
}

func (in *Interner) Ptr(base TypeID) TypeID {
	return in.intern(Type{Kind: KindPtr, Base: base})
}

func (in *Interner) Const(base TypeID) TypeID {
	if tt, ok := in.Lookup(base); ok && tt.Kind == KindConst {
		return base
	}
	return in.intern(Type{Kind: KindConst, Base: base})
}

// Array describes base[count]; count 0 is an incomplete array.
func (in *Interner) Array(base TypeID, count uint32) TypeID {
	return in.intern(Type{Kind: KindArray, Base: base, Count: count})
}

// Func creates or finds a function type.
func (in *Interner) Func(params []TypeID, ret TypeID, variadic bool) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFunc {
			continue
		}
		info := in.funcs[tt.Payload]
		if info.Ret == ret && info.Variadic == variadic && slices.Equal(info.Params, params) {
			return id
		}
	}
	in.funcs = append(in.funcs, FuncInfo{Params: slices.Clone(params), Ret: ret, Variadic: variadic})
	return in.internRaw(Type{Kind: KindFunc, Payload: in.lastSlot(len(in.funcs))})
}

// Tuple creates or finds the tuple of the given element types. New tuples
// are appended to the tuple side list in creation order.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	for _, id := range in.tuples {
		fields := in.aggregates[in.types[id].Payload]
		if len(fields) != len(elems) {
			continue
		}
		same := true
		for i := range fields {
			if fields[i].Type != elems[i] {
				same = false
				break
			}
		}
		if same {
			return id
		}
	}
	fields := make([]Field, len(elems))
	for i, elem := range elems {
		fields[i] = Field{Name: fmt.Sprintf("_%d", i), Type: elem}
	}
	in.aggregates = append(in.aggregates, fields)
	id := in.internRaw(Type{Kind: KindTuple, Payload: in.lastSlot(len(in.aggregates))})
	in.tuples = append(in.tuples, id)
	return id
}

// Struct allocates a nominal struct owned by sym. Fields are set later so
// that self-referential aggregates can be built.
func (in *Interner) Struct(sym uint32) TypeID {
	return in.registerAggregate(KindStruct, sym)
}

// Union allocates a nominal union owned by sym.
func (in *Interner) Union(sym uint32) TypeID {
	return in.registerAggregate(KindUnion, sym)
}

func (in *Interner) registerAggregate(kind Kind, sym uint32) TypeID {
	in.aggregates = append(in.aggregates, nil)
	return in.internRaw(Type{Kind: kind, Sym: sym, Payload: in.lastSlot(len(in.aggregates))})
}

// Enum allocates a nominal enum backed by base (NoTypeID means int).
func (in *Interner) Enum(sym uint32, base TypeID) TypeID {
	return in.internRaw(Type{Kind: KindEnum, Sym: sym, Base: base})
}

// Incomplete allocates a named type that is only forward-declared.
func (in *Interner) Incomplete(sym uint32) TypeID {
	return in.internRaw(Type{Kind: KindIncomplete, Sym: sym})
}

// SetFields stores the resolved fields of a struct or union.
func (in *Interner) SetFields(id TypeID, fields []Field) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindStruct && tt.Kind != KindUnion) {
		panic(fmt.Sprintf("types: SetFields on non-aggregate %d", id))
	}
	in.aggregates[tt.Payload] = slices.Clone(fields)
}

// Fields returns the ordered fields of an aggregate (nil otherwise).
func (in *Interner) Fields(id TypeID) []Field {
	tt, ok := in.Lookup(id)
	if !ok || !tt.Kind.IsAggregate() {
		return nil
	}
	return in.aggregates[tt.Payload]
}

// FuncInfo retrieves the function signature by TypeID.
func (in *Interner) FuncInfo(id TypeID) (*FuncInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunc {
		return nil, false
	}
	return &in.funcs[tt.Payload], true
}

// Tuples lists tuple types in creation order.
func (in *Interner) Tuples() []TypeID {
	return in.tuples
}

func (in *Interner) lastSlot(n int) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("types side table overflow: %w", err))
	}
	return slot
}
