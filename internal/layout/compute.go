package layout

import (
	"ionc/internal/types"
)

func (e *LayoutEngine) computeLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrUnknownType, Type: id}
	}

	switch tt.Kind {
	case types.KindNone, types.KindVoid, types.KindIncomplete:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindBool, types.KindChar, types.KindUChar, types.KindSChar:
		return scalarLayoutBytes(1), nil

	case types.KindShort, types.KindUShort:
		return scalarLayoutBytes(2), nil

	case types.KindInt, types.KindUInt, types.KindFloat:
		return scalarLayoutBytes(4), nil

	case types.KindLong, types.KindULong:
		return scalarLayoutBytes(e.Target.LongSize), nil

	case types.KindLLong, types.KindULLong, types.KindDouble:
		return scalarLayoutBytes(8), nil

	case types.KindPtr, types.KindFunc:
		return e.ptrLayout(), nil

	case types.KindConst:
		return e.layoutOf(tt.Base, state)

	case types.KindEnum:
		if tt.Base != types.NoTypeID {
			return e.layoutOf(tt.Base, state)
		}
		return scalarLayoutBytes(4), nil

	case types.KindArray:
		return e.arrayLayout(id, tt, state)

	case types.KindStruct, types.KindTuple:
		return e.structLayout(id, state)

	case types.KindUnion:
		return e.unionLayout(id, state)

	default:
		return TypeLayout{Size: 0, Align: 1}, nil
	}
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}
}

func scalarLayoutBytes(n int) TypeLayout {
	if n <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: n, Align: n}
}

func (e *LayoutEngine) arrayLayout(id types.TypeID, tt types.Type, state *layoutState) (TypeLayout, *LayoutError) {
	elem, err := e.layoutOf(tt.Base, state)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	// Incomplete arrays take no storage.
	if tt.Count == 0 {
		return TypeLayout{Size: 0, Align: elem.Align}, nil
	}
	stride := roundUp(elem.Size, elem.Align)
	size := int64(stride) * int64(tt.Count)
	if size > int64(^uint32(0)) {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrSizeOverflow, Type: id}
	}
	return TypeLayout{Size: int(size), Align: elem.Align}, nil
}

func (e *LayoutEngine) structLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	fields := e.Types.Fields(id)
	offsets := make([]int, len(fields))
	off := 0
	align := 1
	for i, f := range fields {
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		off = roundUp(off, fl.Align)
		offsets[i] = off
		off += fl.Size
		align = max(align, fl.Align)
	}
	return TypeLayout{Size: roundUp(off, align), Align: align, FieldOffsets: offsets}, nil
}

func (e *LayoutEngine) unionLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	fields := e.Types.Fields(id)
	offsets := make([]int, len(fields))
	size := 0
	align := 1
	for _, f := range fields {
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		size = max(size, fl.Size)
		align = max(align, fl.Align)
	}
	return TypeLayout{Size: roundUp(size, align), Align: align, FieldOffsets: offsets}, nil
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
