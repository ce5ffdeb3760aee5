package layout

import (
	"ionc/internal/types"
)

// TypeLayout is the C layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Aggregate-only:
	FieldOffsets []int
}

// LayoutEngine computes memory layout for types.
type LayoutEngine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, typesIn *types.Interner) *LayoutEngine {
	if target.IsZero() {
		target = X86_64LinuxGNU()
	}
	return &LayoutEngine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

type layoutState struct {
	stack []types.TypeID
	index map[types.TypeID]int
}

func newLayoutState() *layoutState {
	return &layoutState{
		index: make(map[types.TypeID]int, 32),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = newCache()
	}
	layout, err := e.layoutOf(t, newLayoutState())
	if err != nil {
		return layout, err
	}
	return layout, nil
}

func (e *LayoutEngine) layoutOf(t types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	if cached, ok := e.cache.get(t); ok {
		return cached.Layout, cached.Err
	}

	if idx, ok := state.index[t]; ok {
		cycle := append([]types.TypeID(nil), state.stack[idx:]...)
		cycle = append(cycle, t)
		err := &LayoutError{
			Kind:  LayoutErrRecursiveUnsized,
			Type:  t,
			Cycle: cycle,
		}
		e.cache.put(t, &cacheEntry{Layout: TypeLayout{Size: 0, Align: 1}, Err: err})
		return TypeLayout{Size: 0, Align: 1}, err
	}

	state.index[t] = len(state.stack)
	state.stack = append(state.stack, t)
	layout, err := e.computeLayout(t, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, t)

	e.cache.put(t, &cacheEntry{Layout: layout, Err: err})
	return layout, err
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// FieldOffset returns the byte offset of an aggregate field.
func (e *LayoutEngine) FieldOffset(aggT types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(aggT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, nil
	}
	return l.FieldOffsets[fieldIdx], nil
}
