package types

// IsPtr reports whether id is a pointer type.
func (in *Interner) IsPtr(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindPtr
}

// IsAggregate reports whether id is a struct, union or tuple.
func (in *Interner) IsAggregate(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind.IsAggregate()
}

// Unqualify strips a const qualifier.
func (in *Interner) Unqualify(id TypeID) TypeID {
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindConst {
		return tt.Base
	}
	return id
}

// Decay turns an array type into a pointer to its element type.
func (in *Interner) Decay(id TypeID) TypeID {
	id = in.Unqualify(id)
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindArray {
		return in.Ptr(tt.Base)
	}
	return id
}

// IncompleteDecay decays only incomplete (zero-length) arrays.
func (in *Interner) IncompleteDecay(id TypeID) TypeID {
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindArray && tt.Count == 0 {
		return in.Ptr(tt.Base)
	}
	return id
}

// IsIncompleteArray reports base[] types.
func (in *Interner) IsIncompleteArray(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindArray && tt.Count == 0
}

// Named strips array, const and pointer wrappers down to the type whose
// identity decides typeinfo exclusion.
func (in *Interner) Named(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok {
			return id
		}
		switch tt.Kind {
		case KindArray, KindConst, KindPtr:
			id = tt.Base
		default:
			return id
		}
	}
}
