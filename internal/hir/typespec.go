package hir

import (
	"ionc/internal/source"
	"ionc/internal/types"
)

// TypespecKind enumerates type syntax forms.
type TypespecKind uint8

const (
	TypespecNone TypespecKind = iota
	TypespecName
	TypespecFunc
	TypespecArray
	TypespecPtr
	TypespecConst
	TypespecTuple
)

func (k TypespecKind) String() string {
	switch k {
	case TypespecName:
		return "name"
	case TypespecFunc:
		return "func"
	case TypespecArray:
		return "array"
	case TypespecPtr:
		return "ptr"
	case TypespecConst:
		return "const"
	case TypespecTuple:
		return "tuple"
	default:
		return "none"
	}
}

// Typespec is pre-resolution type syntax together with what it resolved to.
type Typespec struct {
	Kind TypespecKind
	Pos  source.Pos
	Type types.TypeID // resolved type

	Name string   // TypespecName
	Sym  SymbolID // TypespecName: resolved symbol

	Base *Typespec // ptr/const/array
	Len  *Expr     // array length; nil means []

	Args     []*Typespec // func parameters
	Ret      *Typespec   // func result; nil means void
	Variadic bool

	Elems []*Typespec // tuple components
}

// IsIncompleteArray reports `T[]` syntax.
func (ts *Typespec) IsIncompleteArray() bool {
	return ts != nil && ts.Kind == TypespecArray && ts.Len == nil
}
