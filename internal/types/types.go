package types

import "fmt"

// TypeID uniquely identifies a type inside the interner. It doubles as the
// runtime typeid index, so ids are dense and start at 1.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types. The order up to KindTuple
// matches the TypeKind enum of the Ion runtime.
type Kind uint8

const (
	KindNone Kind = iota
	KindVoid
	KindBool
	KindChar
	KindUChar
	KindSChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindLLong
	KindULLong
	KindFloat
	KindDouble
	KindConst
	KindPtr
	KindArray
	KindStruct
	KindUnion
	KindFunc
	KindTuple
	// Kinds below have no runtime TypeKind counterpart.
	KindEnum
	KindIncomplete
)

var kindNames = [...]string{
	KindNone:       "none",
	KindVoid:       "void",
	KindBool:       "bool",
	KindChar:       "char",
	KindUChar:      "uchar",
	KindSChar:      "schar",
	KindShort:      "short",
	KindUShort:     "ushort",
	KindInt:        "int",
	KindUInt:       "uint",
	KindLong:       "long",
	KindULong:      "ulong",
	KindLLong:      "llong",
	KindULLong:     "ullong",
	KindFloat:      "float",
	KindDouble:     "double",
	KindConst:      "const",
	KindPtr:        "ptr",
	KindArray:      "array",
	KindStruct:     "struct",
	KindUnion:      "union",
	KindFunc:       "func",
	KindTuple:      "tuple",
	KindEnum:       "enum",
	KindIncomplete: "incomplete",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsPrimitive reports kinds spelled by a fixed C type name.
func (k Kind) IsPrimitive() bool {
	return k >= KindVoid && k <= KindDouble
}

// IsAggregate reports kinds with an ordered field list.
func (k Kind) IsAggregate() bool {
	return k == KindStruct || k == KindUnion || k == KindTuple
}

// RuntimeKind returns the value of the runtime TypeKind enum for k;
// kinds without a runtime counterpart map to KindNone.
func (k Kind) RuntimeKind() Kind {
	if k > KindTuple {
		return KindNone
	}
	return k
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Base    TypeID // const/ptr/array element, enum backing type
	Count   uint32 // array length; 0 means incomplete array
	Sym     uint32 // owning symbol of named types, 0 when anonymous
	Payload uint32 // slot in the aggregate/func side tables
}

// Field is one member of an aggregate type.
type Field struct {
	Name string
	Type TypeID
}

// FuncInfo stores the signature of a function type.
type FuncInfo struct {
	Params   []TypeID
	Ret      TypeID
	Variadic bool
}
