package hir

import (
	"ionc/internal/source"
	"ionc/internal/types"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	ExprNone ExprKind = iota
	// ExprParen represents a parenthesized expression.
	ExprParen
	// ExprInt represents integer and character literals.
	ExprInt
	// ExprFloat represents floating-point literals.
	ExprFloat
	// ExprStr represents string literals.
	ExprStr
	// ExprName represents a name reference.
	ExprName
	// ExprCast represents an explicit cast(T, e).
	ExprCast
	// ExprCall represents calls, type conversions and intrinsics.
	ExprCall
	// ExprIndex represents a[i], including constant tuple indexing.
	ExprIndex
	// ExprField represents a.b and package-qualified names.
	ExprField
	// ExprCompound represents {...} and T{...} literals.
	ExprCompound
	ExprUnary
	ExprBinary
	ExprTernary
	ExprSizeofExpr
	ExprSizeofType
	ExprAlignofExpr
	ExprAlignofType
	ExprTypeofExpr
	ExprTypeofType
	ExprOffsetof
	// ExprModify represents ++/-- in prefix or postfix position.
	ExprModify
	// ExprNew represents new/allocation expressions.
	ExprNew
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprParen:
		return "Paren"
	case ExprInt:
		return "Int"
	case ExprFloat:
		return "Float"
	case ExprStr:
		return "Str"
	case ExprName:
		return "Name"
	case ExprCast:
		return "Cast"
	case ExprCall:
		return "Call"
	case ExprIndex:
		return "Index"
	case ExprField:
		return "Field"
	case ExprCompound:
		return "Compound"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprTernary:
		return "Ternary"
	case ExprSizeofExpr:
		return "SizeofExpr"
	case ExprSizeofType:
		return "SizeofType"
	case ExprAlignofExpr:
		return "AlignofExpr"
	case ExprAlignofType:
		return "AlignofType"
	case ExprTypeofExpr:
		return "TypeofExpr"
	case ExprTypeofType:
		return "TypeofType"
	case ExprOffsetof:
		return "Offsetof"
	case ExprModify:
		return "Modify"
	case ExprNew:
		return "New"
	default:
		return "Unknown"
	}
}

// Expr is an expression together with its resolved metadata.
type Expr struct {
	Kind ExprKind
	Pos  source.Pos
	Type types.TypeID // resolved type
	Sym  SymbolID     // resolved symbol when the expression names one

	Conv     types.TypeID // implicit conversion target
	Expected types.TypeID // type expected by the context (compound literals)
	Promo    types.TypeID // pointer promotion type for arithmetic
	Any      bool         // box into `any`

	// Val is the folded constant value, valid when HasVal is set.
	Val    int64
	HasVal bool

	Data ExprData // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// IntMod records the radix the literal was written in.
type IntMod uint8

const (
	IntModNone IntMod = iota
	IntModHex
	IntModBin
	IntModOct
	IntModChar
)

// IntSuffix is the integer literal suffix.
type IntSuffix uint8

const (
	IntSuffixNone IntSuffix = iota
	IntSuffixU
	IntSuffixL
	IntSuffixUL
	IntSuffixLL
	IntSuffixULL
)

func (s IntSuffix) String() string {
	switch s {
	case IntSuffixU:
		return "u"
	case IntSuffixL:
		return "l"
	case IntSuffixUL:
		return "ul"
	case IntSuffixLL:
		return "ll"
	case IntSuffixULL:
		return "ull"
	default:
		return ""
	}
}

// ParenData holds data for ExprParen.
type ParenData struct {
	Expr *Expr
}

func (ParenData) exprData() {}

// IntData holds data for ExprInt.
type IntData struct {
	Val    uint64
	Mod    IntMod
	Suffix IntSuffix
}

func (IntData) exprData() {}

// FloatData holds data for ExprFloat.
type FloatData struct {
	Text   string // source text, including a trailing 'd' when Double
	Val    float64
	Double bool
}

func (FloatData) exprData() {}

// StrData holds data for ExprStr.
type StrData struct {
	Val       string
	Multiline bool
}

func (StrData) exprData() {}

// NameData holds data for ExprName.
type NameData struct {
	Name string
}

func (NameData) exprData() {}

// CastData holds data for ExprCast.
type CastData struct {
	Type *Typespec
	Expr *Expr
}

func (CastData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Expr  *Expr
	Index *Expr
}

func (IndexData) exprData() {}

// FieldData holds data for ExprField.
type FieldData struct {
	Expr *Expr
	Name string
}

func (FieldData) exprData() {}

// CompoundFieldKind selects positional, named or indexed initializers.
type CompoundFieldKind uint8

const (
	FieldDefault CompoundFieldKind = iota
	FieldName
	FieldIndex
)

// CompoundField is one initializer of a compound literal.
type CompoundField struct {
	Pos   source.Pos
	Kind  CompoundFieldKind
	Name  string
	Index *Expr
	Init  *Expr
}

// CompoundData holds data for ExprCompound.
type CompoundData struct {
	Type   *Typespec // explicit type, may be nil
	Fields []CompoundField
}

func (CompoundData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op   Op
	Expr *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    Op
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// TernaryData holds data for ExprTernary.
type TernaryData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (TernaryData) exprData() {}

// OperandData holds the operand of sizeof/alignof/typeof over an expression.
type OperandData struct {
	Expr *Expr
}

func (OperandData) exprData() {}

// TypeOperandData holds the operand of sizeof/alignof/typeof over a type.
type TypeOperandData struct {
	Type *Typespec
}

func (TypeOperandData) exprData() {}

// OffsetofData holds data for ExprOffsetof.
type OffsetofData struct {
	Type *Typespec
	Name string
}

func (OffsetofData) exprData() {}

// ModifyData holds data for ExprModify.
type ModifyData struct {
	Op   Op // OpInc or OpDec
	Post bool
	Expr *Expr
}

func (ModifyData) exprData() {}

// NewData holds data for ExprNew.
type NewData struct {
	Alloc *Expr // explicit allocator, may be nil
	Len   *Expr // element count, may be nil
	Arg   *Expr // copy-initialization value, may be nil
}

func (NewData) exprData() {}
